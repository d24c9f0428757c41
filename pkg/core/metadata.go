package core

import (
	"context"
	"time"
)

// FieldSpec describes one field of the create screen of an issue type.
type FieldSpec struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Required      bool     `json:"required"`
	SchemaType    string   `json:"schema_type"`
	Items         string   `json:"items,omitempty"`
	Custom        string   `json:"custom,omitempty"`
	AllowedValues []string `json:"allowed_values,omitempty"`
}

// CacheEntry is the tracker schema of a (project, issue type) pair.
type CacheEntry struct {
	ProjectKey    string       `json:"project_key"`
	IssueType     int64        `json:"issue_type"`
	IssueTypeName string       `json:"issue_type_name"`
	Fields        []*FieldSpec `json:"fields"`
	FetchedAt     time.Time    `json:"fetched_at"`
}

// Field returns the spec of the field with the given id or name.
func (c *CacheEntry) Field(idOrName string) (*FieldSpec, bool) {
	for _, f := range c.Fields {
		if f.ID == idOrName || f.Name == idOrName {
			return f, true
		}
	}
	return nil, false
}

// MetadataCache caches tracker schema per (project key, issue type).
type MetadataCache interface {
	// GetCacheEntry returns the entry or errs.ErrCacheMiss.
	GetCacheEntry(ctx context.Context, projectKey string, issueType int64) (*CacheEntry, error)
	// PutCacheEntry stores the entry unless its key was invalidated after entry.FetchedAt.
	PutCacheEntry(ctx context.Context, entry *CacheEntry) error
	// RemoveCacheEntry invalidates the key.
	RemoveCacheEntry(ctx context.Context, projectKey string, issueType int64) error
}

// MetadataLoader returns cached schema, populating the cache from the tracker on a miss.
type MetadataLoader interface {
	Load(ctx context.Context, projectKey string, issueType int64) (*CacheEntry, error)
}
