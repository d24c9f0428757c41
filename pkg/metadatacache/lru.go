package metadatacache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/LambdaTest/jira-reporter/pkg/core"
	errs "github.com/LambdaTest/jira-reporter/pkg/errors"
	"github.com/LambdaTest/jira-reporter/pkg/lumber"
	lru "github.com/hashicorp/golang-lru"
)

type lruCache struct {
	// mu orders puts against invalidations; the lru itself is thread safe.
	mu          sync.Mutex
	entries *lru.Cache
	// invalidated holds the latest invalidation time per key, bounded like entries.
	invalidated *lru.Cache
	now         func() time.Time
	logger      lumber.Logger
}

// NewLRU returns an in-process metadata cache holding at most size schemas.
func NewLRU(size int, logger lumber.Logger) (core.MetadataCache, error) {
	entries, err := lru.New(size)
	if err != nil {
		return nil, err
	}
	invalidated, err := lru.New(size)
	if err != nil {
		return nil, err
	}
	return &lruCache{
		entries:     entries,
		invalidated: invalidated,
		now:         time.Now,
		logger:      logger,
	}, nil
}

func cacheKey(projectKey string, issueType int64) string {
	return fmt.Sprintf("%s:%d", projectKey, issueType)
}

func (c *lruCache) GetCacheEntry(ctx context.Context, projectKey string, issueType int64) (*core.CacheEntry, error) {
	v, ok := c.entries.Get(cacheKey(projectKey, issueType))
	if !ok {
		return nil, errs.ErrCacheMiss
	}
	return v.(*core.CacheEntry), nil
}

func (c *lruCache) PutCacheEntry(ctx context.Context, entry *core.CacheEntry) error {
	key := cacheKey(entry.ProjectKey, entry.IssueType)
	c.mu.Lock()
	defer c.mu.Unlock()
	if inv, ok := c.invalidated.Peek(key); ok {
		if !entry.FetchedAt.After(inv.(time.Time)) {
			c.logger.Debugf("dropping stale metadata for %s fetched at %s", key, entry.FetchedAt)
			return nil
		}
		// a fetch newer than the invalidation supersedes the marker
		c.invalidated.Remove(key)
	}
	c.entries.Add(key, entry)
	return nil
}

func (c *lruCache) RemoveCacheEntry(ctx context.Context, projectKey string, issueType int64) error {
	key := cacheKey(projectKey, issueType)
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidated.Add(key, c.now())
	c.entries.Remove(key)
	return nil
}
