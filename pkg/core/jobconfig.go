package core

import (
	"context"
	"time"

	"gopkg.in/guregu/null.v4"
)

// FieldKind tags how a templated value is shaped into a tracker field.
// Unknown kinds are sent as plain strings.
type FieldKind string

// FieldKind values
const (
	FieldKindInfer       FieldKind = ""
	FieldKindString      FieldKind = "string"
	FieldKindText        FieldKind = "text"
	FieldKindSelect      FieldKind = "select"
	FieldKindMultiSelect FieldKind = "multiselect"
	FieldKindUser        FieldKind = "user"
	FieldKindLabels      FieldKind = "labels"
	FieldKindNumber      FieldKind = "number"
)

// Well known field ids.
const (
	FieldSummary     = "summary"
	FieldDescription = "description"
)

// FieldTemplate is a tracker field paired with a value containing ${PLACEHOLDERS}.
type FieldTemplate struct {
	Field string    `json:"field" binding:"required,notblank"`
	Kind  FieldKind `json:"kind,omitempty"`
	Value string    `json:"value"`
}

// JobConfig is the ticket automation configuration of one job.
type JobConfig struct {
	Job                   string          `db:"job_id" json:"job"`
	ProjectKey            string          `db:"project_key" json:"project_key"`
	IssueType             int64           `db:"issue_type" json:"issue_type"`
	FieldTemplates        []FieldTemplate `db:"-" json:"field_templates"`
	AutoRaiseIssue        bool            `db:"auto_raise_issue" json:"auto_raise_issue"`
	AutoResolveIssue      bool            `db:"auto_resolve_issue" json:"auto_resolve_issue"`
	PreventDuplicateIssue bool            `db:"prevent_duplicate_issue" json:"prevent_duplicate_issue"`
	MaxBugsPerDay         null.Int        `db:"max_bugs_per_day" json:"max_bugs_per_day"`
	CreatedAt             time.Time       `db:"created_at" json:"-"`
	UpdatedAt             time.Time       `db:"updated_at" json:"-"`
}

// JobConfigInput is the configuration as submitted by the UI. Numeric fields
// are raw text and degrade to defaults when malformed.
type JobConfigInput struct {
	ProjectKey            string          `json:"project_key" binding:"required,notblank"`
	IssueType             string          `json:"issue_type"`
	FieldTemplates        []FieldTemplate `json:"field_templates" binding:"omitempty,dive"`
	AutoRaiseIssue        bool            `json:"auto_raise_issue"`
	AutoResolveIssue      bool            `json:"auto_resolve_issue"`
	PreventDuplicateIssue bool            `json:"prevent_duplicate_issue"`
	MaxBugsPerDay         string          `json:"max_bugs_per_day"`
}

// JobConfigStore defines datastore operation for working with job_config.
type JobConfigStore interface {
	// SaveConfig replaces the configuration of the job.
	SaveConfig(ctx context.Context, job string, input *JobConfigInput) (*JobConfig, error)
	// GetConfig returns the configuration of the job, nil when unconfigured.
	GetConfig(ctx context.Context, job string) (*JobConfig, error)
	// GetProjectKey returns the project key, empty when unconfigured.
	GetProjectKey(ctx context.Context, job string) (string, error)
	// GetIssueType returns the issue type id, 0 when unconfigured.
	GetIssueType(ctx context.Context, job string) (int64, error)
	// GetAutoRaiseIssue returns the auto raise toggle.
	GetAutoRaiseIssue(ctx context.Context, job string) (bool, error)
	// GetAutoResolveIssue returns the auto resolve toggle.
	GetAutoResolveIssue(ctx context.Context, job string) (bool, error)
	// GetPreventDuplicateIssue returns the duplicate prevention toggle.
	GetPreventDuplicateIssue(ctx context.Context, job string) (bool, error)
	// GetMaxNoOfBugs returns the daily creation cap, invalid when unlimited.
	GetMaxNoOfBugs(ctx context.Context, job string) (null.Int, error)
}

// JobConfigService saves job configuration on behalf of the UI.
type JobConfigService interface {
	// Save registers the job, stores its configuration and invalidates cached metadata.
	Save(ctx context.Context, job string, input *JobConfigInput) (*JobConfig, error)
}
