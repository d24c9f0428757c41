package core

import (
	"context"
	"time"
)

// NoIssue is returned when a test has no mapped ticket.
const NoIssue = ""

// MappingEntry links a test of a job to the ticket raised for it.
type MappingEntry struct {
	Job       string       `db:"job_id" json:"job"`
	TestID    TestIdentity `db:"test_id" json:"test_id"`
	IssueKey  string       `db:"issue_key" json:"issue_key"`
	CreatedAt time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt time.Time    `db:"updated_at" json:"updated_at"`
}

// TestIssueStore defines datastore operation for working with test_issue_mapping.
type TestIssueStore interface {
	// Register makes the job able to hold mappings. It is idempotent.
	Register(ctx context.Context, job string) error
	// GetTestIssueKey returns the mapped ticket key or NoIssue.
	GetTestIssueKey(ctx context.Context, job string, testID TestIdentity) (string, error)
	// AddTestToIssueMapping inserts or overwrites the mapping.
	AddTestToIssueMapping(ctx context.Context, job string, testID TestIdentity, issueKey string) error
	// FindIssueKeys returns the mapped ticket keys of the given tests, unmapped tests are absent.
	FindIssueKeys(ctx context.Context, job string, testIDs []TestIdentity) (map[TestIdentity]string, error)
}
