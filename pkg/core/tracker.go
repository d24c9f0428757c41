package core

import (
	"context"
)

// IssueRequest is a fully resolved ticket creation request.
type IssueRequest struct {
	ProjectKey  string
	IssueType   int64
	Summary     string
	Description string
	// Fields holds every other field keyed by field id, already shaped for the tracker.
	Fields map[string]interface{}
}

// Issue is a ticket as known by the tracker.
type Issue struct {
	ID             string `json:"id"`
	Key            string `json:"key"`
	Summary        string `json:"summary,omitempty"`
	Status         string `json:"status,omitempty"`
	StatusCategory string `json:"status_category,omitempty"`
}

// Transition is a workflow transition available on a ticket.
type Transition struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// IssueType is an issue type offered by a project.
type IssueType struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Subtask bool   `json:"subtask"`
}

// ProjectMetadata is the subset of a tracker project the configuration needs.
type ProjectMetadata struct {
	ID         string      `json:"id"`
	Key        string      `json:"key"`
	Name       string      `json:"name"`
	IssueTypes []IssueType `json:"issue_types"`
}

// Status is a workflow status and the category it belongs to.
type Status struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	CategoryKey string `json:"category_key"`
}

// ServerInfo identifies the tracker instance.
type ServerInfo struct {
	BaseURL        string `json:"baseUrl"`
	Version        string `json:"version"`
	DeploymentType string `json:"deploymentType"`
	ServerTitle    string `json:"serverTitle"`
}

// IssueTracker is the remote tracker client.
type IssueTracker interface {
	// CreateIssue creates a ticket and returns it.
	CreateIssue(ctx context.Context, req *IssueRequest) (*Issue, error)
	// SearchIssues runs a JQL query returning at most max tickets.
	SearchIssues(ctx context.Context, jql string, max int) ([]*Issue, error)
	// GetIssue fetches a ticket by key.
	GetIssue(ctx context.Context, key string) (*Issue, error)
	// GetTransitions lists the transitions available on a ticket.
	GetTransitions(ctx context.Context, key string) ([]*Transition, error)
	// ExecuteTransition applies a transition to a ticket.
	ExecuteTransition(ctx context.Context, key, transitionID string) error
	// DeleteIssue removes a ticket.
	DeleteIssue(ctx context.Context, key string) error
	// GetProjectMetadata fetches a project and its issue types.
	GetProjectMetadata(ctx context.Context, projectKey string) (*ProjectMetadata, error)
	// GetCreateMetadata fetches the create screen schema of an issue type.
	GetCreateMetadata(ctx context.Context, projectKey string, issueType int64) (*CacheEntry, error)
	// GetServerInfo fetches the tracker server info.
	GetServerInfo(ctx context.Context) (*ServerInfo, error)
	// GetStatuses lists every workflow status.
	GetStatuses(ctx context.Context) ([]*Status, error)
	// CountIssuesCreatedToday counts the tickets the reporter created in the project since midnight.
	CountIssuesCreatedToday(ctx context.Context, reporter, projectKey string) (int, error)
	// Username is the identity the tracker client authenticates as.
	Username() string
}

// IssueTypeChoices lists the issue types of a project and the one preselected for new jobs.
type IssueTypeChoices struct {
	Default    string      `json:"default"`
	IssueTypes []IssueType `json:"issue_types"`
}

// FieldValidation is the outcome of probing field templates against the tracker.
type FieldValidation struct {
	Valid    bool     `json:"valid"`
	IssueKey string   `json:"issue_key,omitempty"`
	Messages []string `json:"messages,omitempty"`
}

// TrackerValidationService checks tracker settings on behalf of the configuration UI.
type TrackerValidationService interface {
	// ValidateConnection checks the credentials by reading the server info.
	ValidateConnection(ctx context.Context) (*ServerInfo, error)
	// ValidateProject checks that the project exists.
	ValidateProject(ctx context.Context, projectKey string) (*ProjectMetadata, error)
	// ListIssueTypes returns the issue types of the project.
	ListIssueTypes(ctx context.Context, projectKey string) (*IssueTypeChoices, error)
	// ValidateFields creates a probe ticket from the templates and deletes it again.
	ValidateFields(ctx context.Context, job string, input *JobConfigInput) (*FieldValidation, error)
}
