// Package trackertest provides an in-memory core.IssueTracker for tests.
package trackertest

import (
	"context"
	"fmt"
	"sync"

	"github.com/LambdaTest/jira-reporter/pkg/core"
	errs "github.com/LambdaTest/jira-reporter/pkg/errors"
)

// Fake records calls and serves canned responses. The zero value is not usable, use New.
type Fake struct {
	mu sync.Mutex

	issues      map[string]*core.Issue
	transitions map[string][]*core.Transition
	seq         int

	// CreatedToday is the number of tickets created today before the fake was used.
	// CountIssuesCreatedToday adds the tickets created through the fake.
	CreatedToday int
	// SearchResults is returned by SearchIssues.
	SearchResults []*core.Issue
	// Schema is returned by GetCreateMetadata when set.
	Schema *core.CacheEntry
	// Project is returned by GetProjectMetadata when set.
	Project *core.ProjectMetadata
	// Statuses is returned by GetStatuses.
	Statuses []*core.Status
	// Info is returned by GetServerInfo.
	Info *core.ServerInfo

	// Err<Op> fail the matching call when set.
	ErrCreate      error
	ErrSearch      error
	ErrGet         error
	ErrTransitions error
	ErrTransition  error
	ErrCount       error
	ErrMetadata    error

	// OnCreate runs inside CreateIssue before the issue is stored.
	OnCreate func(ctx context.Context, req *core.IssueRequest)
	// OnMetadata runs inside GetCreateMetadata.
	OnMetadata func(ctx context.Context)

	Created           []*core.IssueRequest
	Searches          []string
	Executed          map[string][]string
	Deleted           []string
	CountCalls        int
	MetadataCalls     int
	GetIssueCalls     int
	TransitionsCalls  int
	ProjectCalls      int
	ServerInfoCalls   int
	UsernameForReport string
}

// New returns an empty fake tracker.
func New() *Fake {
	return &Fake{
		issues:            make(map[string]*core.Issue),
		transitions:       make(map[string][]*core.Transition),
		Executed:          make(map[string][]string),
		UsernameForReport: "jira-bot",
	}
}

// AddIssue registers an existing ticket and the transitions it offers.
func (f *Fake) AddIssue(issue *core.Issue, transitions ...string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.issues[issue.Key] = issue
	for i, name := range transitions {
		f.transitions[issue.Key] = append(f.transitions[issue.Key], &core.Transition{ID: fmt.Sprint(i + 11), Name: name})
	}
}

// CreateCount returns the number of successful CreateIssue calls.
func (f *Fake) CreateCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.Created)
}

// ExecutedOn returns the transition ids executed on a ticket.
func (f *Fake) ExecutedOn(key string) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.Executed[key]...)
}

func (f *Fake) CreateIssue(ctx context.Context, req *core.IssueRequest) (*core.Issue, error) {
	if f.OnCreate != nil {
		f.OnCreate(ctx, req)
	}
	if err := ctx.Err(); err != nil {
		return nil, &errs.RemoteError{Err: err}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.ErrCreate != nil {
		return nil, f.ErrCreate
	}
	f.seq++
	issue := &core.Issue{ID: fmt.Sprint(10000 + f.seq), Key: fmt.Sprintf("%s-%d", req.ProjectKey, f.seq), Summary: req.Summary}
	f.issues[issue.Key] = issue
	f.Created = append(f.Created, req)
	return issue, nil
}

func (f *Fake) SearchIssues(ctx context.Context, jql string, max int) ([]*core.Issue, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Searches = append(f.Searches, jql)
	if f.ErrSearch != nil {
		return nil, f.ErrSearch
	}
	return f.SearchResults, nil
}

func (f *Fake) GetIssue(ctx context.Context, key string) (*core.Issue, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.GetIssueCalls++
	if f.ErrGet != nil {
		return nil, f.ErrGet
	}
	issue, ok := f.issues[key]
	if !ok {
		return nil, &errs.RemoteError{StatusCode: 404, Messages: []string{"Issue Does Not Exist"}}
	}
	return issue, nil
}

func (f *Fake) GetTransitions(ctx context.Context, key string) ([]*core.Transition, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.TransitionsCalls++
	if f.ErrTransitions != nil {
		return nil, f.ErrTransitions
	}
	return f.transitions[key], nil
}

func (f *Fake) ExecuteTransition(ctx context.Context, key, transitionID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.ErrTransition != nil {
		return f.ErrTransition
	}
	f.Executed[key] = append(f.Executed[key], transitionID)
	if issue, ok := f.issues[key]; ok {
		issue.StatusCategory = "done"
	}
	return nil
}

func (f *Fake) DeleteIssue(ctx context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.issues, key)
	f.Deleted = append(f.Deleted, key)
	return nil
}

func (f *Fake) GetProjectMetadata(ctx context.Context, projectKey string) (*core.ProjectMetadata, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ProjectCalls++
	if f.Project == nil || f.Project.Key != projectKey {
		return nil, &errs.RemoteError{StatusCode: 404, Messages: []string{"No project could be found with key '" + projectKey + "'."}}
	}
	return f.Project, nil
}

func (f *Fake) GetCreateMetadata(ctx context.Context, projectKey string, issueType int64) (*core.CacheEntry, error) {
	if f.OnMetadata != nil {
		f.OnMetadata(ctx)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.MetadataCalls++
	if f.ErrMetadata != nil {
		return nil, f.ErrMetadata
	}
	if f.Schema == nil {
		return &core.CacheEntry{ProjectKey: projectKey, IssueType: issueType}, nil
	}
	entry := *f.Schema
	entry.ProjectKey = projectKey
	entry.IssueType = issueType
	return &entry, nil
}

func (f *Fake) GetServerInfo(ctx context.Context) (*core.ServerInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ServerInfoCalls++
	if f.Info == nil {
		return nil, &errs.RemoteError{StatusCode: 401, Messages: []string{"Unauthorized"}}
	}
	return f.Info, nil
}

func (f *Fake) GetStatuses(ctx context.Context) ([]*core.Status, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Statuses, nil
}

func (f *Fake) CountIssuesCreatedToday(ctx context.Context, reporter, projectKey string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.CountCalls++
	if f.ErrCount != nil {
		return 0, f.ErrCount
	}
	return f.CreatedToday + len(f.Created), nil
}

func (f *Fake) Username() string {
	return f.UsernameForReport
}
