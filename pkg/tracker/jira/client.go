package jira

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/LambdaTest/jira-reporter/config"
	"github.com/LambdaTest/jira-reporter/pkg/core"
	errs "github.com/LambdaTest/jira-reporter/pkg/errors"
	"github.com/LambdaTest/jira-reporter/pkg/issuebuilder"
	"github.com/LambdaTest/jira-reporter/pkg/lumber"
	jira "github.com/andygrunwald/go-jira"
	"github.com/hashicorp/go-cleanhttp"
	"github.com/pkg/errors"
	"github.com/trivago/tgo/tcontainer"
	"golang.org/x/time/rate"
)

type client struct {
	jira     *jira.Client
	username string
	timeout  time.Duration
	limiter  *rate.Limiter
	logger   lumber.Logger
}

// New returns a Jira backed core.IssueTracker authenticating with basic credentials.
func New(cfg *config.JiraConfig, logger lumber.Logger) (core.IssueTracker, error) {
	if cfg.URL == "" || cfg.Username == "" {
		return nil, errs.ErrMissingTrackerConfig
	}
	transport := jira.BasicAuthTransport{
		Username:  cfg.Username,
		Password:  cfg.Password,
		Transport: cleanhttp.DefaultPooledTransport(),
	}
	jiraClient, err := jira.NewClient(transport.Client(), cfg.URL)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid jira url %s", cfg.URL)
	}
	limit := rate.Inf
	if cfg.RateLimit > 0 {
		limit = rate.Limit(cfg.RateLimit)
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}
	logger.Infof("Jira client created for %s", cfg.URL)
	return &client{
		jira:     jiraClient,
		username: cfg.Username,
		timeout:  cfg.Timeout,
		limiter:  rate.NewLimiter(limit, burst),
		logger:   logger,
	}, nil
}

// call waits for the rate limiter and bounds fn with the configured timeout.
func (c *client) call(ctx context.Context, op string, fn func(ctx context.Context) (*jira.Response, error)) error {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return errors.Wrap(&errs.RemoteError{Err: err}, op)
	}
	resp, err := fn(ctx)
	if err != nil {
		remoteErr := classify(resp, err)
		c.logger.Debugf("jira %s failed: %v", op, remoteErr)
		return errors.Wrap(remoteErr, op)
	}
	return nil
}

func (c *client) Username() string {
	return c.username
}

func (c *client) CreateIssue(ctx context.Context, req *core.IssueRequest) (*core.Issue, error) {
	fields := &jira.IssueFields{
		Project:     jira.Project{Key: req.ProjectKey},
		Type:        jira.IssueType{ID: strconv.FormatInt(req.IssueType, 10)},
		Summary:     req.Summary,
		Description: req.Description,
		Unknowns:    tcontainer.NewMarshalMap(),
	}
	for id, v := range req.Fields {
		fields.Unknowns[id] = v
	}
	var created *jira.Issue
	err := c.call(ctx, "create issue", func(ctx context.Context) (resp *jira.Response, err error) {
		created, resp, err = c.jira.Issue.CreateWithContext(ctx, &jira.Issue{Fields: fields})
		return resp, err
	})
	if err != nil {
		return nil, err
	}
	return &core.Issue{ID: created.ID, Key: created.Key, Summary: req.Summary}, nil
}

func (c *client) SearchIssues(ctx context.Context, jql string, max int) ([]*core.Issue, error) {
	var found []jira.Issue
	err := c.call(ctx, "search issues", func(ctx context.Context) (resp *jira.Response, err error) {
		found, resp, err = c.jira.Issue.SearchWithContext(ctx, jql, &jira.SearchOptions{
			MaxResults: max,
			Fields:     []string{"summary", "status"},
		})
		return resp, err
	})
	if err != nil {
		return nil, err
	}
	issues := make([]*core.Issue, 0, len(found))
	for i := range found {
		issues = append(issues, toIssue(&found[i]))
	}
	return issues, nil
}

func (c *client) GetIssue(ctx context.Context, key string) (*core.Issue, error) {
	var issue *jira.Issue
	err := c.call(ctx, "get issue "+key, func(ctx context.Context) (resp *jira.Response, err error) {
		issue, resp, err = c.jira.Issue.GetWithContext(ctx, key, &jira.GetQueryOptions{Fields: "summary,status"})
		return resp, err
	})
	if err != nil {
		return nil, err
	}
	return toIssue(issue), nil
}

func (c *client) GetTransitions(ctx context.Context, key string) ([]*core.Transition, error) {
	var transitions []jira.Transition
	err := c.call(ctx, "get transitions of "+key, func(ctx context.Context) (resp *jira.Response, err error) {
		transitions, resp, err = c.jira.Issue.GetTransitionsWithContext(ctx, key)
		return resp, err
	})
	if err != nil {
		return nil, err
	}
	out := make([]*core.Transition, 0, len(transitions))
	for _, t := range transitions {
		out = append(out, &core.Transition{ID: t.ID, Name: t.Name})
	}
	return out, nil
}

func (c *client) ExecuteTransition(ctx context.Context, key, transitionID string) error {
	return c.call(ctx, "transition "+key, func(ctx context.Context) (*jira.Response, error) {
		return c.jira.Issue.DoTransitionWithContext(ctx, key, transitionID)
	})
}

func (c *client) DeleteIssue(ctx context.Context, key string) error {
	return c.call(ctx, "delete issue "+key, func(ctx context.Context) (*jira.Response, error) {
		return c.jira.Issue.DeleteWithContext(ctx, key)
	})
}

func (c *client) GetProjectMetadata(ctx context.Context, projectKey string) (*core.ProjectMetadata, error) {
	var project *jira.Project
	err := c.call(ctx, "get project "+projectKey, func(ctx context.Context) (resp *jira.Response, err error) {
		project, resp, err = c.jira.Project.GetWithContext(ctx, projectKey)
		return resp, err
	})
	if err != nil {
		return nil, err
	}
	meta := &core.ProjectMetadata{ID: project.ID, Key: project.Key, Name: project.Name}
	for _, t := range project.IssueTypes {
		meta.IssueTypes = append(meta.IssueTypes, core.IssueType{ID: t.ID, Name: t.Name, Subtask: t.Subtask})
	}
	return meta, nil
}

func (c *client) GetCreateMetadata(ctx context.Context, projectKey string, issueType int64) (*core.CacheEntry, error) {
	var meta *jira.CreateMetaInfo
	err := c.call(ctx, "get create metadata of "+projectKey, func(ctx context.Context) (resp *jira.Response, err error) {
		meta, resp, err = c.jira.Issue.GetCreateMetaWithContext(ctx, projectKey)
		return resp, err
	})
	if err != nil {
		return nil, err
	}
	return toCacheEntry(meta, projectKey, issueType)
}

func (c *client) GetServerInfo(ctx context.Context) (*core.ServerInfo, error) {
	info := new(core.ServerInfo)
	err := c.call(ctx, "get server info", func(ctx context.Context) (*jira.Response, error) {
		req, err := c.jira.NewRequestWithContext(ctx, http.MethodGet, "rest/api/2/serverInfo", nil)
		if err != nil {
			return nil, err
		}
		return c.jira.Do(req, info)
	})
	if err != nil {
		return nil, err
	}
	return info, nil
}

func (c *client) GetStatuses(ctx context.Context) ([]*core.Status, error) {
	var statuses []jira.Status
	err := c.call(ctx, "get statuses", func(ctx context.Context) (resp *jira.Response, err error) {
		statuses, resp, err = c.jira.Status.GetAllStatusesWithContext(ctx)
		return resp, err
	})
	if err != nil {
		return nil, err
	}
	out := make([]*core.Status, 0, len(statuses))
	for _, s := range statuses {
		out = append(out, &core.Status{ID: s.ID, Name: s.Name, CategoryKey: s.StatusCategory.Key})
	}
	return out, nil
}

func (c *client) CountIssuesCreatedToday(ctx context.Context, reporter, projectKey string) (int, error) {
	total := 0
	err := c.call(ctx, "count issues created today", func(ctx context.Context) (*jira.Response, error) {
		_, resp, err := c.jira.Issue.SearchWithContext(ctx, issuebuilder.CreatedTodayJQL(reporter, projectKey), &jira.SearchOptions{
			MaxResults: 1,
			Fields:     []string{"key"},
		})
		if resp != nil {
			total = resp.Total
		}
		return resp, err
	})
	if err != nil {
		return 0, err
	}
	return total, nil
}

func toIssue(issue *jira.Issue) *core.Issue {
	out := &core.Issue{ID: issue.ID, Key: issue.Key}
	if issue.Fields != nil {
		out.Summary = issue.Fields.Summary
		if issue.Fields.Status != nil {
			out.Status = issue.Fields.Status.Name
			out.StatusCategory = issue.Fields.Status.StatusCategory.Key
		}
	}
	return out
}
