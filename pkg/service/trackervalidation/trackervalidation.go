package trackervalidation

import (
	"context"
	"errors"
	"strings"

	"github.com/LambdaTest/jira-reporter/pkg/constants"
	"github.com/LambdaTest/jira-reporter/pkg/core"
	errs "github.com/LambdaTest/jira-reporter/pkg/errors"
	"github.com/LambdaTest/jira-reporter/pkg/issuebuilder"
	"github.com/LambdaTest/jira-reporter/pkg/lumber"
	"github.com/LambdaTest/jira-reporter/pkg/store/jobconfig"
	"github.com/LambdaTest/jira-reporter/pkg/utils"
)

type service struct {
	tracker core.IssueTracker
	builder *issuebuilder.Builder
	logger  lumber.Logger
}

// New returns a new TrackerValidationService.
func New(tracker core.IssueTracker, builder *issuebuilder.Builder, logger lumber.Logger) core.TrackerValidationService {
	return &service{tracker: tracker, builder: builder, logger: logger}
}

func (s *service) ValidateConnection(ctx context.Context) (*core.ServerInfo, error) {
	info, err := s.tracker.GetServerInfo(ctx)
	if err != nil {
		s.logger.Errorf("failed to connect to tracker, error: %v", err)
		return nil, err
	}
	return info, nil
}

func (s *service) ValidateProject(ctx context.Context, projectKey string) (*core.ProjectMetadata, error) {
	projectKey = strings.TrimSpace(projectKey)
	if projectKey == "" {
		return nil, errs.ErrMissingProjectKey
	}
	return s.tracker.GetProjectMetadata(ctx, projectKey)
}

func (s *service) ListIssueTypes(ctx context.Context, projectKey string) (*core.IssueTypeChoices, error) {
	project, err := s.ValidateProject(ctx, projectKey)
	if err != nil {
		return nil, err
	}
	choices := &core.IssueTypeChoices{IssueTypes: make([]core.IssueType, 0, len(project.IssueTypes))}
	for _, t := range project.IssueTypes {
		if t.Subtask {
			continue
		}
		choices.IssueTypes = append(choices.IssueTypes, t)
		if strings.EqualFold(t.Name, constants.DefaultIssueTypeName) && choices.Default == "" {
			choices.Default = t.ID
		}
	}
	if choices.Default == "" && len(choices.IssueTypes) > 0 {
		choices.Default = choices.IssueTypes[0].ID
	}
	return choices, nil
}

// ValidateFields builds a ticket from the templates using a sample failing test, creates
// it and deletes it right away. A rejection by the tracker is reported as an invalid result.
func (s *service) ValidateFields(ctx context.Context, job string, input *core.JobConfigInput) (*core.FieldValidation, error) {
	if strings.TrimSpace(input.ProjectKey) == "" {
		return nil, errs.ErrMissingProjectKey
	}
	cfg := jobconfig.Parse(job, input, s.logger)

	schema, err := s.tracker.GetCreateMetadata(ctx, cfg.ProjectKey, cfg.IssueType)
	if err != nil {
		s.logger.Warnf("could not load create metadata of %s/%d, probing fields as configured: %v",
			cfg.ProjectKey, cfg.IssueType, err)
		schema = nil
	}
	req := s.builder.Build(cfg, schema, issuebuilder.NewVars(probeBuild(job), probeTest()))

	issue, err := s.tracker.CreateIssue(ctx, req)
	if err != nil {
		var remote *errs.RemoteError
		if errors.As(err, &remote) && !remote.Unavailable() {
			result := &core.FieldValidation{Messages: remote.Messages}
			if len(result.Messages) == 0 {
				result.Messages = []string{err.Error()}
			}
			return result, nil
		}
		s.logger.Errorf("failed to create probe issue in %s, error: %v", cfg.ProjectKey, err)
		return nil, err
	}

	result := &core.FieldValidation{Valid: true, IssueKey: issue.Key}
	if err := s.tracker.DeleteIssue(ctx, issue.Key); err != nil {
		s.logger.Warnf("failed to delete probe issue %s, error: %v", issue.Key, err)
		result.Messages = append(result.Messages, "probe issue "+issue.Key+" could not be deleted")
	}
	return result, nil
}

func probeBuild(job string) *core.BuildResults {
	return &core.BuildResults{Job: job, BuildURL: "https://ci.example.com/job/" + job + "/0/"}
}

func probeTest() *core.TestCaseResult {
	return &core.TestCaseResult{
		PackageName:  "com.example",
		ClassName:    "FieldValidationTest",
		Name:         "probe" + utils.GenerateUUID()[:8],
		Status:       core.TestFailed,
		ErrorDetails: "field configuration check",
		StackTrace:   "at com.example.FieldValidationTest.probe(FieldValidationTest.java:1)",
	}
}
