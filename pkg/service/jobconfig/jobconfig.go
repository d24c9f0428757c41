package jobconfig

import (
	"context"

	"github.com/LambdaTest/jira-reporter/pkg/core"
	"github.com/LambdaTest/jira-reporter/pkg/lumber"
)

type service struct {
	configStore core.JobConfigStore
	issueStore  core.TestIssueStore
	cache       core.MetadataCache
	logger      lumber.Logger
}

// New returns a new JobConfigService.
func New(configStore core.JobConfigStore,
	issueStore core.TestIssueStore,
	cache core.MetadataCache,
	logger lumber.Logger) core.JobConfigService {
	return &service{configStore: configStore, issueStore: issueStore, cache: cache, logger: logger}
}

func (s *service) Save(ctx context.Context, job string, input *core.JobConfigInput) (*core.JobConfig, error) {
	if err := s.issueStore.Register(ctx, job); err != nil {
		s.logger.Errorf("failed to register job %s, error: %v", job, err)
		return nil, err
	}
	previous, err := s.configStore.GetConfig(ctx, job)
	if err != nil {
		s.logger.Errorf("failed to read configuration of job %s, error: %v", job, err)
		return nil, err
	}
	cfg, err := s.configStore.SaveConfig(ctx, job, input)
	if err != nil {
		s.logger.Errorf("failed to save configuration of job %s, error: %v", job, err)
		return nil, err
	}

	if err := s.cache.RemoveCacheEntry(ctx, cfg.ProjectKey, cfg.IssueType); err != nil {
		s.logger.Errorf("failed to invalidate metadata of %s/%d, error: %v", cfg.ProjectKey, cfg.IssueType, err)
		return nil, err
	}
	if previous != nil && (previous.ProjectKey != cfg.ProjectKey || previous.IssueType != cfg.IssueType) {
		if err := s.cache.RemoveCacheEntry(ctx, previous.ProjectKey, previous.IssueType); err != nil {
			s.logger.Warnf("failed to invalidate metadata of %s/%d, error: %v", previous.ProjectKey, previous.IssueType, err)
		}
	}
	s.logger.Debugf("saved configuration of job %s for project %s", job, cfg.ProjectKey)
	return cfg, nil
}
