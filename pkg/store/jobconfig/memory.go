package jobconfig

import (
	"context"
	"sync"

	"github.com/LambdaTest/jira-reporter/pkg/core"
	"github.com/LambdaTest/jira-reporter/pkg/lumber"
	"gopkg.in/guregu/null.v4"
)

type memoryStore struct {
	mu      sync.RWMutex
	configs map[string]*core.JobConfig
	logger  lumber.Logger
}

// NewMemory returns a JobConfigStore kept in process memory.
func NewMemory(logger lumber.Logger) core.JobConfigStore {
	return &memoryStore{configs: make(map[string]*core.JobConfig), logger: logger}
}

func (s *memoryStore) SaveConfig(ctx context.Context, job string, input *core.JobConfigInput) (*core.JobConfig, error) {
	cfg := Parse(job, input, s.logger)
	s.mu.Lock()
	s.configs[job] = cfg
	s.mu.Unlock()
	return clone(cfg), nil
}

func (s *memoryStore) GetConfig(ctx context.Context, job string) (*core.JobConfig, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cfg, ok := s.configs[job]
	if !ok {
		return nil, nil
	}
	return clone(cfg), nil
}

func (s *memoryStore) get(job string) *core.JobConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if cfg, ok := s.configs[job]; ok {
		return cfg
	}
	return &core.JobConfig{}
}

func (s *memoryStore) GetProjectKey(ctx context.Context, job string) (string, error) {
	return s.get(job).ProjectKey, nil
}

func (s *memoryStore) GetIssueType(ctx context.Context, job string) (int64, error) {
	return s.get(job).IssueType, nil
}

func (s *memoryStore) GetAutoRaiseIssue(ctx context.Context, job string) (bool, error) {
	return s.get(job).AutoRaiseIssue, nil
}

func (s *memoryStore) GetAutoResolveIssue(ctx context.Context, job string) (bool, error) {
	return s.get(job).AutoResolveIssue, nil
}

func (s *memoryStore) GetPreventDuplicateIssue(ctx context.Context, job string) (bool, error) {
	return s.get(job).PreventDuplicateIssue, nil
}

func (s *memoryStore) GetMaxNoOfBugs(ctx context.Context, job string) (null.Int, error) {
	return s.get(job).MaxBugsPerDay, nil
}
