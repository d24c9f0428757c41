package testissue

import (
	"context"
	"sync"

	"github.com/LambdaTest/jira-reporter/pkg/core"
	errs "github.com/LambdaTest/jira-reporter/pkg/errors"
)

type memoryStore struct {
	mu   sync.RWMutex
	jobs map[string]map[core.TestIdentity]string
}

// NewMemory returns a TestIssueStore kept in process memory.
func NewMemory() core.TestIssueStore {
	return &memoryStore{jobs: make(map[string]map[core.TestIdentity]string)}
}

func (s *memoryStore) Register(ctx context.Context, job string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.jobs[job]; !ok {
		s.jobs[job] = make(map[core.TestIdentity]string)
	}
	return nil
}

func (s *memoryStore) GetTestIssueKey(ctx context.Context, job string, testID core.TestIdentity) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.jobs[job][testID], nil
}

func (s *memoryStore) AddTestToIssueMapping(ctx context.Context, job string, testID core.TestIdentity, issueKey string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	mappings, ok := s.jobs[job]
	if !ok {
		return errs.ErrJobNotRegistered
	}
	mappings[testID] = issueKey
	return nil
}

func (s *memoryStore) FindIssueKeys(ctx context.Context, job string, testIDs []core.TestIdentity) (map[core.TestIdentity]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make(map[core.TestIdentity]string)
	mappings := s.jobs[job]
	for _, id := range testIDs {
		if key, ok := mappings[id]; ok {
			keys[id] = key
		}
	}
	return keys, nil
}
