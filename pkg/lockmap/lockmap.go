package lockmap

import (
	"context"
	"sync"

	"github.com/LambdaTest/jira-reporter/pkg/core"
	"github.com/LambdaTest/jira-reporter/pkg/lumber"
)

// entry is held by whoever owns the one token in ch. refs counts the owner and the waiters
// so the entry outlives every goroutine that looked it up.
type entry struct {
	ch   chan struct{}
	refs int
}

type lockMap struct {
	mu      sync.Mutex
	entries map[core.LockKey]*entry
	logger  lumber.Logger
}

// New returns a keyed lock registry.
func New(logger lumber.Logger) core.KeyedLocker {
	return &lockMap{
		entries: make(map[core.LockKey]*entry),
		logger:  logger,
	}
}

func (m *lockMap) Lock(ctx context.Context, key core.LockKey) (func(), error) {
	e := m.acquire(key)
	select {
	case e.ch <- struct{}{}:
	case <-ctx.Done():
		m.release(key, e)
		return nil, ctx.Err()
	}
	var once sync.Once
	return func() {
		once.Do(func() {
			<-e.ch
			m.release(key, e)
		})
	}, nil
}

func (m *lockMap) acquire(key core.LockKey) *entry {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[key]
	if !ok {
		e = &entry{ch: make(chan struct{}, 1)}
		m.entries[key] = e
	}
	e.refs++
	return e
}

func (m *lockMap) release(key core.LockKey, e *entry) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e.refs--
	if e.refs == 0 {
		delete(m.entries, key)
		m.logger.Debugf("released lock entry for job %s, test %s", key.Job, key.Test)
	}
}

// Len returns the number of live entries.
func (m *lockMap) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}
