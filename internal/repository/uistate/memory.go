package uistate

import (
	"context"
	"sync"

	"github.com/glp-archive/scribe/internal/domain"
)

// Compile-time check: Memory implements Store.
var _ Store = (*Memory)(nil)

// Memory is a process-local Store for local runs and tests.
type Memory struct {
	mu     sync.RWMutex
	states map[string][]string
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{states: make(map[string][]string)}
}

// Get returns the values stored under key.
func (m *Memory) Get(_ context.Context, key string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	values, ok := m.states[key]
	if !ok {
		return nil, domain.ErrStateNotFound
	}
	out := make([]string, len(values))
	copy(out, values)
	return out, nil
}

// Put replaces the values stored under key.
func (m *Memory) Put(_ context.Context, key string, values []string) error {
	c := make([]string, len(values))
	copy(c, values)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.states[key] = c
	return nil
}
