// Package task provides run exclusivity for long-running tasks.
package task

import (
	"context"
	"errors"
	"sync"
)

// ErrAlreadyRunning is returned when a task with the same id is active.
var ErrAlreadyRunning = errors.New("task already running")

// Manager runs named tasks, at most one per id at a time.
type Manager struct {
	ctx     context.Context
	mu      sync.Mutex
	running map[string]struct{}
}

// NewManager returns a new task manager.
func NewManager(ctx context.Context) *Manager {
	return &Manager{
		ctx:     ctx,
		running: make(map[string]struct{}),
	}
}

// Exists reports whether a task with the given id is running.
func (m *Manager) Exists(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.running[id]
	return ok
}

// Run executes fn under the given id and blocks until it returns.
// If a task with the same id is already running, it returns
// ErrAlreadyRunning without invoking fn.
func (m *Manager) Run(id string, fn func(context.Context) error) error {
	m.mu.Lock()
	if _, ok := m.running[id]; ok {
		m.mu.Unlock()
		return ErrAlreadyRunning
	}
	m.running[id] = struct{}{}
	m.mu.Unlock()

	defer func() {
		m.mu.Lock()
		delete(m.running, id)
		m.mu.Unlock()
	}()

	return fn(m.ctx)
}
