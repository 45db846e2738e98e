package lookup

import (
	"context"
	"strings"
	"sync"
)

// Memory is an in-process Services implementation backed by case-insensitive
// sets. It exists for tests, examples, and the CLI walkthrough.
type Memory struct {
	mu       sync.RWMutex
	names    map[string]struct{}
	contacts map[string]struct{}
}

// NewMemory constructs an empty in-memory lookup service.
func NewMemory() *Memory {
	return &Memory{
		names:    make(map[string]struct{}),
		contacts: make(map[string]struct{}),
	}
}

// AddWorkspace records an existing workspace name.
func (m *Memory) AddWorkspace(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.names[fold(name)] = struct{}{}
}

// AddContact records an existing contact email.
func (m *Memory) AddContact(email string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.contacts[fold(email)] = struct{}{}
}

// IsWorkspaceNameTaken reports whether name matches a recorded workspace,
// ignoring case and surrounding whitespace.
func (m *Memory) IsWorkspaceNameTaken(_ context.Context, name string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, taken := m.names[fold(name)]
	return taken, nil
}

// IsContactEmailTaken reports whether email matches a recorded contact.
func (m *Memory) IsContactEmailTaken(_ context.Context, email string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, taken := m.contacts[fold(email)]
	return taken, nil
}

func fold(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}
