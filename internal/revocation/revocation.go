// Package revocation remembers logged-out session tokens until they expire.
package revocation

import (
	"context"
	"sync"
	"time"
)

// Store records revoked token IDs.
type Store interface {
	// Revoke marks id as revoked until expiresAt. Expired entries may be
	// forgotten.
	Revoke(ctx context.Context, id string, expiresAt time.Time) error
	// IsRevoked reports whether id has been revoked.
	IsRevoked(ctx context.Context, id string) (bool, error)
}

// Memory is an in-process Store. It is safe for concurrent use.
type Memory struct {
	mu      sync.Mutex
	revoked map[string]time.Time
	now     func() time.Time
}

var _ Store = (*Memory)(nil)

// NewMemory returns an empty in-memory Store.
func NewMemory() *Memory {
	return &Memory{revoked: map[string]time.Time{}, now: time.Now}
}

func (m *Memory) Revoke(_ context.Context, id string, expiresAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.revoked[id] = expiresAt
	m.sweepLocked()
	return nil
}

func (m *Memory) IsRevoked(_ context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	exp, ok := m.revoked[id]
	if !ok {
		return false, nil
	}
	if !exp.After(m.now()) {
		delete(m.revoked, id)
		return false, nil
	}
	return true, nil
}

// Len returns the number of remembered ids.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.revoked)
}

func (m *Memory) sweepLocked() {
	now := m.now()
	for id, exp := range m.revoked {
		if !exp.After(now) {
			delete(m.revoked, id)
		}
	}
}
