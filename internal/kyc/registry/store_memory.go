package registry

import (
	"context"
	"sync"
	"time"

	id "vaultly/pkg/domain"
	"vaultly/pkg/platform/sentinel"
)

// MemoryStore is an in-memory Store for tests and single-node development.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[id.PAN]Entry
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[id.PAN]Entry)}
}

func (s *MemoryStore) Find(_ context.Context, pan id.PAN) (*Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.entries[pan]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	out := entry
	return &out, nil
}

func (s *MemoryStore) Claim(_ context.Context, pan id.PAN, accountID id.AccountID, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.entries[pan]; ok {
		if existing.OwnerAccountID == accountID {
			return nil
		}
		return sentinel.ErrConflict
	}
	s.entries[pan] = Entry{PAN: pan, OwnerAccountID: accountID, CreatedAt: now}
	return nil
}

func (s *MemoryStore) Release(_ context.Context, pan id.PAN) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, pan)
	return nil
}
