package store

import (
	"context"
	"sync"

	"vaultly/internal/kyc/models"
	id "vaultly/pkg/domain"
)

// MemoryStore is an in-memory Store for tests and single-node development.
type MemoryStore struct {
	mu       sync.RWMutex
	statuses map[id.AccountID]models.KYCStatus
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{statuses: make(map[id.AccountID]models.KYCStatus)}
}

func (s *MemoryStore) Get(_ context.Context, accountID id.AccountID) (models.KYCStatus, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	status, ok := s.statuses[accountID]
	if !ok {
		return models.Unverified(), nil
	}
	return status, nil
}

func (s *MemoryStore) Save(_ context.Context, accountID id.AccountID, status models.KYCStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.statuses[accountID] = status
	return nil
}

func (s *MemoryStore) Reset(_ context.Context, accountID id.AccountID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.statuses, accountID)
	return nil
}
