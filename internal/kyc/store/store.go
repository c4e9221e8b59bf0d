// Package store persists per-account verification status. It is the system
// of record for KYC state; the cache layer in internal/kyc/cache sits in
// front of it for reads.
package store

import (
	"context"

	"vaultly/internal/kyc/models"
	id "vaultly/pkg/domain"
)

// Store reads and writes verification status keyed by account.
//
// Accounts with no stored record are unverified, so Get returns
// models.Unverified() rather than a not-found error when nothing is stored.
type Store interface {
	Get(ctx context.Context, accountID id.AccountID) (models.KYCStatus, error)
	Save(ctx context.Context, accountID id.AccountID, status models.KYCStatus) error
	// Reset removes the stored record, returning the account to unverified.
	Reset(ctx context.Context, accountID id.AccountID) error
}
