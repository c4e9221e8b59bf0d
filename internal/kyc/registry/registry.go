// Package registry holds the durable PAN-to-account index. It is the sole
// mechanism for global uniqueness: at most one entry exists per normalized
// PAN, and Claim's conditional create-if-absent write is what enforces it.
package registry

import (
	"context"
	"errors"
	"fmt"
	"time"

	id "vaultly/pkg/domain"
	"vaultly/pkg/platform/sentinel"
)

// Entry maps one claimed PAN to its owning account.
type Entry struct {
	PAN            id.PAN
	OwnerAccountID id.AccountID
	CreatedAt      time.Time
}

// Store persists registry entries.
//
// Claim is the uniqueness enforcement point: it atomically creates the entry
// if absent, succeeds as a no-op when the same account already owns the PAN,
// and returns sentinel.ErrConflict when a different account does. Two
// concurrent claims for the same unclaimed PAN resolve to exactly one winner
// because the write is keyed by the PAN itself.
type Store interface {
	Find(ctx context.Context, pan id.PAN) (*Entry, error)
	Claim(ctx context.Context, pan id.PAN, accountID id.AccountID, now time.Time) error
	// Release removes the mapping entirely. Reset/testing path only.
	Release(ctx context.Context, pan id.PAN) error
}

// UniquenessResult reports whether a PAN is available to the requesting
// account, naming the current owner when it is not.
type UniquenessResult struct {
	IsUnique       bool
	OwnerAccountID id.AccountID
}

// CheckUniqueness is the optimistic pre-check run before the remote
// validation call. It is a UX hint only: the race between check and claim is
// closed by Claim's conditional write, not by this lookup.
func CheckUniqueness(ctx context.Context, store Store, pan id.PAN, requester id.AccountID) (UniquenessResult, error) {
	entry, err := store.Find(ctx, pan)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return UniquenessResult{IsUnique: true}, nil
		}
		return UniquenessResult{}, fmt.Errorf("check uniqueness: %w", err)
	}
	if entry.OwnerAccountID == requester {
		return UniquenessResult{IsUnique: true, OwnerAccountID: entry.OwnerAccountID}, nil
	}
	return UniquenessResult{IsUnique: false, OwnerAccountID: entry.OwnerAccountID}, nil
}
