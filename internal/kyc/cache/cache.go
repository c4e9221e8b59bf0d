// Package cache puts a short-TTL read cache in front of the status store.
// Reads within the TTL window may serve a stale value after a write performed
// elsewhere; callers that just wrote status must Invalidate to restore
// read-your-writes on this node.
package cache

import (
	"context"

	"vaultly/internal/kyc/models"
	id "vaultly/pkg/domain"
)

// FetchFunc loads the authoritative status when the cache cannot serve it.
type FetchFunc func(ctx context.Context) (models.KYCStatus, error)

// Cache serves verification status with bounded staleness.
//
// GetOrFetch returns a cached value when fresh, otherwise invokes fetch and
// caches the result. When fetch fails and an expired value is still held, the
// expired value is served instead of the error.
type Cache interface {
	GetOrFetch(ctx context.Context, accountID id.AccountID, fetch FetchFunc) (models.KYCStatus, error)
	Invalidate(ctx context.Context, accountID id.AccountID) error
	ClearAll(ctx context.Context) error
}
