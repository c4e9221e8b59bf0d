//go:build integration

package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"vaultly/internal/kyc/models"
	id "vaultly/pkg/domain"
	"vaultly/pkg/testutil/containers"
)

func TestPostgresStore_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	pc := containers.NewPostgresContainer(t, Schema)
	store := NewPostgresStore(pc.Pool)
	ctx := context.Background()

	acct, err := id.ParseAccountID("acct-1")
	require.NoError(t, err)
	pan, err := id.ParsePAN("ABCDE1234F")
	require.NoError(t, err)
	verifiedAt := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	verified, err := models.NewVerified(pan, "Asha Rao", verifiedAt)
	require.NoError(t, err)

	t.Run("get without record is unverified", func(t *testing.T) {
		require.NoError(t, pc.TruncateTables(ctx, "kyc_status"))

		status, err := store.Get(ctx, acct)
		require.NoError(t, err)
		require.False(t, status.IsVerified())
	})

	t.Run("save verified then get round trips", func(t *testing.T) {
		require.NoError(t, pc.TruncateTables(ctx, "kyc_status"))

		require.NoError(t, store.Save(ctx, acct, verified))

		got, err := store.Get(ctx, acct)
		require.NoError(t, err)
		require.True(t, got.IsVerified())

		gotPAN, ok := got.PAN()
		require.True(t, ok)
		require.Equal(t, pan, gotPAN)

		gotName, ok := got.VerifiedName()
		require.True(t, ok)
		require.Equal(t, "Asha Rao", gotName)

		gotAt, ok := got.VerifiedAt()
		require.True(t, ok)
		require.WithinDuration(t, verifiedAt, gotAt, time.Millisecond)
	})

	t.Run("save is an upsert", func(t *testing.T) {
		require.NoError(t, pc.TruncateTables(ctx, "kyc_status"))

		require.NoError(t, store.Save(ctx, acct, verified))
		require.NoError(t, store.Save(ctx, acct, models.Unverified()))

		got, err := store.Get(ctx, acct)
		require.NoError(t, err)
		require.False(t, got.IsVerified())
	})

	t.Run("reset deletes the record", func(t *testing.T) {
		require.NoError(t, pc.TruncateTables(ctx, "kyc_status"))

		require.NoError(t, store.Save(ctx, acct, verified))
		require.NoError(t, store.Reset(ctx, acct))

		got, err := store.Get(ctx, acct)
		require.NoError(t, err)
		require.False(t, got.IsVerified())
	})
}
