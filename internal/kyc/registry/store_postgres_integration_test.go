//go:build integration

package registry

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	id "vaultly/pkg/domain"
	"vaultly/pkg/platform/sentinel"
	"vaultly/pkg/testutil/containers"
)

func TestPostgresStore_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	pc := containers.NewPostgresContainer(t, Schema)
	store := NewPostgresStore(pc.Pool)
	ctx := context.Background()

	pan, err := id.ParsePAN("ABCDE1234F")
	require.NoError(t, err)
	owner, err := id.ParseAccountID("acct-owner")
	require.NoError(t, err)
	other, err := id.ParseAccountID("acct-other")
	require.NoError(t, err)
	now := time.Now().UTC().Truncate(time.Microsecond)

	t.Run("find unknown pan", func(t *testing.T) {
		require.NoError(t, pc.TruncateTables(ctx, "pan_registry"))

		_, err := store.Find(ctx, pan)
		require.ErrorIs(t, err, sentinel.ErrNotFound)
	})

	t.Run("claim then find", func(t *testing.T) {
		require.NoError(t, pc.TruncateTables(ctx, "pan_registry"))

		require.NoError(t, store.Claim(ctx, pan, owner, now))

		entry, err := store.Find(ctx, pan)
		require.NoError(t, err)
		require.Equal(t, pan, entry.PAN)
		require.Equal(t, owner, entry.OwnerAccountID)
		require.WithinDuration(t, now, entry.CreatedAt, time.Millisecond)
	})

	t.Run("claim is idempotent for same owner", func(t *testing.T) {
		require.NoError(t, pc.TruncateTables(ctx, "pan_registry"))

		require.NoError(t, store.Claim(ctx, pan, owner, now))
		require.NoError(t, store.Claim(ctx, pan, owner, now.Add(time.Hour)))

		entry, err := store.Find(ctx, pan)
		require.NoError(t, err)
		require.WithinDuration(t, now, entry.CreatedAt, time.Millisecond)
	})

	t.Run("claim by different owner conflicts", func(t *testing.T) {
		require.NoError(t, pc.TruncateTables(ctx, "pan_registry"))

		require.NoError(t, store.Claim(ctx, pan, owner, now))
		require.ErrorIs(t, store.Claim(ctx, pan, other, now), sentinel.ErrConflict)

		entry, err := store.Find(ctx, pan)
		require.NoError(t, err)
		require.Equal(t, owner, entry.OwnerAccountID)
	})

	t.Run("release makes pan claimable again", func(t *testing.T) {
		require.NoError(t, pc.TruncateTables(ctx, "pan_registry"))

		require.NoError(t, store.Claim(ctx, pan, owner, now))
		require.NoError(t, store.Release(ctx, pan))
		require.NoError(t, store.Claim(ctx, pan, other, now))
	})

	t.Run("concurrent claims produce a single winner", func(t *testing.T) {
		require.NoError(t, pc.TruncateTables(ctx, "pan_registry"))

		const claimers = 10
		var (
			wg   sync.WaitGroup
			mu   sync.Mutex
			wins []id.AccountID
		)
		for i := 0; i < claimers; i++ {
			acct, err := id.ParseAccountID(fmt.Sprintf("acct-%d", i))
			require.NoError(t, err)

			wg.Add(1)
			go func(acct id.AccountID) {
				defer wg.Done()
				if err := store.Claim(ctx, pan, acct, now); err == nil {
					mu.Lock()
					wins = append(wins, acct)
					mu.Unlock()
				}
			}(acct)
		}
		wg.Wait()

		require.Len(t, wins, 1, "exactly one claimer must win")

		entry, err := store.Find(ctx, pan)
		require.NoError(t, err)
		require.Equal(t, wins[0], entry.OwnerAccountID)
	})
}
