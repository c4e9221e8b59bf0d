package registry

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	id "vaultly/pkg/domain"
	"vaultly/pkg/platform/sentinel"
)

type RegistryStoreSuite struct {
	suite.Suite
	store *MemoryStore
	ctx   context.Context
	now   time.Time
}

func (s *RegistryStoreSuite) SetupTest() {
	s.store = NewMemoryStore()
	s.ctx = context.Background()
	s.now = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
}

func TestRegistryStoreSuite(t *testing.T) {
	suite.Run(t, new(RegistryStoreSuite))
}

func (s *RegistryStoreSuite) mustPAN(raw string) id.PAN {
	pan, err := id.ParsePAN(raw)
	s.Require().NoError(err)
	return pan
}

func (s *RegistryStoreSuite) mustAccount(raw string) id.AccountID {
	acct, err := id.ParseAccountID(raw)
	s.Require().NoError(err)
	return acct
}

func (s *RegistryStoreSuite) TestFindUnknownPAN() {
	_, err := s.store.Find(s.ctx, s.mustPAN("ABCDE1234F"))
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}

func (s *RegistryStoreSuite) TestClaimThenFind() {
	pan := s.mustPAN("ABCDE1234F")
	owner := s.mustAccount("acct-1")

	s.Require().NoError(s.store.Claim(s.ctx, pan, owner, s.now))

	entry, err := s.store.Find(s.ctx, pan)
	s.Require().NoError(err)
	s.Equal(pan, entry.PAN)
	s.Equal(owner, entry.OwnerAccountID)
	s.Equal(s.now, entry.CreatedAt)
}

func (s *RegistryStoreSuite) TestClaimIsIdempotentForSameOwner() {
	pan := s.mustPAN("ABCDE1234F")
	owner := s.mustAccount("acct-1")

	s.Require().NoError(s.store.Claim(s.ctx, pan, owner, s.now))
	s.Require().NoError(s.store.Claim(s.ctx, pan, owner, s.now.Add(time.Hour)))

	entry, err := s.store.Find(s.ctx, pan)
	s.Require().NoError(err)
	s.Equal(s.now, entry.CreatedAt, "repeat claim must not rewrite the entry")
}

func (s *RegistryStoreSuite) TestClaimByDifferentOwnerConflicts() {
	pan := s.mustPAN("ABCDE1234F")

	s.Require().NoError(s.store.Claim(s.ctx, pan, s.mustAccount("acct-1"), s.now))
	err := s.store.Claim(s.ctx, pan, s.mustAccount("acct-2"), s.now)
	s.Require().ErrorIs(err, sentinel.ErrConflict)

	entry, err := s.store.Find(s.ctx, pan)
	s.Require().NoError(err)
	s.Equal(s.mustAccount("acct-1"), entry.OwnerAccountID)
}

func (s *RegistryStoreSuite) TestReleaseMakesPANClaimable() {
	pan := s.mustPAN("ABCDE1234F")

	s.Require().NoError(s.store.Claim(s.ctx, pan, s.mustAccount("acct-1"), s.now))
	s.Require().NoError(s.store.Release(s.ctx, pan))
	s.Require().NoError(s.store.Claim(s.ctx, pan, s.mustAccount("acct-2"), s.now))
}

func (s *RegistryStoreSuite) TestReleaseUnknownPANIsNoop() {
	s.Require().NoError(s.store.Release(s.ctx, s.mustPAN("ABCDE1234F")))
}

func TestConcurrentClaimsSingleWinner(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	now := time.Now()

	pan, err := id.ParsePAN("ABCDE1234F")
	require.NoError(t, err)

	const claimers = 16
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		wins []id.AccountID
	)
	for i := 0; i < claimers; i++ {
		acct, err := id.ParseAccountID("acct-" + string(rune('a'+i)))
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
}

func TestCheckUniqueness(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	pan, err := id.ParsePAN("ABCDE1234F")
	require.NoError(t, err)
	owner, err := id.ParseAccountID("acct-owner")
	require.NoError(t, err)
	other, err := id.ParseAccountID("acct-other")
	require.NoError(t, err)

	res, err := CheckUniqueness(ctx, store, pan, owner)
	require.NoError(t, err)
	require.True(t, res.IsUnique, "unclaimed pan is unique for everyone")

	require.NoError(t, store.Claim(ctx, pan, owner, time.Now()))

	res, err = CheckUniqueness(ctx, store, pan, owner)
	require.NoError(t, err)
	require.True(t, res.IsUnique, "unique for the current owner")
	require.Equal(t, owner, res.OwnerAccountID)

	res, err = CheckUniqueness(ctx, store, pan, other)
	require.NoError(t, err)
	require.False(t, res.IsUnique)
	require.Equal(t, owner, res.OwnerAccountID)
}
