package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"vaultly/internal/kyc/models"
	id "vaultly/pkg/domain"
)

type StatusStoreSuite struct {
	suite.Suite
	store *MemoryStore
	ctx   context.Context
}

func (s *StatusStoreSuite) SetupTest() {
	s.store = NewMemoryStore()
	s.ctx = context.Background()
}

func TestStatusStoreSuite(t *testing.T) {
	suite.Run(t, new(StatusStoreSuite))
}

func (s *StatusStoreSuite) mustAccount(raw string) id.AccountID {
	acct, err := id.ParseAccountID(raw)
	s.Require().NoError(err)
	return acct
}

func (s *StatusStoreSuite) verifiedStatus() models.KYCStatus {
	pan, err := id.ParsePAN("ABCDE1234F")
	s.Require().NoError(err)
	status, err := models.NewVerified(pan, "Asha Rao", time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC))
	s.Require().NoError(err)
	return status
}

func (s *StatusStoreSuite) TestGetWithoutRecordIsUnverified() {
	status, err := s.store.Get(s.ctx, s.mustAccount("acct-1"))
	s.Require().NoError(err)
	s.False(status.IsVerified())
}

func (s *StatusStoreSuite) TestSaveThenGet() {
	acct := s.mustAccount("acct-1")
	want := s.verifiedStatus()

	s.Require().NoError(s.store.Save(s.ctx, acct, want))

	got, err := s.store.Get(s.ctx, acct)
	s.Require().NoError(err)
	s.Equal(want, got)
}

func (s *StatusStoreSuite) TestSaveOverwrites() {
	acct := s.mustAccount("acct-1")

	s.Require().NoError(s.store.Save(s.ctx, acct, s.verifiedStatus()))
	s.Require().NoError(s.store.Save(s.ctx, acct, models.Unverified()))

	got, err := s.store.Get(s.ctx, acct)
	s.Require().NoError(err)
	s.False(got.IsVerified())
}

func (s *StatusStoreSuite) TestResetReturnsAccountToUnverified() {
	acct := s.mustAccount("acct-1")

	s.Require().NoError(s.store.Save(s.ctx, acct, s.verifiedStatus()))
	s.Require().NoError(s.store.Reset(s.ctx, acct))

	got, err := s.store.Get(s.ctx, acct)
	s.Require().NoError(err)
	s.False(got.IsVerified())
}

func (s *StatusStoreSuite) TestResetUnknownAccountIsNoop() {
	s.Require().NoError(s.store.Reset(s.ctx, s.mustAccount("acct-unknown")))
}

func (s *StatusStoreSuite) TestAccountsAreIndependent() {
	s.Require().NoError(s.store.Save(s.ctx, s.mustAccount("acct-1"), s.verifiedStatus()))

	other, err := s.store.Get(s.ctx, s.mustAccount("acct-2"))
	s.Require().NoError(err)
	s.False(other.IsVerified())
}
