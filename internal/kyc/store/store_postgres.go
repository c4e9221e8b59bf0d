package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"vaultly/internal/kyc/models"
	id "vaultly/pkg/domain"
)

// Schema creates the status table. Applied by migrations in deployment and by
// the test harness in integration tests.
const Schema = `
CREATE TABLE IF NOT EXISTS kyc_status (
	account_id    TEXT PRIMARY KEY,
	is_verified   BOOLEAN NOT NULL,
	pan           TEXT,
	verified_name TEXT,
	verified_at   TIMESTAMPTZ,
	updated_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);
`

// PostgresStore is the production Store backed by Postgres.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) Get(ctx context.Context, accountID id.AccountID) (models.KYCStatus, error) {
	const q = `
		SELECT is_verified, pan, verified_name, verified_at
		FROM kyc_status WHERE account_id = $1`

	var (
		isVerified   bool
		pan          *string
		verifiedName *string
		verifiedAt   *time.Time
	)
	err := s.pool.QueryRow(ctx, q, accountID.String()).Scan(&isVerified, &pan, &verifiedName, &verifiedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Unverified(), nil
		}
		return models.KYCStatus{}, fmt.Errorf("get kyc status: %w", err)
	}
	if !isVerified {
		return models.Unverified(), nil
	}

	payload := models.StatusPayload{IsVerified: true, VerificationDate: verifiedAt}
	if pan != nil {
		payload.PANNumber = *pan
	}
	if verifiedName != nil {
		payload.VerifiedName = *verifiedName
	}
	status, err := models.StatusFromPayload(payload)
	if err != nil {
		return models.KYCStatus{}, fmt.Errorf("stored kyc status invalid for account %s: %w", accountID, err)
	}
	return status, nil
}

func (s *PostgresStore) Save(ctx context.Context, accountID id.AccountID, status models.KYCStatus) error {
	const q = `
		INSERT INTO kyc_status (account_id, is_verified, pan, verified_name, verified_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, now())
		ON CONFLICT (account_id) DO UPDATE SET
			is_verified   = EXCLUDED.is_verified,
			pan           = EXCLUDED.pan,
			verified_name = EXCLUDED.verified_name,
			verified_at   = EXCLUDED.verified_at,
			updated_at    = now()`

	var (
		pan          *string
		verifiedName *string
		verifiedAt   *time.Time
	)
	if p, ok := status.PAN(); ok {
		raw := p.String()
		pan = &raw
	}
	if name, ok := status.VerifiedName(); ok && name != "" {
		verifiedName = &name
	}
	if at, ok := status.VerifiedAt(); ok {
		verifiedAt = &at
	}

	if _, err := s.pool.Exec(ctx, q, accountID.String(), status.IsVerified(), pan, verifiedName, verifiedAt); err != nil {
		return fmt.Errorf("save kyc status: %w", err)
	}
	return nil
}

func (s *PostgresStore) Reset(ctx context.Context, accountID id.AccountID) error {
	const q = `DELETE FROM kyc_status WHERE account_id = $1`
	if _, err := s.pool.Exec(ctx, q, accountID.String()); err != nil {
		return fmt.Errorf("reset kyc status: %w", err)
	}
	return nil
}
