package registry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	id "vaultly/pkg/domain"
	"vaultly/pkg/platform/sentinel"
)

// Schema creates the registry table. Applied by migrations in deployment and
// by the test harness in integration tests.
const Schema = `
CREATE TABLE IF NOT EXISTS pan_registry (
	pan        TEXT PRIMARY KEY,
	account_id TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL
);
`

// PostgresStore is the production Store backed by Postgres. The PRIMARY KEY
// on pan makes Claim's insert race-free under concurrent writers.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) Find(ctx context.Context, pan id.PAN) (*Entry, error) {
	const q = `SELECT pan, account_id, created_at FROM pan_registry WHERE pan = $1`

	var (
		rawPAN     string
		rawAccount string
		createdAt  time.Time
	)
	err := s.pool.QueryRow(ctx, q, pan.String()).Scan(&rawPAN, &rawAccount, &createdAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find registry entry: %w", err)
	}

	parsedPAN, err := id.ParsePAN(rawPAN)
	if err != nil {
		return nil, fmt.Errorf("stored pan invalid: %w", err)
	}
	accountID, err := id.ParseAccountID(rawAccount)
	if err != nil {
		return nil, fmt.Errorf("stored account id invalid: %w", err)
	}
	return &Entry{PAN: parsedPAN, OwnerAccountID: accountID, CreatedAt: createdAt}, nil
}

func (s *PostgresStore) Claim(ctx context.Context, pan id.PAN, accountID id.AccountID, now time.Time) error {
	const ins = `
		INSERT INTO pan_registry (pan, account_id, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (pan) DO NOTHING`

	tag, err := s.pool.Exec(ctx, ins, pan.String(), accountID.String(), now)
	if err != nil {
		return fmt.Errorf("claim pan: %w", err)
	}
	if tag.RowsAffected() == 1 {
		return nil
	}

	// Insert lost to an existing row. A claim by the same owner is idempotent.
	const own = `SELECT account_id FROM pan_registry WHERE pan = $1`
	var owner string
	if err := s.pool.QueryRow(ctx, own, pan.String()).Scan(&owner); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Row deleted between insert and read. Treat as contention.
			return sentinel.ErrConflict
		}
		return fmt.Errorf("read claim owner: %w", err)
	}
	if owner == accountID.String() {
		return nil
	}
	return sentinel.ErrConflict
}

func (s *PostgresStore) Release(ctx context.Context, pan id.PAN) error {
	const q = `DELETE FROM pan_registry WHERE pan = $1`
	if _, err := s.pool.Exec(ctx, q, pan.String()); err != nil {
		return fmt.Errorf("release pan: %w", err)
	}
	return nil
}
