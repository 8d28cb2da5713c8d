package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"single-session-auth/backend/internal/session/domain"
)

type queryer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// PostgresStore persists session records in the user_session table, one row
// per account. Transact serializes per-account mutations with a transaction
// level advisory lock so concurrent logins for the same account are applied
// one at a time.
type PostgresStore struct {
	db *sql.DB // nil when scoped to a transaction
	q  queryer
}

// NewPostgresStore returns a session store backed by the given database.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db, q: db}
}

// Find returns the session record for the account, or nil if none exists.
// It returns an error only for database failures, not for missing rows.
func (s *PostgresStore) Find(ctx context.Context, accountID int32) (*domain.Record, error) {
	rec := &domain.Record{}
	row := s.q.QueryRowContext(ctx,
		`SELECT user_id, token, last_activity, device_name, ip_address, app_name, created_at
		 FROM user_session WHERE user_id = $1`, accountID)
	err := row.Scan(&rec.AccountID, &rec.Token, &rec.LastActivity,
		&rec.DeviceName, &rec.IPAddress, &rec.AppName, &rec.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("sessionStore.Find: %w", err)
	}
	return rec, nil
}

// Upsert writes the record wholesale, replacing any existing session for the
// account. The record must validate; a session is never stored with an empty
// token.
func (s *PostgresStore) Upsert(ctx context.Context, rec *domain.Record) error {
	if err := rec.Validate(); err != nil {
		return fmt.Errorf("sessionStore.Upsert: %w", err)
	}
	_, err := s.q.ExecContext(ctx,
		`INSERT INTO user_session (user_id, token, last_activity, device_name, ip_address, app_name, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (user_id) DO UPDATE SET
		   token = EXCLUDED.token,
		   last_activity = EXCLUDED.last_activity,
		   device_name = EXCLUDED.device_name,
		   ip_address = EXCLUDED.ip_address,
		   app_name = EXCLUDED.app_name,
		   created_at = EXCLUDED.created_at`,
		rec.AccountID, rec.Token, rec.LastActivity, rec.DeviceName, rec.IPAddress, rec.AppName, rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("sessionStore.Upsert: %w", err)
	}
	return nil
}

// Delete removes the account's session row. Deleting an absent row is not an
// error; logout stays idempotent.
func (s *PostgresStore) Delete(ctx context.Context, accountID int32) error {
	if _, err := s.q.ExecContext(ctx, `DELETE FROM user_session WHERE user_id = $1`, accountID); err != nil {
		return fmt.Errorf("sessionStore.Delete: %w", err)
	}
	return nil
}

// Touch updates the record's last-activity timestamp without changing the token.
func (s *PostgresStore) Touch(ctx context.Context, accountID int32, at time.Time) error {
	if _, err := s.q.ExecContext(ctx,
		`UPDATE user_session SET last_activity = $1 WHERE user_id = $2`, at, accountID); err != nil {
		return fmt.Errorf("sessionStore.Touch: %w", err)
	}
	return nil
}

// Transact runs fn against a transaction-scoped store. pg_advisory_xact_lock
// keyed by account id serializes concurrent calls for the same account even
// when no session row exists yet to lock. Any error from fn rolls the
// transaction back.
func (s *PostgresStore) Transact(ctx context.Context, accountID int32, fn func(ctx context.Context, st domain.Store) error) error {
	if s.db == nil {
		return errors.New("sessionStore.Transact: store is already transaction-scoped")
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sessionStore.Transact: begin: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, int64(accountID)); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("sessionStore.Transact: lock: %w", err)
	}
	if err := fn(ctx, &PostgresStore{q: tx}); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sessionStore.Transact: commit: %w", err)
	}
	return nil
}
