// Package repository persists accounts in the auth_user table.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"single-session-auth/backend/internal/identity/domain"
)

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns an account repository that uses the given db
// for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// GetByEmail returns the account with the given email, or nil if not found.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	a := &domain.Account{}
	row := r.db.QueryRowContext(ctx,
		`SELECT user_id, email, hand_phone, password, disabled, picture, activate_code, register_date
		 FROM auth_user WHERE email = $1`, email)
	err := row.Scan(&a.UserNID, &a.Email, &a.MobilePhone, &a.Password,
		&a.DisabledLogin, &a.Picture, &a.ActivateCode, &a.RegisterDate)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("accountRepo.GetByEmail: %w", err)
	}
	return a, nil
}

// Create persists a new account and fills in its assigned UserNID. The
// caller must have checked for duplicate emails first; a unique-constraint
// violation still surfaces as an error.
func (r *PostgresRepository) Create(ctx context.Context, a *domain.Account) error {
	if err := a.Validate(); err != nil {
		return fmt.Errorf("accountRepo.Create: %w", err)
	}
	row := r.db.QueryRowContext(ctx,
		`INSERT INTO auth_user (email, hand_phone, password, disabled, picture, activate_code, register_date)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING user_id`,
		a.Email, a.MobilePhone, a.Password, a.DisabledLogin, a.Picture, a.ActivateCode, a.RegisterDate)
	if err := row.Scan(&a.UserNID); err != nil {
		return fmt.Errorf("accountRepo.Create: %w", err)
	}
	return nil
}

// Activate clears the disabled flag on the account holding the activation
// code and consumes the code. Returns false when no account matches.
func (r *PostgresRepository) Activate(ctx context.Context, code string) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE auth_user SET disabled = FALSE, activate_code = ''
		 WHERE activate_code = $1 AND activate_code <> ''`, code)
	if err != nil {
		return false, fmt.Errorf("accountRepo.Activate: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("accountRepo.Activate: %w", err)
	}
	return n > 0, nil
}
