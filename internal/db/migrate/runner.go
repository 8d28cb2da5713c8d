// Package migrate applies the auth schema migrations embedded in
// internal/db through golang-migrate.
package migrate

import (
	"errors"
	"fmt"

	"single-session-auth/backend/internal/db"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

// ErrNoChange is returned when the schema is already at the target version.
var ErrNoChange = migrate.ErrNoChange

// Run migrates the auth schema in the given direction ("up" or "down").
// Returns ErrNoChange when there is nothing to apply so callers can treat
// an up-to-date schema as success.
func Run(dsn string, direction string) error {
	if dsn == "" {
		return errors.New("database DSN is required")
	}

	src, err := iofs.New(db.MigrationFS, "migrations")
	if err != nil {
		return fmt.Errorf("read embedded migrations: %w", err)
	}
	m, err := migrate.NewWithSourceInstance("iofs", src, dsn)
	if err != nil {
		return fmt.Errorf("open migration target: %w", err)
	}
	defer func() { _, _ = m.Close() }()

	var apply func() error
	switch direction {
	case "up":
		apply = m.Up
	case "down":
		apply = m.Down
	default:
		return fmt.Errorf("direction must be up or down, got %q", direction)
	}
	if err := apply(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			return ErrNoChange
		}
		return fmt.Errorf("migrate %s: %w", direction, err)
	}
	return nil
}
