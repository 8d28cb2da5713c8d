package domain

import (
	"context"
	"time"
)

// Store is the persisted account-to-session mapping the consistency engine
// reconciles against. Find returns nil (not an error) when no record exists.
// Every method may block on persistence I/O.
type Store interface {
	Find(ctx context.Context, accountID int32) (*Record, error)
	Upsert(ctx context.Context, rec *Record) error
	Delete(ctx context.Context, accountID int32) error
	Touch(ctx context.Context, accountID int32, at time.Time) error
}

// TxStore additionally runs a function against a transactionally scoped
// Store. Transact serializes concurrent calls for the same account: the
// second caller blocks (or retries) until the first commit is visible, so
// two logins can never both observe "no conflict". If fn returns an error
// the transaction is rolled back and no mutation is applied.
type TxStore interface {
	Store
	Transact(ctx context.Context, accountID int32, fn func(ctx context.Context, s Store) error) error
}
