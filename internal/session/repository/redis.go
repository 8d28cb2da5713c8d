package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"single-session-auth/backend/internal/session/domain"
)

const redisTxRetries = 5

// RedisStore keeps one JSON-encoded session record per account under
// session:<account_id>. Record lifetime is bounded by ttl so abandoned
// sessions age out with their tokens. Transact uses an optimistic WATCH
// transaction: writes are buffered and applied atomically on commit, and a
// concurrent commit for the same account aborts the attempt so the caller's
// decision is retried against the post-commit state.
type RedisStore struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

// NewRedisStore returns a session store backed by the given Redis client.
// ttl should match the token horizon.
func NewRedisStore(client redis.UniversalClient, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, prefix: "session:", ttl: ttl}
}

func (s *RedisStore) key(accountID int32) string {
	return fmt.Sprintf("%s%d", s.prefix, accountID)
}

func decodeRecord(data string) (*domain.Record, error) {
	rec := &domain.Record{}
	if err := json.Unmarshal([]byte(data), rec); err != nil {
		return nil, fmt.Errorf("sessionStore: decode record: %w", err)
	}
	return rec, nil
}

// Find returns the account's record, or nil when the key is absent or expired.
func (s *RedisStore) Find(ctx context.Context, accountID int32) (*domain.Record, error) {
	data, err := s.client.Get(ctx, s.key(accountID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("sessionStore.Find: %w", err)
	}
	return decodeRecord(data)
}

// Upsert writes the record wholesale with the store's TTL.
func (s *RedisStore) Upsert(ctx context.Context, rec *domain.Record) error {
	if err := rec.Validate(); err != nil {
		return fmt.Errorf("sessionStore.Upsert: %w", err)
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("sessionStore.Upsert: encode: %w", err)
	}
	if err := s.client.Set(ctx, s.key(rec.AccountID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("sessionStore.Upsert: %w", err)
	}
	return nil
}

// Delete removes the account's record. Absent keys are not an error.
func (s *RedisStore) Delete(ctx context.Context, accountID int32) error {
	if err := s.client.Del(ctx, s.key(accountID)).Err(); err != nil {
		return fmt.Errorf("sessionStore.Delete: %w", err)
	}
	return nil
}

// Touch rewrites the record with an updated last-activity timestamp. A
// missing record is a no-op.
func (s *RedisStore) Touch(ctx context.Context, accountID int32, at time.Time) error {
	rec, err := s.Find(ctx, accountID)
	if err != nil {
		return err
	}
	if rec == nil {
		return nil
	}
	rec.LastActivity = at
	return s.Upsert(ctx, rec)
}

// Transact runs fn against a WATCH-scoped store. Reads observe the
// pre-transaction state; writes are buffered and applied in a MULTI/EXEC
// block on commit. When a concurrent commit touches the same account key the
// attempt is retried so fn re-evaluates against the committed state.
func (s *RedisStore) Transact(ctx context.Context, accountID int32, fn func(ctx context.Context, st domain.Store) error) error {
	key := s.key(accountID)
	for i := 0; i < redisTxRetries; i++ {
		err := s.client.Watch(ctx, func(tx *redis.Tx) error {
			scoped := &redisTxStore{tx: tx, prefix: s.prefix, ttl: s.ttl}
			if err := fn(ctx, scoped); err != nil {
				return err
			}
			_, err := tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
				return scoped.flush(ctx, pipe)
			})
			return err
		}, key)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return err
	}
	return fmt.Errorf("sessionStore.Transact: %w", redis.TxFailedErr)
}

// redisTxStore buffers mutations during a Transact call and applies them via
// the commit pipeline.
type redisTxStore struct {
	tx      *redis.Tx
	prefix  string
	ttl     time.Duration
	pending []func(ctx context.Context, pipe redis.Pipeliner) error
}

func (s *redisTxStore) key(accountID int32) string {
	return fmt.Sprintf("%s%d", s.prefix, accountID)
}

func (s *redisTxStore) Find(ctx context.Context, accountID int32) (*domain.Record, error) {
	data, err := s.tx.Get(ctx, s.key(accountID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("sessionStore.Find: %w", err)
	}
	return decodeRecord(data)
}

func (s *redisTxStore) Upsert(ctx context.Context, rec *domain.Record) error {
	if err := rec.Validate(); err != nil {
		return fmt.Errorf("sessionStore.Upsert: %w", err)
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("sessionStore.Upsert: encode: %w", err)
	}
	key := s.key(rec.AccountID)
	s.pending = append(s.pending, func(ctx context.Context, pipe redis.Pipeliner) error {
		return pipe.Set(ctx, key, data, s.ttl).Err()
	})
	return nil
}

func (s *redisTxStore) Delete(ctx context.Context, accountID int32) error {
	key := s.key(accountID)
	s.pending = append(s.pending, func(ctx context.Context, pipe redis.Pipeliner) error {
		return pipe.Del(ctx, key).Err()
	})
	return nil
}

func (s *redisTxStore) Touch(ctx context.Context, accountID int32, at time.Time) error {
	rec, err := s.Find(ctx, accountID)
	if err != nil {
		return err
	}
	if rec == nil {
		return nil
	}
	rec.LastActivity = at
	return s.Upsert(ctx, rec)
}

func (s *redisTxStore) flush(ctx context.Context, pipe redis.Pipeliner) error {
	for _, op := range s.pending {
		if err := op(ctx, pipe); err != nil {
			return err
		}
	}
	return nil
}
