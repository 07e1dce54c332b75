package sessions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/sortify/internal/shared"
	"github.com/redis/go-redis/v9"
)

const (
	sessionKeyPrefix = "sortify:session:"
	stateKeyPrefix   = "sortify:state:"
)

// RedisStore implements [Store] backed by a Redis instance, relying on Redis
// key expiry to enforce record TTLs.
type RedisStore struct {
	client redis.UniversalClient
}

// NewRedisStore connects to Redis with the given settings and verifies the
// connection before returning.
func NewRedisStore(ctx context.Context, cfg shared.RedisConfig) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("%w: %v", shared.ErrStoreUnavailable, err)
	}

	return &RedisStore{client: client}, nil
}

// NewRedisStoreWithClient wraps a pre-configured client. Used in tests with miniredis.
func NewRedisStoreWithClient(client redis.UniversalClient) *RedisStore {
	return &RedisStore{client: client}
}

// Close closes the underlying client connection.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

// Ping checks store connectivity for health reporting.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Get loads and decodes the credential record for a session identifier.
func (s *RedisStore) Get(ctx context.Context, id string) (*Record, error) {
	data, err := s.client.Get(ctx, sessionKeyPrefix+id).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, shared.ErrSessionNotFound
		}
		return nil, fmt.Errorf("%w: %v", shared.ErrStoreUnavailable, err)
	}

	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("failed to decode session record: %w", err)
	}

	return &rec, nil
}

// Put stores the credential record under the identifier with the given TTL.
func (s *RedisStore) Put(ctx context.Context, id string, rec *Record, ttl time.Duration) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to encode session record: %w", err)
	}

	if err := s.client.Set(ctx, sessionKeyPrefix+id, data, ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrStoreUnavailable, err)
	}

	return nil
}

// Delete removes the record for a session identifier.
func (s *RedisStore) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, sessionKeyPrefix+id).Err(); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrStoreUnavailable, err)
	}
	return nil
}

// PutState registers an outstanding OAuth state parameter with a short TTL.
func (s *RedisStore) PutState(ctx context.Context, state string, ttl time.Duration) error {
	if err := s.client.Set(ctx, stateKeyPrefix+state, "1", ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrStoreUnavailable, err)
	}
	return nil
}

// TakeState consumes an outstanding state parameter. The delete makes each
// state single-use.
func (s *RedisStore) TakeState(ctx context.Context, state string) (bool, error) {
	deleted, err := s.client.Del(ctx, stateKeyPrefix+state).Result()
	if err != nil {
		return false, fmt.Errorf("%w: %v", shared.ErrStoreUnavailable, err)
	}
	return deleted > 0, nil
}

var _ Store = (*RedisStore)(nil)
