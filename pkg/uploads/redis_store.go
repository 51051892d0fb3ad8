package uploads

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/kadrportal/media/pkg/imagestore"
)

// RedisConfig configures the Redis-backed session store.
type RedisConfig struct {
	ConnectionURL  string        `env:"REDIS_URL" envDefault:"redis://localhost:6379/0"` // Format: "redis://:password@localhost:6379/0"
	RetryAttempts  int           `env:"REDIS_RETRY_ATTEMPTS" envDefault:"3"`
	RetryInterval  time.Duration `env:"REDIS_RETRY_INTERVAL" envDefault:"5s"`
	ConnectTimeout time.Duration `env:"REDIS_CONNECT_TIMEOUT" envDefault:"30s"`
	StateTTL       time.Duration `env:"UPLOADS_STATE_TTL" envDefault:"24h"` // Lifetime of a session's staged list
}

var (
	ErrFailedToParseRedisConnString = errors.New("failed to parse redis connection string")
	ErrRedisNotReady                = errors.New("redis server is not ready")
)

// Connect establishes a Redis connection, retrying per the configuration.
func Connect(ctx context.Context, cfg RedisConfig) (*redis.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()

	opt, err := redis.ParseURL(cfg.ConnectionURL)
	if err != nil {
		return nil, errors.Join(ErrFailedToParseRedisConnString, err)
	}

	for range cfg.RetryAttempts {
		client := redis.NewClient(opt)
		if err := client.Ping(ctx).Err(); err == nil {
			return client, nil
		}
		_ = client.Close()

		select {
		case <-ctx.Done():
			return nil, errors.Join(ErrRedisNotReady, ctx.Err())
		case <-time.After(cfg.RetryInterval):
		}
	}

	return nil, ErrRedisNotReady
}

// RedisStore implements SessionStore on Redis, sharing staged uploads across
// application instances. Each session's list is one JSON value expiring after
// the configured TTL; the expiry drops only the registry entry, stored
// artifacts are left in place just like with in-process state.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore wraps an established Redis client. A non-positive ttl keeps
// entries until they are deleted explicitly.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func stateKey(sessionID string) string {
	return "uploads:" + sessionID
}

func (s *RedisStore) List(ctx context.Context, sessionID string) ([]imagestore.Descriptor, error) {
	if sessionID == "" {
		return nil, ErrEmptySessionID
	}

	data, err := s.client.Get(ctx, stateKey(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return []imagestore.Descriptor{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFailedToLoadState, err)
	}

	var descriptors []imagestore.Descriptor
	if err := json.Unmarshal(data, &descriptors); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFailedToLoadState, err)
	}

	return descriptors, nil
}

func (s *RedisStore) Save(ctx context.Context, sessionID string, descriptors []imagestore.Descriptor) error {
	if sessionID == "" {
		return ErrEmptySessionID
	}

	data, err := json.Marshal(descriptors)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrFailedToSaveState, err)
	}

	if err := s.client.Set(ctx, stateKey(sessionID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrFailedToSaveState, err)
	}

	return nil
}

func (s *RedisStore) Delete(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return ErrEmptySessionID
	}

	if err := s.client.Del(ctx, stateKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrFailedToSaveState, err)
	}

	return nil
}
