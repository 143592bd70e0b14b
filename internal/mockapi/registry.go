package mockapi

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Registry tracks which token ids are live. A token whose jti is not
// registered is rejected even if its signature and expiry are fine.
type Registry interface {
	Register(ctx context.Context, jti, userID string, ttl time.Duration) error
	Active(ctx context.Context, jti string) (bool, error)
	Revoke(ctx context.Context, jti string) error
}

// MemoryRegistry keeps sessions in process memory.
type MemoryRegistry struct {
	mu       sync.Mutex
	sessions map[string]time.Time
	now      func() time.Time
}

// NewMemoryRegistry returns an empty MemoryRegistry.
func NewMemoryRegistry() *MemoryRegistry {
	return &MemoryRegistry{sessions: make(map[string]time.Time), now: time.Now}
}

func (m *MemoryRegistry) Register(_ context.Context, jti, _ string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[jti] = m.now().Add(ttl)
	return nil
}

func (m *MemoryRegistry) Active(_ context.Context, jti string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	exp, ok := m.sessions[jti]
	if !ok {
		return false, nil
	}
	if !m.now().Before(exp) {
		delete(m.sessions, jti)
		return false, nil
	}
	return true, nil
}

func (m *MemoryRegistry) Revoke(_ context.Context, jti string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, jti)
	return nil
}

// RedisRegistry stores sessions as hostel:session:<jti> with the token's TTL.
type RedisRegistry struct {
	rdb *redis.Client
}

// NewRedisRegistry wraps an existing client.
func NewRedisRegistry(rdb *redis.Client) *RedisRegistry {
	return &RedisRegistry{rdb: rdb}
}

// SessionKey returns the Redis key for a token id.
func SessionKey(jti string) string {
	return "hostel:session:" + jti
}

func (r *RedisRegistry) Register(ctx context.Context, jti, userID string, ttl time.Duration) error {
	if err := r.rdb.Set(ctx, SessionKey(jti), userID, ttl).Err(); err != nil {
		return fmt.Errorf("store session: %w", err)
	}
	return nil
}

func (r *RedisRegistry) Active(ctx context.Context, jti string) (bool, error) {
	_, err := r.rdb.Get(ctx, SessionKey(jti)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("check session: %w", err)
	}
	return true, nil
}

func (r *RedisRegistry) Revoke(ctx context.Context, jti string) error {
	return r.rdb.Del(ctx, SessionKey(jti)).Err()
}

// OpenRegistry returns a Redis-backed registry when redisURL is set and an
// in-memory one otherwise. The returned close func is never nil.
func OpenRegistry(ctx context.Context, redisURL string, log zerolog.Logger) (Registry, func() error, error) {
	if redisURL == "" {
		log.Info().Msg("session registry: memory")
		return NewMemoryRegistry(), func() error { return nil }, nil
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, nil, fmt.Errorf("parse redis URL: %w", err)
	}
	rdb := redis.NewClient(opt)
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close() //nolint:errcheck
		return nil, nil, fmt.Errorf("ping redis: %w", err)
	}

	log.Info().
		Str("addr", opt.Addr).
		Int("db", opt.DB).
		Msg("session registry: redis")
	return NewRedisRegistry(rdb), rdb.Close, nil
}
