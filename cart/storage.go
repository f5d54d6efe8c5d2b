package cart

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Storage is the key-value persistence behind carts and wishlists. Load returns nil, nil for a missing key.
type Storage interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// MemoryStorage keeps values in-process. Used when no Redis address is configured.
type MemoryStorage struct {
	mu     sync.RWMutex
	values map[string][]byte
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{values: make(map[string][]byte)}
}

func (m *MemoryStorage) Load(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	if !ok {
		return nil, nil
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, nil
}

func (m *MemoryStorage) Save(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	v := make([]byte, len(value))
	copy(v, value)
	m.values[key] = v
	return nil
}

func (m *MemoryStorage) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}

// RedisStorage stores each value under namespace+key with a sliding TTL.
type RedisStorage struct {
	client    *redis.Client
	namespace string
	ttl       time.Duration
}

// NewRedisStorage connects and pings the server.
func NewRedisStorage(ctx context.Context, addr, password, namespace string, ttl time.Duration) (*RedisStorage, error) {
	if addr == "" {
		return nil, errors.New("redis addr is required")
	}
	client := redis.NewClient(&redis.Options{Addr: addr, Password: password})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return &RedisStorage{client: client, namespace: namespace, ttl: ttl}, nil
}

func (r *RedisStorage) Load(ctx context.Context, key string) ([]byte, error) {
	v, err := r.client.Get(ctx, r.namespace+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return v, nil
}

func (r *RedisStorage) Save(ctx context.Context, key string, value []byte) error {
	return r.client.Set(ctx, r.namespace+key, value, r.ttl).Err()
}

func (r *RedisStorage) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, r.namespace+key).Err()
}

func (r *RedisStorage) Close() error {
	return r.client.Close()
}
