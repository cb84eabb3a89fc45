// Package redis is the Redis backend for the key-value store.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bobmcallan/hedge-portal/internal/common"
	"github.com/bobmcallan/hedge-portal/internal/config"
	"github.com/bobmcallan/hedge-portal/internal/interfaces"
	goredis "github.com/redis/go-redis/v9"
)

// KVStorage implements interfaces.KeyValueStorage on Redis. Every key is
// namespaced as "<prefix>:<key>".
type KVStorage struct {
	client *goredis.Client
	prefix string
	logger *common.Logger
}

// NewKVStorage wraps an existing client.
func NewKVStorage(client *goredis.Client, prefix string, logger *common.Logger) *KVStorage {
	return &KVStorage{client: client, prefix: prefix, logger: logger}
}

func (s *KVStorage) wrapKey(key string) string {
	if s.prefix == "" {
		return key
	}
	return s.prefix + ":" + key
}

// Get retrieves a value by key. Missing keys wrap interfaces.ErrKeyNotFound.
func (s *KVStorage) Get(ctx context.Context, key string) (string, error) {
	val, err := s.client.Get(ctx, s.wrapKey(key)).Result()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return "", fmt.Errorf("%w: %s", interfaces.ErrKeyNotFound, key)
		}
		return "", fmt.Errorf("failed to get key %s: %w", key, err)
	}
	return val, nil
}

// Set stores value under key with no expiry.
func (s *KVStorage) Set(ctx context.Context, key, value string) error {
	if err := s.client.Set(ctx, s.wrapKey(key), value, 0).Err(); err != nil {
		return fmt.Errorf("failed to set key %s: %w", key, err)
	}
	return nil
}

// Manager implements interfaces.StorageManager for Redis.
type Manager struct {
	client *goredis.Client
	kv     *KVStorage
}

// NewManager connects to Redis and verifies the connection with PING.
func NewManager(logger *common.Logger, cfg *config.RedisConfig) (interfaces.StorageManager, error) {
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	client := goredis.NewClient(&goredis.Options{
		Addr:     addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}

	logger.Info().Str("backend", "redis").Str("addr", addr).Str("prefix", cfg.Prefix).Msg("Storage initialized")

	return &Manager{client: client, kv: NewKVStorage(client, cfg.Prefix, logger)}, nil
}

// KeyValueStorage returns the key-value store.
func (m *Manager) KeyValueStorage() interfaces.KeyValueStorage {
	return m.kv
}

// Close closes the Redis connection.
func (m *Manager) Close() error {
	return m.client.Close()
}
