package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/vendora/backend/internal/domain/shared"
	"github.com/vendora/backend/internal/infrastructure/config"
)

// RedisReservationStore implements ReservationStore using Redis.
// This is suitable for distributed deployments where multiple instances
// must agree on who sends a given alert notification.
type RedisReservationStore struct {
	client    *redis.Client
	keyPrefix string
}

// NewRedisReservationStore creates a new Redis-based reservation store
func NewRedisReservationStore(cfg config.RedisConfig) (*RedisReservationStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisReservationStore{
		client:    client,
		keyPrefix: "alert:notify:",
	}, nil
}

// NewRedisReservationStoreWithClient creates a store with an existing Redis client
// This is useful for testing or when sharing a client across components
func NewRedisReservationStoreWithClient(client *redis.Client, keyPrefix string) *RedisReservationStore {
	if keyPrefix == "" {
		keyPrefix = "alert:notify:"
	}
	return &RedisReservationStore{
		client:    client,
		keyPrefix: keyPrefix,
	}
}

// Reserve claims the key with a TTL. Returns true if this caller won
// the claim, false if another process already holds it. SETNX makes
// the claim atomic.
func (s *RedisReservationStore) Reserve(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	won, err := s.client.SetNX(ctx, s.keyPrefix+key, "1", ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to reserve key: %w", err)
	}
	return won, nil
}

// IsReserved checks whether the key is currently claimed
func (s *RedisReservationStore) IsReserved(ctx context.Context, key string) (bool, error) {
	exists, err := s.client.Exists(ctx, s.keyPrefix+key).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check reservation: %w", err)
	}
	return exists > 0, nil
}

// Release frees the key so the action can be retried immediately
func (s *RedisReservationStore) Release(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.keyPrefix+key).Err(); err != nil {
		return fmt.Errorf("failed to release key: %w", err)
	}
	return nil
}

// Close closes the Redis client
func (s *RedisReservationStore) Close() error {
	return s.client.Close()
}

// Ensure RedisReservationStore implements ReservationStore
var _ shared.ReservationStore = (*RedisReservationStore)(nil)
