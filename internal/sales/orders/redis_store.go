package orders

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Kathiriniyan/SukanFood-sub001/internal/shared"
)

// RedisStore keeps saved snapshots in Redis with an expiry.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore constructs the store. ttl <= 0 keeps snapshots forever.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	if ttl < 0 {
		ttl = 0
	}
	return &RedisStore{client: client, ttl: ttl}
}

func (s *RedisStore) Save(ctx context.Context, snap Snapshot) error {
	raw, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("orders: encode snapshot: %w", err)
	}
	if err := s.client.Set(ctx, shared.DraftSnapshotKey(snap.OrderID), raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("orders: redis set: %w", err)
	}
	return nil
}

func (s *RedisStore) Load(ctx context.Context, orderID string) (Snapshot, error) {
	raw, err := s.client.Get(ctx, shared.DraftSnapshotKey(orderID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Snapshot{}, fmt.Errorf("%w: order %s has no saved snapshot", shared.ErrNotFound, orderID)
	}
	if err != nil {
		return Snapshot{}, fmt.Errorf("orders: redis get: %w", err)
	}
	var snap Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return Snapshot{}, fmt.Errorf("orders: decode snapshot: %w", err)
	}
	return snap, nil
}

func (s *RedisStore) Delete(ctx context.Context, orderID string) error {
	if err := s.client.Del(ctx, shared.DraftSnapshotKey(orderID)).Err(); err != nil {
		return fmt.Errorf("orders: redis del: %w", err)
	}
	return nil
}
