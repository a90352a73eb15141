package booking

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"carebook/models"

	"github.com/go-redis/redis/v8"
)

// holdKey builds the Redis key for a (serviceID, slot start) pair. Slot
// starts are normalized to UTC so independently computed keys always match.
func holdKey(serviceID string, slot time.Time) string {
	return fmt.Sprintf("hold:%s:%s", serviceID, slot.UTC().Format(time.RFC3339))
}

// RedisHoldStore implements HoldStore on a Redis client. Key expiry is the
// only cleanup mechanism; an abandoned hold simply ages out.
type RedisHoldStore struct {
	Client *redis.Client
}

// NewRedisHoldStore returns a HoldStore backed by the given Redis client.
func NewRedisHoldStore(client *redis.Client) *RedisHoldStore {
	return &RedisHoldStore{Client: client}
}

func (s *RedisHoldStore) Create(ctx context.Context, serviceID string, slot time.Time, ttl time.Duration, details models.BookingHold) (*models.BookingHold, error) {
	if ttl <= 0 {
		return nil, fmt.Errorf("hold ttl must be positive, got %s", ttl)
	}
	hold := details
	hold.ServiceID = serviceID
	hold.Slot = slot.UTC()
	hold.CreatedAt = time.Now().UTC()
	hold.TTLSeconds = int(ttl.Seconds())

	data, err := json.Marshal(hold)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal hold: %w", err)
	}
	if err := s.Client.Set(ctx, holdKey(serviceID, slot), data, ttl).Err(); err != nil {
		return nil, fmt.Errorf("failed to store hold: %w", err)
	}
	return &hold, nil
}

func (s *RedisHoldStore) Get(ctx context.Context, serviceID string, slot time.Time) (*models.BookingHold, error) {
	key := holdKey(serviceID, slot)

	// Value and remaining TTL are read in one pipelined round trip so we never
	// report a TTL for a key that expired between the two reads.
	pipe := s.Client.TxPipeline()
	getCmd := pipe.Get(ctx, key)
	ttlCmd := pipe.PTTL(ctx, key)
	if _, err := pipe.Exec(ctx); err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read hold: %w", err)
	}

	remaining := ttlCmd.Val()
	if remaining <= 0 {
		return nil, nil
	}

	var hold models.BookingHold
	if err := json.Unmarshal([]byte(getCmd.Val()), &hold); err != nil {
		return nil, fmt.Errorf("failed to parse hold: %w", err)
	}
	hold.TTLSeconds = int(math.Ceil(remaining.Seconds()))
	return &hold, nil
}

func (s *RedisHoldStore) Release(ctx context.Context, serviceID string, slot time.Time) (bool, error) {
	removed, err := s.Client.Del(ctx, holdKey(serviceID, slot)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to release hold: %w", err)
	}
	return removed > 0, nil
}

func (s *RedisHoldStore) Extend(ctx context.Context, serviceID string, slot time.Time, ttl time.Duration) (bool, error) {
	if ttl <= 0 {
		return false, fmt.Errorf("hold ttl must be positive, got %s", ttl)
	}
	ok, err := s.Client.Expire(ctx, holdKey(serviceID, slot), ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to extend hold: %w", err)
	}
	return ok, nil
}

func (s *RedisHoldStore) Exists(ctx context.Context, serviceID string, slot time.Time) (bool, error) {
	n, err := s.Client.Exists(ctx, holdKey(serviceID, slot)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check hold existence: %w", err)
	}
	return n > 0, nil
}
