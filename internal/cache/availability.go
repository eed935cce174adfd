package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/omegaopinmthechat/highwaydelite/internal/model"
	"github.com/redis/go-redis/v9"
)

// ErrCacheMiss is returned when no availability hash exists for an experience.
// Callers fall back to Postgres, which stays the source of truth.
var ErrCacheMiss = errors.New("availability not cached")

const DefaultAvailabilityTTL = 5 * time.Minute

// AvailabilityCache keeps a per-experience Redis hash of time label ->
// remaining count, so listing/detail pages don't hit Postgres on every poll.
type AvailabilityCache interface {
	// Warm writes the full slot set for an experience, replacing any previous hash.
	Warm(ctx context.Context, experienceID uuid.UUID, slots []model.TimeSlot) error
	// Get returns time label -> available, or ErrCacheMiss.
	Get(ctx context.Context, experienceID uuid.UUID) (map[string]int, error)
	// Invalidate drops the hash for one experience.
	Invalidate(ctx context.Context, experienceID uuid.UUID) error
	// InvalidateAll drops every availability hash (bulk catalog replace).
	InvalidateAll(ctx context.Context) error
}

type AvailabilityCacheImpl struct {
	client *redis.Client
	ttl    time.Duration
}

func NewAvailabilityCache(client *redis.Client, ttl time.Duration) AvailabilityCache {
	if ttl <= 0 {
		ttl = DefaultAvailabilityTTL
	}
	return &AvailabilityCacheImpl{
		client: client,
		ttl:    ttl,
	}
}

func (c *AvailabilityCacheImpl) getKey(experienceID uuid.UUID) string {
	return fmt.Sprintf("experience:%s:availability", experienceID)
}

func (c *AvailabilityCacheImpl) Warm(ctx context.Context, experienceID uuid.UUID, slots []model.TimeSlot) error {
	key := c.getKey(experienceID)

	values := make(map[string]interface{}, len(slots))
	for _, slot := range slots {
		values[slot.TimeLabel] = slot.Available
	}

	pipe := c.client.TxPipeline()
	pipe.Del(ctx, key)
	if len(values) > 0 {
		pipe.HSet(ctx, key, values)
	}
	pipe.Expire(ctx, key, c.ttl)
	_, err := pipe.Exec(ctx)
	return err
}

func (c *AvailabilityCacheImpl) Get(ctx context.Context, experienceID uuid.UUID) (map[string]int, error) {
	key := c.getKey(experienceID)

	result, err := c.client.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, err
	}

	if len(result) == 0 {
		return nil, ErrCacheMiss
	}

	availability := make(map[string]int, len(result))
	for label, raw := range result {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid availability for %q: %v", label, err)
		}
		availability[label] = n
	}

	return availability, nil
}

func (c *AvailabilityCacheImpl) Invalidate(ctx context.Context, experienceID uuid.UUID) error {
	return c.client.Del(ctx, c.getKey(experienceID)).Err()
}

func (c *AvailabilityCacheImpl) InvalidateAll(ctx context.Context) error {
	var cursor uint64
	for {
		keys, next, err := c.client.Scan(ctx, cursor, "experience:*:availability", 100).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				return err
			}
		}
		if next == 0 {
			return nil
		}
		cursor = next
	}
}
