package cache

import (
	"context"
	"testing"
	"time"

	"github.com/omegaopinmthechat/highwaydelite/internal/cache"
	"github.com/omegaopinmthechat/highwaydelite/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSlots() []model.TimeSlot {
	return []model.TimeSlot{
		{ID: 1, TimeLabel: "10:00", Available: 3, Total: 5},
		{ID: 2, TimeLabel: "17:00", Available: 5, Total: 5},
	}
}

func TestAvailabilityCacheWarmAndGet(t *testing.T) {
	ctx := context.Background()
	clearRedis(ctx)

	c := cache.NewAvailabilityCache(getTestRdb(), time.Minute)
	experienceID := uuid.New()

	err := c.Warm(ctx, experienceID, testSlots())
	require.NoError(t, err)

	availability, err := c.Get(ctx, experienceID)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"10:00": 3, "17:00": 5}, availability)
}

func TestAvailabilityCacheGetMiss(t *testing.T) {
	ctx := context.Background()
	clearRedis(ctx)

	c := cache.NewAvailabilityCache(getTestRdb(), time.Minute)

	_, err := c.Get(ctx, uuid.New())
	assert.ErrorIs(t, err, cache.ErrCacheMiss)
}

func TestAvailabilityCacheWarmReplacesPreviousHash(t *testing.T) {
	ctx := context.Background()
	clearRedis(ctx)

	c := cache.NewAvailabilityCache(getTestRdb(), time.Minute)
	experienceID := uuid.New()

	require.NoError(t, c.Warm(ctx, experienceID, testSlots()))

	// a second warm with fewer slots must not leave the old labels behind
	replacement := []model.TimeSlot{{ID: 3, TimeLabel: "08:00", Available: 7, Total: 7}}
	require.NoError(t, c.Warm(ctx, experienceID, replacement))

	availability, err := c.Get(ctx, experienceID)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"08:00": 7}, availability)
}

func TestAvailabilityCacheWarmEmptySlots(t *testing.T) {
	ctx := context.Background()
	clearRedis(ctx)

	c := cache.NewAvailabilityCache(getTestRdb(), time.Minute)
	experienceID := uuid.New()

	require.NoError(t, c.Warm(ctx, experienceID, testSlots()))
	require.NoError(t, c.Warm(ctx, experienceID, nil))

	// no slots means no hash, read falls back to Postgres
	_, err := c.Get(ctx, experienceID)
	assert.ErrorIs(t, err, cache.ErrCacheMiss)
}

func TestAvailabilityCacheInvalidate(t *testing.T) {
	ctx := context.Background()
	clearRedis(ctx)

	c := cache.NewAvailabilityCache(getTestRdb(), time.Minute)
	experienceID := uuid.New()

	require.NoError(t, c.Warm(ctx, experienceID, testSlots()))
	require.NoError(t, c.Invalidate(ctx, experienceID))

	_, err := c.Get(ctx, experienceID)
	assert.ErrorIs(t, err, cache.ErrCacheMiss)
}

func TestAvailabilityCacheInvalidateAll(t *testing.T) {
	ctx := context.Background()
	clearRedis(ctx)

	c := cache.NewAvailabilityCache(getTestRdb(), time.Minute)

	first := uuid.New()
	second := uuid.New()
	require.NoError(t, c.Warm(ctx, first, testSlots()))
	require.NoError(t, c.Warm(ctx, second, testSlots()))

	// an unrelated key must survive the pattern delete
	require.NoError(t, getTestRdb().Set(ctx, "unrelated:key", "1", time.Minute).Err())

	require.NoError(t, c.InvalidateAll(ctx))

	_, err := c.Get(ctx, first)
	assert.ErrorIs(t, err, cache.ErrCacheMiss)
	_, err = c.Get(ctx, second)
	assert.ErrorIs(t, err, cache.ErrCacheMiss)

	val, err := getTestRdb().Get(ctx, "unrelated:key").Result()
	require.NoError(t, err)
	assert.Equal(t, "1", val)
}

func TestAvailabilityCacheTTL(t *testing.T) {
	ctx := context.Background()
	clearRedis(ctx)

	c := cache.NewAvailabilityCache(getTestRdb(), time.Minute)
	experienceID := uuid.New()

	require.NoError(t, c.Warm(ctx, experienceID, testSlots()))

	ttl, err := getTestRdb().TTL(ctx, "experience:"+experienceID.String()+":availability").Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))
	assert.LessOrEqual(t, ttl, time.Minute)
}
