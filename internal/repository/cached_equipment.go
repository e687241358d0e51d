package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Freeeeeet/lab_booking/internal/model"
	"github.com/Freeeeeet/lab_booking/internal/service"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const equipmentCachePrefix = "labbooking:equipment:"

// RedisCache подмножество *redis.Client, которое нужно кэшу
type RedisCache interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// CachedEquipmentLookup кэширует оборудование в Redis на время ttl.
// Недоступный Redis не ломает чтение: запрос уходит в базу.
type CachedEquipmentLookup struct {
	next   service.EquipmentLookup
	cache  RedisCache
	ttl    time.Duration
	logger *zap.Logger
}

func NewCachedEquipmentLookup(next service.EquipmentLookup, cache RedisCache, ttl time.Duration, logger *zap.Logger) *CachedEquipmentLookup {
	return &CachedEquipmentLookup{next: next, cache: cache, ttl: ttl, logger: logger}
}

func (c *CachedEquipmentLookup) GetEquipment(ctx context.Context, id uuid.UUID) (*model.Equipment, error) {
	key := equipmentCachePrefix + id.String()

	raw, err := c.cache.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var e model.Equipment
		if err := json.Unmarshal(raw, &e); err == nil {
			return &e, nil
		}
		c.logger.Warn("Dropping corrupt equipment cache entry", zap.String("key", key))
		_ = c.cache.Del(ctx, key).Err()
	case !errors.Is(err, redis.Nil):
		c.logger.Warn("Equipment cache unavailable", zap.Error(err))
	}

	e, err := c.next.GetEquipment(ctx, id)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, nil
	}

	payload, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("marshal equipment: %w", err)
	}
	if err := c.cache.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		c.logger.Warn("Failed to cache equipment", zap.String("key", key), zap.Error(err))
	}
	return e, nil
}

// Invalidate сбрасывает запись после изменения оборудования
func (c *CachedEquipmentLookup) Invalidate(ctx context.Context, id uuid.UUID) error {
	if err := c.cache.Del(ctx, equipmentCachePrefix+id.String()).Err(); err != nil {
		return fmt.Errorf("invalidate equipment cache: %w", err)
	}
	return nil
}
