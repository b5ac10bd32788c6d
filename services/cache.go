package services

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/bookahead/backend/models"
	"github.com/bookahead/backend/utils"
)

// RestaurantCache stores the full restaurant listing. Listings are kept per
// generation: GetAll reports the generation a miss must be filled under, and
// Invalidate starts a new one, so a fill computed from a read that raced a
// write lands under a generation nobody reads anymore.
type RestaurantCache interface {
	GetAll(ctx context.Context) ([]models.Restaurant, uint64, bool)
	SetAll(ctx context.Context, generation uint64, restaurants []models.Restaurant)
	Invalidate(ctx context.Context)
}

const (
	restaurantGenerationKey = "bookahead:restaurants:generation"
	restaurantListKeyPrefix = "bookahead:restaurants:all:"
)

func restaurantListKey(generation uint64) string {
	return restaurantListKeyPrefix + strconv.FormatUint(generation, 10)
}

type RedisRestaurantCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisRestaurantCache(rdb *redis.Client, ttl time.Duration) *RedisRestaurantCache {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &RedisRestaurantCache{rdb: rdb, ttl: ttl}
}

func (c *RedisRestaurantCache) generation(ctx context.Context) (uint64, error) {
	gen, err := c.rdb.Get(ctx, restaurantGenerationKey).Uint64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

func (c *RedisRestaurantCache) GetAll(ctx context.Context) ([]models.Restaurant, uint64, bool) {
	gen, err := c.generation(ctx)
	if err != nil {
		utils.ErrorLogger.Printf("restaurant cache generation: %v", err)
		return nil, 0, false
	}
	bs, err := c.rdb.Get(ctx, restaurantListKey(gen)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			utils.ErrorLogger.Printf("restaurant cache get: %v", err)
		}
		return nil, gen, false
	}
	var restaurants []models.Restaurant
	if err := json.Unmarshal(bs, &restaurants); err != nil {
		return nil, gen, false
	}
	return restaurants, gen, true
}

func (c *RedisRestaurantCache) SetAll(ctx context.Context, generation uint64, restaurants []models.Restaurant) {
	bs, err := json.Marshal(restaurants)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, restaurantListKey(generation), bs, c.ttl).Err(); err != nil {
		utils.ErrorLogger.Printf("restaurant cache set: %v", err)
	}
}

// Invalidate moves readers to a fresh generation; older listings expire on their own.
func (c *RedisRestaurantCache) Invalidate(ctx context.Context) {
	if err := c.rdb.Incr(ctx, restaurantGenerationKey).Err(); err != nil {
		utils.ErrorLogger.Printf("restaurant cache invalidate: %v", err)
	}
}
