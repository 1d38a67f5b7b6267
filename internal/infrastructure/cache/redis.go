package cache

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/smartshop/backend/internal/domain"
)

const defaultKeyPrefix = "smartshop:aisle_colors"

// assignColor stores ARGV[2] under field ARGV[1] of hash KEYS[1] unless the
// field exists, appends new fields to list KEYS[2], and returns the stored
// value. Hash and order list change together or not at all.
var assignColor = redis.NewScript(`
if redis.call('HSETNX', KEYS[1], ARGV[1], ARGV[2]) == 1 then
	redis.call('RPUSH', KEYS[2], ARGV[1])
	return ARGV[2]
end
return redis.call('HGET', KEYS[1], ARGV[1])
`)

// RedisColorCache shares aisle colors between processes.
// The first writer wins, so every process agrees on a color.
type RedisColorCache struct {
	client   redis.UniversalClient
	hashKey  string
	orderKey string
	generate ColorFunc
}

// NewRedisColorCache creates a Redis-backed color cache
func NewRedisColorCache(client redis.UniversalClient, keyPrefix string, generate ColorFunc) *RedisColorCache {
	if keyPrefix == "" {
		keyPrefix = defaultKeyPrefix
	}
	if generate == nil {
		generate = RandomColor
	}
	return &RedisColorCache{
		client:   client,
		hashKey:  keyPrefix,
		orderKey: keyPrefix + ":order",
		generate: generate,
	}
}

// NewRedisClient parses a redis:// URL and pings the server
func NewRedisClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("%w: redis ping failed: %v", domain.ErrCacheUnavailable, err)
	}
	return client, nil
}

// ColorFor returns the aisle's color, assigning one on first sight
func (c *RedisColorCache) ColorFor(ctx context.Context, aisle string) (domain.AisleColor, error) {
	candidate := c.generate(aisle)
	candidate.Aisle = aisle

	payload, err := json.Marshal(candidate)
	if err != nil {
		return domain.AisleColor{}, err
	}

	stored, err := assignColor.Run(ctx, c.client, []string{c.hashKey, c.orderKey}, aisle, payload).Text()
	if err != nil {
		return domain.AisleColor{}, fmt.Errorf("%w: %v", domain.ErrCacheUnavailable, err)
	}
	return decodeColor(stored)
}

// All returns every assigned color in first-seen order
func (c *RedisColorCache) All(ctx context.Context) ([]domain.AisleColor, error) {
	aisles, err := c.client.LRange(ctx, c.orderKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCacheUnavailable, err)
	}
	if len(aisles) == 0 {
		return []domain.AisleColor{}, nil
	}

	values, err := c.client.HMGet(ctx, c.hashKey, aisles...).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCacheUnavailable, err)
	}

	colors := make([]domain.AisleColor, 0, len(values))
	for _, value := range values {
		raw, ok := value.(string)
		if !ok {
			continue
		}
		color, err := decodeColor(raw)
		if err != nil {
			return nil, err
		}
		colors = append(colors, color)
	}
	return colors, nil
}

func decodeColor(raw string) (domain.AisleColor, error) {
	var color domain.AisleColor
	if err := json.Unmarshal([]byte(raw), &color); err != nil {
		return domain.AisleColor{}, fmt.Errorf("decode aisle color: %w", err)
	}
	return color, nil
}
