package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const subscriptionKeyPrefix = "referral_bot:subscription:"

type Config struct {
	Addr            string        `mapstructure:"addr"`
	Password        string        `mapstructure:"password"`
	DB              int           `mapstructure:"db"`
	SubscriptionTTL time.Duration `mapstructure:"subscriptionTTL"`
}

// NewClient connects to Redis and verifies the connection.
func NewClient(ctx context.Context, cfg Config) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if _, err := rdb.Ping(ctx).Result(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return rdb, nil
}

// SubscriptionCache keeps channel membership verdicts for a fixed TTL.
type SubscriptionCache struct {
	rdb redis.Cmdable
	ttl time.Duration
}

func NewSubscriptionCache(rdb redis.Cmdable, ttl time.Duration) *SubscriptionCache {
	return &SubscriptionCache{
		rdb: rdb,
		ttl: ttl,
	}
}

func subscriptionKey(userID int64) string {
	return fmt.Sprintf("%s%d", subscriptionKeyPrefix, userID)
}

func (c *SubscriptionCache) GetSubscription(ctx context.Context, userID int64) (bool, bool, error) {
	value, err := c.rdb.Get(ctx, subscriptionKey(userID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, false, nil
		}
		return false, false, err
	}
	return value == "1", true, nil
}

func (c *SubscriptionCache) SetSubscription(ctx context.Context, userID int64, subscribed bool) error {
	value := "0"
	if subscribed {
		value = "1"
	}
	return c.rdb.Set(ctx, subscriptionKey(userID), value, c.ttl).Err()
}
