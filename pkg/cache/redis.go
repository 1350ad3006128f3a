package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/soumsmith/vie-ecole-gateway/pkg/config"
	appErrors "github.com/soumsmith/vie-ecole-gateway/pkg/errors"
)

// Redis is the shared Store for multi-replica deployments. It keeps the same
// read-time staleness contract as Memory: entries carry their write timestamp
// and Get decides freshness, Redis itself never expires them.
type Redis struct {
	client *redis.Client
	now    func() time.Time
}

// NewRedis connects and pings the configured Redis instance.
func NewRedis(cfg config.RedisConfig) (*Redis, error) {
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}

	return &Redis{client: client, now: time.Now}, nil
}

// Get implements Store.
func (r *Redis) Get(ctx context.Context, key string, maxAge time.Duration, dest interface{}) error {
	raw, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return appErrors.ErrCacheMiss
		}
		return err
	}
	var e entry
	if err := json.Unmarshal(raw, &e); err != nil {
		return err
	}
	if maxAge > 0 && r.now().Sub(e.Timestamp) > maxAge {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(e.Data, dest)
}

// Set implements Store.
func (r *Redis) Set(ctx context.Context, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	raw, err := json.Marshal(entry{Data: data, Timestamp: r.now()})
	if err != nil {
		return err
	}
	return r.client.Set(ctx, key, raw, 0).Err()
}

// Delete implements Store.
func (r *Redis) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, key).Err()
}

// Close releases the underlying client.
func (r *Redis) Close() error {
	return r.client.Close()
}
