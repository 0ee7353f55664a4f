package settings

import (
	"context"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
)

const (
	cacheKey           = "store:settings"
	cacheGenerationKey = "store:settings:gen"
)

// cache holds the encoded settings next to a generation counter. Every Save
// bumps the generation, and a Load only fills the cache when the generation
// it read before querying the KV is still current.
type cache interface {
	get(ctx context.Context) (string, error)
	generation(ctx context.Context) (int64, error)
	setIfGeneration(ctx context.Context, gen int64, value []byte, ttl time.Duration) error
	invalidate(ctx context.Context) error
}

type redisCache struct {
	client *redis.Client
}

func (c redisCache) get(ctx context.Context) (string, error) {
	return c.client.Get(ctx, cacheKey).Result()
}

func (c redisCache) generation(ctx context.Context) (int64, error) {
	return readGeneration(ctx, c.client)
}

func (c redisCache) setIfGeneration(ctx context.Context, gen int64, value []byte, ttl time.Duration) error {
	err := c.client.Watch(ctx, func(tx *redis.Tx) error {
		cur, err := readGeneration(ctx, tx)
		if err != nil {
			return err
		}
		if cur != gen {
			return nil
		}
		_, err = tx.TxPipelined(ctx, func(p redis.Pipeliner) error {
			p.Set(ctx, cacheKey, value, ttl)
			return nil
		})
		return err
	}, cacheGenerationKey)
	if errors.Is(err, redis.TxFailedErr) {
		// a Save bumped the generation while the entry was being written
		return nil
	}
	return err
}

func (c redisCache) invalidate(ctx context.Context) error {
	_, err := c.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Incr(ctx, cacheGenerationKey)
		p.Del(ctx, cacheKey)
		return nil
	})
	return err
}

type getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func readGeneration(ctx context.Context, c getter) (int64, error) {
	gen, err := c.Get(ctx, cacheGenerationKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}
