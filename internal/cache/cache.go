// cache — опциональный кэш списочных эндпойнтов (туры/города/категории).
// Кэш может отсутствовать (nil) — тогда каждый вызов идёт в сеть,
// что соответствует базовому поведению приложения.
package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache — минимальный контракт кэша ответов.
// Значения хранятся сырыми JSON-байтами ответа, без повторной сериализации.
type Cache interface {
	// Get возвращает значение и признак его наличия.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set сохраняет значение с TTL.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// Close освобождает ресурсы кэша.
	Close() error
}

type redisCache struct {
	rdb    *redis.Client
	prefix string
}

// NewRedis создаёт Redis-кэш из URL (например, redis://:pass@host:6379/0).
// Если prefix пустой — используется "travel:list:".
// Применим, когда SDK встроен в долгоживущий процесс (бот, шлюз)
// и списки разумно разделить между инстансами.
func NewRedis(redisURL, prefix string) (Cache, error) {
	if prefix == "" {
		prefix = "travel:list:"
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	rdb := redis.NewClient(opt)

	// Fail-fast на старте.
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, err
	}

	return &redisCache{rdb: rdb, prefix: prefix}, nil
}

func (c *redisCache) key(k string) string { return c.prefix + k }

func (c *redisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	raw, err := c.rdb.Get(ctx, c.key(key)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, false, nil
		}

		return nil, false, err
	}

	return raw, true, nil
}

func (c *redisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return c.rdb.Set(ctx, c.key(key), value, ttl).Err()
}

func (c *redisCache) Close() error { return c.rdb.Close() }
