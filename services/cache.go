package services

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"yatube/config"
	"yatube/logging"
)

const (
	// DefaultFeedTTL - окно устаревания кеша главной ленты
	DefaultFeedTTL = 20 * time.Second
	// FeedPagePrefix - префикс ключей отрендеренных страниц ленты
	FeedPagePrefix = "feed_page:"
)

var RedisClient *redis.Client

func InitRedis() error {
	if config.AppConfig == nil {
		return fmt.Errorf("AppConfig is not loaded")
	}

	redisConfig := config.AppConfig.Redis
	RedisClient = redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", redisConfig.Host, redisConfig.Port),
		Password: redisConfig.Password,
		DB:       redisConfig.DB,
	})

	_, err := RedisClient.Ping(context.Background()).Result()
	if err != nil {
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return nil
}

func CloseRedis() error {
	if RedisClient != nil {
		return RedisClient.Close()
	}
	return nil
}

// FeedTTL возвращает настроенное время жизни кеша страницы ленты
func FeedTTL() time.Duration {
	if config.AppConfig != nil && config.AppConfig.Cache.FeedTTLSeconds > 0 {
		return time.Duration(config.AppConfig.Cache.FeedTTLSeconds) * time.Second
	}
	return DefaultFeedTTL
}

// PageCache мемоизирует отрендеренный вывод страницы на время TTL.
// Кеш совещательный: недоступность или ошибка читается как промах,
// запись не обязана удаться. Записи инвалидируются только истечением
// TTL, не записями в хранилище.
type PageCache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration)
}

type RedisPageCache struct {
	client *redis.Client
}

func NewRedisPageCache(client *redis.Client) *RedisPageCache {
	return &RedisPageCache{client: client}
}

func (c *RedisPageCache) Get(ctx context.Context, key string) ([]byte, bool) {
	if c == nil || c.client == nil {
		return nil, false
	}
	data, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		logging.L().Debugw("page cache get failed", "key", key, "err", err)
		return nil, false
	}
	return data, true
}

func (c *RedisPageCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	if c == nil || c.client == nil {
		return
	}
	if err := c.client.Set(ctx, key, value, ttl).Err(); err != nil {
		logging.L().Debugw("page cache set failed", "key", key, "err", err)
	}
}
