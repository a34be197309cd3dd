package bootstrap

import (
	"context"
	"crypto/tls"
	"strings"

	"github.com/redis/go-redis/v9"

	appconfig "github.com/wolfman30/coaching-intake/internal/config"
	"github.com/wolfman30/coaching-intake/internal/intake"
	"github.com/wolfman30/coaching-intake/pkg/logging"
)

// BuildRedisClient returns a configured Redis client or nil when disabled.
// When verify is true, a ping is issued and failures return nil.
func BuildRedisClient(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger, verify bool) *redis.Client {
	if cfg == nil || strings.TrimSpace(cfg.RedisAddr) == "" {
		return nil
	}
	if logger == nil {
		logger = logging.Default()
	}
	if ctx == nil {
		ctx = context.Background()
	}

	redisOptions := &redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	}
	if cfg.RedisTLS {
		redisOptions.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	client := redis.NewClient(redisOptions)
	if !verify {
		return client
	}
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("redis not available", "error", err)
		_ = client.Close()
		return nil
	}
	return client
}

// BuildDraftStorage keeps drafts in Redis when a client is available and in
// process memory otherwise. The second return names the backend for logging.
func BuildDraftStorage(client *redis.Client, cfg *appconfig.Config) (intake.Storage, string) {
	if client == nil {
		return intake.NewMemoryStorage(), "memory"
	}
	var ttl = intake.DefaultDraftTTL
	if cfg != nil && cfg.DraftTTL > 0 {
		ttl = cfg.DraftTTL
	}
	return intake.NewRedisStorage(client, ttl, nil), "redis"
}
