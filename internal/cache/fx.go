package cache

import (
	"github.com/konektanet/konekta/internal/config"
	redis "github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

func Provide(cfg config.Config, log *zap.Logger) Cache {
	if cfg.RedisAddr == "" {
		return NewMemory()
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	log.Info("cache backed by redis", zap.String("addr", cfg.RedisAddr))
	return NewRedis(client)
}

// Module wires the report cache, redis-backed when REDIS_ADDR is set.
var Module = fx.Module("cache",
	fx.Provide(Provide),
)
