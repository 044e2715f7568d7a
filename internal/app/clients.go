package app

import (
	"context"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/stylepath-backend/internal/clients/redis"
	"github.com/yungbote/stylepath-backend/internal/observability"
	"github.com/yungbote/stylepath-backend/internal/platform/logger"
	"github.com/yungbote/stylepath-backend/internal/services"
)

type Clients struct {
	Redis        *goredis.Client
	VariantCache services.VariantCache
	Events       services.EventPublisher
}

// wireClients connects optional infrastructure. Without REDIS_ADDR (or when redis
// is unreachable) the cache and event bus fall back to no-ops.
func wireClients(ctx context.Context, log *logger.Logger, cfg Config, metrics *observability.Metrics) Clients {
	log.Info("Wiring clients...")
	out := Clients{
		VariantCache: services.NewNoopVariantCache(),
		Events:       services.NewNoopEventPublisher(),
	}
	rdb, err := redis.NewClient(ctx, cfg.Redis, log)
	if err != nil {
		log.Warn("redis unavailable; variant cache and events disabled", "error", err)
		return out
	}
	if rdb == nil {
		return out
	}
	out.Redis = rdb
	out.VariantCache = redis.NewVariantCache(rdb, cfg.VariantCacheTTL, log, metrics)
	out.Events = redis.NewEventBus(rdb, cfg.RedisChannel, log)
	return out
}

func (c Clients) Close() {
	if c.Redis != nil {
		_ = c.Redis.Close()
	}
}
