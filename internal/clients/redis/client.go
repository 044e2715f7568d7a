package redis

import (
	"context"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/stylepath-backend/internal/platform/logger"
)

type Config struct {
	Addr     string
	Password string
	DB       int
}

// NewClient dials redis and verifies the connection. An empty address yields
// (nil, nil) so callers can fall back to in-process behaviour.
func NewClient(ctx context.Context, cfg Config, log *logger.Logger) (*goredis.Client, error) {
	addr := strings.TrimSpace(cfg.Addr)
	if addr == "" {
		if log != nil {
			log.Info("REDIS_ADDR not set; redis features disabled")
		}
		return nil, nil
	}
	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: 5 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return rdb, nil
}
