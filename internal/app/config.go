package app

import (
	"time"

	"github.com/yungbote/stylepath-backend/internal/clients/redis"
	"github.com/yungbote/stylepath-backend/internal/data/db"
	"github.com/yungbote/stylepath-backend/internal/http/middleware"
	"github.com/yungbote/stylepath-backend/internal/observability"
	"github.com/yungbote/stylepath-backend/internal/platform/envutil"
	"github.com/yungbote/stylepath-backend/internal/platform/logger"
)

type Config struct {
	Port string

	DB    db.Config
	Redis redis.Config

	RedisChannel    string
	VariantCacheTTL time.Duration

	JWTSecretKey        string
	ProgressSyncTimeout time.Duration

	MetricsEnabled bool
	Otel           observability.OtelConfig
	CORSOrigins    []string
}

func LoadConfig(log *logger.Logger) Config {
	return Config{
		Port: envutil.String("PORT", "8080", log),
		DB: db.Config{
			Driver:           envutil.String("DB_DRIVER", "postgres", log),
			PostgresHost:     envutil.String("POSTGRES_HOST", "localhost", log),
			PostgresPort:     envutil.String("POSTGRES_PORT", "5432", log),
			PostgresUser:     envutil.String("POSTGRES_USER", "postgres", log),
			PostgresPassword: envutil.String("POSTGRES_PASSWORD", "", log),
			PostgresName:     envutil.String("POSTGRES_NAME", "stylepath", log),
			SQLitePath:       envutil.String("SQLITE_PATH", "stylepath.db", log),
			MaxOpenConns:     envutil.Int("DB_MAX_OPEN_CONNS", 20, log),
			MaxIdleConns:     envutil.Int("DB_MAX_IDLE_CONNS", 10, log),
			ConnMaxIdle:      envutil.Seconds("DB_CONN_MAX_IDLE_SECONDS", 5*time.Minute, log),
			SlowQuery:        envutil.Millis("DB_SLOW_QUERY_MS", 500*time.Millisecond, log),
		},
		Redis: redis.Config{
			Addr:     envutil.String("REDIS_ADDR", "", log),
			Password: envutil.String("REDIS_PASSWORD", "", log),
			DB:       envutil.Int("REDIS_DB", 0, log),
		},
		RedisChannel:        envutil.String("REDIS_CHANNEL", "stylepath.events", log),
		VariantCacheTTL:     envutil.Seconds("VARIANT_CACHE_TTL_SECONDS", 5*time.Minute, log),
		JWTSecretKey:        envutil.String("JWT_SECRET_KEY", "", log),
		ProgressSyncTimeout: envutil.Millis("PROGRESS_SYNC_TIMEOUT_MS", 5*time.Second, log),
		MetricsEnabled:      envutil.Bool("METRICS_ENABLED", true),
		Otel: observability.OtelConfig{
			Enabled:     envutil.Bool("OTEL_ENABLED", false),
			ServiceName: envutil.String("OTEL_SERVICE_NAME", "stylepath-api", log),
			Environment: envutil.String("APP_ENV", "development", log),
			Version:     envutil.String("APP_VERSION", "dev", log),
			Endpoint:    envutil.String("OTEL_EXPORTER_OTLP_ENDPOINT", "", log),
			Headers:     observability.ParseHeaders(envutil.String("OTEL_EXPORTER_OTLP_HEADERS", "", log)),
			Insecure:    envutil.Bool("OTEL_EXPORTER_OTLP_INSECURE", false),
			SampleRatio: envutil.Float("OTEL_SAMPLER_RATIO", 1.0),
		},
		CORSOrigins: envutil.CSV("CORS_ORIGINS", middleware.DefaultCORSOrigins),
	}
}
