package app

import (
	"github.com/yungbote/stylepath-backend/internal/http/middleware"
	"github.com/yungbote/stylepath-backend/internal/platform/logger"
)

type Middleware struct {
	Identity *middleware.IdentityMiddleware
}

func wireMiddleware(log *logger.Logger, cfg Config) Middleware {
	log.Info("Wiring middleware...")
	if cfg.JWTSecretKey == "" {
		log.Warn("JWT_SECRET_KEY is empty; every protected request will be rejected")
	}
	return Middleware{
		Identity: middleware.NewIdentityMiddleware(log, cfg.JWTSecretKey),
	}
}
