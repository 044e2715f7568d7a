package app

import (
	"github.com/gin-gonic/gin"

	httpx "github.com/yungbote/stylepath-backend/internal/http"
	"github.com/yungbote/stylepath-backend/internal/observability"
	"github.com/yungbote/stylepath-backend/internal/platform/logger"
)

func wireRouter(log *logger.Logger, cfg Config, h Handlers, mw Middleware, metrics *observability.Metrics) *gin.Engine {
	rc := httpx.RouterConfig{
		Log:                log,
		Metrics:            metrics,
		CORSOrigins:        cfg.CORSOrigins,
		IdentityMiddleware: mw.Identity,
		ContentHandler:     h.Content,
		ProgressHandler:    h.Progress,
		AttemptHandler:     h.Attempt,
		AnalyticsHandler:   h.Analytics,
		LearnerHandler:     h.Learner,
		HealthHandler:      h.Health,
	}
	if cfg.Otel.Enabled {
		rc.TracingService = cfg.Otel.ServiceName
	}
	return httpx.NewRouter(rc)
}
