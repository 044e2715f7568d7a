package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/stylepath-backend/internal/http/handlers"
	httpMW "github.com/yungbote/stylepath-backend/internal/http/middleware"
	"github.com/yungbote/stylepath-backend/internal/observability"
	"github.com/yungbote/stylepath-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log         *logger.Logger
	Metrics     *observability.Metrics
	CORSOrigins []string
	// TracingService enables otelgin spans under this service name when set.
	TracingService string

	IdentityMiddleware *httpMW.IdentityMiddleware

	ContentHandler   *httpH.ContentHandler
	ProgressHandler  *httpH.ProgressHandler
	AttemptHandler   *httpH.AttemptHandler
	AnalyticsHandler *httpH.AnalyticsHandler
	LearnerHandler   *httpH.LearnerHandler
	HealthHandler    *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.TracingService != "" {
		r.Use(otelgin.Middleware(cfg.TracingService))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.Metrics(cfg.Metrics))
	r.Use(httpMW.CORS(cfg.CORSOrigins))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}
	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapF(cfg.Metrics.WriteHTTP))
	}

	api := r.Group("/api")
	{
		if cfg.LearnerHandler != nil {
			api.GET("/learning-styles", cfg.LearnerHandler.ListStyles)
		}
	}

	protected := api.Group("/")
	{
		if cfg.IdentityMiddleware != nil {
			protected.Use(cfg.IdentityMiddleware.RequireIdentity())
		}

		// Learner
		if cfg.LearnerHandler != nil {
			protected.GET("/me", cfg.LearnerHandler.GetMe)
			protected.PUT("/me/style", cfg.LearnerHandler.SetStyle)
		}

		// Content
		if cfg.ContentHandler != nil {
			protected.GET("/sections/:id/content", cfg.ContentHandler.GetSectionContent)
		}

		// Progress
		if cfg.ProgressHandler != nil {
			protected.POST("/sections/:id/complete", cfg.ProgressHandler.CompleteSection)
			protected.GET("/courses/:id/progress", cfg.ProgressHandler.GetCourseProgress)
			protected.POST("/courses/:id/progress/reset", cfg.ProgressHandler.ResetProgress)
			protected.POST("/courses/:id/enroll", cfg.ProgressHandler.Enroll)
			protected.DELETE("/courses/:id/enroll", cfg.ProgressHandler.Unenroll)
		}

		// Attempts
		if cfg.AttemptHandler != nil {
			protected.POST("/sections/:id/attempts", cfg.AttemptHandler.SubmitAttempt)
			protected.GET("/sections/:id/attempts", cfg.AttemptHandler.ListAttempts)
			protected.GET("/attempts/:id", cfg.AttemptHandler.GetAttempt)
		}

		// Analytics
		if cfg.AnalyticsHandler != nil {
			protected.GET("/analytics", cfg.AnalyticsHandler.GetAnalytics)
		}
	}

	return r
}
