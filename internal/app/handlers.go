package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/stylepath-backend/internal/http/handlers"
	"github.com/yungbote/stylepath-backend/internal/platform/logger"
)

type Handlers struct {
	Content   *handlers.ContentHandler
	Progress  *handlers.ProgressHandler
	Attempt   *handlers.AttemptHandler
	Analytics *handlers.AnalyticsHandler
	Learner   *handlers.LearnerHandler
	Health    *handlers.HealthHandler
}

func wireHandlers(log *logger.Logger, db *gorm.DB, s Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Content:   handlers.NewContentHandler(s.Content),
		Progress:  handlers.NewProgressHandler(s.Progress),
		Attempt:   handlers.NewAttemptHandler(s.Attempt),
		Analytics: handlers.NewAnalyticsHandler(s.Analytics),
		Learner:   handlers.NewLearnerHandler(s.Learner),
		Health:    handlers.NewHealthHandler(db),
	}
}
