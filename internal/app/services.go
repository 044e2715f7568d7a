package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/stylepath-backend/internal/catalog"
	"github.com/yungbote/stylepath-backend/internal/data/aggregates"
	"github.com/yungbote/stylepath-backend/internal/observability"
	"github.com/yungbote/stylepath-backend/internal/platform/logger"
	"github.com/yungbote/stylepath-backend/internal/services"
)

type Services struct {
	Learner   services.LearnerService
	Content   services.ContentService
	Progress  services.ProgressService
	Attempt   services.AttemptService
	Analytics services.AnalyticsService
	Catalog   *catalog.Importer
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, r Repos, clients Clients, metrics *observability.Metrics) Services {
	log.Info("Wiring services...")
	deps := aggregates.BaseDeps{
		DB:     db,
		Runner: aggregates.NewGormTxRunner(db),
		Hooks:  aggregates.NewObservabilityHooks(metrics),
	}

	learner := services.NewLearnerService(log, r.Learner, r.LearningStyle)
	content := services.NewContentService(log, r.CourseSection, r.ContentVariant, learner, clients.VariantCache, metrics)
	progress := services.NewProgressService(deps, log, r.Course, r.CourseSection, r.SectionProgress, r.Enrollment, r.Learner, clients.Events, metrics)
	attempt := services.NewAttemptService(deps, log, r.CourseSection, r.ContentVariant, r.Attempt, content, learner, progress, clients.Events, metrics,
		services.AttemptServiceOptions{ProgressSyncTimeout: cfg.ProgressSyncTimeout},
	)

	return Services{
		Learner:   learner,
		Content:   content,
		Progress:  progress,
		Attempt:   attempt,
		Analytics: services.NewAnalyticsService(log, r.Analytics, r.LearningStyle),
		Catalog:   catalog.NewImporter(deps, log, r.LearningStyle, r.Course, r.CourseSection, r.ContentVariant, content),
	}
}
