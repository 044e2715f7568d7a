package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/yungbote/stylepath-backend/internal/data/aggregates"
	"github.com/yungbote/stylepath-backend/internal/data/repos"
	types "github.com/yungbote/stylepath-backend/internal/domain"
	domainagg "github.com/yungbote/stylepath-backend/internal/domain/aggregates"
	"github.com/yungbote/stylepath-backend/internal/pkg/dbctx"
	"github.com/yungbote/stylepath-backend/internal/platform/logger"
)

type LearnerService interface {
	// GetMe returns the learner row, creating a bare one on first contact.
	GetMe(ctx context.Context, learnerID uuid.UUID) (*types.Learner, error)
	// SetStyle assigns (or with nil clears) the learner's style.
	SetStyle(ctx context.Context, learnerID uuid.UUID, styleID *uuid.UUID) (*types.Learner, error)
	// StyleOf returns the current style without creating a learner row.
	StyleOf(ctx context.Context, learnerID uuid.UUID) (*uuid.UUID, error)
	ListStyles(ctx context.Context) ([]*types.LearningStyle, error)
}

type learnerService struct {
	log      *logger.Logger
	learners repos.LearnerRepo
	styles   repos.LearningStyleRepo
}

func NewLearnerService(baseLog *logger.Logger, learners repos.LearnerRepo, styles repos.LearningStyleRepo) LearnerService {
	return &learnerService{
		log:      baseLog.With("service", "LearnerService"),
		learners: learners,
		styles:   styles,
	}
}

func requireLearner(op string, learnerID uuid.UUID) error {
	if learnerID == uuid.Nil {
		return domainagg.NewError(domainagg.CodeValidation, op, "learner id is required", nil)
	}
	return nil
}

func (s *learnerService) GetMe(ctx context.Context, learnerID uuid.UUID) (*types.Learner, error) {
	if err := requireLearner("learner.get", learnerID); err != nil {
		return nil, err
	}
	l, err := s.learners.Ensure(dbctx.With(ctx), learnerID)
	if err != nil {
		return nil, aggregates.MapError("learner.get", err)
	}
	return l, nil
}

func (s *learnerService) SetStyle(ctx context.Context, learnerID uuid.UUID, styleID *uuid.UUID) (*types.Learner, error) {
	if err := requireLearner("learner.set_style", learnerID); err != nil {
		return nil, err
	}
	dbc := dbctx.With(ctx)
	if styleID != nil {
		style, err := s.styles.GetByID(dbc, *styleID)
		if err != nil {
			return nil, aggregates.MapError("learner.set_style", err)
		}
		if style == nil {
			return nil, domainagg.NewError(domainagg.CodeValidation, "learner.set_style", "unknown learning style", nil)
		}
	}
	if _, err := s.learners.Ensure(dbc, learnerID); err != nil {
		return nil, aggregates.MapError("learner.set_style", err)
	}
	if err := s.learners.SetStyle(dbc, learnerID, styleID); err != nil {
		return nil, aggregates.MapError("learner.set_style", err)
	}
	s.log.Info("learner style updated", "learner_id", learnerID, "style_id", styleID)
	l, err := s.learners.GetByID(dbc, learnerID)
	if err != nil {
		return nil, aggregates.MapError("learner.set_style", err)
	}
	return l, nil
}

func (s *learnerService) StyleOf(ctx context.Context, learnerID uuid.UUID) (*uuid.UUID, error) {
	l, err := s.learners.GetByID(dbctx.With(ctx), learnerID)
	if err != nil {
		return nil, aggregates.MapError("learner.style", err)
	}
	if l == nil {
		return nil, nil
	}
	return l.StyleID, nil
}

func (s *learnerService) ListStyles(ctx context.Context) ([]*types.LearningStyle, error) {
	rows, err := s.styles.List(dbctx.With(ctx))
	if err != nil {
		return nil, aggregates.MapError("learner.styles", err)
	}
	return rows, nil
}
