package services

import (
	"context"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/yungbote/stylepath-backend/internal/data/aggregates"
	"github.com/yungbote/stylepath-backend/internal/data/repos"
	types "github.com/yungbote/stylepath-backend/internal/domain"
	domainagg "github.com/yungbote/stylepath-backend/internal/domain/aggregates"
	"github.com/yungbote/stylepath-backend/internal/observability"
	"github.com/yungbote/stylepath-backend/internal/pkg/dbctx"
	"github.com/yungbote/stylepath-backend/internal/platform/logger"
)

// SectionContent is what a learner is served for one section.
type SectionContent struct {
	Section    *types.CourseSection `json:"section"`
	Resolution types.Resolution     `json:"resolution"`
}

type ContentService interface {
	// Resolve picks the variant for styleID. The returned variant carries answer keys
	// and must not be served to learners as-is. Only store faults are errors.
	Resolve(ctx context.Context, sectionID uuid.UUID, styleID *uuid.UUID) (types.Resolution, error)
	// ResolveForLearner resolves against the learner's current style (or styleOverride)
	// and strips answer keys.
	ResolveForLearner(ctx context.Context, learnerID, sectionID uuid.UUID, styleOverride *uuid.UUID) (*SectionContent, error)
	Variants(ctx context.Context, sectionID uuid.UUID) ([]*types.ContentVariant, error)
	InvalidateSections(ctx context.Context, sectionIDs ...uuid.UUID)
}

type contentService struct {
	log      *logger.Logger
	sections repos.CourseSectionRepo
	variants repos.ContentVariantRepo
	learners LearnerService
	cache    VariantCache
	metrics  *observability.Metrics
}

func NewContentService(
	baseLog *logger.Logger,
	sections repos.CourseSectionRepo,
	variants repos.ContentVariantRepo,
	learners LearnerService,
	cache VariantCache,
	metrics *observability.Metrics,
) ContentService {
	if cache == nil {
		cache = NewNoopVariantCache()
	}
	return &contentService{
		log:      baseLog.With("service", "ContentService"),
		sections: sections,
		variants: variants,
		learners: learners,
		cache:    cache,
		metrics:  metrics,
	}
}

func (s *contentService) Variants(ctx context.Context, sectionID uuid.UUID) ([]*types.ContentVariant, error) {
	if cached, ok := s.cache.Get(ctx, sectionID); ok {
		return cached, nil
	}
	rows, err := s.variants.GetBySectionID(dbctx.With(ctx), sectionID)
	if err != nil {
		return nil, aggregates.MapError("content.variants", err)
	}
	s.cache.Set(ctx, sectionID, rows)
	return rows, nil
}

func (s *contentService) Resolve(ctx context.Context, sectionID uuid.UUID, styleID *uuid.UUID) (res types.Resolution, err error) {
	ctx, span := observability.StartSpan(ctx, "content.resolve", attribute.String("section_id", sectionID.String()))
	defer func() { observability.EndSpan(span, err) }()

	variants, err := s.Variants(ctx, sectionID)
	if err != nil {
		return types.Resolution{}, err
	}
	res = types.SelectVariant(variants, styleID)
	s.metrics.IncResolution(string(res.Status))
	span.SetAttributes(attribute.String("resolution", string(res.Status)))
	return res, nil
}

func (s *contentService) ResolveForLearner(ctx context.Context, learnerID, sectionID uuid.UUID, styleOverride *uuid.UUID) (*SectionContent, error) {
	section, err := s.sections.GetByID(dbctx.With(ctx), sectionID)
	if err != nil {
		return nil, aggregates.MapError("content.section", err)
	}
	if section == nil {
		return nil, domainagg.NewError(domainagg.CodeNotFound, "content.resolve", "section not found", nil)
	}

	styleID := styleOverride
	if styleID == nil && learnerID != uuid.Nil {
		styleID, err = s.learners.StyleOf(ctx, learnerID)
		if err != nil {
			return nil, err
		}
	}

	res, err := s.Resolve(ctx, sectionID, styleID)
	if err != nil {
		return nil, err
	}
	if res.Status == types.ResolutionNotConfigured {
		s.log.Info("section has no authored content", "section_id", sectionID, "kind", section.Kind)
	}
	res.Variant = res.Variant.ForLearner()
	return &SectionContent{Section: section, Resolution: res}, nil
}

func (s *contentService) InvalidateSections(ctx context.Context, sectionIDs ...uuid.UUID) {
	s.cache.Invalidate(ctx, sectionIDs...)
}
