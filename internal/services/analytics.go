package services

import (
	"context"
	"sort"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"github.com/yungbote/stylepath-backend/internal/data/aggregates"
	"github.com/yungbote/stylepath-backend/internal/data/repos"
	types "github.com/yungbote/stylepath-backend/internal/domain"
	domainagg "github.com/yungbote/stylepath-backend/internal/domain/aggregates"
	"github.com/yungbote/stylepath-backend/internal/observability"
	"github.com/yungbote/stylepath-backend/internal/pkg/dbctx"
	"github.com/yungbote/stylepath-backend/internal/platform/logger"
)

// StyleBasis selects which style an attempt is attributed to.
type StyleBasis string

const (
	// StyleBasisCurrent groups by the learner's style at query time.
	StyleBasisCurrent StyleBasis = "current"
	// StyleBasisSnapshot groups by the style recorded on the attempt.
	StyleBasisSnapshot StyleBasis = "snapshot"
)

const (
	UnassignedStyleKey   = "unassigned"
	defaultDetailedLimit = 500
	maxDetailedLimit     = 5000
)

func ParseStyleBasis(raw string) (StyleBasis, error) {
	switch StyleBasis(raw) {
	case "", StyleBasisCurrent:
		return StyleBasisCurrent, nil
	case StyleBasisSnapshot:
		return StyleBasisSnapshot, nil
	}
	return "", domainagg.NewError(domainagg.CodeValidation, "analytics.style_basis", "style_basis must be current or snapshot", nil)
}

type AttemptSummary struct {
	Attempts  int64    `json:"attempts"`
	MeanScore *float64 `json:"mean_score"`
}

type StyleStat struct {
	StyleID        *uuid.UUID `json:"style_id"`
	StyleKey       string     `json:"style_key"`
	StyleName      string     `json:"style_name"`
	Attempts       int64      `json:"attempts"`
	MeanScore      float64    `json:"mean_score"`
	MeanDurationMs float64    `json:"mean_duration_ms"`
	SuccessRate    float64    `json:"success_rate"`
}

type SectionStat struct {
	SectionID uuid.UUID `json:"section_id"`
	Attempts  int64     `json:"attempts"`
	MeanScore *float64  `json:"mean_score"`
}

type Overview struct {
	Summary  AttemptSummary `json:"summary"`
	Sections []SectionStat  `json:"sections"`
	Styles   []StyleStat    `json:"styles"`
}

type AnalyticsService interface {
	Summary(ctx context.Context, f repos.AnalyticsFilter) (AttemptSummary, error)
	ByLearningStyle(ctx context.Context, f repos.AnalyticsFilter, basis StyleBasis) ([]StyleStat, error)
	Detailed(ctx context.Context, f repos.AnalyticsFilter, limit int) ([]repos.AnswerDetailRow, error)
	Overview(ctx context.Context, f repos.AnalyticsFilter) (*Overview, error)
}

type analyticsService struct {
	log       *logger.Logger
	analytics repos.AnalyticsRepo
	styles    repos.LearningStyleRepo
}

func NewAnalyticsService(baseLog *logger.Logger, analytics repos.AnalyticsRepo, styles repos.LearningStyleRepo) AnalyticsService {
	return &analyticsService{
		log:       baseLog.With("service", "AnalyticsService"),
		analytics: analytics,
		styles:    styles,
	}
}

func (s *analyticsService) Summary(ctx context.Context, f repos.AnalyticsFilter) (AttemptSummary, error) {
	row, err := s.analytics.Summary(dbctx.With(ctx), f)
	if err != nil {
		return AttemptSummary{}, aggregates.MapError("analytics.summary", err)
	}
	return AttemptSummary{Attempts: row.Attempts, MeanScore: row.MeanScore}, nil
}

func (s *analyticsService) ByLearningStyle(ctx context.Context, f repos.AnalyticsFilter, basis StyleBasis) (out []StyleStat, err error) {
	ctx, span := observability.StartSpan(ctx, "analytics.by_learning_style", attribute.String("basis", string(basis)))
	defer func() { observability.EndSpan(span, err) }()

	const op = "analytics.by_learning_style"
	dbc := dbctx.With(ctx)
	facts, err := s.analytics.AttemptFacts(dbc, f)
	if err != nil {
		return nil, aggregates.MapError(op, err)
	}
	styles, err := s.styles.List(dbc)
	if err != nil {
		return nil, aggregates.MapError(op, err)
	}
	return GroupByStyle(facts, styles, basis), nil
}

type styleAcc struct {
	styleID  *uuid.UUID
	count    int64
	scoreSum int64
	durSum   int64
}

// GroupByStyle aggregates completed attempts per style. Attempts with no style
// are grouped under UnassignedStyleKey, which sorts last.
func GroupByStyle(facts []repos.AttemptFact, styles []*types.LearningStyle, basis StyleBasis) []StyleStat {
	byID := make(map[uuid.UUID]*types.LearningStyle, len(styles))
	for _, st := range styles {
		byID[st.ID] = st
	}

	groups := map[uuid.UUID]*styleAcc{}
	for _, fact := range facts {
		sid := fact.CurrentStyleID
		if basis == StyleBasisSnapshot {
			sid = fact.SnapshotStyleID
		}
		key := uuid.Nil
		if sid != nil {
			key = *sid
		}
		acc := groups[key]
		if acc == nil {
			acc = &styleAcc{styleID: sid}
			groups[key] = acc
		}
		acc.count++
		acc.scoreSum += int64(fact.Score)
		acc.durSum += types.ElapsedMs(fact.StartTime, fact.EndTime)
	}

	out := make([]StyleStat, 0, len(groups))
	for key, acc := range groups {
		stat := StyleStat{StyleID: acc.styleID, Attempts: acc.count, StyleKey: UnassignedStyleKey, StyleName: "Unassigned"}
		if key != uuid.Nil {
			if st := byID[key]; st != nil {
				stat.StyleKey, stat.StyleName = st.Key, st.Name
			} else {
				stat.StyleKey, stat.StyleName = key.String(), key.String()
			}
		}
		stat.MeanScore = float64(acc.scoreSum) / float64(acc.count)
		stat.MeanDurationMs = float64(acc.durSum) / float64(acc.count)
		stat.SuccessRate = stat.MeanScore / 100
		out = append(out, stat)
	}
	sort.Slice(out, func(i, j int) bool {
		iu, ju := out[i].StyleID == nil, out[j].StyleID == nil
		if iu != ju {
			return ju
		}
		return out[i].StyleKey < out[j].StyleKey
	})
	return out
}

func (s *analyticsService) Detailed(ctx context.Context, f repos.AnalyticsFilter, limit int) ([]repos.AnswerDetailRow, error) {
	if limit <= 0 {
		limit = defaultDetailedLimit
	}
	if limit > maxDetailedLimit {
		limit = maxDetailedLimit
	}
	rows, err := s.analytics.AnswerDetails(dbctx.With(ctx), f, limit)
	if err != nil {
		return nil, aggregates.MapError("analytics.detailed", err)
	}
	if rows == nil {
		rows = []repos.AnswerDetailRow{}
	}
	return rows, nil
}

func (s *analyticsService) Overview(ctx context.Context, f repos.AnalyticsFilter) (out *Overview, err error) {
	ctx, span := observability.StartSpan(ctx, "analytics.overview")
	defer func() { observability.EndSpan(span, err) }()

	out = &Overview{}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		sum, err := s.Summary(gctx, f)
		out.Summary = sum
		return err
	})
	g.Go(func() error {
		rows, err := s.analytics.SectionStats(dbctx.With(gctx), f)
		if err != nil {
			return aggregates.MapError("analytics.sections", err)
		}
		out.Sections = make([]SectionStat, 0, len(rows))
		for _, r := range rows {
			out.Sections = append(out.Sections, SectionStat{SectionID: r.SectionID, Attempts: r.Attempts, MeanScore: r.MeanScore})
		}
		return nil
	})
	g.Go(func() error {
		styles, err := s.ByLearningStyle(gctx, f, StyleBasisCurrent)
		out.Styles = styles
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
