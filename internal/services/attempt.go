package services

import (
	"context"
	"time"

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

const (
	defaultProgressSyncTimeout = 5 * time.Second
	defaultHistoryLimit        = 50
)

type SubmitAttemptInput struct {
	LearnerID uuid.UUID
	SectionID uuid.UUID
	// VariantID pins the variant the learner was served. When nil the section is
	// resolved against the learner's current style.
	VariantID *uuid.UUID
	Responses []types.Response
	StartTime time.Time
	EndTime   time.Time
}

// ProgressSync reports the completion write that follows a graded attempt.
type ProgressSync struct {
	Synced bool            `json:"synced"`
	Result *ProgressResult `json:"result,omitempty"`
	Error  string          `json:"error,omitempty"`
}

type SubmitResult struct {
	Attempt          *types.Attempt `json:"attempt"`
	Score            int            `json:"score"`
	Correct          int            `json:"correct"`
	Total            int            `json:"total"`
	DetailsPersisted bool           `json:"details_persisted"`
	Progress         ProgressSync   `json:"progress"`
}

type AttemptHistory struct {
	Attempts []*types.Attempt `json:"attempts"`
	Best     *types.Attempt   `json:"best,omitempty"`
	Latest   *types.Attempt   `json:"latest,omitempty"`
}

type AttemptService interface {
	SubmitAttempt(ctx context.Context, in SubmitAttemptInput) (*SubmitResult, error)
	History(ctx context.Context, learnerID, sectionID uuid.UUID) (*AttemptHistory, error)
	GetAttempt(ctx context.Context, learnerID, attemptID uuid.UUID) (*types.Attempt, error)
}

type AttemptServiceOptions struct {
	ProgressSyncTimeout time.Duration
}

type attemptService struct {
	deps     aggregates.BaseDeps
	log      *logger.Logger
	sections repos.CourseSectionRepo
	variants repos.ContentVariantRepo
	attempts repos.AttemptRepo
	content  ContentService
	learners LearnerService
	progress ProgressService
	events   EventPublisher
	metrics  *observability.Metrics
	opts     AttemptServiceOptions
}

func NewAttemptService(
	deps aggregates.BaseDeps,
	baseLog *logger.Logger,
	sections repos.CourseSectionRepo,
	variants repos.ContentVariantRepo,
	attempts repos.AttemptRepo,
	content ContentService,
	learners LearnerService,
	progress ProgressService,
	events EventPublisher,
	metrics *observability.Metrics,
	opts AttemptServiceOptions,
) AttemptService {
	if opts.ProgressSyncTimeout <= 0 {
		opts.ProgressSyncTimeout = defaultProgressSyncTimeout
	}
	if events == nil {
		events = NewNoopEventPublisher()
	}
	return &attemptService{
		deps:     deps,
		log:      baseLog.With("service", "AttemptService"),
		sections: sections,
		variants: variants,
		attempts: attempts,
		content:  content,
		learners: learners,
		progress: progress,
		events:   events,
		metrics:  metrics,
		opts:     opts,
	}
}

func (s *attemptService) SubmitAttempt(ctx context.Context, in SubmitAttemptInput) (res *SubmitResult, err error) {
	ctx, span := observability.StartSpan(ctx, "attempt.submit",
		attribute.String("section_id", in.SectionID.String()),
	)
	defer func() { observability.EndSpan(span, err) }()

	const op = "attempt.submit"
	if err := requireLearner(op, in.LearnerID); err != nil {
		return nil, err
	}
	if in.EndTime.IsZero() {
		in.EndTime = time.Now().UTC()
	}
	if in.StartTime.IsZero() {
		in.StartTime = in.EndTime
	}
	if in.StartTime.After(in.EndTime) {
		return nil, domainagg.NewError(domainagg.CodeValidation, op, "start_time is after end_time", nil)
	}

	dbc := dbctx.With(ctx)
	section, err := s.sections.GetByID(dbc, in.SectionID)
	if err != nil {
		return nil, aggregates.MapError(op, err)
	}
	if section == nil {
		return nil, domainagg.NewError(domainagg.CodeNotFound, op, "section not found", nil)
	}
	kind := string(section.Kind)
	if !section.Kind.Gradeable() {
		s.metrics.ObserveAttempt(kind, string(domainagg.CodeInvalidSection), 0)
		return nil, domainagg.NewError(domainagg.CodeInvalidSection, op, "only test and quiz sections accept attempts", nil)
	}

	styleID, err := s.learners.StyleOf(ctx, in.LearnerID)
	if err != nil {
		return nil, err
	}
	variant, err := s.gradingVariant(ctx, section, styleID, in.VariantID)
	if err != nil {
		return nil, err
	}
	var questions []*types.Question
	var variantID *uuid.UUID
	if variant != nil {
		questions = variant.Questions
		variantID = uuidPtr(variant.ID)
	}

	if len(questions) > 0 && len(types.UnknownResponses(questions, in.Responses)) > 0 {
		s.metrics.ObserveAttempt(kind, string(domainagg.CodeValidation), 0)
		return nil, domainagg.NewError(domainagg.CodeValidation, op, "responses reference unknown questions", nil)
	}

	grade := types.GradeResponses(questions, in.Responses)
	if grade.Total == 0 {
		cfgErr := domainagg.NewError(domainagg.CodeConfiguration, op, "gradeable section has no questions", nil)
		s.log.Warn("attempt graded without questions", "section_id", section.ID, "error", cfgErr)
	}

	score := grade.Score
	end := in.EndTime.UTC()
	attempt := &types.Attempt{
		ID:        uuid.New(),
		LearnerID: in.LearnerID,
		SectionID: section.ID,
		VariantID: variantID,
		StyleID:   styleID,
		StartTime: in.StartTime.UTC(),
		EndTime:   &end,
		Score:     &score,
	}
	if err := aggregates.ExecuteWrite(ctx, s.deps, "attempt.create", func(dbc dbctx.Context) error {
		return s.attempts.Create(dbc, attempt)
	}); err != nil {
		s.metrics.ObserveAttempt(kind, string(domainagg.CodeOf(err)), 0)
		return nil, err
	}

	// The attempt is committed; nothing below may undo it or fail the submission.
	detached := context.WithoutCancel(ctx)
	res = &SubmitResult{Attempt: attempt, Score: score, Correct: grade.Correct, Total: grade.Total}

	details := make([]*types.AnswerDetail, 0, len(grade.Answers))
	for _, a := range grade.Answers {
		details = append(details, &types.AnswerDetail{
			AttemptID:      attempt.ID,
			QuestionID:     a.QuestionID,
			SelectedAnswer: a.Selected,
			IsCorrect:      a.IsCorrect,
			TimeTakenMs:    a.TimeTakenMs,
		})
	}
	if err := aggregates.ExecuteWrite(detached, s.deps, "attempt.details", func(dbc dbctx.Context) error {
		return s.attempts.CreateDetails(dbc, details)
	}); err != nil {
		s.metrics.IncDetailLoss()
		s.log.Error("answer details not persisted", "attempt_id", attempt.ID, "count", len(details), "error", err)
	} else {
		res.DetailsPersisted = true
		attempt.Answers = details
	}

	syncCtx, cancel := context.WithTimeout(detached, s.opts.ProgressSyncTimeout)
	defer cancel()
	pr, err := s.progress.MarkCompleted(syncCtx, MarkCompletedInput{
		LearnerID: in.LearnerID,
		CourseID:  section.CourseID,
		SectionID: section.ID,
		Kind:      section.Kind,
		Score:     &score,
	})
	if err != nil {
		s.metrics.IncProgressSyncFailure()
		s.log.Warn("progress sync after attempt failed", "attempt_id", attempt.ID, "error", err)
		res.Progress = ProgressSync{Error: err.Error()}
	} else {
		res.Progress = ProgressSync{Synced: true, Result: pr}
	}

	s.metrics.ObserveAttempt(kind, "success", score)
	span.SetAttributes(attribute.Int("score", score), attribute.Int("questions", grade.Total))
	publishEvent(ctx, s.events, s.log, s.metrics, types.Event{
		Type:      types.EventAttemptSubmitted,
		LearnerID: in.LearnerID,
		CourseID:  uuidPtr(section.CourseID),
		SectionID: uuidPtr(section.ID),
		AttemptID: uuidPtr(attempt.ID),
		Score:     intPtr(score),
		At:        time.Now().UTC(),
	})
	return res, nil
}

// gradingVariant returns the variant the attempt is graded against, reloaded from
// the store so answer keys are authoritative. Nil means the section has no content.
func (s *attemptService) gradingVariant(ctx context.Context, section *types.CourseSection, styleID, pinned *uuid.UUID) (*types.ContentVariant, error) {
	const op = "attempt.variant"
	dbc := dbctx.With(ctx)
	if pinned != nil {
		v, err := s.variants.GetByID(dbc, *pinned)
		if err != nil {
			return nil, aggregates.MapError(op, err)
		}
		if v == nil || v.SectionID != section.ID {
			return nil, domainagg.NewError(domainagg.CodeValidation, op, "variant does not belong to section", nil)
		}
		return v, nil
	}

	res, err := s.content.Resolve(ctx, section.ID, styleID)
	if err != nil {
		return nil, err
	}
	if !res.Configured() {
		return nil, nil
	}
	v, err := s.variants.GetByID(dbc, res.Variant.ID)
	if err != nil {
		return nil, aggregates.MapError(op, err)
	}
	if v == nil {
		return res.Variant, nil
	}
	return v, nil
}

func (s *attemptService) History(ctx context.Context, learnerID, sectionID uuid.UUID) (*AttemptHistory, error) {
	const op = "attempt.history"
	if err := requireLearner(op, learnerID); err != nil {
		return nil, err
	}
	rows, err := s.attempts.GetByLearnerAndSection(dbctx.With(ctx), learnerID, sectionID, defaultHistoryLimit)
	if err != nil {
		return nil, aggregates.MapError(op, err)
	}
	return BuildHistory(rows), nil
}

// BuildHistory derives best and latest from attempts ordered newest first. Best is
// the highest score; among equal scores the earliest attempt wins.
func BuildHistory(rows []*types.Attempt) *AttemptHistory {
	h := &AttemptHistory{Attempts: rows}
	if h.Attempts == nil {
		h.Attempts = []*types.Attempt{}
	}
	for _, a := range rows {
		if a == nil || a.Score == nil {
			continue
		}
		if h.Latest == nil {
			h.Latest = a
		}
		if h.Best == nil || *a.Score >= *h.Best.Score {
			h.Best = a
		}
	}
	return h
}

func (s *attemptService) GetAttempt(ctx context.Context, learnerID, attemptID uuid.UUID) (*types.Attempt, error) {
	const op = "attempt.get"
	a, err := s.attempts.GetByID(dbctx.With(ctx), attemptID)
	if err != nil {
		return nil, aggregates.MapError(op, err)
	}
	if a == nil || a.LearnerID != learnerID {
		return nil, domainagg.NewError(domainagg.CodeNotFound, op, "attempt not found", nil)
	}
	return a, nil
}
