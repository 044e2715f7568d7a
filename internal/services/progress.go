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

type MarkCompletedInput struct {
	LearnerID uuid.UUID
	// CourseID and Kind are required; the section must belong to the course and match the kind.
	CourseID  uuid.UUID
	SectionID uuid.UUID
	Kind      types.SectionKind
	Score     *int
}

type ProgressResult struct {
	LearnerID         uuid.UUID         `json:"learner_id"`
	CourseID          uuid.UUID         `json:"course_id"`
	SectionID         uuid.UUID         `json:"section_id"`
	Kind              types.SectionKind `json:"kind"`
	Score             *int              `json:"score,omitempty"`
	Percentage        int               `json:"progress_percentage"`
	CompletedSections int64             `json:"completed_sections"`
	TotalSections     int64             `json:"total_sections"`
	// Enrolled is false when the learner has no enrollment row to carry the percentage.
	Enrolled bool `json:"enrolled"`
}

type SectionStatus struct {
	SectionID   uuid.UUID         `json:"section_id"`
	Title       string            `json:"title"`
	Kind        types.SectionKind `json:"kind"`
	Position    int               `json:"position"`
	Completed   bool              `json:"completed"`
	CompletedAt *time.Time        `json:"completed_at,omitempty"`
	Score       *int              `json:"score,omitempty"`
}

type CourseProgress struct {
	LearnerID         uuid.UUID       `json:"learner_id"`
	CourseID          uuid.UUID       `json:"course_id"`
	Enrolled          bool            `json:"enrolled"`
	Percentage        int             `json:"progress_percentage"`
	CompletedSections int64           `json:"completed_sections"`
	TotalSections     int64           `json:"total_sections"`
	Sections          []SectionStatus `json:"sections"`
}

type ProgressService interface {
	MarkCompleted(ctx context.Context, in MarkCompletedInput) (*ProgressResult, error)
	// GetProgress recomputes the percentage from section rows and repairs a stale
	// stored value.
	GetProgress(ctx context.Context, learnerID, courseID uuid.UUID) (*CourseProgress, error)
	ResetProgress(ctx context.Context, learnerID, courseID uuid.UUID) (*CourseProgress, error)
	Enroll(ctx context.Context, learnerID, courseID uuid.UUID) (*CourseProgress, error)
	// Unenroll removes the enrollment and the course's section progress. It reports
	// whether an enrollment existed.
	Unenroll(ctx context.Context, learnerID, courseID uuid.UUID) (bool, error)
	Recompute(ctx context.Context, learnerID, courseID uuid.UUID) (int, error)
}

type progressService struct {
	deps        aggregates.BaseDeps
	log         *logger.Logger
	courses     repos.CourseRepo
	sections    repos.CourseSectionRepo
	progress    repos.SectionProgressRepo
	enrollments repos.EnrollmentRepo
	learners    repos.LearnerRepo
	events      EventPublisher
	metrics     *observability.Metrics
}

func NewProgressService(
	deps aggregates.BaseDeps,
	baseLog *logger.Logger,
	courses repos.CourseRepo,
	sections repos.CourseSectionRepo,
	progress repos.SectionProgressRepo,
	enrollments repos.EnrollmentRepo,
	learners repos.LearnerRepo,
	events EventPublisher,
	metrics *observability.Metrics,
) ProgressService {
	if events == nil {
		events = NewNoopEventPublisher()
	}
	return &progressService{
		deps:        deps,
		log:         baseLog.With("service", "ProgressService"),
		courses:     courses,
		sections:    sections,
		progress:    progress,
		enrollments: enrollments,
		learners:    learners,
		events:      events,
		metrics:     metrics,
	}
}

func (s *progressService) MarkCompleted(ctx context.Context, in MarkCompletedInput) (res *ProgressResult, err error) {
	ctx, span := observability.StartSpan(ctx, "progress.mark_completed",
		attribute.String("section_id", in.SectionID.String()),
	)
	defer func() { observability.EndSpan(span, err) }()

	const op = "progress.mark_completed"
	if err := requireLearner(op, in.LearnerID); err != nil {
		return nil, err
	}
	if in.CourseID == uuid.Nil {
		return nil, domainagg.NewError(domainagg.CodeValidation, op, "course id is required", nil)
	}
	if !in.Kind.Valid() {
		return nil, domainagg.NewError(domainagg.CodeValidation, op, "section kind is required", nil)
	}
	if in.Score != nil && (*in.Score < 0 || *in.Score > 100) {
		return nil, domainagg.NewError(domainagg.CodeValidation, op, "score must be between 0 and 100", nil)
	}

	res = &ProgressResult{LearnerID: in.LearnerID, SectionID: in.SectionID, Score: in.Score}
	err = aggregates.ExecuteWrite(ctx, s.deps, op, func(dbc dbctx.Context) error {
		section, err := s.sections.GetByID(dbc, in.SectionID)
		if err != nil {
			return err
		}
		if section == nil || section.CourseID != in.CourseID {
			return domainagg.NewError(domainagg.CodeInvalidSection, op, "section does not belong to course", nil)
		}
		if section.Kind != in.Kind {
			return domainagg.NewError(domainagg.CodeInvalidSection, op, "section kind mismatch", nil)
		}
		res.CourseID = section.CourseID
		res.Kind = section.Kind

		now := time.Now().UTC()
		if err := s.progress.Upsert(dbc, &types.SectionProgress{
			LearnerID:   in.LearnerID,
			SectionID:   section.ID,
			Completed:   true,
			CompletedAt: &now,
			Score:       in.Score,
		}); err != nil {
			return err
		}

		pct, completed, total, err := s.recompute(dbc, in.LearnerID, section.CourseID)
		if err != nil {
			return err
		}
		res.Percentage, res.CompletedSections, res.TotalSections = pct, completed, total

		res.Enrolled, err = s.enrollments.SetPercentage(dbc, in.LearnerID, section.CourseID, pct)
		return err
	})
	if err != nil {
		s.metrics.IncCompletion(string(in.Kind), string(domainagg.CodeOf(err)))
		return nil, err
	}
	s.metrics.IncCompletion(string(res.Kind), "success")
	if !res.Enrolled {
		s.log.Info("section completed without enrollment", "learner_id", in.LearnerID, "course_id", res.CourseID)
	}

	publishEvent(ctx, s.events, s.log, s.metrics, types.Event{
		Type:       types.EventSectionCompleted,
		LearnerID:  in.LearnerID,
		CourseID:   uuidPtr(res.CourseID),
		SectionID:  uuidPtr(res.SectionID),
		Score:      in.Score,
		Percentage: intPtr(res.Percentage),
		At:         time.Now().UTC(),
	})
	return res, nil
}

// recompute derives the percentage from persisted rows only.
func (s *progressService) recompute(dbc dbctx.Context, learnerID, courseID uuid.UUID) (int, int64, int64, error) {
	total, err := s.sections.CountByCourseID(dbc, courseID)
	if err != nil {
		return 0, 0, 0, err
	}
	completed, err := s.progress.CountCompletedInCourse(dbc, learnerID, courseID)
	if err != nil {
		return 0, 0, 0, err
	}
	return types.Percent(int(completed), int(total)), completed, total, nil
}

func (s *progressService) requireCourse(dbc dbctx.Context, op string, courseID uuid.UUID) error {
	course, err := s.courses.GetByID(dbc, courseID)
	if err != nil {
		return aggregates.MapError(op, err)
	}
	if course == nil {
		return domainagg.NewError(domainagg.CodeNotFound, op, "course not found", nil)
	}
	return nil
}

func (s *progressService) GetProgress(ctx context.Context, learnerID, courseID uuid.UUID) (*CourseProgress, error) {
	const op = "progress.get"
	if err := requireLearner(op, learnerID); err != nil {
		return nil, err
	}
	dbc := dbctx.With(ctx)
	if err := s.requireCourse(dbc, op, courseID); err != nil {
		return nil, err
	}

	sections, err := s.sections.GetByCourseID(dbc, courseID)
	if err != nil {
		return nil, aggregates.MapError(op, err)
	}
	ids := make([]uuid.UUID, 0, len(sections))
	for _, sec := range sections {
		ids = append(ids, sec.ID)
	}
	rows, err := s.progress.GetByLearnerAndSectionIDs(dbc, learnerID, ids)
	if err != nil {
		return nil, aggregates.MapError(op, err)
	}
	bySection := make(map[uuid.UUID]*types.SectionProgress, len(rows))
	for _, r := range rows {
		bySection[r.SectionID] = r
	}

	out := &CourseProgress{
		LearnerID:     learnerID,
		CourseID:      courseID,
		TotalSections: int64(len(sections)),
		Sections:      make([]SectionStatus, 0, len(sections)),
	}
	for _, sec := range sections {
		st := SectionStatus{SectionID: sec.ID, Title: sec.Title, Kind: sec.Kind, Position: sec.Position}
		if p := bySection[sec.ID]; p != nil && p.Completed {
			st.Completed = true
			st.CompletedAt = p.CompletedAt
			st.Score = p.Score
			out.CompletedSections++
		}
		out.Sections = append(out.Sections, st)
	}
	out.Percentage = types.Percent(int(out.CompletedSections), int(out.TotalSections))

	enr, err := s.enrollments.Get(dbc, learnerID, courseID)
	if err != nil {
		return nil, aggregates.MapError(op, err)
	}
	if enr == nil {
		return out, nil
	}
	out.Enrolled = true
	if enr.ProgressPercentage != out.Percentage {
		s.log.Warn("stale progress percentage repaired",
			"learner_id", learnerID,
			"course_id", courseID,
			"stored", enr.ProgressPercentage,
			"computed", out.Percentage,
		)
		if _, err := s.enrollments.SetPercentage(dbc, learnerID, courseID, out.Percentage); err != nil {
			// The computed value is still correct; the next read retries the repair.
			s.log.Warn("progress repair failed", "course_id", courseID, "error", err)
		}
	}
	return out, nil
}

func (s *progressService) ResetProgress(ctx context.Context, learnerID, courseID uuid.UUID) (*CourseProgress, error) {
	const op = "progress.reset"
	if err := requireLearner(op, learnerID); err != nil {
		return nil, err
	}
	if err := s.requireCourse(dbctx.With(ctx), op, courseID); err != nil {
		return nil, err
	}

	var deleted int64
	err := aggregates.ExecuteWrite(ctx, s.deps, op, func(dbc dbctx.Context) error {
		ids, err := s.sections.IDsByCourseID(dbc, courseID)
		if err != nil {
			return err
		}
		if deleted, err = s.progress.DeleteByLearnerAndSectionIDs(dbc, learnerID, ids); err != nil {
			return err
		}
		_, err = s.enrollments.SetPercentage(dbc, learnerID, courseID, 0)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.metrics.IncProgressReset()
	s.log.Info("progress reset", "learner_id", learnerID, "course_id", courseID, "deleted", deleted)

	publishEvent(ctx, s.events, s.log, s.metrics, types.Event{
		Type:       types.EventProgressReset,
		LearnerID:  learnerID,
		CourseID:   uuidPtr(courseID),
		Percentage: intPtr(0),
		At:         time.Now().UTC(),
	})
	return s.GetProgress(ctx, learnerID, courseID)
}

func (s *progressService) Enroll(ctx context.Context, learnerID, courseID uuid.UUID) (*CourseProgress, error) {
	const op = "progress.enroll"
	if err := requireLearner(op, learnerID); err != nil {
		return nil, err
	}
	if err := s.requireCourse(dbctx.With(ctx), op, courseID); err != nil {
		return nil, err
	}
	err := aggregates.ExecuteWrite(ctx, s.deps, op, func(dbc dbctx.Context) error {
		if _, err := s.learners.Ensure(dbc, learnerID); err != nil {
			return err
		}
		if err := s.enrollments.Ensure(dbc, learnerID, courseID); err != nil {
			return err
		}
		pct, _, _, err := s.recompute(dbc, learnerID, courseID)
		if err != nil {
			return err
		}
		_, err = s.enrollments.SetPercentage(dbc, learnerID, courseID, pct)
		return err
	})
	if err != nil {
		return nil, err
	}
	return s.GetProgress(ctx, learnerID, courseID)
}

func (s *progressService) Unenroll(ctx context.Context, learnerID, courseID uuid.UUID) (bool, error) {
	const op = "progress.unenroll"
	if err := requireLearner(op, learnerID); err != nil {
		return false, err
	}
	var existed bool
	err := aggregates.ExecuteWrite(ctx, s.deps, op, func(dbc dbctx.Context) error {
		ids, err := s.sections.IDsByCourseID(dbc, courseID)
		if err != nil {
			return err
		}
		if _, err := s.progress.DeleteByLearnerAndSectionIDs(dbc, learnerID, ids); err != nil {
			return err
		}
		existed, err = s.enrollments.Delete(dbc, learnerID, courseID)
		return err
	})
	if err != nil {
		return false, err
	}
	if existed {
		s.log.Info("learner unenrolled", "learner_id", learnerID, "course_id", courseID)
	}
	return existed, nil
}

func (s *progressService) Recompute(ctx context.Context, learnerID, courseID uuid.UUID) (int, error) {
	var pct int
	err := aggregates.ExecuteWrite(ctx, s.deps, "progress.recompute", func(dbc dbctx.Context) error {
		var err error
		if pct, _, _, err = s.recompute(dbc, learnerID, courseID); err != nil {
			return err
		}
		_, err = s.enrollments.SetPercentage(dbc, learnerID, courseID, pct)
		return err
	})
	if err != nil {
		return 0, err
	}
	return pct, nil
}
