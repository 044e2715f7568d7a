package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/stylepath-backend/internal/data/aggregates"
	"github.com/yungbote/stylepath-backend/internal/data/repos"
	"github.com/yungbote/stylepath-backend/internal/data/repos/testutil"
	types "github.com/yungbote/stylepath-backend/internal/domain"
	"github.com/yungbote/stylepath-backend/internal/observability"
)

type harness struct {
	db      *gorm.DB
	metrics *observability.Metrics
	events  *recordingPublisher

	courses     repos.CourseRepo
	sections    repos.CourseSectionRepo
	variants    repos.ContentVariantRepo
	styles      repos.LearningStyleRepo
	learnerRepo repos.LearnerRepo
	enrollments repos.EnrollmentRepo
	progressRow repos.SectionProgressRepo
	attemptRepo repos.AttemptRepo
	analyticsDB repos.AnalyticsRepo

	learners  LearnerService
	content   ContentService
	progress  ProgressService
	attempts  AttemptService
	analytics AnalyticsService
}

type recordingPublisher struct {
	events []types.Event
}

func (p *recordingPublisher) Publish(_ context.Context, ev types.Event) error {
	p.events = append(p.events, ev)
	return nil
}

func (p *recordingPublisher) kinds() []types.EventType {
	out := make([]types.EventType, 0, len(p.events))
	for _, ev := range p.events {
		out = append(out, ev.Type)
	}
	return out
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	log := testutil.Logger(t)
	db := testutil.DB(t)
	h := &harness{
		db:          db,
		metrics:     observability.New(),
		events:      &recordingPublisher{},
		courses:     repos.NewCourseRepo(db, log),
		sections:    repos.NewCourseSectionRepo(db, log),
		variants:    repos.NewContentVariantRepo(db, log),
		styles:      repos.NewLearningStyleRepo(db, log),
		learnerRepo: repos.NewLearnerRepo(db, log),
		enrollments: repos.NewEnrollmentRepo(db, log),
		progressRow: repos.NewSectionProgressRepo(db, log),
		attemptRepo: repos.NewAttemptRepo(db, log),
		analyticsDB: repos.NewAnalyticsRepo(db, log),
	}
	h.wire(t, h.attemptRepo, nil)
	return h
}

// wire (re)builds the services; a non-nil progress replaces the real tracker in
// the attempt scorer.
func (h *harness) wire(t *testing.T, attemptRepo repos.AttemptRepo, progress ProgressService) {
	t.Helper()
	log := testutil.Logger(t)
	deps := aggregates.BaseDeps{DB: h.db, Hooks: aggregates.NewObservabilityHooks(h.metrics)}
	h.learners = NewLearnerService(log, h.learnerRepo, h.styles)
	h.content = NewContentService(log, h.sections, h.variants, h.learners, nil, h.metrics)
	h.progress = NewProgressService(deps, log, h.courses, h.sections, h.progressRow, h.enrollments, h.learnerRepo, h.events, h.metrics)
	if progress == nil {
		progress = h.progress
	}
	h.attempts = NewAttemptService(deps, log, h.sections, h.variants, attemptRepo, h.content, h.learners, progress, h.events, h.metrics, AttemptServiceOptions{})
	h.analytics = NewAnalyticsService(log, h.analyticsDB, h.styles)
}

func (h *harness) percentage(t *testing.T, learnerID, courseID uuid.UUID) int {
	t.Helper()
	var e types.Enrollment
	if err := h.db.Where("learner_id = ? AND course_id = ?", learnerID, courseID).First(&e).Error; err != nil {
		t.Fatalf("load enrollment: %v", err)
	}
	return e.ProgressPercentage
}

func (h *harness) progressRows(t *testing.T, learnerID uuid.UUID, sectionIDs ...uuid.UUID) int64 {
	t.Helper()
	var n int64
	if err := h.db.Model(&types.SectionProgress{}).
		Where("learner_id = ? AND section_id IN ?", learnerID, sectionIDs).
		Count(&n).Error; err != nil {
		t.Fatalf("count progress: %v", err)
	}
	return n
}

func answers(keys ...string) []*string {
	out := make([]*string, 0, len(keys))
	for _, k := range keys {
		if k == "" {
			out = append(out, nil)
			continue
		}
		out = append(out, testutil.PtrString(k))
	}
	return out
}

func responsesFor(v *types.ContentVariant, selected []*string) []types.Response {
	out := make([]types.Response, 0, len(selected))
	for i, sel := range selected {
		out = append(out, types.Response{QuestionID: v.Questions[i].ID, Selected: sel, TimeTakenMs: 1000})
	}
	return out
}
