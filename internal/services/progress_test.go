package services

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/yungbote/stylepath-backend/internal/data/repos/testutil"
	types "github.com/yungbote/stylepath-backend/internal/domain"
	domainagg "github.com/yungbote/stylepath-backend/internal/domain/aggregates"
	"github.com/yungbote/stylepath-backend/internal/platform/ctxutil"
)

func TestMarkCompletedIsIdempotent(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	learner := testutil.SeedLearner(t, ctx, h.db, nil)
	course := testutil.SeedCourse(t, ctx, h.db)
	s1 := testutil.SeedSection(t, ctx, h.db, course.ID, types.SectionLearn, 0)
	testutil.SeedSection(t, ctx, h.db, course.ID, types.SectionLearn, 1)
	testutil.SeedEnrollment(t, ctx, h.db, learner.ID, course.ID)

	for i := 0; i < 3; i++ {
		res, err := h.progress.MarkCompleted(ctx, MarkCompletedInput{LearnerID: learner.ID, CourseID: course.ID, SectionID: s1.ID, Kind: types.SectionLearn})
		if err != nil {
			t.Fatalf("MarkCompleted #%d: %v", i, err)
		}
		if res.Percentage != 50 || !res.Enrolled {
			t.Fatalf("MarkCompleted #%d: got pct=%d enrolled=%v", i, res.Percentage, res.Enrolled)
		}
	}
	if n := h.progressRows(t, learner.ID, s1.ID); n != 1 {
		t.Fatalf("expected one progress row, got %d", n)
	}
	if got := h.percentage(t, learner.ID, course.ID); got != 50 {
		t.Fatalf("stored percentage: want 50 got %d", got)
	}
}

func TestProgressRecomputationInvariant(t *testing.T) {
	orders := [][]int{
		{0, 1, 2},
		{2, 0, 1},
		{1, 1, 2, 0, 2},
	}
	for _, order := range orders {
		ctx := context.Background()
		h := newHarness(t)
		learner := testutil.SeedLearner(t, ctx, h.db, nil)
		course := testutil.SeedCourse(t, ctx, h.db)
		var ids []uuid.UUID
		for i := 0; i < 3; i++ {
			ids = append(ids, testutil.SeedSection(t, ctx, h.db, course.ID, types.SectionLearn, i).ID)
		}
		testutil.SeedEnrollment(t, ctx, h.db, learner.ID, course.ID)

		done := map[uuid.UUID]bool{}
		for _, idx := range order {
			res, err := h.progress.MarkCompleted(ctx, MarkCompletedInput{LearnerID: learner.ID, CourseID: course.ID, SectionID: ids[idx], Kind: types.SectionLearn})
			if err != nil {
				t.Fatalf("order %v: %v", order, err)
			}
			done[ids[idx]] = true
			if want := types.Percent(len(done), 3); res.Percentage != want {
				t.Fatalf("order %v after %d: want %d got %d", order, idx, want, res.Percentage)
			}
		}
		if got := h.percentage(t, learner.ID, course.ID); got != 100 {
			t.Fatalf("order %v: final percentage %d", order, got)
		}
	}
}

func TestMarkCompletedRejectsForeignSection(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	learner := testutil.SeedLearner(t, ctx, h.db, nil)
	c1 := testutil.SeedCourse(t, ctx, h.db)
	c2 := testutil.SeedCourse(t, ctx, h.db)
	sec := testutil.SeedSection(t, ctx, h.db, c2.ID, types.SectionQuiz, 0)

	cases := []struct {
		name string
		in   MarkCompletedInput
		code domainagg.ErrorCode
	}{
		{"wrong course", MarkCompletedInput{LearnerID: learner.ID, CourseID: c1.ID, SectionID: sec.ID, Kind: types.SectionQuiz}, domainagg.CodeInvalidSection},
		{"wrong kind", MarkCompletedInput{LearnerID: learner.ID, CourseID: c2.ID, SectionID: sec.ID, Kind: types.SectionTest}, domainagg.CodeInvalidSection},
		{"unknown section", MarkCompletedInput{LearnerID: learner.ID, CourseID: c2.ID, SectionID: uuid.New(), Kind: types.SectionQuiz}, domainagg.CodeInvalidSection},
		{"no course", MarkCompletedInput{LearnerID: learner.ID, SectionID: sec.ID, Kind: types.SectionQuiz}, domainagg.CodeValidation},
		{"no kind", MarkCompletedInput{LearnerID: learner.ID, CourseID: c2.ID, SectionID: sec.ID}, domainagg.CodeValidation},
		{"bad kind", MarkCompletedInput{LearnerID: learner.ID, CourseID: c2.ID, SectionID: sec.ID, Kind: "lecture"}, domainagg.CodeValidation},
		{"score out of range", MarkCompletedInput{LearnerID: learner.ID, CourseID: c2.ID, SectionID: sec.ID, Kind: types.SectionQuiz, Score: intPtr(101)}, domainagg.CodeValidation},
		{"no learner", MarkCompletedInput{CourseID: c2.ID, SectionID: sec.ID, Kind: types.SectionQuiz}, domainagg.CodeValidation},
	}
	for _, tc := range cases {
		_, err := h.progress.MarkCompleted(ctx, tc.in)
		if !domainagg.IsCode(err, tc.code) {
			t.Fatalf("%s: want %s got %v", tc.name, tc.code, err)
		}
	}
	if n := h.progressRows(t, learner.ID, sec.ID); n != 0 {
		t.Fatalf("rejected completions wrote %d rows", n)
	}
}

func TestMarkCompletedWithoutEnrollment(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	learner := testutil.SeedLearner(t, ctx, h.db, nil)
	course := testutil.SeedCourse(t, ctx, h.db)
	sec := testutil.SeedSection(t, ctx, h.db, course.ID, types.SectionLearn, 0)

	res, err := h.progress.MarkCompleted(ctx, MarkCompletedInput{LearnerID: learner.ID, CourseID: course.ID, SectionID: sec.ID, Kind: types.SectionLearn})
	if err != nil {
		t.Fatalf("MarkCompleted: %v", err)
	}
	if res.Enrolled || res.Percentage != 100 {
		t.Fatalf("got enrolled=%v pct=%d", res.Enrolled, res.Percentage)
	}

	// Enrolling afterwards picks up the already-completed section.
	cp, err := h.progress.Enroll(ctx, learner.ID, course.ID)
	if err != nil {
		t.Fatalf("Enroll: %v", err)
	}
	if !cp.Enrolled || cp.Percentage != 100 || h.percentage(t, learner.ID, course.ID) != 100 {
		t.Fatalf("enroll did not recompute: %+v", cp)
	}
}

func TestGetProgressHealsStalePercentage(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	learner := testutil.SeedLearner(t, ctx, h.db, nil)
	course := testutil.SeedCourse(t, ctx, h.db)
	s1 := testutil.SeedSection(t, ctx, h.db, course.ID, types.SectionLearn, 0)
	testutil.SeedSection(t, ctx, h.db, course.ID, types.SectionLearn, 1)
	testutil.SeedSection(t, ctx, h.db, course.ID, types.SectionTest, 2)
	testutil.SeedEnrollment(t, ctx, h.db, learner.ID, course.ID)

	if _, err := h.progress.MarkCompleted(ctx, MarkCompletedInput{LearnerID: learner.ID, CourseID: course.ID, SectionID: s1.ID, Kind: types.SectionLearn}); err != nil {
		t.Fatalf("MarkCompleted: %v", err)
	}
	if err := h.db.Model(&types.Enrollment{}).
		Where("learner_id = ? AND course_id = ?", learner.ID, course.ID).
		Update("progress_percentage", 90).Error; err != nil {
		t.Fatalf("corrupt percentage: %v", err)
	}

	cp, err := h.progress.GetProgress(ctx, learner.ID, course.ID)
	if err != nil {
		t.Fatalf("GetProgress: %v", err)
	}
	if cp.Percentage != 33 || cp.CompletedSections != 1 || cp.TotalSections != 3 {
		t.Fatalf("unexpected progress %+v", cp)
	}
	if len(cp.Sections) != 3 || !cp.Sections[0].Completed || cp.Sections[1].Completed {
		t.Fatalf("unexpected sections %+v", cp.Sections)
	}
	if got := h.percentage(t, learner.ID, course.ID); got != 33 {
		t.Fatalf("stale percentage not repaired: %d", got)
	}
}

func TestResetProgressOnlyTouchesCourse(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	learner := testutil.SeedLearner(t, ctx, h.db, nil)
	c1 := testutil.SeedCourse(t, ctx, h.db)
	c2 := testutil.SeedCourse(t, ctx, h.db)
	a := testutil.SeedSection(t, ctx, h.db, c1.ID, types.SectionLearn, 0)
	b := testutil.SeedSection(t, ctx, h.db, c2.ID, types.SectionLearn, 0)
	testutil.SeedEnrollment(t, ctx, h.db, learner.ID, c1.ID)
	testutil.SeedEnrollment(t, ctx, h.db, learner.ID, c2.ID)

	for _, sec := range []*types.CourseSection{a, b} {
		in := MarkCompletedInput{LearnerID: learner.ID, CourseID: sec.CourseID, SectionID: sec.ID, Kind: sec.Kind}
		if _, err := h.progress.MarkCompleted(ctx, in); err != nil {
			t.Fatalf("MarkCompleted: %v", err)
		}
	}
	cp, err := h.progress.ResetProgress(ctx, learner.ID, c1.ID)
	if err != nil {
		t.Fatalf("ResetProgress: %v", err)
	}
	if cp.Percentage != 0 || h.percentage(t, learner.ID, c1.ID) != 0 {
		t.Fatalf("course 1 not reset: %+v", cp)
	}
	if h.progressRows(t, learner.ID, a.ID) != 0 {
		t.Fatalf("course 1 progress rows survived reset")
	}
	if h.progressRows(t, learner.ID, b.ID) != 1 || h.percentage(t, learner.ID, c2.ID) != 100 {
		t.Fatalf("reset leaked into course 2")
	}

	kinds := h.events.kinds()
	if len(kinds) != 3 || kinds[2] != types.EventProgressReset {
		t.Fatalf("unexpected events %v", kinds)
	}

	if _, err := h.progress.ResetProgress(ctx, learner.ID, uuid.New()); !domainagg.IsCode(err, domainagg.CodeNotFound) {
		t.Fatalf("reset of unknown course: want not_found got %v", err)
	}
}

func TestUnenrollRemovesCourseProgress(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	learner := testutil.SeedLearner(t, ctx, h.db, nil)
	course := testutil.SeedCourse(t, ctx, h.db)
	sec := testutil.SeedSection(t, ctx, h.db, course.ID, types.SectionLearn, 0)

	if _, err := h.progress.Enroll(ctx, learner.ID, course.ID); err != nil {
		t.Fatalf("Enroll: %v", err)
	}
	if _, err := h.progress.Enroll(ctx, learner.ID, course.ID); err != nil {
		t.Fatalf("second Enroll: %v", err)
	}
	if _, err := h.progress.MarkCompleted(ctx, MarkCompletedInput{LearnerID: learner.ID, CourseID: course.ID, SectionID: sec.ID, Kind: types.SectionLearn}); err != nil {
		t.Fatalf("MarkCompleted: %v", err)
	}

	existed, err := h.progress.Unenroll(ctx, learner.ID, course.ID)
	if err != nil || !existed {
		t.Fatalf("Unenroll: existed=%v err=%v", existed, err)
	}
	if h.progressRows(t, learner.ID, sec.ID) != 0 {
		t.Fatalf("progress rows survived unenroll")
	}
	existed, err = h.progress.Unenroll(ctx, learner.ID, course.ID)
	if err != nil || existed {
		t.Fatalf("repeat Unenroll: existed=%v err=%v", existed, err)
	}
}

func TestRecomputeRewritesCachedPercentage(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	learner := testutil.SeedLearner(t, ctx, h.db, nil)
	course := testutil.SeedCourse(t, ctx, h.db)
	s1 := testutil.SeedSection(t, ctx, h.db, course.ID, types.SectionLearn, 0)
	testutil.SeedSection(t, ctx, h.db, course.ID, types.SectionLearn, 1)
	testutil.SeedEnrollment(t, ctx, h.db, learner.ID, course.ID)

	if _, err := h.progress.MarkCompleted(ctx, MarkCompletedInput{LearnerID: learner.ID, CourseID: course.ID, SectionID: s1.ID, Kind: types.SectionLearn}); err != nil {
		t.Fatalf("MarkCompleted: %v", err)
	}
	if err := h.db.Model(&types.Enrollment{}).
		Where("learner_id = ? AND course_id = ?", learner.ID, course.ID).
		Update("progress_percentage", 0).Error; err != nil {
		t.Fatalf("corrupt percentage: %v", err)
	}

	pct, err := h.progress.Recompute(ctx, learner.ID, course.ID)
	if err != nil {
		t.Fatalf("Recompute: %v", err)
	}
	if pct != 50 || h.percentage(t, learner.ID, course.ID) != 50 {
		t.Fatalf("recompute: got %d stored %d", pct, h.percentage(t, learner.ID, course.ID))
	}
}

func TestCompletionEventCarriesRequestID(t *testing.T) {
	ctx := ctxutil.WithRequestTrace(context.Background(), ctxutil.RequestTrace{TraceID: "t-1", RequestID: "r-1"})
	h := newHarness(t)
	learner := testutil.SeedLearner(t, ctx, h.db, nil)
	course := testutil.SeedCourse(t, ctx, h.db)
	sec := testutil.SeedSection(t, ctx, h.db, course.ID, types.SectionLearn, 0)

	if _, err := h.progress.MarkCompleted(ctx, MarkCompletedInput{LearnerID: learner.ID, CourseID: course.ID, SectionID: sec.ID, Kind: types.SectionLearn}); err != nil {
		t.Fatalf("MarkCompleted: %v", err)
	}
	if len(h.events.events) != 1 || h.events.events[0].RequestID != "r-1" {
		t.Fatalf("unexpected events %+v", h.events.events)
	}
}
