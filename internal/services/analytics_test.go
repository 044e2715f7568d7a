package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/stylepath-backend/internal/data/repos"
	"github.com/yungbote/stylepath-backend/internal/data/repos/testutil"
	types "github.com/yungbote/stylepath-backend/internal/domain"
)

func TestGroupByStyle(t *testing.T) {
	visual := &types.LearningStyle{ID: uuid.New(), Key: "visual", Name: "Visual"}
	auditory := &types.LearningStyle{ID: uuid.New(), Key: "auditory", Name: "Auditory"}
	start := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)
	fact := func(snapshot, current *uuid.UUID, score int, dur time.Duration) repos.AttemptFact {
		return repos.AttemptFact{
			AttemptID:       uuid.New(),
			SnapshotStyleID: snapshot,
			CurrentStyleID:  current,
			Score:           score,
			StartTime:       start,
			EndTime:         start.Add(dur),
		}
	}
	facts := []repos.AttemptFact{
		fact(&visual.ID, &auditory.ID, 100, time.Minute),
		fact(&visual.ID, &visual.ID, 50, 3*time.Minute),
		fact(nil, nil, 20, time.Minute),
	}
	styles := []*types.LearningStyle{visual, auditory}

	cases := []struct {
		basis StyleBasis
		want  []StyleStat
	}{
		{StyleBasisCurrent, []StyleStat{
			{StyleKey: "auditory", Attempts: 1, MeanScore: 100, MeanDurationMs: 60000, SuccessRate: 1},
			{StyleKey: "visual", Attempts: 1, MeanScore: 50, MeanDurationMs: 180000, SuccessRate: 0.5},
			{StyleKey: UnassignedStyleKey, Attempts: 1, MeanScore: 20, MeanDurationMs: 60000, SuccessRate: 0.2},
		}},
		{StyleBasisSnapshot, []StyleStat{
			{StyleKey: "visual", Attempts: 2, MeanScore: 75, MeanDurationMs: 120000, SuccessRate: 0.75},
			{StyleKey: UnassignedStyleKey, Attempts: 1, MeanScore: 20, MeanDurationMs: 60000, SuccessRate: 0.2},
		}},
	}
	for _, tc := range cases {
		got := GroupByStyle(facts, styles, tc.basis)
		if len(got) != len(tc.want) {
			t.Fatalf("%s: want %d groups got %d", tc.basis, len(tc.want), len(got))
		}
		for i, w := range tc.want {
			g := got[i]
			if g.StyleKey != w.StyleKey || g.Attempts != w.Attempts || g.MeanScore != w.MeanScore ||
				g.MeanDurationMs != w.MeanDurationMs || g.SuccessRate != w.SuccessRate {
				t.Fatalf("%s[%d]: want %+v got %+v", tc.basis, i, w, g)
			}
		}
	}
}

func TestParseStyleBasis(t *testing.T) {
	cases := map[string]StyleBasis{"": StyleBasisCurrent, "current": StyleBasisCurrent, "snapshot": StyleBasisSnapshot}
	for in, want := range cases {
		got, err := ParseStyleBasis(in)
		if err != nil || got != want {
			t.Fatalf("ParseStyleBasis(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParseStyleBasis("weekly"); err == nil {
		t.Fatalf("expected error for unknown basis")
	}
}

func TestAnalyticsOverview(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	visual := testutil.SeedStyle(t, ctx, h.db, "visual")
	course := testutil.SeedCourse(t, ctx, h.db)
	sec := testutil.SeedSection(t, ctx, h.db, course.ID, types.SectionQuiz, 0)
	v := testutil.SeedVariant(t, ctx, h.db, sec.ID, nil, 0, "A", "B")

	for _, sel := range [][]*string{answers("A", "B"), answers("A", "C")} {
		l := testutil.SeedLearner(t, ctx, h.db, &visual.ID)
		if _, err := h.attempts.SubmitAttempt(ctx, SubmitAttemptInput{LearnerID: l.ID, SectionID: sec.ID, Responses: responsesFor(v, sel)}); err != nil {
			t.Fatalf("SubmitAttempt: %v", err)
		}
	}

	ov, err := h.analytics.Overview(ctx, repos.AnalyticsFilter{CourseID: &course.ID})
	if err != nil {
		t.Fatalf("Overview: %v", err)
	}
	if ov.Summary.Attempts != 2 || ov.Summary.MeanScore == nil || *ov.Summary.MeanScore != 75 {
		t.Fatalf("unexpected summary %+v", ov.Summary)
	}
	if len(ov.Sections) != 1 || ov.Sections[0].SectionID != sec.ID || ov.Sections[0].Attempts != 2 {
		t.Fatalf("unexpected sections %+v", ov.Sections)
	}
	if len(ov.Styles) != 1 || ov.Styles[0].StyleKey != "visual" || ov.Styles[0].SuccessRate != 0.75 {
		t.Fatalf("unexpected styles %+v", ov.Styles)
	}

	rows, err := h.analytics.Detailed(ctx, repos.AnalyticsFilter{CourseID: &course.ID}, 0)
	if err != nil {
		t.Fatalf("Detailed: %v", err)
	}
	if len(rows) != 4 {
		t.Fatalf("expected 4 detail rows, got %d", len(rows))
	}
	for _, r := range rows {
		if r.CorrectKey == "" || r.QuestionPrompt == "" {
			t.Fatalf("detail row missing question data: %+v", r)
		}
	}

	other := uuid.New()
	empty, err := h.analytics.Summary(ctx, repos.AnalyticsFilter{CourseID: &other})
	if err != nil || empty.Attempts != 0 || empty.MeanScore != nil {
		t.Fatalf("empty summary: %+v err=%v", empty, err)
	}
}
