package services

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/yungbote/stylepath-backend/internal/data/repos/testutil"
	types "github.com/yungbote/stylepath-backend/internal/domain"
	domainagg "github.com/yungbote/stylepath-backend/internal/domain/aggregates"
)

type mapCache struct {
	entries     map[uuid.UUID][]*types.ContentVariant
	hits        int
	invalidated []uuid.UUID
}

func (c *mapCache) Get(_ context.Context, id uuid.UUID) ([]*types.ContentVariant, bool) {
	v, ok := c.entries[id]
	if ok {
		c.hits++
	}
	return v, ok
}

func (c *mapCache) Set(_ context.Context, id uuid.UUID, v []*types.ContentVariant) {
	c.entries[id] = v
}

func (c *mapCache) Invalidate(_ context.Context, ids ...uuid.UUID) {
	for _, id := range ids {
		delete(c.entries, id)
	}
	c.invalidated = append(c.invalidated, ids...)
}

func TestResolveForLearner(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	visual := testutil.SeedStyle(t, ctx, h.db, "visual")
	auditory := testutil.SeedStyle(t, ctx, h.db, "auditory")
	kinesthetic := testutil.SeedStyle(t, ctx, h.db, "kinesthetic")
	course := testutil.SeedCourse(t, ctx, h.db)
	sec := testutil.SeedSection(t, ctx, h.db, course.ID, types.SectionTest, 0)
	empty := testutil.SeedSection(t, ctx, h.db, course.ID, types.SectionLearn, 1)
	def := testutil.SeedVariant(t, ctx, h.db, sec.ID, nil, 0, "A")
	vis := testutil.SeedVariant(t, ctx, h.db, sec.ID, &visual.ID, 0, "B")
	testutil.SeedVariant(t, ctx, h.db, sec.ID, &auditory.ID, 0, "C")

	cases := []struct {
		name      string
		styleID   *uuid.UUID
		override  *uuid.UUID
		sectionID uuid.UUID
		status    types.ResolutionStatus
		variantID uuid.UUID
	}{
		{"exact match", &visual.ID, nil, sec.ID, types.ResolutionMatched, vis.ID},
		{"unmatched style falls back to default", &kinesthetic.ID, nil, sec.ID, types.ResolutionFallback, def.ID},
		{"no style falls back", nil, nil, sec.ID, types.ResolutionFallback, def.ID},
		{"override wins", nil, &visual.ID, sec.ID, types.ResolutionMatched, vis.ID},
		{"no content", &visual.ID, nil, empty.ID, types.ResolutionNotConfigured, uuid.Nil},
	}
	for _, tc := range cases {
		learner := testutil.SeedLearner(t, ctx, h.db, tc.styleID)
		got, err := h.content.ResolveForLearner(ctx, learner.ID, tc.sectionID, tc.override)
		if err != nil {
			t.Fatalf("%s: %v", tc.name, err)
		}
		if got.Resolution.Status != tc.status {
			t.Fatalf("%s: want %s got %s", tc.name, tc.status, got.Resolution.Status)
		}
		if tc.variantID == uuid.Nil {
			if got.Resolution.Variant != nil {
				t.Fatalf("%s: expected no variant", tc.name)
			}
			continue
		}
		if got.Resolution.Variant == nil || got.Resolution.Variant.ID != tc.variantID {
			t.Fatalf("%s: wrong variant %+v", tc.name, got.Resolution.Variant)
		}
		for _, q := range got.Resolution.Variant.Questions {
			if q.CorrectKey != "" {
				t.Fatalf("%s: answer key served to learner", tc.name)
			}
		}
	}

	if _, err := h.content.ResolveForLearner(ctx, uuid.New(), uuid.New(), nil); !domainagg.IsCode(err, domainagg.CodeNotFound) {
		t.Fatalf("unknown section: want not_found got %v", err)
	}
}

func TestContentUsesVariantCache(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	cache := &mapCache{entries: map[uuid.UUID][]*types.ContentVariant{}}
	h.content = NewContentService(testutil.Logger(t), h.sections, h.variants, h.learners, cache, h.metrics)
	course := testutil.SeedCourse(t, ctx, h.db)
	sec := testutil.SeedSection(t, ctx, h.db, course.ID, types.SectionQuiz, 0)
	v := testutil.SeedVariant(t, ctx, h.db, sec.ID, nil, 0, "A")

	for i := 0; i < 3; i++ {
		res, err := h.content.Resolve(ctx, sec.ID, nil)
		if err != nil || res.Variant == nil || res.Variant.ID != v.ID {
			t.Fatalf("Resolve #%d: %+v err=%v", i, res, err)
		}
		if res.Variant.Questions[0].CorrectKey != "A" {
			t.Fatalf("Resolve should keep answer keys for grading")
		}
	}
	if cache.hits != 2 {
		t.Fatalf("expected 2 cache hits, got %d", cache.hits)
	}
	h.content.InvalidateSections(ctx, sec.ID)
	if _, ok := cache.entries[sec.ID]; ok {
		t.Fatalf("section still cached after invalidation")
	}
}

func TestLearnerStyleAssignment(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	style := testutil.SeedStyle(t, ctx, h.db, "visual")
	id := uuid.New()

	me, err := h.learners.GetMe(ctx, id)
	if err != nil || me == nil || me.StyleID != nil {
		t.Fatalf("GetMe: %+v err=%v", me, err)
	}
	me, err = h.learners.SetStyle(ctx, id, &style.ID)
	if err != nil || me.StyleID == nil || *me.StyleID != style.ID {
		t.Fatalf("SetStyle: %+v err=%v", me, err)
	}
	if _, err := h.learners.SetStyle(ctx, id, testutil.PtrUUID(uuid.New())); !domainagg.IsCode(err, domainagg.CodeValidation) {
		t.Fatalf("unknown style: want validation got %v", err)
	}
	me, err = h.learners.SetStyle(ctx, id, nil)
	if err != nil || me.StyleID != nil {
		t.Fatalf("clear style: %+v err=%v", me, err)
	}
	styles, err := h.learners.ListStyles(ctx)
	if err != nil || len(styles) != 1 {
		t.Fatalf("ListStyles: %d err=%v", len(styles), err)
	}
}
