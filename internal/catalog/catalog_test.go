package catalog

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/yungbote/stylepath-backend/internal/data/aggregates"
	"github.com/yungbote/stylepath-backend/internal/data/repos"
	"github.com/yungbote/stylepath-backend/internal/data/repos/testutil"
	types "github.com/yungbote/stylepath-backend/internal/domain"
	"github.com/yungbote/stylepath-backend/internal/pkg/dbctx"
)

type recordingInvalidator struct {
	ids []uuid.UUID
}

func (r *recordingInvalidator) InvalidateSections(_ context.Context, ids ...uuid.UUID) {
	r.ids = append(r.ids, ids...)
}

func TestSampleCatalogLoads(t *testing.T) {
	c, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(c.Styles) == 0 || len(c.Courses) == 0 {
		t.Fatalf("sample catalog is empty")
	}
}

func TestValidateRejects(t *testing.T) {
	cases := []struct {
		name string
		yaml string
		want string
	}{
		{"unknown kind", `
courses:
  - key: c
    sections:
      - key: s
        kind: lecture
`, "unknown section kind"},
		{"unknown style", `
courses:
  - key: c
    sections:
      - key: s
        kind: learn
        variants:
          - style: visual
`, "unknown style"},
		{"answer not a choice", `
courses:
  - key: c
    sections:
      - key: s
        kind: quiz
        variants:
          - questions:
              - key: q1
                prompt: p
                choices: [{key: A}, {key: B}]
                answer: C
`, "is not a choice"},
		{"duplicate default variant", `
courses:
  - key: c
    sections:
      - key: s
        kind: learn
        variants:
          - body: one
          - body: two
`, "more than one variant"},
		{"questions on learn", `
courses:
  - key: c
    sections:
      - key: s
        kind: learn
        variants:
          - questions:
              - {key: q1, prompt: p, answer: A}
`, "cannot carry questions"},
		{"duplicate course", `
courses:
  - key: c
  - key: c
`, "duplicate course key"},
	}
	for _, tc := range cases {
		_, err := Parse([]byte(tc.yaml))
		if err == nil || !strings.Contains(err.Error(), tc.want) {
			t.Fatalf("%s: want error containing %q, got %v", tc.name, tc.want, err)
		}
	}
}

func TestImportIsIdempotent(t *testing.T) {
	ctx := context.Background()
	db := testutil.DB(t)
	log := testutil.Logger(t)
	inv := &recordingInvalidator{}
	variants := repos.NewContentVariantRepo(db, log)
	im := NewImporter(
		aggregates.BaseDeps{DB: db},
		log,
		repos.NewLearningStyleRepo(db, log),
		repos.NewCourseRepo(db, log),
		repos.NewCourseSectionRepo(db, log),
		variants,
		inv,
	)
	c, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	first, err := im.Import(ctx, c)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	second, err := im.Import(ctx, c)
	if err != nil {
		t.Fatalf("re-Import: %v", err)
	}
	if first != second {
		t.Fatalf("stats differ: %v vs %v", first, second)
	}

	counts := map[string]int64{}
	for name, model := range map[string]interface{}{
		"styles":    &types.LearningStyle{},
		"courses":   &types.Course{},
		"sections":  &types.CourseSection{},
		"variants":  &types.ContentVariant{},
		"questions": &types.Question{},
	} {
		var n int64
		if err := db.Model(model).Count(&n).Error; err != nil {
			t.Fatalf("count %s: %v", name, err)
		}
		counts[name] = n
	}
	want := map[string]int64{
		"styles":    int64(first.Styles),
		"courses":   int64(first.Courses),
		"sections":  int64(first.Sections),
		"variants":  int64(first.Variants),
		"questions": int64(first.Questions),
	}
	for k, v := range want {
		if counts[k] != v {
			t.Fatalf("%s: want %d rows got %d", k, v, counts[k])
		}
	}
	if len(inv.ids) != 2*first.Sections {
		t.Fatalf("expected every section invalidated per import, got %d", len(inv.ids))
	}

	// The default variant was authored first and stays first in resolution order.
	sectionID := SectionID("fractions-101", "fractions-check")
	rows, err := variants.GetBySectionID(dbctx.With(ctx), sectionID)
	if err != nil || len(rows) != 2 {
		t.Fatalf("variants: %d err=%v", len(rows), err)
	}
	if !rows[0].IsDefault() || len(rows[0].Questions) != 3 || rows[0].Questions[0].CorrectKey != "B" {
		t.Fatalf("unexpected first variant %+v", rows[0])
	}
}
