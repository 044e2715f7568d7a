package catalog

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/stylepath-backend/internal/data/aggregates"
	"github.com/yungbote/stylepath-backend/internal/data/repos"
	types "github.com/yungbote/stylepath-backend/internal/domain"
	"github.com/yungbote/stylepath-backend/internal/pkg/dbctx"
	"github.com/yungbote/stylepath-backend/internal/platform/logger"
)

// namespace seeds the deterministic ids of imported rows.
var namespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("stylepath/catalog"))

func CourseID(courseKey string) uuid.UUID {
	return uuid.NewSHA1(namespace, []byte("course:"+courseKey))
}

func SectionID(courseKey, sectionKey string) uuid.UUID {
	return uuid.NewSHA1(namespace, []byte("section:"+courseKey+"/"+sectionKey))
}

// VariantID is keyed on the style key; the default variant uses "default".
func VariantID(courseKey, sectionKey, styleKey string) uuid.UUID {
	if styleKey == "" {
		styleKey = "default"
	}
	return uuid.NewSHA1(namespace, []byte("variant:"+courseKey+"/"+sectionKey+"#"+styleKey))
}

func QuestionID(variantID uuid.UUID, questionKey string) uuid.UUID {
	return uuid.NewSHA1(namespace, []byte("question:"+variantID.String()+"/"+questionKey))
}

// SectionInvalidator drops cached content for re-imported sections.
type SectionInvalidator interface {
	InvalidateSections(ctx context.Context, sectionIDs ...uuid.UUID)
}

type ImportStats struct {
	Styles    int
	Courses   int
	Sections  int
	Variants  int
	Questions int
}

func (s ImportStats) String() string {
	return fmt.Sprintf("styles=%d courses=%d sections=%d variants=%d questions=%d",
		s.Styles, s.Courses, s.Sections, s.Variants, s.Questions)
}

// Importer upserts a catalog in one transaction. Re-importing the same catalog is
// a no-op apart from updated_at; questions are never deleted so recorded answers
// keep their references.
type Importer struct {
	deps        aggregates.BaseDeps
	log         *logger.Logger
	styles      repos.LearningStyleRepo
	courses     repos.CourseRepo
	sections    repos.CourseSectionRepo
	variants    repos.ContentVariantRepo
	invalidator SectionInvalidator
}

func NewImporter(
	deps aggregates.BaseDeps,
	baseLog *logger.Logger,
	styles repos.LearningStyleRepo,
	courses repos.CourseRepo,
	sections repos.CourseSectionRepo,
	variants repos.ContentVariantRepo,
	invalidator SectionInvalidator,
) *Importer {
	return &Importer{
		deps:        deps,
		log:         baseLog.With("component", "CatalogImporter"),
		styles:      styles,
		courses:     courses,
		sections:    sections,
		variants:    variants,
		invalidator: invalidator,
	}
}

func (im *Importer) Import(ctx context.Context, c *Catalog) (ImportStats, error) {
	var stats ImportStats
	if err := Validate(c); err != nil {
		return stats, err
	}

	var touched []uuid.UUID
	base := time.Now().UTC()
	err := aggregates.ExecuteWrite(ctx, im.deps, "catalog.import", func(dbc dbctx.Context) error {
		stats = ImportStats{}
		touched = touched[:0]

		styleIDs := map[string]uuid.UUID{}
		for _, s := range c.Styles {
			key := strings.TrimSpace(s.Key)
			name := strings.TrimSpace(s.Name)
			if name == "" {
				name = key
			}
			row := &types.LearningStyle{Key: key, Name: name}
			if err := im.styles.Upsert(dbc, row); err != nil {
				return err
			}
			styleIDs[key] = row.ID
			stats.Styles++
		}

		for _, course := range c.Courses {
			ck := strings.TrimSpace(course.Key)
			if err := im.courses.Upsert(dbc, &types.Course{
				ID:          CourseID(ck),
				Name:        course.Name,
				Description: course.Description,
			}); err != nil {
				return err
			}
			stats.Courses++

			for pos, sec := range course.Sections {
				sk := strings.TrimSpace(sec.Key)
				sectionID := SectionID(ck, sk)
				if err := im.sections.Upsert(dbc, &types.CourseSection{
					ID:       sectionID,
					CourseID: CourseID(ck),
					Kind:     types.SectionKind(sec.Kind),
					Position: pos,
					Title:    sec.Title,
				}); err != nil {
					return err
				}
				touched = append(touched, sectionID)
				stats.Sections++

				for vi, v := range sec.Variants {
					n, err := im.importVariant(dbc, ck, sk, sectionID, v, styleIDs, base.Add(time.Duration(vi)*time.Millisecond))
					if err != nil {
						return err
					}
					stats.Variants++
					stats.Questions += n
				}
			}
		}
		return nil
	})
	if err != nil {
		return ImportStats{}, err
	}

	if im.invalidator != nil && len(touched) > 0 {
		im.invalidator.InvalidateSections(ctx, touched...)
	}
	im.log.Info("catalog imported", "stats", stats.String())
	return stats, nil
}

// importVariant upserts one variant and its questions. createdAt only applies on
// first insert, so catalog order decides the fallback tie-break.
func (im *Importer) importVariant(
	dbc dbctx.Context,
	courseKey, sectionKey string,
	sectionID uuid.UUID,
	v VariantSpec,
	styleIDs map[string]uuid.UUID,
	createdAt time.Time,
) (int, error) {
	styleKey := strings.TrimSpace(v.Style)
	row := &types.ContentVariant{
		ID:        VariantID(courseKey, sectionKey, styleKey),
		SectionID: sectionID,
		Title:     v.Title,
		Body:      v.Body,
		CreatedAt: createdAt,
	}
	if styleKey != "" {
		id, ok := styleIDs[styleKey]
		if !ok {
			return 0, fmt.Errorf("%s/%s: style %q not imported", courseKey, sectionKey, styleKey)
		}
		row.StyleID = &id
	}
	if err := im.variants.Upsert(dbc, row); err != nil {
		return 0, err
	}

	questions := make([]*types.Question, 0, len(v.Questions))
	for pos, q := range v.Questions {
		questions = append(questions, &types.Question{
			ID:         QuestionID(row.ID, strings.TrimSpace(q.Key)),
			VariantID:  row.ID,
			Position:   pos,
			Prompt:     q.Prompt,
			Choices:    types.EncodeChoices(q.Choices),
			CorrectKey: strings.TrimSpace(q.Answer),
		})
	}
	if err := im.variants.UpsertQuestions(dbc, questions); err != nil {
		return 0, err
	}
	return len(questions), nil
}
