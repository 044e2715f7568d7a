package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	types "github.com/yungbote/stylepath-backend/internal/domain"
	"gorm.io/gorm"
)

func SeedStyle(tb testing.TB, ctx context.Context, tx *gorm.DB, key string) *types.LearningStyle {
	tb.Helper()
	s := &types.LearningStyle{ID: uuid.New(), Key: key, Name: key}
	if err := tx.WithContext(ctx).Create(s).Error; err != nil {
		tb.Fatalf("seed style: %v", err)
	}
	return s
}

func SeedLearner(tb testing.TB, ctx context.Context, tx *gorm.DB, styleID *uuid.UUID) *types.Learner {
	tb.Helper()
	l := &types.Learner{ID: uuid.New(), DisplayName: "learner", StyleID: styleID}
	if err := tx.WithContext(ctx).Create(l).Error; err != nil {
		tb.Fatalf("seed learner: %v", err)
	}
	return l
}

func SeedCourse(tb testing.TB, ctx context.Context, tx *gorm.DB) *types.Course {
	tb.Helper()
	c := &types.Course{ID: uuid.New(), Name: "course"}
	if err := tx.WithContext(ctx).Create(c).Error; err != nil {
		tb.Fatalf("seed course: %v", err)
	}
	return c
}

func SeedSection(tb testing.TB, ctx context.Context, tx *gorm.DB, courseID uuid.UUID, kind types.SectionKind, position int) *types.CourseSection {
	tb.Helper()
	s := &types.CourseSection{ID: uuid.New(), CourseID: courseID, Kind: kind, Position: position, Title: string(kind)}
	if err := tx.WithContext(ctx).Create(s).Error; err != nil {
		tb.Fatalf("seed section: %v", err)
	}
	return s
}

// SeedVariant creates a variant with one question per correct key. The variant's
// created_at is offset by age so callers can control tie-break order.
func SeedVariant(tb testing.TB, ctx context.Context, tx *gorm.DB, sectionID uuid.UUID, styleID *uuid.UUID, age time.Duration, correctKeys ...string) *types.ContentVariant {
	tb.Helper()
	v := &types.ContentVariant{
		ID:        uuid.New(),
		SectionID: sectionID,
		StyleID:   styleID,
		Body:      "body",
		CreatedAt: time.Now().UTC().Add(-age),
	}
	if err := tx.WithContext(ctx).Omit("Questions").Create(v).Error; err != nil {
		tb.Fatalf("seed variant: %v", err)
	}
	for i, key := range correctKeys {
		q := &types.Question{
			ID:         uuid.New(),
			VariantID:  v.ID,
			Position:   i,
			Prompt:     "question",
			Choices:    types.EncodeChoices([]types.Choice{{Key: "A"}, {Key: "B"}, {Key: "C"}}),
			CorrectKey: key,
		}
		if err := tx.WithContext(ctx).Create(q).Error; err != nil {
			tb.Fatalf("seed question: %v", err)
		}
		v.Questions = append(v.Questions, q)
	}
	return v
}

func SeedEnrollment(tb testing.TB, ctx context.Context, tx *gorm.DB, learnerID, courseID uuid.UUID) *types.Enrollment {
	tb.Helper()
	e := &types.Enrollment{ID: uuid.New(), LearnerID: learnerID, CourseID: courseID}
	if err := tx.WithContext(ctx).Create(e).Error; err != nil {
		tb.Fatalf("seed enrollment: %v", err)
	}
	return e
}

func PtrUUID(v uuid.UUID) *uuid.UUID { return &v }

func PtrTime(v time.Time) *time.Time { return &v }

func PtrString(v string) *string { return &v }
