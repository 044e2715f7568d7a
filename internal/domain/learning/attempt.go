package learning

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/stylepath-backend/internal/domain/aggregates"
)

// Attempt is one submitted run of a test/quiz section. Rows are write-once.
type Attempt struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	LearnerID uuid.UUID       `gorm:"type:uuid;not null;index:idx_attempt_learner_section,priority:1" json:"learner_id"`
	SectionID uuid.UUID       `gorm:"type:uuid;not null;index:idx_attempt_learner_section,priority:2;index" json:"section_id"`
	Section   *CourseSection  `gorm:"constraint:OnDelete:CASCADE;foreignKey:SectionID;references:ID" json:"-"`
	VariantID *uuid.UUID      `gorm:"type:uuid" json:"variant_id,omitempty"`
	StyleID   *uuid.UUID      `gorm:"type:uuid" json:"style_id,omitempty"` // learner style at submission time
	StartTime time.Time       `gorm:"column:start_time;not null" json:"start_time"`
	EndTime   *time.Time      `gorm:"column:end_time;index" json:"end_time,omitempty"`
	Score     *int            `gorm:"column:score" json:"score,omitempty"`
	Answers   []*AnswerDetail `gorm:"foreignKey:AttemptID;references:ID" json:"answers,omitempty"`
	CreatedAt time.Time       `gorm:"not null" json:"created_at"`
}

func (Attempt) TableName() string { return "attempt" }

func (a *Attempt) BeforeCreate(tx *gorm.DB) error {
	ensureID(&a.ID)
	return nil
}

func (a *Attempt) BeforeUpdate(tx *gorm.DB) error {
	return aggregates.NewError(aggregates.CodeImmutable, "attempt.update", "attempts are write-once", nil)
}

// Duration is EndTime-StartTime, or zero while unsubmitted.
func (a *Attempt) Duration() time.Duration {
	if a == nil || a.EndTime == nil {
		return 0
	}
	d := a.EndTime.Sub(a.StartTime)
	if d < 0 {
		return 0
	}
	return d
}

// AnswerDetail is the immutable per-question outcome of an attempt.
type AnswerDetail struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	AttemptID      uuid.UUID `gorm:"type:uuid;not null;index" json:"attempt_id"`
	Attempt        *Attempt  `gorm:"constraint:OnDelete:CASCADE;foreignKey:AttemptID;references:ID" json:"-"`
	QuestionID     uuid.UUID `gorm:"type:uuid;not null;index" json:"question_id"`
	Question       *Question `gorm:"constraint:OnDelete:CASCADE;foreignKey:QuestionID;references:ID" json:"-"`
	SelectedAnswer *string   `gorm:"column:selected_answer" json:"selected_answer"`
	IsCorrect      bool      `gorm:"column:is_correct;not null" json:"is_correct"`
	TimeTakenMs    int64     `gorm:"column:time_taken_ms;not null;default:0" json:"time_taken_ms"`
	CreatedAt      time.Time `gorm:"not null" json:"created_at"`
}

func (AnswerDetail) TableName() string { return "answer_detail" }

func (d *AnswerDetail) BeforeCreate(tx *gorm.DB) error {
	ensureID(&d.ID)
	return nil
}

func (d *AnswerDetail) BeforeUpdate(tx *gorm.DB) error {
	return aggregates.NewError(aggregates.CodeImmutable, "answer_detail.update", "answer details are write-once", nil)
}
