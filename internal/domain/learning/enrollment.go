package learning

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Enrollment pairs a learner with a course. ProgressPercentage is a cache of the
// completed-section ratio and is only ever written by recomputation.
type Enrollment struct {
	ID                 uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	LearnerID          uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_enrollment_learner_course,priority:1" json:"learner_id"`
	CourseID           uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_enrollment_learner_course,priority:2;index" json:"course_id"`
	Course             *Course   `gorm:"constraint:OnDelete:CASCADE;foreignKey:CourseID;references:ID" json:"-"`
	ProgressPercentage int       `gorm:"column:progress_percentage;not null;default:0" json:"progress_percentage"`
	CreatedAt          time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt          time.Time `gorm:"not null" json:"updated_at"`
}

func (Enrollment) TableName() string { return "enrollment" }

func (e *Enrollment) BeforeCreate(tx *gorm.DB) error {
	ensureID(&e.ID)
	return nil
}

// SectionProgress is unique on (learner, section); repeat completions overwrite.
type SectionProgress struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	LearnerID   uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_section_progress_learner_section,priority:1" json:"learner_id"`
	SectionID   uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_section_progress_learner_section,priority:2;index" json:"section_id"`
	Section     *CourseSection `gorm:"constraint:OnDelete:CASCADE;foreignKey:SectionID;references:ID" json:"-"`
	Completed   bool           `gorm:"column:completed;not null;default:false" json:"completed"`
	CompletedAt *time.Time     `gorm:"column:completed_at" json:"completed_at,omitempty"`
	Score       *int           `gorm:"column:score" json:"score,omitempty"`
	CreatedAt   time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"not null" json:"updated_at"`
}

func (SectionProgress) TableName() string { return "section_progress" }

func (p *SectionProgress) BeforeCreate(tx *gorm.DB) error {
	ensureID(&p.ID)
	return nil
}
