package learning

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SectionKind determines what a section's content represents.
type SectionKind string

const (
	SectionLearn SectionKind = "learn"
	SectionTest  SectionKind = "test"
	SectionQuiz  SectionKind = "quiz"
)

func (k SectionKind) Valid() bool {
	switch k {
	case SectionLearn, SectionTest, SectionQuiz:
		return true
	default:
		return false
	}
}

// Gradeable reports whether attempts can be submitted against the section.
func (k SectionKind) Gradeable() bool {
	return k == SectionTest || k == SectionQuiz
}

type Course struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string         `gorm:"column:name;not null" json:"name"`
	Description string         `gorm:"column:description;type:text" json:"description"`
	CreatedAt   time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Course) TableName() string { return "course" }

func (c *Course) BeforeCreate(tx *gorm.DB) error {
	ensureID(&c.ID)
	return nil
}

type CourseSection struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	CourseID  uuid.UUID      `gorm:"type:uuid;not null;index:idx_course_section_order,priority:1" json:"course_id"`
	Course    *Course        `gorm:"constraint:OnDelete:CASCADE;foreignKey:CourseID;references:ID" json:"-"`
	Kind      SectionKind    `gorm:"column:kind;type:varchar(16);not null" json:"kind"`
	Position  int            `gorm:"column:position;not null;default:0;index:idx_course_section_order,priority:2" json:"position"`
	Title     string         `gorm:"column:title" json:"title"`
	CreatedAt time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (CourseSection) TableName() string { return "course_section" }

func (s *CourseSection) BeforeCreate(tx *gorm.DB) error {
	ensureID(&s.ID)
	return nil
}
