package learning

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type LearningStyle struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Key       string    `gorm:"column:key;not null;uniqueIndex" json:"key"` // visual|auditory|kinesthetic|...
	Name      string    `gorm:"column:name;not null" json:"name"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (LearningStyle) TableName() string { return "learning_style" }

func (s *LearningStyle) BeforeCreate(tx *gorm.DB) error {
	ensureID(&s.ID)
	return nil
}

// Learner mirrors an externally authenticated identity. StyleID is the currently
// assigned learning style, if any.
type Learner struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	DisplayName string         `gorm:"column:display_name" json:"display_name,omitempty"`
	StyleID     *uuid.UUID     `gorm:"type:uuid;index" json:"style_id,omitempty"`
	Style       *LearningStyle `gorm:"constraint:OnDelete:SET NULL;foreignKey:StyleID;references:ID" json:"style,omitempty"`
	CreatedAt   time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"not null" json:"updated_at"`
}

func (Learner) TableName() string { return "learner" }
