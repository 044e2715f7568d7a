package learning

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ContentVariant is one authored rendering of a section. StyleID == nil marks the
// style-agnostic default.
type ContentVariant struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	SectionID uuid.UUID      `gorm:"type:uuid;not null;index:idx_content_variant_section_style,priority:1" json:"section_id"`
	Section   *CourseSection `gorm:"constraint:OnDelete:CASCADE;foreignKey:SectionID;references:ID" json:"-"`
	StyleID   *uuid.UUID     `gorm:"type:uuid;index:idx_content_variant_section_style,priority:2" json:"style_id,omitempty"`
	Style     *LearningStyle `gorm:"constraint:OnDelete:SET NULL;foreignKey:StyleID;references:ID" json:"-"`
	Title     string         `gorm:"column:title" json:"title,omitempty"`
	Body      string         `gorm:"column:body;type:text" json:"body,omitempty"`
	Questions []*Question    `gorm:"foreignKey:VariantID;references:ID" json:"questions,omitempty"`
	CreatedAt time.Time      `gorm:"not null;index" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (ContentVariant) TableName() string { return "content_variant" }

func (v *ContentVariant) BeforeCreate(tx *gorm.DB) error {
	ensureID(&v.ID)
	return nil
}

// IsDefault reports whether the variant is style-agnostic.
func (v *ContentVariant) IsDefault() bool { return v != nil && v.StyleID == nil }

// ForLearner returns a copy safe to serve to learners (answer keys removed).
func (v *ContentVariant) ForLearner() *ContentVariant {
	if v == nil {
		return nil
	}
	out := *v
	out.Questions = make([]*Question, 0, len(v.Questions))
	for _, q := range v.Questions {
		if q == nil {
			continue
		}
		cp := *q
		cp.CorrectKey = ""
		out.Questions = append(out.Questions, &cp)
	}
	return &out
}

type Choice struct {
	Key   string `json:"key" yaml:"key"`
	Label string `json:"label" yaml:"label"`
}

type Question struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	VariantID  uuid.UUID       `gorm:"type:uuid;not null;index:idx_question_variant_order,priority:1" json:"variant_id"`
	Variant    *ContentVariant `gorm:"constraint:OnDelete:CASCADE;foreignKey:VariantID;references:ID" json:"-"`
	Position   int             `gorm:"column:position;not null;default:0;index:idx_question_variant_order,priority:2" json:"position"`
	Prompt     string          `gorm:"column:prompt;type:text;not null" json:"prompt"`
	Choices    datatypes.JSON  `gorm:"column:choices" json:"choices,omitempty"`
	CorrectKey string          `gorm:"column:correct_key" json:"correct_key,omitempty"`
	CreatedAt  time.Time       `gorm:"not null" json:"created_at"`
	UpdatedAt  time.Time       `gorm:"not null" json:"updated_at"`
}

func (Question) TableName() string { return "question" }

func (q *Question) BeforeCreate(tx *gorm.DB) error {
	ensureID(&q.ID)
	return nil
}

// ChoiceList decodes the stored choices; malformed payloads decode as empty.
func (q *Question) ChoiceList() []Choice {
	if q == nil || len(q.Choices) == 0 {
		return nil
	}
	var out []Choice
	if err := json.Unmarshal(q.Choices, &out); err != nil {
		return nil
	}
	return out
}

func EncodeChoices(choices []Choice) datatypes.JSON {
	if len(choices) == 0 {
		return datatypes.JSON([]byte("[]"))
	}
	raw, err := json.Marshal(choices)
	if err != nil {
		return datatypes.JSON([]byte("[]"))
	}
	return datatypes.JSON(raw)
}
