package learning

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/stylepath-backend/internal/pkg/dbctx"
	"github.com/yungbote/stylepath-backend/internal/platform/logger"
)

// AnalyticsFilter scopes analytics reads. Nil fields are unconstrained.
type AnalyticsFilter struct {
	CourseID  *uuid.UUID
	LearnerID *uuid.UUID
}

type AttemptSummaryRow struct {
	Attempts  int64
	MeanScore *float64
}

type SectionStatRow struct {
	SectionID uuid.UUID
	Attempts  int64
	MeanScore *float64
}

// AttemptFact is one completed attempt with both the style it was taken under
// and the learner's current style.
type AttemptFact struct {
	AttemptID       uuid.UUID
	LearnerID       uuid.UUID
	SectionID       uuid.UUID
	SnapshotStyleID *uuid.UUID
	CurrentStyleID  *uuid.UUID
	Score           int
	StartTime       time.Time
	EndTime         time.Time
}

type AnswerDetailRow struct {
	ID             uuid.UUID `json:"id"`
	AttemptID      uuid.UUID `json:"attempt_id"`
	QuestionID     uuid.UUID `json:"question_id"`
	LearnerID      uuid.UUID `json:"learner_id"`
	SectionID      uuid.UUID `json:"section_id"`
	QuestionPrompt string    `json:"question_prompt"`
	CorrectKey     string    `json:"correct_key"`
	SelectedAnswer *string   `json:"selected_answer"`
	IsCorrect      bool      `json:"is_correct"`
	TimeTakenMs    int64     `json:"time_taken_ms"`
	SubmittedAt    time.Time `json:"submitted_at"`
}

type AnalyticsRepo interface {
	Summary(dbc dbctx.Context, f AnalyticsFilter) (AttemptSummaryRow, error)
	SectionStats(dbc dbctx.Context, f AnalyticsFilter) ([]SectionStatRow, error)
	AttemptFacts(dbc dbctx.Context, f AnalyticsFilter) ([]AttemptFact, error)
	AnswerDetails(dbc dbctx.Context, f AnalyticsFilter, limit int) ([]AnswerDetailRow, error)
}

type analyticsRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAnalyticsRepo(db *gorm.DB, baseLog *logger.Logger) AnalyticsRepo {
	return &analyticsRepo{db: db, log: baseLog.With("repo", "AnalyticsRepo")}
}

// completedAttempts scopes q to submitted, scored attempts matching f.
func completedAttempts(q *gorm.DB, f AnalyticsFilter) *gorm.DB {
	q = q.Where("attempt.end_time IS NOT NULL AND attempt.score IS NOT NULL")
	if f.CourseID != nil && *f.CourseID != uuid.Nil {
		q = q.Joins("JOIN course_section ON course_section.id = attempt.section_id").
			Where("course_section.course_id = ?", *f.CourseID)
	}
	if f.LearnerID != nil && *f.LearnerID != uuid.Nil {
		q = q.Where("attempt.learner_id = ?", *f.LearnerID)
	}
	return q
}

func (r *analyticsRepo) Summary(dbc dbctx.Context, f AnalyticsFilter) (AttemptSummaryRow, error) {
	var row AttemptSummaryRow
	err := completedAttempts(dbc.DB(r.db).Table("attempt"), f).
		Select("COUNT(*) AS attempts, AVG(attempt.score) AS mean_score").
		Scan(&row).Error
	return row, err
}

func (r *analyticsRepo) SectionStats(dbc dbctx.Context, f AnalyticsFilter) ([]SectionStatRow, error) {
	var rows []SectionStatRow
	err := completedAttempts(dbc.DB(r.db).Table("attempt"), f).
		Select("attempt.section_id AS section_id, COUNT(*) AS attempts, AVG(attempt.score) AS mean_score").
		Group("attempt.section_id").
		Order("attempt.section_id ASC").
		Scan(&rows).Error
	return rows, err
}

func (r *analyticsRepo) AttemptFacts(dbc dbctx.Context, f AnalyticsFilter) ([]AttemptFact, error) {
	var rows []AttemptFact
	err := completedAttempts(dbc.DB(r.db).Table("attempt"), f).
		Joins("LEFT JOIN learner ON learner.id = attempt.learner_id").
		Select(`attempt.id AS attempt_id,
			attempt.learner_id AS learner_id,
			attempt.section_id AS section_id,
			attempt.style_id AS snapshot_style_id,
			learner.style_id AS current_style_id,
			attempt.score AS score,
			attempt.start_time AS start_time,
			attempt.end_time AS end_time`).
		Order("attempt.end_time ASC, attempt.id ASC").
		Scan(&rows).Error
	return rows, err
}

func (r *analyticsRepo) AnswerDetails(dbc dbctx.Context, f AnalyticsFilter, limit int) ([]AnswerDetailRow, error) {
	if limit <= 0 {
		limit = 1000
	}
	var rows []AnswerDetailRow
	q := dbc.DB(r.db).Table("answer_detail").
		Joins("JOIN attempt ON attempt.id = answer_detail.attempt_id").
		Joins("LEFT JOIN question ON question.id = answer_detail.question_id")
	err := completedAttempts(q, f).
		Select(`answer_detail.id AS id,
			answer_detail.attempt_id AS attempt_id,
			answer_detail.question_id AS question_id,
			attempt.learner_id AS learner_id,
			attempt.section_id AS section_id,
			COALESCE(question.prompt, '') AS question_prompt,
			COALESCE(question.correct_key, '') AS correct_key,
			answer_detail.selected_answer AS selected_answer,
			answer_detail.is_correct AS is_correct,
			answer_detail.time_taken_ms AS time_taken_ms,
			attempt.end_time AS submitted_at`).
		Order("attempt.end_time DESC, attempt.id ASC, question.position ASC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}
