package learning

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/stylepath-backend/internal/domain"
	"github.com/yungbote/stylepath-backend/internal/pkg/dbctx"
	"github.com/yungbote/stylepath-backend/internal/platform/logger"
)

type SectionProgressRepo interface {
	// Upsert writes the row keyed by (learner_id, section_id) in a single statement.
	// A repeat call overwrites completed, completed_at and score.
	Upsert(dbc dbctx.Context, row *types.SectionProgress) error
	Get(dbc dbctx.Context, learnerID, sectionID uuid.UUID) (*types.SectionProgress, error)
	GetByLearnerAndSectionIDs(dbc dbctx.Context, learnerID uuid.UUID, sectionIDs []uuid.UUID) ([]*types.SectionProgress, error)
	// CountCompletedInCourse counts completed rows for the course's live sections.
	CountCompletedInCourse(dbc dbctx.Context, learnerID, courseID uuid.UUID) (int64, error)
	DeleteByLearnerAndSectionIDs(dbc dbctx.Context, learnerID uuid.UUID, sectionIDs []uuid.UUID) (int64, error)
}

type sectionProgressRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSectionProgressRepo(db *gorm.DB, baseLog *logger.Logger) SectionProgressRepo {
	return &sectionProgressRepo{db: db, log: baseLog.With("repo", "SectionProgressRepo")}
}

func (r *sectionProgressRepo) Upsert(dbc dbctx.Context, row *types.SectionProgress) error {
	if row == nil || row.LearnerID == uuid.Nil || row.SectionID == uuid.Nil {
		return nil
	}
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	now := time.Now().UTC()
	row.UpdatedAt = now
	if row.CreatedAt.IsZero() {
		row.CreatedAt = now
	}
	return dbc.DB(r.db).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "learner_id"}, {Name: "section_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"completed", "completed_at", "score", "updated_at"}),
		}).
		Create(row).Error
}

func (r *sectionProgressRepo) Get(dbc dbctx.Context, learnerID, sectionID uuid.UUID) (*types.SectionProgress, error) {
	rows, err := r.GetByLearnerAndSectionIDs(dbc, learnerID, []uuid.UUID{sectionID})
	if err != nil || len(rows) == 0 {
		return nil, err
	}
	return rows[0], nil
}

func (r *sectionProgressRepo) GetByLearnerAndSectionIDs(dbc dbctx.Context, learnerID uuid.UUID, sectionIDs []uuid.UUID) ([]*types.SectionProgress, error) {
	var out []*types.SectionProgress
	if learnerID == uuid.Nil || len(sectionIDs) == 0 {
		return out, nil
	}
	if err := dbc.DB(r.db).
		Where("learner_id = ? AND section_id IN ?", learnerID, sectionIDs).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *sectionProgressRepo) CountCompletedInCourse(dbc dbctx.Context, learnerID, courseID uuid.UUID) (int64, error) {
	var n int64
	if learnerID == uuid.Nil || courseID == uuid.Nil {
		return 0, nil
	}
	if err := dbc.DB(r.db).
		Model(&types.SectionProgress{}).
		Joins("JOIN course_section ON course_section.id = section_progress.section_id").
		Where("section_progress.learner_id = ?", learnerID).
		Where("section_progress.completed = ?", true).
		Where("course_section.course_id = ? AND course_section.deleted_at IS NULL", courseID).
		Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

func (r *sectionProgressRepo) DeleteByLearnerAndSectionIDs(dbc dbctx.Context, learnerID uuid.UUID, sectionIDs []uuid.UUID) (int64, error) {
	if learnerID == uuid.Nil || len(sectionIDs) == 0 {
		return 0, nil
	}
	res := dbc.DB(r.db).
		Where("learner_id = ? AND section_id IN ?", learnerID, sectionIDs).
		Delete(&types.SectionProgress{})
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}
