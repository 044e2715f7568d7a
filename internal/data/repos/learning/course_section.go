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

type CourseSectionRepo interface {
	Create(dbc dbctx.Context, rows []*types.CourseSection) ([]*types.CourseSection, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.CourseSection, error)
	GetByCourseID(dbc dbctx.Context, courseID uuid.UUID) ([]*types.CourseSection, error)
	IDsByCourseID(dbc dbctx.Context, courseID uuid.UUID) ([]uuid.UUID, error)
	CountByCourseID(dbc dbctx.Context, courseID uuid.UUID) (int64, error)
	Upsert(dbc dbctx.Context, row *types.CourseSection) error
}

type courseSectionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCourseSectionRepo(db *gorm.DB, baseLog *logger.Logger) CourseSectionRepo {
	return &courseSectionRepo{db: db, log: baseLog.With("repo", "CourseSectionRepo")}
}

func (r *courseSectionRepo) Create(dbc dbctx.Context, rows []*types.CourseSection) ([]*types.CourseSection, error) {
	if len(rows) == 0 {
		return []*types.CourseSection{}, nil
	}
	if err := dbc.DB(r.db).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *courseSectionRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.CourseSection, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	var out []*types.CourseSection
	if err := dbc.DB(r.db).Where("id = ?", id).Limit(1).Find(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

func (r *courseSectionRepo) GetByCourseID(dbc dbctx.Context, courseID uuid.UUID) ([]*types.CourseSection, error) {
	var out []*types.CourseSection
	if courseID == uuid.Nil {
		return out, nil
	}
	if err := dbc.DB(r.db).
		Where("course_id = ?", courseID).
		Order("position ASC, created_at ASC, id ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *courseSectionRepo) IDsByCourseID(dbc dbctx.Context, courseID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	if courseID == uuid.Nil {
		return ids, nil
	}
	if err := dbc.DB(r.db).
		Model(&types.CourseSection{}).
		Where("course_id = ?", courseID).
		Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *courseSectionRepo) CountByCourseID(dbc dbctx.Context, courseID uuid.UUID) (int64, error) {
	var n int64
	if courseID == uuid.Nil {
		return 0, nil
	}
	if err := dbc.DB(r.db).
		Model(&types.CourseSection{}).
		Where("course_id = ?", courseID).
		Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

func (r *courseSectionRepo) Upsert(dbc dbctx.Context, row *types.CourseSection) error {
	if row == nil || row.CourseID == uuid.Nil {
		return nil
	}
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	row.UpdatedAt = time.Now().UTC()
	return dbc.DB(r.db).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"kind", "position", "title", "updated_at"}),
		}).
		Create(row).Error
}
