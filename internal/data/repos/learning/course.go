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

type CourseRepo interface {
	Create(dbc dbctx.Context, rows []*types.Course) ([]*types.Course, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Course, error)
	List(dbc dbctx.Context) ([]*types.Course, error)
	Upsert(dbc dbctx.Context, row *types.Course) error
}

type courseRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCourseRepo(db *gorm.DB, baseLog *logger.Logger) CourseRepo {
	return &courseRepo{db: db, log: baseLog.With("repo", "CourseRepo")}
}

func (r *courseRepo) Create(dbc dbctx.Context, rows []*types.Course) ([]*types.Course, error) {
	if len(rows) == 0 {
		return []*types.Course{}, nil
	}
	if err := dbc.DB(r.db).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *courseRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Course, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	var out []*types.Course
	if err := dbc.DB(r.db).Where("id = ?", id).Limit(1).Find(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

func (r *courseRepo) List(dbc dbctx.Context) ([]*types.Course, error) {
	var out []*types.Course
	if err := dbc.DB(r.db).Order("created_at ASC, id ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *courseRepo) Upsert(dbc dbctx.Context, row *types.Course) error {
	if row == nil {
		return nil
	}
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	row.UpdatedAt = time.Now().UTC()
	return dbc.DB(r.db).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "description", "updated_at"}),
		}).
		Create(row).Error
}
