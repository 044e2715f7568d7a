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

type EnrollmentRepo interface {
	// Ensure creates the (learner, course) enrollment if missing. Existing rows are untouched.
	Ensure(dbc dbctx.Context, learnerID, courseID uuid.UUID) error
	Get(dbc dbctx.Context, learnerID, courseID uuid.UUID) (*types.Enrollment, error)
	GetByLearnerID(dbc dbctx.Context, learnerID uuid.UUID) ([]*types.Enrollment, error)
	// SetPercentage writes the cached percentage and reports whether a row was updated.
	SetPercentage(dbc dbctx.Context, learnerID, courseID uuid.UUID, pct int) (bool, error)
	Delete(dbc dbctx.Context, learnerID, courseID uuid.UUID) (bool, error)
	// ListPage returns enrollments ordered by id, strictly after the given id.
	ListPage(dbc dbctx.Context, after uuid.UUID, limit int) ([]*types.Enrollment, error)
}

type enrollmentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewEnrollmentRepo(db *gorm.DB, baseLog *logger.Logger) EnrollmentRepo {
	return &enrollmentRepo{db: db, log: baseLog.With("repo", "EnrollmentRepo")}
}

func (r *enrollmentRepo) Ensure(dbc dbctx.Context, learnerID, courseID uuid.UUID) error {
	if learnerID == uuid.Nil || courseID == uuid.Nil {
		return nil
	}
	row := &types.Enrollment{ID: uuid.New(), LearnerID: learnerID, CourseID: courseID}
	return dbc.DB(r.db).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "learner_id"}, {Name: "course_id"}},
			DoNothing: true,
		}).
		Create(row).Error
}

func (r *enrollmentRepo) Get(dbc dbctx.Context, learnerID, courseID uuid.UUID) (*types.Enrollment, error) {
	if learnerID == uuid.Nil || courseID == uuid.Nil {
		return nil, nil
	}
	var out []*types.Enrollment
	if err := dbc.DB(r.db).
		Where("learner_id = ? AND course_id = ?", learnerID, courseID).
		Limit(1).
		Find(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

func (r *enrollmentRepo) GetByLearnerID(dbc dbctx.Context, learnerID uuid.UUID) ([]*types.Enrollment, error) {
	var out []*types.Enrollment
	if learnerID == uuid.Nil {
		return out, nil
	}
	if err := dbc.DB(r.db).
		Where("learner_id = ?", learnerID).
		Order("created_at ASC, id ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *enrollmentRepo) SetPercentage(dbc dbctx.Context, learnerID, courseID uuid.UUID, pct int) (bool, error) {
	if learnerID == uuid.Nil || courseID == uuid.Nil {
		return false, nil
	}
	res := dbc.DB(r.db).
		Model(&types.Enrollment{}).
		Where("learner_id = ? AND course_id = ?", learnerID, courseID).
		Updates(map[string]interface{}{
			"progress_percentage": pct,
			"updated_at":          time.Now().UTC(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *enrollmentRepo) Delete(dbc dbctx.Context, learnerID, courseID uuid.UUID) (bool, error) {
	if learnerID == uuid.Nil || courseID == uuid.Nil {
		return false, nil
	}
	res := dbc.DB(r.db).
		Where("learner_id = ? AND course_id = ?", learnerID, courseID).
		Delete(&types.Enrollment{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *enrollmentRepo) ListPage(dbc dbctx.Context, after uuid.UUID, limit int) ([]*types.Enrollment, error) {
	if limit <= 0 {
		limit = 500
	}
	var out []*types.Enrollment
	q := dbc.DB(r.db).Order("id ASC").Limit(limit)
	if after != uuid.Nil {
		q = q.Where("id > ?", after)
	}
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
