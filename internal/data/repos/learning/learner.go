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

type LearnerRepo interface {
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Learner, error)
	// Ensure inserts a bare learner row if none exists and returns the stored row.
	Ensure(dbc dbctx.Context, id uuid.UUID) (*types.Learner, error)
	SetStyle(dbc dbctx.Context, id uuid.UUID, styleID *uuid.UUID) error
	StyleIDsByLearnerIDs(dbc dbctx.Context, ids []uuid.UUID) (map[uuid.UUID]*uuid.UUID, error)
}

type learnerRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewLearnerRepo(db *gorm.DB, baseLog *logger.Logger) LearnerRepo {
	return &learnerRepo{db: db, log: baseLog.With("repo", "LearnerRepo")}
}

func (r *learnerRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Learner, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	var out []*types.Learner
	if err := dbc.DB(r.db).Preload("Style").Where("id = ?", id).Limit(1).Find(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

func (r *learnerRepo) Ensure(dbc dbctx.Context, id uuid.UUID) (*types.Learner, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	row := &types.Learner{ID: id}
	if err := dbc.DB(r.db).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(row).Error; err != nil {
		return nil, err
	}
	return r.GetByID(dbc, id)
}

func (r *learnerRepo) SetStyle(dbc dbctx.Context, id uuid.UUID, styleID *uuid.UUID) error {
	if id == uuid.Nil {
		return nil
	}
	return dbc.DB(r.db).
		Model(&types.Learner{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"style_id":   styleID,
			"updated_at": time.Now().UTC(),
		}).Error
}

func (r *learnerRepo) StyleIDsByLearnerIDs(dbc dbctx.Context, ids []uuid.UUID) (map[uuid.UUID]*uuid.UUID, error) {
	out := make(map[uuid.UUID]*uuid.UUID, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var rows []*types.Learner
	if err := dbc.DB(r.db).
		Select("id", "style_id").
		Where("id IN ?", ids).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, l := range rows {
		out[l.ID] = l.StyleID
	}
	return out, nil
}
