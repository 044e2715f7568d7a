package learning

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/stylepath-backend/internal/domain"
	"github.com/yungbote/stylepath-backend/internal/pkg/dbctx"
	"github.com/yungbote/stylepath-backend/internal/platform/logger"
)

type LearningStyleRepo interface {
	List(dbc dbctx.Context) ([]*types.LearningStyle, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.LearningStyle, error)
	GetByKey(dbc dbctx.Context, key string) (*types.LearningStyle, error)
	Upsert(dbc dbctx.Context, row *types.LearningStyle) error
}

type learningStyleRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewLearningStyleRepo(db *gorm.DB, baseLog *logger.Logger) LearningStyleRepo {
	return &learningStyleRepo{db: db, log: baseLog.With("repo", "LearningStyleRepo")}
}

func (r *learningStyleRepo) List(dbc dbctx.Context) ([]*types.LearningStyle, error) {
	var out []*types.LearningStyle
	if err := dbc.DB(r.db).Order("key ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *learningStyleRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.LearningStyle, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	var out []*types.LearningStyle
	if err := dbc.DB(r.db).Where("id = ?", id).Limit(1).Find(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

func (r *learningStyleRepo) GetByKey(dbc dbctx.Context, key string) (*types.LearningStyle, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, nil
	}
	var out []*types.LearningStyle
	if err := dbc.DB(r.db).Where("key = ?", key).Limit(1).Find(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

// Upsert is keyed on the style key; the stored id wins on conflict.
func (r *learningStyleRepo) Upsert(dbc dbctx.Context, row *types.LearningStyle) error {
	if row == nil || strings.TrimSpace(row.Key) == "" {
		return nil
	}
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	row.UpdatedAt = time.Now().UTC()
	if err := dbc.DB(r.db).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "updated_at"}),
		}).
		Create(row).Error; err != nil {
		return err
	}
	stored, err := r.GetByKey(dbc, row.Key)
	if err != nil {
		return err
	}
	if stored != nil {
		row.ID = stored.ID
	}
	return nil
}
