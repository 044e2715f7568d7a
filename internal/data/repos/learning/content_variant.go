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

type ContentVariantRepo interface {
	Create(dbc dbctx.Context, rows []*types.ContentVariant) ([]*types.ContentVariant, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.ContentVariant, error)
	// GetBySectionID returns every variant of the section with questions loaded,
	// ordered created_at ASC, id ASC.
	GetBySectionID(dbc dbctx.Context, sectionID uuid.UUID) ([]*types.ContentVariant, error)
	Upsert(dbc dbctx.Context, row *types.ContentVariant) error
	UpsertQuestions(dbc dbctx.Context, rows []*types.Question) error
}

type contentVariantRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewContentVariantRepo(db *gorm.DB, baseLog *logger.Logger) ContentVariantRepo {
	return &contentVariantRepo{db: db, log: baseLog.With("repo", "ContentVariantRepo")}
}

func orderedQuestions(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC, id ASC")
}

func (r *contentVariantRepo) Create(dbc dbctx.Context, rows []*types.ContentVariant) ([]*types.ContentVariant, error) {
	if len(rows) == 0 {
		return []*types.ContentVariant{}, nil
	}
	if err := dbc.DB(r.db).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *contentVariantRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.ContentVariant, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	var out []*types.ContentVariant
	if err := dbc.DB(r.db).
		Preload("Questions", orderedQuestions).
		Where("id = ?", id).
		Limit(1).
		Find(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

func (r *contentVariantRepo) GetBySectionID(dbc dbctx.Context, sectionID uuid.UUID) ([]*types.ContentVariant, error) {
	var out []*types.ContentVariant
	if sectionID == uuid.Nil {
		return out, nil
	}
	if err := dbc.DB(r.db).
		Preload("Questions", orderedQuestions).
		Where("section_id = ?", sectionID).
		Order("created_at ASC, id ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *contentVariantRepo) Upsert(dbc dbctx.Context, row *types.ContentVariant) error {
	if row == nil || row.SectionID == uuid.Nil {
		return nil
	}
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	row.UpdatedAt = time.Now().UTC()
	return dbc.DB(r.db).
		Omit("Questions").
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"style_id", "title", "body", "updated_at"}),
		}).
		Create(row).Error
}

func (r *contentVariantRepo) UpsertQuestions(dbc dbctx.Context, rows []*types.Question) error {
	if len(rows) == 0 {
		return nil
	}
	now := time.Now().UTC()
	for _, q := range rows {
		if q.ID == uuid.Nil {
			q.ID = uuid.New()
		}
		q.UpdatedAt = now
	}
	return dbc.DB(r.db).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"position", "prompt", "choices", "correct_key", "updated_at"}),
		}).
		Create(&rows).Error
}
