package learning

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/stylepath-backend/internal/domain"
	"github.com/yungbote/stylepath-backend/internal/pkg/dbctx"
	"github.com/yungbote/stylepath-backend/internal/platform/logger"
)

type AttemptRepo interface {
	Create(dbc dbctx.Context, row *types.Attempt) error
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Attempt, error)
	// GetByLearnerAndSection returns attempts newest first.
	GetByLearnerAndSection(dbc dbctx.Context, learnerID, sectionID uuid.UUID, limit int) ([]*types.Attempt, error)
	CreateDetails(dbc dbctx.Context, rows []*types.AnswerDetail) error
	GetDetailsByAttemptID(dbc dbctx.Context, attemptID uuid.UUID) ([]*types.AnswerDetail, error)
}

type attemptRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAttemptRepo(db *gorm.DB, baseLog *logger.Logger) AttemptRepo {
	return &attemptRepo{db: db, log: baseLog.With("repo", "AttemptRepo")}
}

func (r *attemptRepo) Create(dbc dbctx.Context, row *types.Attempt) error {
	if row == nil {
		return nil
	}
	return dbc.DB(r.db).Omit("Answers").Create(row).Error
}

func (r *attemptRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Attempt, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	var out []*types.Attempt
	if err := dbc.DB(r.db).
		Preload("Answers").
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

func (r *attemptRepo) GetByLearnerAndSection(dbc dbctx.Context, learnerID, sectionID uuid.UUID, limit int) ([]*types.Attempt, error) {
	var out []*types.Attempt
	if learnerID == uuid.Nil || sectionID == uuid.Nil {
		return out, nil
	}
	q := dbc.DB(r.db).
		Where("learner_id = ? AND section_id = ?", learnerID, sectionID).
		Order("start_time DESC, created_at DESC, id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *attemptRepo) CreateDetails(dbc dbctx.Context, rows []*types.AnswerDetail) error {
	if len(rows) == 0 {
		return nil
	}
	return dbc.DB(r.db).CreateInBatches(&rows, 200).Error
}

func (r *attemptRepo) GetDetailsByAttemptID(dbc dbctx.Context, attemptID uuid.UUID) ([]*types.AnswerDetail, error) {
	var out []*types.AnswerDetail
	if attemptID == uuid.Nil {
		return out, nil
	}
	if err := dbc.DB(r.db).
		Where("attempt_id = ?", attemptID).
		Order("created_at ASC, id ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
