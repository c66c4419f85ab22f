package repos

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/huskygraph/huskygraph-backend/internal/logger"
	"github.com/huskygraph/huskygraph-backend/internal/types"
)

type MergeLogRepo interface {
	Create(ctx context.Context, tx *gorm.DB, log *types.MergeLog) error
	GetForDog(ctx context.Context, tx *gorm.DB, id, dogID uint) (*types.MergeLog, error)
	ListByDog(ctx context.Context, tx *gorm.DB, dogID uint) ([]*types.MergeLog, error)
	Delete(ctx context.Context, tx *gorm.DB, log *types.MergeLog) error
}

type mergeLogRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewMergeLogRepo(db *gorm.DB, baseLog *logger.Logger) MergeLogRepo {
	repoLog := baseLog.With("repo", "MergeLogRepo")
	return &mergeLogRepo{db: db, log: repoLog}
}

func (mr *mergeLogRepo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return mr.db
}

func (mr *mergeLogRepo) Create(ctx context.Context, tx *gorm.DB, log *types.MergeLog) error {
	return mr.conn(tx).WithContext(ctx).Create(log).Error
}

func (mr *mergeLogRepo) GetForDog(ctx context.Context, tx *gorm.DB, id, dogID uint) (*types.MergeLog, error) {
	var mergeLog types.MergeLog
	err := mr.conn(tx).WithContext(ctx).
		Where("id = ? AND dog_id = ?", id, dogID).
		First(&mergeLog).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &mergeLog, nil
}

func (mr *mergeLogRepo) ListByDog(ctx context.Context, tx *gorm.DB, dogID uint) ([]*types.MergeLog, error) {
	var logs []*types.MergeLog
	err := mr.conn(tx).WithContext(ctx).
		Where("dog_id = ?", dogID).
		Order("resolved_date desc").
		Find(&logs).Error
	if err != nil {
		return nil, err
	}
	return logs, nil
}

func (mr *mergeLogRepo) Delete(ctx context.Context, tx *gorm.DB, log *types.MergeLog) error {
	return mr.conn(tx).WithContext(ctx).Delete(log).Error
}
