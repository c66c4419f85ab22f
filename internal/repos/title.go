package repos

import (
	"context"

	"gorm.io/gorm"

	"github.com/huskygraph/huskygraph-backend/internal/logger"
	"github.com/huskygraph/huskygraph-backend/internal/types"
)

type TitleRepo interface {
	// ReplaceForDog swaps a dog's full title list for the given one; sources
	// always report the complete set.
	ReplaceForDog(ctx context.Context, tx *gorm.DB, dogID uint, titles []types.Title) error
	ListByDog(ctx context.Context, tx *gorm.DB, dogID uint) ([]*types.Title, error)
}

type titleRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTitleRepo(db *gorm.DB, baseLog *logger.Logger) TitleRepo {
	repoLog := baseLog.With("repo", "TitleRepo")
	return &titleRepo{db: db, log: repoLog}
}

func (tr *titleRepo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return tr.db
}

func (tr *titleRepo) ReplaceForDog(ctx context.Context, tx *gorm.DB, dogID uint, titles []types.Title) error {
	conn := tr.conn(tx).WithContext(ctx)

	if err := conn.Where("dog_id = ?", dogID).Delete(&types.Title{}).Error; err != nil {
		return err
	}
	if len(titles) == 0 {
		return nil
	}
	for i := range titles {
		titles[i].ID = 0
		titles[i].DogID = dogID
	}
	return conn.Create(&titles).Error
}

func (tr *titleRepo) ListByDog(ctx context.Context, tx *gorm.DB, dogID uint) ([]*types.Title, error) {
	var titles []*types.Title
	err := tr.conn(tx).WithContext(ctx).Where("dog_id = ?", dogID).Find(&titles).Error
	if err != nil {
		return nil, err
	}
	return titles, nil
}
