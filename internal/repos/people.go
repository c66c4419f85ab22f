package repos

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/huskygraph/huskygraph-backend/internal/logger"
	"github.com/huskygraph/huskygraph-backend/internal/types"
)

// PersonRepo upserts breeders and owners. Registry sites reuse people across
// dogs, so lookups go by external uuid first, then by exact name.
type PersonRepo interface {
	GetOrCreateBreeder(ctx context.Context, tx *gorm.DB, breeder types.Breeder) (*types.Breeder, error)
	GetOrCreateOwner(ctx context.Context, tx *gorm.DB, owner types.Owner) (*types.Owner, error)
}

type personRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPersonRepo(db *gorm.DB, baseLog *logger.Logger) PersonRepo {
	repoLog := baseLog.With("repo", "PersonRepo")
	return &personRepo{db: db, log: repoLog}
}

func (pr *personRepo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return pr.db
}

func (pr *personRepo) GetOrCreateBreeder(ctx context.Context, tx *gorm.DB, breeder types.Breeder) (*types.Breeder, error) {
	conn := pr.conn(tx).WithContext(ctx)

	var existing types.Breeder
	query := conn.Where("name = ?", breeder.Name)
	if breeder.UUID != "" {
		query = conn.Where("uuid = ?", breeder.UUID)
	}
	err := query.First(&existing).Error
	if err == nil {
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if err := conn.Create(&breeder).Error; err != nil {
		return nil, err
	}
	return &breeder, nil
}

func (pr *personRepo) GetOrCreateOwner(ctx context.Context, tx *gorm.DB, owner types.Owner) (*types.Owner, error) {
	conn := pr.conn(tx).WithContext(ctx)

	var existing types.Owner
	query := conn.Where("name = ?", owner.Name)
	if owner.UUID != "" {
		query = conn.Where("uuid = ?", owner.UUID)
	}
	err := query.First(&existing).Error
	if err == nil {
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if err := conn.Create(&owner).Error; err != nil {
		return nil, err
	}
	return &owner, nil
}
