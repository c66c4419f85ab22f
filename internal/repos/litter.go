package repos

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/huskygraph/huskygraph-backend/internal/logger"
	"github.com/huskygraph/huskygraph-backend/internal/types"
)

type LitterRepo interface {
	Create(ctx context.Context, tx *gorm.DB, litter *types.Litter) error
	Save(ctx context.Context, tx *gorm.DB, litter *types.Litter) error
	// FindByParentsAndDate identifies a breeding event; returns (nil, nil)
	// on a miss.
	FindByParentsAndDate(ctx context.Context, tx *gorm.DB, damID, sireID *uint, dateOfBirth *time.Time) (*types.Litter, error)
	ListByDam(ctx context.Context, tx *gorm.DB, damID uint) ([]*types.Litter, error)
	ListBySire(ctx context.Context, tx *gorm.DB, sireID uint) ([]*types.Litter, error)
}

type litterRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewLitterRepo(db *gorm.DB, baseLog *logger.Logger) LitterRepo {
	repoLog := baseLog.With("repo", "LitterRepo")
	return &litterRepo{db: db, log: repoLog}
}

func (lr *litterRepo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return lr.db
}

func (lr *litterRepo) Create(ctx context.Context, tx *gorm.DB, litter *types.Litter) error {
	return lr.conn(tx).WithContext(ctx).Create(litter).Error
}

func (lr *litterRepo) Save(ctx context.Context, tx *gorm.DB, litter *types.Litter) error {
	return lr.conn(tx).WithContext(ctx).Omit("Dam", "Sire", "Puppies").Save(litter).Error
}

func (lr *litterRepo) FindByParentsAndDate(ctx context.Context, tx *gorm.DB, damID, sireID *uint, dateOfBirth *time.Time) (*types.Litter, error) {
	query := lr.conn(tx).WithContext(ctx).Model(&types.Litter{})
	if damID != nil {
		query = query.Where("dam_id = ?", *damID)
	}
	if sireID != nil {
		query = query.Where("sire_id = ?", *sireID)
	}
	if dateOfBirth != nil {
		query = query.Where("date_of_birth = ?", *dateOfBirth)
	}

	var litter types.Litter
	err := query.First(&litter).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &litter, nil
}

func (lr *litterRepo) ListByDam(ctx context.Context, tx *gorm.DB, damID uint) ([]*types.Litter, error) {
	var litters []*types.Litter
	err := lr.conn(tx).WithContext(ctx).Where("dam_id = ?", damID).Find(&litters).Error
	if err != nil {
		return nil, err
	}
	return litters, nil
}

func (lr *litterRepo) ListBySire(ctx context.Context, tx *gorm.DB, sireID uint) ([]*types.Litter, error) {
	var litters []*types.Litter
	err := lr.conn(tx).WithContext(ctx).Where("sire_id = ?", sireID).Find(&litters).Error
	if err != nil {
		return nil, err
	}
	return litters, nil
}
