package repos

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/huskygraph/huskygraph-backend/internal/logger"
	"github.com/huskygraph/huskygraph-backend/internal/types"
)

type MedicalRecordRepo interface {
	Create(ctx context.Context, tx *gorm.DB, record *types.MedicalRecord) error
	// FindByOFANumber deduplicates screening imports; returns (nil, nil) on
	// a miss.
	FindByOFANumber(ctx context.Context, tx *gorm.DB, dogID uint, ofaNumber string) (*types.MedicalRecord, error)
	ListByDog(ctx context.Context, tx *gorm.DB, dogID uint) ([]*types.MedicalRecord, error)
}

type medicalRecordRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewMedicalRecordRepo(db *gorm.DB, baseLog *logger.Logger) MedicalRecordRepo {
	repoLog := baseLog.With("repo", "MedicalRecordRepo")
	return &medicalRecordRepo{db: db, log: repoLog}
}

func (mr *medicalRecordRepo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return mr.db
}

func (mr *medicalRecordRepo) Create(ctx context.Context, tx *gorm.DB, record *types.MedicalRecord) error {
	return mr.conn(tx).WithContext(ctx).Create(record).Error
}

func (mr *medicalRecordRepo) FindByOFANumber(ctx context.Context, tx *gorm.DB, dogID uint, ofaNumber string) (*types.MedicalRecord, error) {
	var record types.MedicalRecord
	err := mr.conn(tx).WithContext(ctx).
		Where("dog_id = ? AND ofa_number = ?", dogID, ofaNumber).
		First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (mr *medicalRecordRepo) ListByDog(ctx context.Context, tx *gorm.DB, dogID uint) ([]*types.MedicalRecord, error) {
	var records []*types.MedicalRecord
	err := mr.conn(tx).WithContext(ctx).
		Where("dog_id = ?", dogID).
		Order("test_date desc").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}
