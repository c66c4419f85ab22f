package repos

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/huskygraph/huskygraph-backend/internal/logger"
	"github.com/huskygraph/huskygraph-backend/internal/types"
)

// DogListFilter carries the browse-endpoint filters. Nil pointers mean
// "not filtered".
type DogListFilter struct {
	Page    int
	PerPage int

	Search         string
	Color          string
	LandOfBirth    string
	LandOfStanding string

	Sex          *int
	HasConflicts *bool
	HasPhoto     *bool

	DateOfBirthStart *time.Time
	DateOfBirthEnd   *time.Time
	DateOfDeathStart *time.Time
	DateOfDeathEnd   *time.Time

	SortBy    string
	SortOrder string
}

type DogRepo interface {
	Create(ctx context.Context, tx *gorm.DB, dog *types.Dog) error
	Save(ctx context.Context, tx *gorm.DB, dog *types.Dog) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*types.Dog, error)
	GetByIDWithRelations(ctx context.Context, tx *gorm.DB, id uint) (*types.Dog, error)
	GetByUUID(ctx context.Context, tx *gorm.DB, uuid string) (*types.Dog, error)

	// Matcher lookups: these return (nil, nil) on a miss.
	FindByRegisteredName(ctx context.Context, name string) (*types.Dog, error)
	FindByUUID(ctx context.Context, uuid string) (*types.Dog, error)
	FindByBirthAndParents(ctx context.Context, dateOfBirth time.Time, sireName, damName string) (*types.Dog, error)
	ListNamed(ctx context.Context) ([]*types.Dog, error)

	List(ctx context.Context, tx *gorm.DB, filter DogListFilter) ([]*types.Dog, int64, error)

	ReplaceBreeders(ctx context.Context, tx *gorm.DB, dog *types.Dog, breeders []types.Breeder) error
	ReplaceOwners(ctx context.Context, tx *gorm.DB, dog *types.Dog, owners []types.Owner) error
	ReplaceSiblings(ctx context.Context, tx *gorm.DB, dog *types.Dog, siblings []*types.Dog) error
}

type dogRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewDogRepo(db *gorm.DB, baseLog *logger.Logger) DogRepo {
	repoLog := baseLog.With("repo", "DogRepo")
	return &dogRepo{db: db, log: repoLog}
}

func (dr *dogRepo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return dr.db
}

func (dr *dogRepo) Create(ctx context.Context, tx *gorm.DB, dog *types.Dog) error {
	return dr.conn(tx).WithContext(ctx).Create(dog).Error
}

func (dr *dogRepo) Save(ctx context.Context, tx *gorm.DB, dog *types.Dog) error {
	return dr.conn(tx).WithContext(ctx).Omit("Sire", "Dam", "Titles", "Breeders", "Owners", "Siblings", "MedicalRecords", "MergeLogs").Save(dog).Error
}

func (dr *dogRepo) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*types.Dog, error) {
	var dog types.Dog
	err := dr.conn(tx).WithContext(ctx).First(&dog, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &dog, nil
}

func (dr *dogRepo) GetByIDWithRelations(ctx context.Context, tx *gorm.DB, id uint) (*types.Dog, error) {
	var dog types.Dog
	err := dr.conn(tx).WithContext(ctx).
		Preload("Titles").
		Preload("Breeders").
		Preload("Owners").
		Preload("Siblings").
		Preload("MedicalRecords").
		Preload("MergeLogs").
		Preload("Sire").
		Preload("Dam").
		First(&dog, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &dog, nil
}

func (dr *dogRepo) GetByUUID(ctx context.Context, tx *gorm.DB, uuid string) (*types.Dog, error) {
	var dog types.Dog
	err := dr.conn(tx).WithContext(ctx).Where("uuid = ?", uuid).First(&dog).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &dog, nil
}

func (dr *dogRepo) FindByRegisteredName(ctx context.Context, name string) (*types.Dog, error) {
	var dog types.Dog
	err := dr.db.WithContext(ctx).Where("registered_name = ?", name).First(&dog).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &dog, nil
}

func (dr *dogRepo) FindByUUID(ctx context.Context, uuid string) (*types.Dog, error) {
	var dog types.Dog
	err := dr.db.WithContext(ctx).Where("uuid = ?", uuid).First(&dog).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &dog, nil
}

func (dr *dogRepo) FindByBirthAndParents(ctx context.Context, dateOfBirth time.Time, sireName, damName string) (*types.Dog, error) {
	query := dr.db.WithContext(ctx).Where("date_of_birth = ?", dateOfBirth)
	if sireName != "" {
		query = query.Where("sire_name = ?", sireName)
	}
	if damName != "" {
		query = query.Where("dam_name = ?", damName)
	}

	var dog types.Dog
	err := query.First(&dog).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &dog, nil
}

func (dr *dogRepo) ListNamed(ctx context.Context) ([]*types.Dog, error) {
	var dogs []*types.Dog
	err := dr.db.WithContext(ctx).
		Where("registered_name IS NOT NULL AND registered_name <> ''").
		Find(&dogs).Error
	if err != nil {
		return nil, err
	}
	return dogs, nil
}

var dogSortColumns = map[string]string{
	"registered_name":  "registered_name",
	"call_name":        "call_name",
	"date_of_birth":    "date_of_birth",
	"land_of_birth":    "land_of_birth",
	"land_of_standing": "land_of_standing",
	"modified_at":      "modified_at",
	"id":               "id",
}

func (dr *dogRepo) List(ctx context.Context, tx *gorm.DB, filter DogListFilter) ([]*types.Dog, int64, error) {
	query := dr.conn(tx).WithContext(ctx).Model(&types.Dog{})

	if filter.Search != "" {
		term := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where(
			"LOWER(registered_name) LIKE ? OR LOWER(registration_number) LIKE ? OR LOWER(call_name) LIKE ? OR LOWER(sire_name) LIKE ? OR LOWER(dam_name) LIKE ?",
			term, term, term, term, term,
		)
	}
	if filter.Color != "" {
		query = query.Where("LOWER(color) LIKE ?", "%"+strings.ToLower(filter.Color)+"%")
	}
	if filter.LandOfBirth != "" {
		query = query.Where("land_of_birth = ?", filter.LandOfBirth)
	}
	if filter.LandOfStanding != "" {
		query = query.Where("land_of_standing = ?", filter.LandOfStanding)
	}
	if filter.Sex != nil {
		query = query.Where("sex = ?", *filter.Sex)
	}
	if filter.HasConflicts != nil {
		query = query.Where("has_conflicts = ?", *filter.HasConflicts)
	}
	if filter.HasPhoto != nil && *filter.HasPhoto {
		query = query.Where("photo_url <> ''")
	}
	if filter.DateOfBirthStart != nil {
		query = query.Where("date_of_birth >= ?", *filter.DateOfBirthStart)
	}
	if filter.DateOfBirthEnd != nil {
		query = query.Where("date_of_birth <= ?", *filter.DateOfBirthEnd)
	}
	if filter.DateOfDeathStart != nil {
		query = query.Where("date_of_death >= ?", *filter.DateOfDeathStart)
	}
	if filter.DateOfDeathEnd != nil {
		query = query.Where("date_of_death <= ?", *filter.DateOfDeathEnd)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	sortColumn, ok := dogSortColumns[filter.SortBy]
	if !ok {
		sortColumn = "id"
	}
	order := sortColumn + " asc"
	if strings.EqualFold(filter.SortOrder, "desc") {
		order = sortColumn + " desc"
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	perPage := filter.PerPage
	if perPage < 1 {
		perPage = 20
	}

	var dogs []*types.Dog
	err := query.
		Order(order).
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&dogs).Error
	if err != nil {
		return nil, 0, err
	}
	return dogs, total, nil
}

func (dr *dogRepo) ReplaceBreeders(ctx context.Context, tx *gorm.DB, dog *types.Dog, breeders []types.Breeder) error {
	return dr.conn(tx).WithContext(ctx).Model(dog).Association("Breeders").Replace(breeders)
}

func (dr *dogRepo) ReplaceOwners(ctx context.Context, tx *gorm.DB, dog *types.Dog, owners []types.Owner) error {
	return dr.conn(tx).WithContext(ctx).Model(dog).Association("Owners").Replace(owners)
}

func (dr *dogRepo) ReplaceSiblings(ctx context.Context, tx *gorm.DB, dog *types.Dog, siblings []*types.Dog) error {
	return dr.conn(tx).WithContext(ctx).Model(dog).Association("Siblings").Replace(siblings)
}
