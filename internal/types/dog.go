package types

import (
	"time"

	"gorm.io/datatypes"
)

// Dog is the consolidated record for one animal, merged from every registry
// that has reported it. Parent pointers are nullable: a dog scraped with only
// a sire name keeps that name in SireName until the sire itself is resolved
// to a stored row.
type Dog struct {
	ID uint `gorm:"primaryKey" json:"id"`

	// Identifiers & names
	UUID           string `gorm:"column:uuid;uniqueIndex;not null" json:"uuid"`
	RegisteredName string `gorm:"index" json:"registered_name"`
	CallName       string `json:"call_name"`
	LinkName       string `json:"link_name"`

	// Demographics. Sex is 1 for male, 2 for female, 0 when unknown.
	Sex         int        `json:"sex"`
	DateOfBirth *time.Time `json:"date_of_birth"`
	DateOfDeath *time.Time `json:"date_of_death"`

	LandOfBirth    string `json:"land_of_birth"`
	LandOfStanding string `json:"land_of_standing"`

	// Appearance
	Size         float64 `json:"size"`
	Weight       float64 `json:"weight"`
	Color        string  `json:"color"`
	ColorMarking string  `json:"color_marking"`
	EyesColor    string  `json:"eyes_color"`

	// Registration
	RegistrationNumber string `json:"registration_number"`
	BrandChip          string `json:"brand_chip"`

	// Pedigree
	COI                *float64   `gorm:"column:coi" json:"coi"`
	COIUpdatedOn       *time.Time `gorm:"column:coi_updated_on" json:"coi_updated_on"`
	IncompletePedigree bool       `json:"incomplete_pedigree"`

	PhotoURL string `json:"photo_url"`

	// Health screenings carried verbatim from the source payloads.
	HealthInfoGeneral datatypes.JSON `json:"health_info_general"`
	HealthInfoGenetic datatypes.JSON `json:"health_info_genetic"`

	// Provenance: the site that supplied the last authoritative value.
	Source string `json:"source"`

	// Conflict tracking
	HasConflicts bool        `json:"has_conflicts"`
	Conflicts    ConflictMap `json:"conflicts"`

	Kennel               string `json:"kennel"`
	Notes                string `json:"notes"`
	DataCorrectnessNotes string `json:"data_correctness_notes"`

	// Lineage. The *_uuid and *_name columns are denormalized from the
	// source and kept even after the parent resolves to a stored row.
	SireID       *uint  `gorm:"index" json:"sire_id"`
	Sire         *Dog   `gorm:"foreignKey:SireID" json:"sire,omitempty"`
	SireUUID     string `gorm:"column:sire_uuid" json:"sire_uuid"`
	SireName     string `json:"sire_name"`
	SireLinkName string `json:"sire_link_name"`

	DamID       *uint  `gorm:"index" json:"dam_id"`
	Dam         *Dog   `gorm:"foreignKey:DamID" json:"dam,omitempty"`
	DamUUID     string `gorm:"column:dam_uuid" json:"dam_uuid"`
	DamName     string `json:"dam_name"`
	DamLinkName string `json:"dam_link_name"`

	BirthLitterID *uint `json:"birth_litter_id"`

	Titles         []Title         `gorm:"foreignKey:DogID;constraint:OnDelete:CASCADE" json:"titles,omitempty"`
	Breeders       []Breeder       `gorm:"many2many:dog_breeder_link" json:"breeders,omitempty"`
	Owners         []Owner         `gorm:"many2many:dog_owner_link" json:"owners,omitempty"`
	Siblings       []*Dog          `gorm:"many2many:dog_sibling_link;joinForeignKey:DogID;joinReferences:SiblingID" json:"siblings,omitempty"`
	MedicalRecords []MedicalRecord `gorm:"foreignKey:DogID;constraint:OnDelete:CASCADE" json:"medical_records,omitempty"`
	MergeLogs      []MergeLog      `gorm:"foreignKey:DogID;constraint:OnDelete:CASCADE" json:"merge_logs,omitempty"`

	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
	ModifiedAt *time.Time `json:"modified_at"`
}

func (Dog) TableName() string { return "dog" }

const (
	SexUnknown = 0
	SexMale    = 1
	SexFemale  = 2
)
