package types

import "time"

// Litter groups one breeding event: dam, sire, optional mating partner and
// the resulting puppies (linked back via Dog.BirthLitterID).
type Litter struct {
	ID uint `gorm:"primaryKey" json:"id"`

	DateOfBirth *time.Time `json:"date_of_birth"`

	LitterMaleCount   int `json:"litter_male_count"`
	LitterFemaleCount int `json:"litter_female_count"`
	LitterUndefCount  int `json:"litter_undef_count"`

	DamID           *uint `gorm:"index" json:"dam_id"`
	Dam             *Dog  `gorm:"foreignKey:DamID" json:"dam,omitempty"`
	SireID          *uint `gorm:"index" json:"sire_id"`
	Sire            *Dog  `gorm:"foreignKey:SireID" json:"sire,omitempty"`
	MatingPartnerID *uint `json:"mating_partner_id"`

	Puppies []Dog `gorm:"foreignKey:BirthLitterID" json:"puppies,omitempty"`
}

func (Litter) TableName() string { return "litter" }
