package types

import "time"

// CandidateRecord is the payload one scraper produces for one dog. Different
// sites supply different subsets, so every field is optional: empty strings,
// zero numerics and nil pointers all mean "this source did not report it".
type CandidateRecord struct {
	UUID           string `json:"uuid"`
	RegisteredName string `json:"registered_name"`
	CallName       string `json:"call_name"`
	LinkName       string `json:"link_name"`

	Sex         int        `json:"sex"`
	DateOfBirth *time.Time `json:"date_of_birth"`
	DateOfDeath *time.Time `json:"date_of_death"`

	LandOfBirth    string `json:"land_of_birth"`
	LandOfStanding string `json:"land_of_standing"`

	Size         float64 `json:"size"`
	Weight       float64 `json:"weight"`
	Color        string  `json:"color"`
	ColorMarking string  `json:"color_marking"`
	EyesColor    string  `json:"eyes_color"`

	RegistrationNumber string `json:"registration_number"`
	BrandChip          string `json:"brand_chip"`

	COI      *float64 `json:"coi"`
	PhotoURL string   `json:"photo_url"`
	Kennel   string   `json:"kennel"`
	Notes    string   `json:"notes"`

	SireName string `json:"sire_name"`
	SireUUID string `json:"sire_uuid"`
	DamName  string `json:"dam_name"`
	DamUUID  string `json:"dam_uuid"`

	// Nested sub-records for recursive resolution.
	Sire     *CandidateRecord   `json:"sire"`
	Dam      *CandidateRecord   `json:"dam"`
	Siblings []*CandidateRecord `json:"siblings"`
	Litters  []*CandidateLitter `json:"litters"`

	Breeders []*CandidatePerson `json:"breeders"`
	Owners   []*CandidatePerson `json:"owners"`
	Titles   []*CandidateTitle  `json:"titles"`

	HealthInfoGeneral []map[string]any `json:"health_info_general"`
	HealthInfoGenetic []map[string]any `json:"health_info_genetic"`

	// Source tags which registry produced this record.
	Source string `json:"source"`
}

type CandidatePerson struct {
	UUID        string `json:"uuid"`
	Name        string `json:"name"`
	IsBreeder   bool   `json:"is_breeder"`
	IsMainOwner bool   `json:"is_main_owner"`
}

type CandidateTitle struct {
	ShortName     string `json:"short_name"`
	LongName      string `json:"long_name"`
	IsPrefix      bool   `json:"is_prefix"`
	HasWinnerYear bool   `json:"has_winner_year"`
	WinnerYear    *int   `json:"winner_year"`
}

type CandidateLitter struct {
	DateOfBirth       *time.Time         `json:"date_of_birth"`
	LitterMaleCount   int                `json:"litter_male_count"`
	LitterFemaleCount int                `json:"litter_female_count"`
	LitterUndefCount  int                `json:"litter_undef_count"`
	Dam               *CandidateRecord   `json:"dam"`
	Sire              *CandidateRecord   `json:"sire"`
	Puppies           []*CandidateRecord `json:"puppies"`
}
