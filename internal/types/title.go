package types

type Title struct {
	ID    uint `gorm:"primaryKey" json:"id"`
	DogID uint `gorm:"index;not null" json:"dog_id"`

	ShortName     string `gorm:"not null" json:"short_name"`
	LongName      string `json:"long_name"`
	IsPrefix      bool   `json:"is_prefix"`
	HasWinnerYear bool   `json:"has_winner_year"`
	WinnerYear    *int   `json:"winner_year"`
}

func (Title) TableName() string { return "title" }
