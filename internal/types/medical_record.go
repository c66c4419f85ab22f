package types

import "time"

// MedicalRecord is one health-screening result (hips, eyes, cardiac, ...)
// reported by a testing registry such as OFA.
type MedicalRecord struct {
	ID    uint `gorm:"primaryKey" json:"id"`
	DogID uint `gorm:"index;not null" json:"dog_id"`

	Registry    string     `gorm:"index;not null" json:"registry"`
	TestDate    *time.Time `json:"test_date"`
	ReportDate  *time.Time `json:"report_date"`
	AgeInMonths *int       `json:"age_in_months"`
	Conclusion  string     `json:"conclusion"`
	OFANumber   string     `gorm:"column:ofa_number;index" json:"ofa_number"`
	Source      string     `json:"source"`
	Notes       string     `json:"notes"`
}

func (MedicalRecord) TableName() string { return "medical_record" }
