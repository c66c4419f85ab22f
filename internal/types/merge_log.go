package types

import (
	"time"

	"gorm.io/datatypes"
)

// MergeLog is the audit record of one human conflict resolution. It is
// immutable once written; "undo" deletes it after restoring the old values.
type MergeLog struct {
	ID    uint `gorm:"primaryKey" json:"id"`
	DogID uint `gorm:"index;not null" json:"dog_id"`

	ResolvedFields datatypes.JSON `json:"resolved_fields"`
	OldValues      datatypes.JSON `json:"old_values"`
	NewValues      datatypes.JSON `json:"new_values"`
	Conflicts      datatypes.JSON `json:"conflicts"`

	ResolvedDate     time.Time `json:"resolved_date"`
	ResolvedByUserID *uint     `json:"resolved_by_user_id"`
}

func (MergeLog) TableName() string { return "merge_log" }
