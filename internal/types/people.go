package types

type Breeder struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	UUID      string `gorm:"column:uuid;index" json:"uuid"`
	Name      string `gorm:"not null" json:"name"`
	IsBreeder bool   `json:"is_breeder"`

	Dogs []*Dog `gorm:"many2many:dog_breeder_link" json:"dogs,omitempty"`
}

func (Breeder) TableName() string { return "breeder" }

type Owner struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	UUID        string `gorm:"column:uuid;index" json:"uuid"`
	Name        string `gorm:"not null" json:"name"`
	IsMainOwner bool   `json:"is_main_owner"`

	Dogs []*Dog `gorm:"many2many:dog_owner_link" json:"dogs,omitempty"`
}

func (Owner) TableName() string { return "owner" }
