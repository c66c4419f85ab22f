package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// ConflictMap records field-level disagreements between sources:
// {field_name: {source_name: reported_value}}. A source holds at most one
// entry per field; its latest value replaces any prior one.
type ConflictMap map[string]map[string]any

func (m ConflictMap) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil
	}
	raw, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	return string(raw), nil
}

func (m *ConflictMap) Scan(value any) error {
	if value == nil {
		*m = nil
		return nil
	}
	var raw []byte
	switch v := value.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("unsupported conflict map column type %T", value)
	}
	if len(raw) == 0 {
		*m = nil
		return nil
	}
	return json.Unmarshal(raw, m)
}

func (ConflictMap) GormDataType() string {
	return "json"
}

func (ConflictMap) GormDBDataType(db *gorm.DB, field *schema.Field) string {
	switch db.Dialector.Name() {
	case "postgres":
		return "JSONB"
	case "mysql":
		return "JSON"
	default:
		return "JSON"
	}
}

// Absorb unions fresh conflicts into the map field-by-field, replacing
// same-source entries.
func (m *ConflictMap) Absorb(fresh ConflictMap) {
	if len(fresh) == 0 {
		return
	}
	if *m == nil {
		*m = ConflictMap{}
	}
	for field, bySource := range fresh {
		if (*m)[field] == nil {
			(*m)[field] = map[string]any{}
		}
		for source, value := range bySource {
			(*m)[field][source] = value
		}
	}
}
