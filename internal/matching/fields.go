package matching

import (
	"errors"
	"fmt"
	"time"

	"github.com/huskygraph/huskygraph-backend/internal/types"
)

var ErrUnknownField = errors.New("unknown dog field")

// fieldSpec binds one comparable field name to its accessors on the stored
// record and on a candidate. Values are normalized: strings stay strings,
// dates surface as time.Time, absent values surface as nil / zero.
type fieldSpec struct {
	name     string
	current  func(*types.Dog) any
	incoming func(*types.CandidateRecord) any
	assign   func(*types.Dog, any) error
}

// conflictFields is the checklist compared between an existing record and a
// candidate. Order matters only for deterministic iteration.
var conflictFields = []fieldSpec{
	{
		name:     "registered_name",
		current:  func(d *types.Dog) any { return d.RegisteredName },
		incoming: func(c *types.CandidateRecord) any { return c.RegisteredName },
		assign:   func(d *types.Dog, v any) error { return setString(&d.RegisteredName, v) },
	},
	{
		name:     "call_name",
		current:  func(d *types.Dog) any { return d.CallName },
		incoming: func(c *types.CandidateRecord) any { return c.CallName },
		assign:   func(d *types.Dog, v any) error { return setString(&d.CallName, v) },
	},
	{
		name:     "sex",
		current:  func(d *types.Dog) any { return d.Sex },
		incoming: func(c *types.CandidateRecord) any { return c.Sex },
		assign:   func(d *types.Dog, v any) error { return setInt(&d.Sex, v) },
	},
	{
		name:     "date_of_birth",
		current:  func(d *types.Dog) any { return timeValue(d.DateOfBirth) },
		incoming: func(c *types.CandidateRecord) any { return timeValue(c.DateOfBirth) },
		assign:   func(d *types.Dog, v any) error { return setTime(&d.DateOfBirth, v) },
	},
	{
		name:     "date_of_death",
		current:  func(d *types.Dog) any { return timeValue(d.DateOfDeath) },
		incoming: func(c *types.CandidateRecord) any { return timeValue(c.DateOfDeath) },
		assign:   func(d *types.Dog, v any) error { return setTime(&d.DateOfDeath, v) },
	},
	{
		name:     "land_of_birth",
		current:  func(d *types.Dog) any { return d.LandOfBirth },
		incoming: func(c *types.CandidateRecord) any { return c.LandOfBirth },
		assign:   func(d *types.Dog, v any) error { return setString(&d.LandOfBirth, v) },
	},
	{
		name:     "land_of_standing",
		current:  func(d *types.Dog) any { return d.LandOfStanding },
		incoming: func(c *types.CandidateRecord) any { return c.LandOfStanding },
		assign:   func(d *types.Dog, v any) error { return setString(&d.LandOfStanding, v) },
	},
	{
		name:     "size",
		current:  func(d *types.Dog) any { return d.Size },
		incoming: func(c *types.CandidateRecord) any { return c.Size },
		assign:   func(d *types.Dog, v any) error { return setFloat(&d.Size, v) },
	},
	{
		name:     "weight",
		current:  func(d *types.Dog) any { return d.Weight },
		incoming: func(c *types.CandidateRecord) any { return c.Weight },
		assign:   func(d *types.Dog, v any) error { return setFloat(&d.Weight, v) },
	},
	{
		name:     "color",
		current:  func(d *types.Dog) any { return d.Color },
		incoming: func(c *types.CandidateRecord) any { return c.Color },
		assign:   func(d *types.Dog, v any) error { return setString(&d.Color, v) },
	},
	{
		name:     "eyes_color",
		current:  func(d *types.Dog) any { return d.EyesColor },
		incoming: func(c *types.CandidateRecord) any { return c.EyesColor },
		assign:   func(d *types.Dog, v any) error { return setString(&d.EyesColor, v) },
	},
	{
		name:     "registration_number",
		current:  func(d *types.Dog) any { return d.RegistrationNumber },
		incoming: func(c *types.CandidateRecord) any { return c.RegistrationNumber },
		assign:   func(d *types.Dog, v any) error { return setString(&d.RegistrationNumber, v) },
	},
	{
		name:     "brand_chip",
		current:  func(d *types.Dog) any { return d.BrandChip },
		incoming: func(c *types.CandidateRecord) any { return c.BrandChip },
		assign:   func(d *types.Dog, v any) error { return setString(&d.BrandChip, v) },
	},
	{
		name:     "coi",
		current:  func(d *types.Dog) any { return floatPtrValue(d.COI) },
		incoming: func(c *types.CandidateRecord) any { return floatPtrValue(c.COI) },
		assign:   func(d *types.Dog, v any) error { return setFloatPtr(&d.COI, v) },
	},
	{
		name:     "photo_url",
		current:  func(d *types.Dog) any { return d.PhotoURL },
		incoming: func(c *types.CandidateRecord) any { return c.PhotoURL },
		assign:   func(d *types.Dog, v any) error { return setString(&d.PhotoURL, v) },
	},
	{
		name:     "kennel",
		current:  func(d *types.Dog) any { return d.Kennel },
		incoming: func(c *types.CandidateRecord) any { return c.Kennel },
		assign:   func(d *types.Dog, v any) error { return setString(&d.Kennel, v) },
	},
	{
		name:     "notes",
		current:  func(d *types.Dog) any { return d.Notes },
		incoming: func(c *types.CandidateRecord) any { return c.Notes },
		assign:   func(d *types.Dog, v any) error { return setString(&d.Notes, v) },
	},
	{
		name:     "sire_name",
		current:  func(d *types.Dog) any { return d.SireName },
		incoming: func(c *types.CandidateRecord) any { return c.SireName },
		assign:   func(d *types.Dog, v any) error { return setString(&d.SireName, v) },
	},
	{
		name:     "dam_name",
		current:  func(d *types.Dog) any { return d.DamName },
		incoming: func(c *types.CandidateRecord) any { return c.DamName },
		assign:   func(d *types.Dog, v any) error { return setString(&d.DamName, v) },
	},
}

// updatableFields is the gap-fill checklist: the conflict checklist plus the
// external parent identifiers.
var updatableFields = append(conflictFields[:len(conflictFields):len(conflictFields)],
	fieldSpec{
		name:     "sire_uuid",
		current:  func(d *types.Dog) any { return d.SireUUID },
		incoming: func(c *types.CandidateRecord) any { return c.SireUUID },
		assign:   func(d *types.Dog, v any) error { return setString(&d.SireUUID, v) },
	},
	fieldSpec{
		name:     "dam_uuid",
		current:  func(d *types.Dog) any { return d.DamUUID },
		incoming: func(c *types.CandidateRecord) any { return c.DamUUID },
		assign:   func(d *types.Dog, v any) error { return setString(&d.DamUUID, v) },
	},
)

// UpdatableFieldNames lists the field names the merge engine and the conflict
// resolution workflow may write.
func UpdatableFieldNames() []string {
	names := make([]string, 0, len(updatableFields))
	for _, f := range updatableFields {
		names = append(names, f.name)
	}
	return names
}

// FieldValue returns the current normalized value of a named updatable field.
func FieldValue(d *types.Dog, name string) (any, bool) {
	for _, f := range updatableFields {
		if f.name == name {
			return f.current(d), true
		}
	}
	return nil, false
}

// SetFieldValue writes a named updatable field, coercing JSON-decoded values
// (float64 numbers, RFC 3339 strings for dates).
func SetFieldValue(d *types.Dog, name string, v any) error {
	for _, f := range updatableFields {
		if f.name == name {
			return f.assign(d, v)
		}
	}
	return fmt.Errorf("%w: %q", ErrUnknownField, name)
}

func isEmpty(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return t == ""
	case int:
		return t == 0
	case float64:
		return t == 0
	case time.Time:
		return t.IsZero()
	default:
		return false
	}
}

func valuesEqual(a, b any) bool {
	at, aok := a.(time.Time)
	bt, bok := b.(time.Time)
	if aok && bok {
		return at.Equal(bt)
	}
	if aok != bok {
		return false
	}
	return a == b
}

func timeValue(t *time.Time) any {
	if t == nil {
		return nil
	}
	return *t
}

func floatPtrValue(f *float64) any {
	if f == nil {
		return nil
	}
	return *f
}

func setString(dst *string, v any) error {
	switch t := v.(type) {
	case nil:
		*dst = ""
	case string:
		*dst = t
	default:
		return fmt.Errorf("expected string, got %T", v)
	}
	return nil
}

func setInt(dst *int, v any) error {
	switch t := v.(type) {
	case nil:
		*dst = 0
	case int:
		*dst = t
	case float64:
		*dst = int(t)
	default:
		return fmt.Errorf("expected number, got %T", v)
	}
	return nil
}

func setFloat(dst *float64, v any) error {
	switch t := v.(type) {
	case nil:
		*dst = 0
	case float64:
		*dst = t
	case int:
		*dst = float64(t)
	default:
		return fmt.Errorf("expected number, got %T", v)
	}
	return nil
}

func setFloatPtr(dst **float64, v any) error {
	switch t := v.(type) {
	case nil:
		*dst = nil
	case float64:
		*dst = &t
	case int:
		f := float64(t)
		*dst = &f
	default:
		return fmt.Errorf("expected number, got %T", v)
	}
	return nil
}

func setTime(dst **time.Time, v any) error {
	switch t := v.(type) {
	case nil:
		*dst = nil
	case time.Time:
		*dst = &t
	case string:
		parsed, err := parseTime(t)
		if err != nil {
			return err
		}
		*dst = &parsed
	default:
		return fmt.Errorf("expected timestamp, got %T", v)
	}
	return nil
}

func parseTime(s string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable timestamp %q", s)
}
