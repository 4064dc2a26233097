package model

import (
	"database/sql/driver"
	"fmt"
	"time"
)

// Timestamp is a time.Time that marshals as UTC with seconds precision,
// e.g. "2026-08-28T10:30:00Z". All wire-visible timestamps use it.
type Timestamp time.Time

func Now() Timestamp {
	return Timestamp(time.Now().UTC())
}

func (t Timestamp) Time() time.Time {
	return time.Time(t)
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	formatted := time.Time(t).UTC().Truncate(time.Second).Format(time.RFC3339)
	return []byte(`"` + formatted + `"`), nil
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	parsed, err := time.Parse(`"`+time.RFC3339+`"`, string(data))
	if err != nil {
		return fmt.Errorf("parse timestamp: %w", err)
	}
	*t = Timestamp(parsed)
	return nil
}

// Scan implements sql.Scanner so annotated rows scan directly into models.
func (t *Timestamp) Scan(src interface{}) error {
	switch v := src.(type) {
	case time.Time:
		*t = Timestamp(v)
		return nil
	case nil:
		*t = Timestamp{}
		return nil
	default:
		return fmt.Errorf("cannot scan %T into Timestamp", src)
	}
}

// Value implements driver.Valuer.
func (t Timestamp) Value() (driver.Value, error) {
	return time.Time(t), nil
}
