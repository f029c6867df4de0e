package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Duration stores a service duration as hours and minutes. Persisted
// as JSONB so the catalog keeps the split the booking UI works with.
type Duration struct {
	Hours   int `json:"horas"`
	Minutes int `json:"minutos"`
}

// Value implements the driver.Valuer interface
func (d Duration) Value() (driver.Value, error) {
	jsonData, err := json.Marshal(d)
	if err != nil {
		return nil, err
	}
	return string(jsonData), nil
}

// Scan implements the sql.Scanner interface
func (d *Duration) Scan(value interface{}) error {
	if value == nil {
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("failed to unmarshal Duration: unsupported type %T", value)
	}

	return json.Unmarshal(data, d)
}
