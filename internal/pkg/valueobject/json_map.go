package valueobject

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
)

// ErrUnsupportedScan is returned when a column cannot be read as JSON.
var ErrUnsupportedScan = errors.New("valueobject: unsupported jsonb scan source")

// Metadata is a free-form JSON object stored alongside a record, such as the
// appointment an OTP was issued for.
// @swaggertype object
type Metadata map[string]any

// Value implements driver.Valuer.
func (m Metadata) Value() (driver.Value, error) {
	if m == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(m)
}

// Scan implements sql.Scanner.
func (m *Metadata) Scan(src any) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*m = Metadata{}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	case map[string]any:
		*m = Metadata(v)
		return nil
	default:
		return ErrUnsupportedScan
	}

	out := Metadata{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return err
	}
	*m = out
	return nil
}

// String returns the value under key, or "" when it is absent or not a string.
func (m Metadata) String(key string) string {
	s, _ := m[key].(string)
	return s
}

// Int64 accepts both int64 and the float64 produced by encoding/json.
func (m Metadata) Int64(key string) int64 {
	switch v := m[key].(type) {
	case int64:
		return v
	case int:
		return int64(v)
	case float64:
		return int64(v)
	case json.Number:
		n, _ := v.Int64()
		return n
	}
	return 0
}
