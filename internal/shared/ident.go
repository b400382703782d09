package shared

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// ID is a wide integer identifier. It always serializes to JSON as a
// decimal string so values above 2^53 survive JavaScript clients intact.
type ID int64

// ParseID converts untrusted string input into an ID. It accepts only an
// optionally signed decimal integer; everything else fails.
func ParseID(raw string) (ID, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, fmt.Errorf("shared: empty identifier")
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("shared: invalid identifier %q", raw)
	}
	return ID(n), nil
}

// Int64 returns the underlying integer.
func (id ID) Int64() int64 { return int64(id) }

// String renders the identifier in decimal.
func (id ID) String() string { return strconv.FormatInt(int64(id), 10) }

// MarshalJSON encodes the identifier as a quoted decimal string.
func (id ID) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(id.String())), nil
}

// UnmarshalJSON accepts either a JSON string or an integral JSON number.
// Numbers are kept as their literal digits, never as float64, so wide
// values decode exactly or fail.
func (id *ID) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return err
	}
	switch v := raw.(type) {
	case string:
		parsed, err := ParseID(v)
		if err != nil {
			return err
		}
		*id = parsed
		return nil
	case json.Number:
		parsed, err := ParseID(v.String())
		if err != nil {
			return err
		}
		*id = parsed
		return nil
	default:
		return fmt.Errorf("shared: identifier must be string or number")
	}
}
