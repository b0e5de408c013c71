package serializer

import (
	"encoding/json"
	"strconv"
	"time"
)

// Metadata is a free-form JSON object attached to a resource. Decoding
// accepts an object or null; any other JSON value is rejected.
type Metadata map[string]any

func (m *Metadata) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*m = nil
		return nil
	}
	var raw map[string]any
	if err := json.Unmarshal(b, &raw); err != nil {
		return NewValidationError("metadata", "Invalid metadata. Must be a valid object.")
	}
	*m = raw
	return nil
}

// Timestamp is a point in time that marshals as an integer epoch in
// milliseconds and accepts ISO 8601 input of the form
// 2006-01-02T15:04:05Z.
type Timestamp struct {
	time.Time
}

const timestampLayout = "2006-01-02T15:04:05Z"

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return strconv.AppendInt(nil, t.UnixMilli(), 10), nil
}

func (t *Timestamp) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		t.Time = time.Time{}
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return NewValidationError(NonFieldKey, "Incorrect date format, expected ISO 8601.")
	}
	parsed, err := time.Parse(timestampLayout, s)
	if err != nil {
		return NewValidationError(NonFieldKey, "Incorrect date format, expected ISO 8601.")
	}
	t.Time = parsed.UTC()
	return nil
}
