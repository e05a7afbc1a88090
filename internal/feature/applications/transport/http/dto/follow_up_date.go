package dto

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	openapi_types "github.com/oapi-codegen/runtime/types"
)

// FollowUpDate is an optional, nullable timestamp in a request body.
// It accepts RFC 3339 or a bare YYYY-MM-DD date (midnight UTC).
// Present is false when the field was omitted; Null is true for an explicit null.
type FollowUpDate struct {
	Present bool
	Null    bool
	Time    time.Time
}

// UnmarshalJSON implements json.Unmarshaler.
func (f *FollowUpDate) UnmarshalJSON(data []byte) error {
	f.Present = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		f.Null = true
		f.Time = time.Time{}
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("followUpDate must be a string: %w", err)
	}
	if s == "" {
		f.Null = true
		return nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		f.Time = t.UTC()
		return nil
	}
	t, err := time.Parse(openapi_types.DateFormat, s)
	if err != nil {
		return fmt.Errorf("followUpDate must be RFC 3339 or YYYY-MM-DD: %w", err)
	}
	f.Time = t
	return nil
}

// Value returns the timestamp, or nil when absent or null.
func (f FollowUpDate) Value() *time.Time {
	if !f.Present || f.Null {
		return nil
	}
	t := f.Time
	return &t
}
