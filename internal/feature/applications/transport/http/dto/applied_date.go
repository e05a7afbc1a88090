package dto

import (
	"encoding/json"
	"fmt"
	"time"

	openapi_types "github.com/oapi-codegen/runtime/types"
)

// AppliedDate is a calendar date in a request body.
// YYYY-MM-DD is canonical; an RFC 3339 timestamp is accepted and truncated to its UTC date.
type AppliedDate struct {
	openapi_types.Date
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *AppliedDate) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("appliedDate must be a string: %w", err)
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		u := t.UTC()
		d.Time = time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
		return nil
	}
	return d.Date.UnmarshalJSON(data)
}
