package entity

import (
	"strings"
	"time"

	"jobtrack_backend/internal/shared/validation"
)

// ErrValidation is matched by every *ValidationError through errors.Is.
var ErrValidation = validation.ErrValidation

// ValidationError reports the first invalid field of an input.
type ValidationError = validation.Error

var invalid = validation.New

// ParseStatus accepts exactly one of the five status names.
func ParseStatus(s string) (Status, error) {
	st := Status(strings.TrimSpace(s))
	if !st.Valid() {
		return "", invalid("status", "status must be one of Applied, OA, Interview, Offer, Rejected")
	}
	return st, nil
}

// ParseSort maps "" to SortLatest and rejects anything but latest/oldest.
func ParseSort(s string) (SortOrder, error) {
	switch SortOrder(strings.ToLower(strings.TrimSpace(s))) {
	case "", SortLatest:
		return SortLatest, nil
	case SortOldest:
		return SortOldest, nil
	default:
		return "", invalid("sort", "sort must be latest or oldest")
	}
}

// NewApplication validates in and builds a record owned by userID.
// Strings are trimmed, the status defaults to Applied and dates are stored in UTC.
func NewApplication(userID uint, in CreateInput) (*Application, error) {
	if err := validation.Required("companyName", in.CompanyName); err != nil {
		return nil, err
	}
	if err := validation.Required("role", in.Role); err != nil {
		return nil, err
	}
	if in.AppliedDate.IsZero() {
		return nil, invalid("appliedDate", "appliedDate is required")
	}

	status := StatusApplied
	if in.Status != "" {
		st, err := ParseStatus(string(in.Status))
		if err != nil {
			return nil, err
		}
		status = st
	}

	return &Application{
		UserID:       userID,
		CompanyName:  strings.TrimSpace(in.CompanyName),
		Role:         strings.TrimSpace(in.Role),
		Status:       status,
		AppliedDate:  in.AppliedDate.UTC(),
		Location:     strings.TrimSpace(in.Location),
		Notes:        strings.TrimSpace(in.Notes),
		FollowUpDate: utcPtr(in.FollowUpDate),
	}, nil
}

// Normalize validates the present fields of p and returns a trimmed copy.
func (p Patch) Normalize() (Patch, error) {
	out := p

	if p.CompanyName != nil {
		v := strings.TrimSpace(*p.CompanyName)
		if v == "" {
			return Patch{}, invalid("companyName", "companyName cannot be empty")
		}
		out.CompanyName = &v
	}
	if p.Role != nil {
		v := strings.TrimSpace(*p.Role)
		if v == "" {
			return Patch{}, invalid("role", "role cannot be empty")
		}
		out.Role = &v
	}
	if p.Status != nil {
		st, err := ParseStatus(string(*p.Status))
		if err != nil {
			return Patch{}, err
		}
		out.Status = &st
	}
	if p.AppliedDate != nil {
		if p.AppliedDate.IsZero() {
			return Patch{}, invalid("appliedDate", "appliedDate cannot be empty")
		}
		out.AppliedDate = utcPtr(p.AppliedDate)
	}
	if p.Location != nil {
		v := strings.TrimSpace(*p.Location)
		out.Location = &v
	}
	if p.Notes != nil {
		v := strings.TrimSpace(*p.Notes)
		out.Notes = &v
	}
	if p.ClearFollowUpDate {
		out.FollowUpDate = nil
	} else {
		out.FollowUpDate = utcPtr(p.FollowUpDate)
	}
	return out, nil
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
