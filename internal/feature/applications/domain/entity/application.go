// Package entity defines the domain entities for the applications feature.
package entity

import "time"

// Status is the pipeline stage of a job application.
type Status string

const (
	StatusApplied   Status = "Applied"
	StatusOA        Status = "OA"
	StatusInterview Status = "Interview"
	StatusOffer     Status = "Offer"
	StatusRejected  Status = "Rejected"
)

// AllStatuses lists every status in pipeline order.
var AllStatuses = []Status{
	StatusApplied,
	StatusOA,
	StatusInterview,
	StatusOffer,
	StatusRejected,
}

// Valid reports whether s is one of the five known statuses.
func (s Status) Valid() bool {
	for _, v := range AllStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// Application is a single job application owned by exactly one user.
type Application struct {
	ID uint

	// UserID is the owner. It is fixed at creation and never updated.
	UserID uint

	CompanyName string
	Role        string
	Status      Status
	AppliedDate time.Time
	Location    string
	Notes       string

	// FollowUpDate is nil when no reminder is wanted.
	FollowUpDate *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// CreateInput carries the caller supplied fields of a new application.
// An empty Status means StatusApplied.
type CreateInput struct {
	CompanyName  string
	Role         string
	Status       Status
	AppliedDate  time.Time
	Location     string
	Notes        string
	FollowUpDate *time.Time
}

// Patch is a partial update. Nil fields are left untouched.
type Patch struct {
	CompanyName *string
	Role        *string
	Status      *Status
	AppliedDate *time.Time
	Location    *string
	Notes       *string

	// FollowUpDate replaces the follow-up date when non-nil.
	FollowUpDate *time.Time
	// ClearFollowUpDate removes the follow-up date. It wins over FollowUpDate.
	ClearFollowUpDate bool
}

// SortOrder orders list results by creation time.
type SortOrder string

const (
	SortLatest SortOrder = "latest"
	SortOldest SortOrder = "oldest"
)

// ListFilter is a normalised list query handed to the repository.
// Search is already lower-cased; an empty Status means every status.
type ListFilter struct {
	Search string
	Status Status
	Sort   SortOrder
}

// Stats aggregates a user's applications by status.
type Stats struct {
	Total        int64
	StatusCounts map[Status]int64
}

// NewStats fills in every status key, zero when absent from counts,
// and computes Total as the sum of the per-status counts.
func NewStats(counts map[Status]int64) Stats {
	s := Stats{StatusCounts: make(map[Status]int64, len(AllStatuses))}
	for _, st := range AllStatuses {
		n := counts[st]
		s.StatusCounts[st] = n
		s.Total += n
	}
	return s
}
