// Package entity defines the domain entities for the followup feature.
package entity

import "time"

// Reminder is one application whose follow-up date falls in a scan window,
// joined with the owner's contact details.
type Reminder struct {
	ApplicationID uint
	CompanyName   string
	Role          string
	FollowUpDate  time.Time
	UserID        uint
	UserEmail     string
	UserName      string
}
