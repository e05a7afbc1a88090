package dto

import (
	"time"

	openapi_types "github.com/oapi-codegen/runtime/types"

	"jobtrack_backend/internal/feature/applications/domain/entity"
)

// ApplicationRes is the wire form of an application.
type ApplicationRes struct {
	ID           uint               `json:"id"`
	UserID       uint               `json:"userId"`
	CompanyName  string             `json:"companyName"`
	Role         string             `json:"role"`
	Status       string             `json:"status"`
	AppliedDate  openapi_types.Date `json:"appliedDate"`
	Location     string             `json:"location"`
	Notes        string             `json:"notes"`
	FollowUpDate *time.Time         `json:"followUpDate"`
	CreatedAt    time.Time          `json:"createdAt"`
	UpdatedAt    time.Time          `json:"updatedAt"`
}

// ApplicationEnvelope wraps a created or updated record with a confirmation message.
type ApplicationEnvelope struct {
	Message     string         `json:"message"`
	Application ApplicationRes `json:"application"`
}

// StatsRes is the wire form of entity.Stats.
type StatsRes struct {
	Total        int64            `json:"total"`
	StatusCounts map[string]int64 `json:"statusCounts"`
}

func ToApplicationRes(a *entity.Application) ApplicationRes {
	return ApplicationRes{
		ID:           a.ID,
		UserID:       a.UserID,
		CompanyName:  a.CompanyName,
		Role:         a.Role,
		Status:       string(a.Status),
		AppliedDate:  openapi_types.Date{Time: a.AppliedDate.UTC()},
		Location:     a.Location,
		Notes:        a.Notes,
		FollowUpDate: utc(a.FollowUpDate),
		CreatedAt:    a.CreatedAt.UTC(),
		UpdatedAt:    a.UpdatedAt.UTC(),
	}
}

// ToApplicationList never returns nil so an empty result encodes as [].
func ToApplicationList(apps []entity.Application) []ApplicationRes {
	out := make([]ApplicationRes, 0, len(apps))
	for i := range apps {
		out = append(out, ToApplicationRes(&apps[i]))
	}
	return out
}

func ToStatsRes(s entity.Stats) StatsRes {
	counts := make(map[string]int64, len(s.StatusCounts))
	for st, n := range s.StatusCounts {
		counts[string(st)] = n
	}
	return StatsRes{Total: s.Total, StatusCounts: counts}
}

func utc(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
