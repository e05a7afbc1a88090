// Package dto はapplicationsフィーチャーのHTTPリクエスト/レスポンスを定義します。
package dto

import (
	"jobtrack_backend/internal/feature/applications/domain/entity"
)

// CreateApplicationReq は POST /applications のリクエストボディです。
type CreateApplicationReq struct {
	CompanyName  string       `json:"companyName"`
	Role         string       `json:"role"`
	Status       string       `json:"status"`
	AppliedDate  *AppliedDate `json:"appliedDate"`
	Location     string       `json:"location"`
	Notes        string       `json:"notes"`
	FollowUpDate FollowUpDate `json:"followUpDate"`
}

// ToInput はリクエストをユースケースの入力に変換します。
func (r CreateApplicationReq) ToInput() entity.CreateInput {
	in := entity.CreateInput{
		CompanyName:  r.CompanyName,
		Role:         r.Role,
		Status:       entity.Status(r.Status),
		Location:     r.Location,
		Notes:        r.Notes,
		FollowUpDate: r.FollowUpDate.Value(),
	}
	if r.AppliedDate != nil {
		in.AppliedDate = r.AppliedDate.Time
	}
	return in
}

// UpdateApplicationReq は PUT /applications/:id のリクエストボディです。
// 省略したフィールドは変更されません。followUpDate に null を渡すと削除されます。
type UpdateApplicationReq struct {
	CompanyName  *string      `json:"companyName"`
	Role         *string      `json:"role"`
	Status       *string      `json:"status"`
	AppliedDate  *AppliedDate `json:"appliedDate"`
	Location     *string      `json:"location"`
	Notes        *string      `json:"notes"`
	FollowUpDate FollowUpDate `json:"followUpDate"`
}

// ToPatch はリクエストを部分更新に変換します。
func (r UpdateApplicationReq) ToPatch() entity.Patch {
	p := entity.Patch{
		CompanyName:       r.CompanyName,
		Role:              r.Role,
		Location:          r.Location,
		Notes:             r.Notes,
		FollowUpDate:      r.FollowUpDate.Value(),
		ClearFollowUpDate: r.FollowUpDate.Present && r.FollowUpDate.Null,
	}
	if r.Status != nil {
		st := entity.Status(*r.Status)
		p.Status = &st
	}
	if r.AppliedDate != nil {
		t := r.AppliedDate.Time
		p.AppliedDate = &t
	}
	return p
}
