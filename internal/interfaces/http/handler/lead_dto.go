package handler

import (
	"github.com/google/uuid"
	"github.com/hospitality/backend/internal/application/crm"
	"github.com/shopspring/decimal"
)

// CreateLeadRequest captures a prospect
type CreateLeadRequest struct {
	Name           string          `json:"name" binding:"required,min=1,max=200"`
	Email          string          `json:"email" binding:"omitempty,email,max=200"`
	Phone          string          `json:"phone" binding:"omitempty,phone"`
	Company        string          `json:"company" binding:"omitempty,max=200"`
	Source         string          `json:"source" binding:"omitempty,oneof=website whatsapp email phone referral walk_in social event"`
	Notes          string          `json:"notes" binding:"omitempty,max=5000"`
	EstimatedValue decimal.Decimal `json:"estimated_value"`
	Currency       string          `json:"currency" binding:"omitempty,len=3"`
	PropertyID     string          `json:"property_id" binding:"omitempty,uuid"`
	AssignedTo     string          `json:"assigned_to" binding:"omitempty,uuid"`
}

func (r CreateLeadRequest) toInput(tenantID, actorID uuid.UUID) (crm.CreateLeadInput, error) {
	in := crm.CreateLeadInput{
		TenantID:       tenantID,
		CreatedBy:      actorID,
		Name:           r.Name,
		Email:          r.Email,
		Phone:          r.Phone,
		Company:        r.Company,
		Source:         r.Source,
		Notes:          r.Notes,
		EstimatedValue: r.EstimatedValue,
		Currency:       r.Currency,
	}
	var err error
	if in.PropertyID, err = parseOptionalUUID("property_id", r.PropertyID); err != nil {
		return in, err
	}
	if in.AssignedTo, err = parseOptionalUUID("assigned_to", r.AssignedTo); err != nil {
		return in, err
	}
	return in, nil
}

// UpdateLeadRequest edits the non-null fields of a lead
type UpdateLeadRequest struct {
	Name           *string          `json:"name" binding:"omitempty,min=1,max=200"`
	Email          *string          `json:"email" binding:"omitempty,email,max=200"`
	Phone          *string          `json:"phone" binding:"omitempty,phone"`
	Company        *string          `json:"company" binding:"omitempty,max=200"`
	Notes          *string          `json:"notes" binding:"omitempty,max=5000"`
	EstimatedValue *decimal.Decimal `json:"estimated_value"`
	Currency       *string          `json:"currency" binding:"omitempty,len=3"`
	PropertyID     *string          `json:"property_id" binding:"omitempty,uuid"`
}

func (r UpdateLeadRequest) toInput() (crm.UpdateLeadInput, error) {
	in := crm.UpdateLeadInput{
		Name:           r.Name,
		Email:          r.Email,
		Phone:          r.Phone,
		Company:        r.Company,
		Notes:          r.Notes,
		EstimatedValue: r.EstimatedValue,
		Currency:       r.Currency,
	}
	if r.PropertyID != nil {
		var err error
		if in.PropertyID, err = parseOptionalUUID("property_id", *r.PropertyID); err != nil {
			return in, err
		}
	}
	return in, nil
}

// AssignLeadRequest hands a lead to a user; an empty ID unassigns
type AssignLeadRequest struct {
	UserID string `json:"user_id" binding:"omitempty,uuid"`
}

// LeadStatusRequest moves a lead along the pipeline
type LeadStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=new contacted qualified proposal"`
}

// WinLeadRequest closes a lead as won, optionally linking the booking it produced
type WinLeadRequest struct {
	BookingID string `json:"booking_id" binding:"omitempty,uuid"`
}

// LoseLeadRequest closes a lead as lost
type LoseLeadRequest struct {
	Reason string `json:"reason" binding:"required,min=1,max=500"`
}

// LeadListQuery represents query parameters for listing leads
type LeadListQuery struct {
	Keyword    string `form:"keyword" binding:"omitempty,max=100"`
	Status     string `form:"status" binding:"omitempty,oneof=new contacted qualified proposal won lost"`
	Source     string `form:"source" binding:"omitempty,oneof=website whatsapp email phone referral walk_in social event"`
	PropertyID string `form:"property_id" binding:"omitempty,uuid"`
	AssignedTo string `form:"assigned_to" binding:"omitempty,uuid"`
	Page       int    `form:"page" binding:"omitempty,min=1"`
	PageSize   int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	SortBy     string `form:"sort_by" binding:"omitempty,oneof=name status estimated_value created_at updated_at"`
	SortDir    string `form:"sort_dir" binding:"omitempty,oneof=asc desc"`
}

func (q LeadListQuery) toFilter() (crm.LeadListFilter, error) {
	f := crm.LeadListFilter{
		Search:   q.Keyword,
		Status:   q.Status,
		Source:   q.Source,
		Page:     q.Page,
		PageSize: q.PageSize,
		OrderBy:  q.SortBy,
		OrderDir: q.SortDir,
	}
	var err error
	if f.PropertyID, err = parseOptionalUUID("property_id", q.PropertyID); err != nil {
		return f, err
	}
	if f.AssignedTo, err = parseOptionalUUID("assigned_to", q.AssignedTo); err != nil {
		return f, err
	}
	return f, nil
}
