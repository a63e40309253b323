package crm

import (
	"time"

	"github.com/google/uuid"
	"github.com/hospitality/backend/internal/domain/crm"
	"github.com/shopspring/decimal"
)

// CreateLeadInput contains input for capturing a lead
type CreateLeadInput struct {
	TenantID       uuid.UUID
	CreatedBy      uuid.UUID
	PropertyID     *uuid.UUID
	Name           string
	Email          string
	Phone          string
	Company        string
	Source         string
	Notes          string
	EstimatedValue decimal.Decimal
	Currency       string
	AssignedTo     *uuid.UUID
}

// UpdateLeadInput contains input for editing a lead; nil fields are unchanged
type UpdateLeadInput struct {
	Name           *string
	Email          *string
	Phone          *string
	Company        *string
	Notes          *string
	EstimatedValue *decimal.Decimal
	Currency       *string
	PropertyID     *uuid.UUID
}

// LeadListFilter narrows lead listings
type LeadListFilter struct {
	Search     string
	Status     string
	Source     string
	PropertyID *uuid.UUID
	AssignedTo *uuid.UUID
	Page       int
	PageSize   int
	OrderBy    string
	OrderDir   string
}

// LeadDTO represents a lead
type LeadDTO struct {
	ID                 uuid.UUID       `json:"id"`
	TenantID           uuid.UUID       `json:"tenant_id"`
	PropertyID         *uuid.UUID      `json:"property_id,omitempty"`
	Name               string          `json:"name"`
	Email              string          `json:"email,omitempty"`
	Phone              string          `json:"phone,omitempty"`
	Company            string          `json:"company,omitempty"`
	Source             string          `json:"source"`
	Status             string          `json:"status"`
	EstimatedValue     decimal.Decimal `json:"estimated_value"`
	Currency           string          `json:"currency"`
	AssignedTo         *uuid.UUID      `json:"assigned_to,omitempty"`
	Notes              string          `json:"notes,omitempty"`
	LostReason         string          `json:"lost_reason,omitempty"`
	LastContactedAt    *time.Time      `json:"last_contacted_at,omitempty"`
	ConvertedBookingID *uuid.UUID      `json:"converted_booking_id,omitempty"`
	ClosedAt           *time.Time      `json:"closed_at,omitempty"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
	Version            int             `json:"version"`
}

// ToLeadDTO converts a domain lead into its DTO
func ToLeadDTO(l *crm.Lead) LeadDTO {
	return LeadDTO{
		ID:                 l.ID,
		TenantID:           l.TenantID,
		PropertyID:         l.PropertyID,
		Name:               l.Name,
		Email:              l.Email,
		Phone:              l.Phone,
		Company:            l.Company,
		Source:             string(l.Source),
		Status:             string(l.Status),
		EstimatedValue:     l.EstimatedValue,
		Currency:           l.Currency,
		AssignedTo:         l.AssignedTo,
		Notes:              l.Notes,
		LostReason:         l.LostReason,
		LastContactedAt:    l.LastContactedAt,
		ConvertedBookingID: l.ConvertedBookingID,
		ClosedAt:           l.ClosedAt,
		CreatedAt:          l.CreatedAt,
		UpdatedAt:          l.UpdatedAt,
		Version:            l.Version,
	}
}

// PipelineStageDTO is the count and value of leads in one status
type PipelineStageDTO struct {
	Status string          `json:"status"`
	Count  int64           `json:"count"`
	Value  decimal.Decimal `json:"value"`
}

// PipelineDTO summarizes the sales pipeline
type PipelineDTO struct {
	Stages     []PipelineStageDTO `json:"stages"`
	TotalCount int64              `json:"total_count"`
	OpenValue  decimal.Decimal    `json:"open_value"`
	// WinRate is won / (won + lost), zero when nothing has closed
	WinRate decimal.Decimal `json:"win_rate"`
}
