package staff

import (
	"time"

	"github.com/google/uuid"
	"github.com/hospitality/backend/internal/domain/staff"
	"github.com/shopspring/decimal"
)

// CreateStaffInput contains input for hiring a staff member
type CreateStaffInput struct {
	TenantID       uuid.UUID
	CreatedBy      uuid.UUID
	EmployeeCode   string
	FirstName      string
	LastName       string
	Email          string
	Phone          string
	Position       string
	Department     string
	EmploymentType string
	HireDate       time.Time
	HourlyRate     decimal.Decimal
	PropertyID     *uuid.UUID
	UserID         *uuid.UUID
}

// UpdateStaffInput contains input for updating a staff member; nil fields are unchanged
type UpdateStaffInput struct {
	FirstName      *string
	LastName       *string
	Email          *string
	Phone          *string
	Position       *string
	Department     *string
	EmploymentType *string
	HourlyRate     *decimal.Decimal
	UserID         *uuid.UUID
}

// StaffListFilter narrows staff listings
type StaffListFilter struct {
	Search         string
	Department     string
	Status         string
	EmploymentType string
	PropertyID     *uuid.UUID
	Page           int
	PageSize       int
	OrderBy        string
	OrderDir       string
}

// StaffDTO represents a staff member
type StaffDTO struct {
	ID             uuid.UUID       `json:"id"`
	TenantID       uuid.UUID       `json:"tenant_id"`
	PropertyID     *uuid.UUID      `json:"property_id,omitempty"`
	UserID         *uuid.UUID      `json:"user_id,omitempty"`
	EmployeeCode   string          `json:"employee_code"`
	FirstName      string          `json:"first_name"`
	LastName       string          `json:"last_name"`
	FullName       string          `json:"full_name"`
	Email          string          `json:"email,omitempty"`
	Phone          string          `json:"phone,omitempty"`
	Position       string          `json:"position,omitempty"`
	Department     string          `json:"department"`
	EmploymentType string          `json:"employment_type"`
	Status         string          `json:"status"`
	HireDate       string          `json:"hire_date"`
	TerminatedAt   *time.Time      `json:"terminated_at,omitempty"`
	HourlyRate     decimal.Decimal `json:"hourly_rate"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
	Version        int             `json:"version"`
}

// ToStaffDTO converts a domain staff member into its DTO
func ToStaffDTO(s *staff.StaffMember) StaffDTO {
	return StaffDTO{
		ID:             s.ID,
		TenantID:       s.TenantID,
		PropertyID:     s.PropertyID,
		UserID:         s.UserID,
		EmployeeCode:   s.EmployeeCode,
		FirstName:      s.FirstName,
		LastName:       s.LastName,
		FullName:       s.FullName(),
		Email:          s.Email,
		Phone:          s.Phone,
		Position:       s.Position,
		Department:     string(s.Department),
		EmploymentType: string(s.EmploymentType),
		Status:         string(s.Status),
		HireDate:       s.HireDate.Format(time.DateOnly),
		TerminatedAt:   s.TerminatedAt,
		HourlyRate:     s.HourlyRate,
		CreatedAt:      s.CreatedAt,
		UpdatedAt:      s.UpdatedAt,
		Version:        s.Version,
	}
}
