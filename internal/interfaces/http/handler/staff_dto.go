package handler

import (
	"github.com/google/uuid"
	"github.com/hospitality/backend/internal/application/staff"
	"github.com/shopspring/decimal"
)

// CreateStaffRequest hires a staff member
type CreateStaffRequest struct {
	EmployeeCode   string          `json:"employee_code" binding:"required,min=1,max=50"`
	FirstName      string          `json:"first_name" binding:"required,min=1,max=100"`
	LastName       string          `json:"last_name" binding:"omitempty,max=100"`
	Email          string          `json:"email" binding:"omitempty,email,max=200"`
	Phone          string          `json:"phone" binding:"omitempty,phone"`
	Position       string          `json:"position" binding:"omitempty,max=100"`
	Department     string          `json:"department" binding:"required,oneof=front_office housekeeping food_beverage kitchen maintenance sales management other"`
	EmploymentType string          `json:"employment_type" binding:"omitempty,oneof=full_time part_time contract seasonal"`
	HireDate       string          `json:"hire_date" binding:"required,datetime=2006-01-02"`
	HourlyRate     decimal.Decimal `json:"hourly_rate"`
	PropertyID     string          `json:"property_id" binding:"omitempty,uuid"`
	UserID         string          `json:"user_id" binding:"omitempty,uuid"`
}

func (r CreateStaffRequest) toInput(tenantID, actorID uuid.UUID) (staff.CreateStaffInput, error) {
	in := staff.CreateStaffInput{
		TenantID:       tenantID,
		CreatedBy:      actorID,
		EmployeeCode:   r.EmployeeCode,
		FirstName:      r.FirstName,
		LastName:       r.LastName,
		Email:          r.Email,
		Phone:          r.Phone,
		Position:       r.Position,
		Department:     r.Department,
		EmploymentType: r.EmploymentType,
		HourlyRate:     r.HourlyRate,
	}
	var err error
	if in.HireDate, err = parseDate("hire_date", r.HireDate); err != nil {
		return in, err
	}
	if in.PropertyID, err = parseOptionalUUID("property_id", r.PropertyID); err != nil {
		return in, err
	}
	if in.UserID, err = parseOptionalUUID("user_id", r.UserID); err != nil {
		return in, err
	}
	return in, nil
}

// UpdateStaffRequest changes the non-null fields of a staff member
type UpdateStaffRequest struct {
	FirstName      *string          `json:"first_name" binding:"omitempty,min=1,max=100"`
	LastName       *string          `json:"last_name" binding:"omitempty,max=100"`
	Email          *string          `json:"email" binding:"omitempty,email,max=200"`
	Phone          *string          `json:"phone" binding:"omitempty,phone"`
	Position       *string          `json:"position" binding:"omitempty,max=100"`
	Department     *string          `json:"department" binding:"omitempty,oneof=front_office housekeeping food_beverage kitchen maintenance sales management other"`
	EmploymentType *string          `json:"employment_type" binding:"omitempty,oneof=full_time part_time contract seasonal"`
	HourlyRate     *decimal.Decimal `json:"hourly_rate"`
	UserID         *string          `json:"user_id" binding:"omitempty,uuid"`
}

func (r UpdateStaffRequest) toInput() (staff.UpdateStaffInput, error) {
	in := staff.UpdateStaffInput{
		FirstName:      r.FirstName,
		LastName:       r.LastName,
		Email:          r.Email,
		Phone:          r.Phone,
		Position:       r.Position,
		Department:     r.Department,
		EmploymentType: r.EmploymentType,
		HourlyRate:     r.HourlyRate,
	}
	if r.UserID != nil {
		var err error
		if in.UserID, err = parseOptionalUUID("user_id", *r.UserID); err != nil {
			return in, err
		}
	}
	return in, nil
}

// AssignStaffRequest moves a staff member to a property; an empty ID unassigns
type AssignStaffRequest struct {
	PropertyID string `json:"property_id" binding:"omitempty,uuid"`
}

// TerminateStaffRequest ends employment, by default today
type TerminateStaffRequest struct {
	Date string `json:"date" binding:"omitempty,datetime=2006-01-02"`
}

// StaffListQuery represents query parameters for listing staff
type StaffListQuery struct {
	Keyword        string `form:"keyword" binding:"omitempty,max=100"`
	Department     string `form:"department" binding:"omitempty,oneof=front_office housekeeping food_beverage kitchen maintenance sales management other"`
	Status         string `form:"status" binding:"omitempty,oneof=active on_leave terminated"`
	EmploymentType string `form:"employment_type" binding:"omitempty,oneof=full_time part_time contract seasonal"`
	PropertyID     string `form:"property_id" binding:"omitempty,uuid"`
	Page           int    `form:"page" binding:"omitempty,min=1"`
	PageSize       int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	SortBy         string `form:"sort_by" binding:"omitempty,oneof=employee_code first_name last_name department hire_date created_at"`
	SortDir        string `form:"sort_dir" binding:"omitempty,oneof=asc desc"`
}
