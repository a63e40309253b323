package staff

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hospitality/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Department groups staff by operational area
type Department string

const (
	DepartmentFrontOffice  Department = "front_office"
	DepartmentHousekeeping Department = "housekeeping"
	DepartmentFoodBeverage Department = "food_beverage"
	DepartmentKitchen      Department = "kitchen"
	DepartmentMaintenance  Department = "maintenance"
	DepartmentSales        Department = "sales"
	DepartmentManagement   Department = "management"
	DepartmentOther        Department = "other"
)

// IsValid reports whether the department is known
func (d Department) IsValid() bool {
	switch d {
	case DepartmentFrontOffice, DepartmentHousekeeping, DepartmentFoodBeverage, DepartmentKitchen,
		DepartmentMaintenance, DepartmentSales, DepartmentManagement, DepartmentOther:
		return true
	}
	return false
}

// EmploymentType is the contract type of a staff member
type EmploymentType string

const (
	EmploymentFullTime EmploymentType = "full_time"
	EmploymentPartTime EmploymentType = "part_time"
	EmploymentContract EmploymentType = "contract"
	EmploymentSeasonal EmploymentType = "seasonal"
)

// IsValid reports whether the employment type is known
func (e EmploymentType) IsValid() bool {
	switch e {
	case EmploymentFullTime, EmploymentPartTime, EmploymentContract, EmploymentSeasonal:
		return true
	}
	return false
}

// StaffStatus represents the employment status
type StaffStatus string

const (
	StaffStatusActive     StaffStatus = "active"
	StaffStatusOnLeave    StaffStatus = "on_leave"
	StaffStatusTerminated StaffStatus = "terminated"
)

// StaffMember is an employee of a tenant, optionally attached to one property
type StaffMember struct {
	shared.TenantAggregateRoot
	PropertyID     *uuid.UUID      `gorm:"type:uuid;index"`
	UserID         *uuid.UUID      `gorm:"type:uuid"`
	EmployeeCode   string          `gorm:"type:varchar(50);not null"`
	FirstName      string          `gorm:"type:varchar(100);not null"`
	LastName       string          `gorm:"type:varchar(100);not null"`
	Email          string          `gorm:"type:varchar(200)"`
	Phone          string          `gorm:"type:varchar(50)"`
	Position       string          `gorm:"type:varchar(100)"`
	Department     Department      `gorm:"type:varchar(30);not null;index"`
	EmploymentType EmploymentType  `gorm:"type:varchar(20);not null;default:'full_time'"`
	Status         StaffStatus     `gorm:"type:varchar(20);not null;default:'active';index"`
	HireDate       time.Time       `gorm:"type:date;not null"`
	TerminatedAt   *time.Time
	HourlyRate     decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
}

// TableName returns the table name for GORM
func (StaffMember) TableName() string {
	return "staff_members"
}

// NewStaffMember creates an active staff member
func NewStaffMember(tenantID uuid.UUID, code, firstName, lastName string, department Department, hireDate time.Time) (*StaffMember, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if len(code) > 50 || !shared.IsValidCode(code) {
		return nil, shared.NewDomainError("INVALID_CODE", "Employee code must be 1-50 letters, digits, underscores or hyphens")
	}
	if !department.IsValid() {
		return nil, shared.NewDomainError("INVALID_DEPARTMENT", "Unknown department")
	}
	if hireDate.IsZero() {
		hireDate = time.Now()
	}

	s := &StaffMember{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		EmployeeCode:        code,
		Department:          department,
		EmploymentType:      EmploymentFullTime,
		Status:              StaffStatusActive,
		HireDate:            hireDate.UTC().Truncate(24 * time.Hour),
		HourlyRate:          decimal.Zero,
	}
	if err := s.setName(firstName, lastName); err != nil {
		return nil, err
	}

	s.AddDomainEvent(NewStaffHiredEvent(s))

	return s, nil
}

// FullName returns "First Last"
func (s *StaffMember) FullName() string {
	return strings.TrimSpace(s.FirstName + " " + s.LastName)
}

// Update changes the personal and job details
func (s *StaffMember) Update(firstName, lastName, position string, department Department, employmentType EmploymentType) error {
	if s.Status == StaffStatusTerminated {
		return shared.NewInvalidStateError("Terminated staff cannot be updated")
	}
	if err := s.setName(firstName, lastName); err != nil {
		return err
	}
	if department != "" {
		if !department.IsValid() {
			return shared.NewDomainError("INVALID_DEPARTMENT", "Unknown department")
		}
		s.Department = department
	}
	if employmentType != "" {
		if !employmentType.IsValid() {
			return shared.NewDomainError("INVALID_EMPLOYMENT_TYPE", "Unknown employment type")
		}
		s.EmploymentType = employmentType
	}
	s.Position = shared.Truncate(shared.SanitizeString(position), 100)
	s.MarkChanged()
	return nil
}

// SetContact sets email and phone, both optional but validated
func (s *StaffMember) SetContact(email, phone string) error {
	if email != "" && !shared.IsValidEmail(strings.TrimSpace(email)) {
		return shared.NewDomainError("INVALID_EMAIL", "Invalid email format")
	}
	if phone != "" && !shared.IsValidPhone(phone) {
		return shared.NewDomainError("INVALID_PHONE", "Invalid phone number")
	}
	s.Email = shared.NormalizeEmail(email)
	s.Phone = shared.NormalizePhone(phone)
	s.MarkChanged()
	return nil
}

// SetHourlyRate sets the pay rate
func (s *StaffMember) SetHourlyRate(rate decimal.Decimal) error {
	if rate.IsNegative() {
		return shared.NewDomainError("INVALID_RATE", "Hourly rate cannot be negative")
	}
	s.HourlyRate = rate.Round(2)
	s.MarkChanged()
	return nil
}

// LinkUser attaches a login account
func (s *StaffMember) LinkUser(userID *uuid.UUID) {
	s.UserID = userID
	s.MarkChanged()
}

// AssignToProperty moves the staff member to a property, nil for tenant-wide
func (s *StaffMember) AssignToProperty(propertyID *uuid.UUID) error {
	if s.Status == StaffStatusTerminated {
		return shared.NewInvalidStateError("Terminated staff cannot be assigned")
	}
	s.PropertyID = propertyID
	s.MarkChanged()
	return nil
}

// PutOnLeave marks an active staff member as on leave
func (s *StaffMember) PutOnLeave() error {
	if s.Status != StaffStatusActive {
		return shared.NewInvalidStateError("Only active staff can be put on leave")
	}
	return s.changeStatus(StaffStatusOnLeave)
}

// Reactivate returns a staff member from leave
func (s *StaffMember) Reactivate() error {
	switch s.Status {
	case StaffStatusActive:
		return shared.NewInvalidStateError("Staff member is already active")
	case StaffStatusTerminated:
		return shared.NewInvalidStateError("Terminated staff cannot be reactivated")
	}
	return s.changeStatus(StaffStatusActive)
}

// Terminate ends the employment; terminal
func (s *StaffMember) Terminate(at time.Time) error {
	if s.Status == StaffStatusTerminated {
		return shared.NewInvalidStateError("Staff member is already terminated")
	}
	if at.IsZero() {
		at = time.Now()
	}
	if at.Before(s.HireDate) {
		return shared.NewDomainError("INVALID_DATE", "Termination date cannot precede the hire date")
	}
	s.TerminatedAt = &at
	return s.changeStatus(StaffStatusTerminated)
}

// IsActive reports whether the staff member is working
func (s *StaffMember) IsActive() bool {
	return s.Status == StaffStatusActive
}

func (s *StaffMember) changeStatus(to StaffStatus) error {
	from := s.Status
	s.Status = to
	s.MarkChanged()
	s.AddDomainEvent(NewStaffStatusChangedEvent(s, from, to))
	return nil
}

func (s *StaffMember) setName(first, last string) error {
	first = shared.SanitizeString(first)
	last = shared.SanitizeString(last)
	if first == "" || last == "" {
		return shared.NewDomainError("INVALID_NAME", "First and last name are required")
	}
	if len(first) > 100 || len(last) > 100 {
		return shared.NewDomainError("INVALID_NAME", "Names cannot exceed 100 characters")
	}
	s.FirstName = first
	s.LastName = last
	return nil
}
