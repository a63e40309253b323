package staff

import (
	"github.com/hospitality/backend/internal/domain/shared"
)

const (
	EventTypeStaffHired         = "StaffHired"
	EventTypeStaffStatusChanged = "StaffStatusChanged"
)

const AggregateTypeStaff = "StaffMember"

// StaffHiredEvent is raised when a staff member is created
type StaffHiredEvent struct {
	shared.BaseDomainEvent
	EmployeeCode string     `json:"employee_code"`
	FullName     string     `json:"full_name"`
	Department   Department `json:"department"`
}

// NewStaffHiredEvent creates a StaffHiredEvent
func NewStaffHiredEvent(s *StaffMember) *StaffHiredEvent {
	return &StaffHiredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStaffHired, AggregateTypeStaff, s.ID, s.TenantID),
		EmployeeCode:    s.EmployeeCode,
		FullName:        s.FullName(),
		Department:      s.Department,
	}
}

// StaffStatusChangedEvent is raised on leave, reactivation and termination
type StaffStatusChangedEvent struct {
	shared.BaseDomainEvent
	EmployeeCode string      `json:"employee_code"`
	OldStatus    StaffStatus `json:"old_status"`
	NewStatus    StaffStatus `json:"new_status"`
}

// NewStaffStatusChangedEvent creates a StaffStatusChangedEvent
func NewStaffStatusChangedEvent(s *StaffMember, from, to StaffStatus) *StaffStatusChangedEvent {
	return &StaffStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStaffStatusChanged, AggregateTypeStaff, s.ID, s.TenantID),
		EmployeeCode:    s.EmployeeCode,
		OldStatus:       from,
		NewStatus:       to,
	}
}
