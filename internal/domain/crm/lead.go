package crm

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hospitality/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// LeadSource is the channel a lead arrived through
type LeadSource string

const (
	LeadSourceWebsite  LeadSource = "website"
	LeadSourceWhatsApp LeadSource = "whatsapp"
	LeadSourceEmail    LeadSource = "email"
	LeadSourcePhone    LeadSource = "phone"
	LeadSourceReferral LeadSource = "referral"
	LeadSourceWalkIn   LeadSource = "walk_in"
	LeadSourceSocial   LeadSource = "social"
	LeadSourceEvent    LeadSource = "event"
)

// IsValid reports whether the source is known
func (s LeadSource) IsValid() bool {
	switch s {
	case LeadSourceWebsite, LeadSourceWhatsApp, LeadSourceEmail, LeadSourcePhone,
		LeadSourceReferral, LeadSourceWalkIn, LeadSourceSocial, LeadSourceEvent:
		return true
	}
	return false
}

// LeadStatus is a stage of the sales pipeline
type LeadStatus string

const (
	LeadStatusNew       LeadStatus = "new"
	LeadStatusContacted LeadStatus = "contacted"
	LeadStatusQualified LeadStatus = "qualified"
	LeadStatusProposal  LeadStatus = "proposal"
	LeadStatusWon       LeadStatus = "won"
	LeadStatusLost      LeadStatus = "lost"
)

// PipelineStatuses lists the statuses in pipeline order
var PipelineStatuses = []LeadStatus{
	LeadStatusNew, LeadStatusContacted, LeadStatusQualified, LeadStatusProposal, LeadStatusWon, LeadStatusLost,
}

// stage is the position in the forward-only pipeline; lost sits outside it
var stage = map[LeadStatus]int{
	LeadStatusNew:       0,
	LeadStatusContacted: 1,
	LeadStatusQualified: 2,
	LeadStatusProposal:  3,
	LeadStatusWon:       4,
}

// IsValid reports whether the status is known
func (s LeadStatus) IsValid() bool {
	_, ok := stage[s]
	return ok || s == LeadStatusLost
}

// IsTerminal reports whether no further transitions are allowed
func (s LeadStatus) IsTerminal() bool {
	return s == LeadStatusWon || s == LeadStatusLost
}

// CanTransitionTo reports whether the pipeline allows moving from s to next
func (s LeadStatus) CanTransitionTo(next LeadStatus) bool {
	if s.IsTerminal() || !next.IsValid() || s == next {
		return false
	}
	if next == LeadStatusLost {
		return true
	}
	return stage[next] > stage[s]
}

// Lead is a sales prospect
type Lead struct {
	shared.TenantAggregateRoot
	PropertyID         *uuid.UUID      `gorm:"type:uuid;index"`
	Name               string          `gorm:"type:varchar(200);not null"`
	Email              string          `gorm:"type:varchar(200);index"`
	Phone              string          `gorm:"type:varchar(50)"`
	Company            string          `gorm:"type:varchar(200)"`
	Source             LeadSource      `gorm:"type:varchar(20);not null;default:'website'"`
	Status             LeadStatus      `gorm:"type:varchar(20);not null;default:'new';index"`
	EstimatedValue     decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Currency           string          `gorm:"type:varchar(3);not null;default:'USD'"`
	AssignedTo         *uuid.UUID      `gorm:"type:uuid;index"`
	Notes              string          `gorm:"type:text"`
	LostReason         string          `gorm:"type:varchar(500)"`
	LastContactedAt    *time.Time
	ConvertedBookingID *uuid.UUID `gorm:"type:uuid"`
	ClosedAt           *time.Time
}

// TableName returns the table name for GORM
func (Lead) TableName() string {
	return "leads"
}

// Contact holds the prospect's details
type Contact struct {
	Name    string
	Email   string
	Phone   string
	Company string
}

// NewLead creates a lead in the new stage
func NewLead(tenantID uuid.UUID, contact Contact, source LeadSource) (*Lead, error) {
	if source == "" {
		source = LeadSourceWebsite
	}
	if !source.IsValid() {
		return nil, shared.NewDomainError("INVALID_SOURCE", "Unknown lead source")
	}
	l := &Lead{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Source:              source,
		Status:              LeadStatusNew,
		EstimatedValue:      decimal.Zero,
		Currency:            "USD",
	}
	if err := l.applyContact(contact); err != nil {
		return nil, err
	}

	l.AddDomainEvent(NewLeadCreatedEvent(l))

	return l, nil
}

// UpdateContact replaces the contact details
func (l *Lead) UpdateContact(contact Contact) error {
	if l.Status.IsTerminal() {
		return shared.NewInvalidStateError("Closed leads cannot be edited")
	}
	if err := l.applyContact(contact); err != nil {
		return err
	}
	l.MarkChanged()
	return nil
}

// SetNotes replaces the free-form notes
func (l *Lead) SetNotes(notes string) {
	l.Notes = shared.Truncate(shared.SanitizeString(notes), 5000)
	l.MarkChanged()
}

// SetEstimatedValue sets the expected deal value
func (l *Lead) SetEstimatedValue(value decimal.Decimal, currency string) error {
	if value.IsNegative() {
		return shared.NewDomainError("INVALID_AMOUNT", "Estimated value cannot be negative")
	}
	l.EstimatedValue = value.Round(2)
	if currency != "" {
		l.Currency = strings.ToUpper(currency)
	}
	l.MarkChanged()
	return nil
}

// SetProperty links the lead to the property it is interested in
func (l *Lead) SetProperty(propertyID *uuid.UUID) {
	l.PropertyID = propertyID
	l.MarkChanged()
}

// Assign gives the lead to a user, nil to unassign
func (l *Lead) Assign(userID *uuid.UUID) error {
	if l.Status.IsTerminal() {
		return shared.NewInvalidStateError("Closed leads cannot be reassigned")
	}
	l.AssignedTo = userID
	l.MarkChanged()
	return nil
}

// TransitionTo moves the lead forward in the pipeline.
// Won and lost have their own methods since they carry extra data.
func (l *Lead) TransitionTo(next LeadStatus) error {
	if next == LeadStatusWon {
		return l.MarkWon(nil)
	}
	if next == LeadStatusLost {
		return shared.NewDomainError("INVALID_REASON", "A reason is required to mark a lead as lost")
	}
	if !l.Status.CanTransitionTo(next) {
		return shared.NewDomainError("INVALID_STATUS_TRANSITION", "Cannot move lead from "+string(l.Status)+" to "+string(next))
	}
	if next == LeadStatusContacted {
		now := time.Now()
		l.LastContactedAt = &now
	}
	l.changeStatus(next)
	return nil
}

// MarkWon closes the lead as won, optionally linked to the booking it produced
func (l *Lead) MarkWon(bookingID *uuid.UUID) error {
	if !l.Status.CanTransitionTo(LeadStatusWon) {
		return shared.NewDomainError("INVALID_STATUS_TRANSITION", "Cannot mark a "+string(l.Status)+" lead as won")
	}
	now := time.Now()
	l.ConvertedBookingID = bookingID
	l.ClosedAt = &now
	l.changeStatus(LeadStatusWon)
	return nil
}

// MarkLost closes the lead as lost
func (l *Lead) MarkLost(reason string) error {
	if !l.Status.CanTransitionTo(LeadStatusLost) {
		return shared.NewDomainError("INVALID_STATUS_TRANSITION", "Cannot mark a "+string(l.Status)+" lead as lost")
	}
	reason = shared.SanitizeString(reason)
	if reason == "" {
		return shared.NewDomainError("INVALID_REASON", "Lost reason is required")
	}
	now := time.Now()
	l.LostReason = shared.Truncate(reason, 500)
	l.ClosedAt = &now
	l.changeStatus(LeadStatusLost)
	return nil
}

// TouchContact records an interaction with the prospect
func (l *Lead) TouchContact(at time.Time) {
	l.LastContactedAt = &at
	l.MarkChanged()
}

func (l *Lead) changeStatus(to LeadStatus) {
	from := l.Status
	l.Status = to
	l.MarkChanged()
	l.AddDomainEvent(NewLeadStatusChangedEvent(l, from, to))
}

func (l *Lead) applyContact(c Contact) error {
	name := shared.SanitizeString(c.Name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Lead name is required")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Lead name cannot exceed 200 characters")
	}
	email := strings.TrimSpace(c.Email)
	if email != "" && !shared.IsValidEmail(email) {
		return shared.NewDomainError("INVALID_EMAIL", "Invalid email format")
	}
	if c.Phone != "" && !shared.IsValidPhone(c.Phone) {
		return shared.NewDomainError("INVALID_PHONE", "Invalid phone number")
	}
	if email == "" && c.Phone == "" {
		return shared.NewDomainError("INVALID_CONTACT", "Email or phone is required")
	}
	l.Name = name
	l.Email = shared.NormalizeEmail(email)
	l.Phone = shared.NormalizePhone(c.Phone)
	l.Company = shared.Truncate(shared.SanitizeString(c.Company), 200)
	return nil
}
