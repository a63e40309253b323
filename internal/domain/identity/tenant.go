package identity

import (
	"strings"
	"time"

	"github.com/hospitality/backend/internal/domain/shared"
)

// TenantStatus represents the status of a tenant
type TenantStatus string

const (
	TenantStatusActive    TenantStatus = "active"
	TenantStatusInactive  TenantStatus = "inactive"
	TenantStatusSuspended TenantStatus = "suspended"
	TenantStatusTrial     TenantStatus = "trial"
)

// TenantPlan represents the subscription plan of a tenant
type TenantPlan string

const (
	TenantPlanFree       TenantPlan = "free"
	TenantPlanStarter    TenantPlan = "starter"
	TenantPlanPro        TenantPlan = "pro"
	TenantPlanEnterprise TenantPlan = "enterprise"
)

// PropertyLimit returns how many properties a plan allows
func (p TenantPlan) PropertyLimit() int {
	switch p {
	case TenantPlanStarter:
		return 3
	case TenantPlanPro:
		return 25
	case TenantPlanEnterprise:
		return 1000
	default:
		return 1
	}
}

// Tenant is a customer organization operating one or more venues
type Tenant struct {
	shared.BaseAggregateRoot
	Code         string       `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name         string       `gorm:"type:varchar(200);not null"`
	Slug         string       `gorm:"type:varchar(100);not null;uniqueIndex"`
	Status       TenantStatus `gorm:"type:varchar(20);not null;default:'active'"`
	Plan         TenantPlan   `gorm:"type:varchar(20);not null;default:'free'"`
	ContactName  string       `gorm:"type:varchar(100)"`
	ContactEmail string       `gorm:"type:varchar(200)"`
	ContactPhone string       `gorm:"type:varchar(50)"`
	Domain       string       `gorm:"type:varchar(200)"`
	Timezone     string       `gorm:"type:varchar(50);not null;default:'UTC'"`
	Currency     string       `gorm:"type:varchar(3);not null;default:'USD'"`
	Locale       string       `gorm:"type:varchar(10);not null;default:'en'"`
	TrialEndsAt  *time.Time
}

// TableName returns the table name for GORM
func (Tenant) TableName() string {
	return "tenants"
}

// NewTenant creates an active tenant on the free plan
func NewTenant(code, name, slug string) (*Tenant, error) {
	if err := validateTenantCode(code); err != nil {
		return nil, err
	}
	name = shared.SanitizeString(name)
	if err := validateTenantName(name); err != nil {
		return nil, err
	}
	if slug == "" {
		slug = shared.Slugify(name)
	}
	if !shared.IsValidSlug(slug) {
		return nil, shared.NewDomainError("INVALID_SLUG", "Slug must be lowercase letters, numbers and hyphens")
	}

	tenant := &Tenant{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              strings.ToUpper(code),
		Name:              name,
		Slug:              slug,
		Status:            TenantStatusActive,
		Plan:              TenantPlanFree,
		Timezone:          "UTC",
		Currency:          "USD",
		Locale:            "en",
	}

	tenant.AddDomainEvent(NewTenantCreatedEvent(tenant))

	return tenant, nil
}

// NewTrialTenant creates a tenant in trial status
func NewTrialTenant(code, name, slug string, trialDays int) (*Tenant, error) {
	if trialDays <= 0 {
		return nil, shared.NewDomainError("INVALID_TRIAL_DAYS", "Trial days must be positive")
	}

	tenant, err := NewTenant(code, name, slug)
	if err != nil {
		return nil, err
	}

	tenant.Status = TenantStatusTrial
	trialEnds := time.Now().AddDate(0, 0, trialDays)
	tenant.TrialEndsAt = &trialEnds

	return tenant, nil
}

// Update updates the tenant's basic information
func (t *Tenant) Update(name, timezone, currency, locale string) error {
	name = shared.SanitizeString(name)
	if err := validateTenantName(name); err != nil {
		return err
	}
	if timezone != "" {
		if _, err := time.LoadLocation(timezone); err != nil {
			return shared.NewDomainError("INVALID_TIMEZONE", "Unknown timezone: "+timezone)
		}
		t.Timezone = timezone
	}
	if currency != "" {
		if len(currency) != 3 {
			return shared.NewDomainError("INVALID_CURRENCY", "Currency must be a 3-letter ISO code")
		}
		t.Currency = strings.ToUpper(currency)
	}
	if locale != "" {
		t.Locale = locale
	}

	t.Name = name
	t.MarkChanged()
	t.AddDomainEvent(NewTenantUpdatedEvent(t))

	return nil
}

// SetContact sets the tenant's contact information
func (t *Tenant) SetContact(name, email, phone string) error {
	if email != "" && !shared.IsValidEmail(email) {
		return shared.NewDomainError("INVALID_EMAIL", "Invalid contact email")
	}
	if phone != "" && !shared.IsValidPhone(phone) {
		return shared.NewDomainError("INVALID_PHONE", "Invalid contact phone")
	}
	if len(name) > 100 {
		return shared.NewDomainError("INVALID_CONTACT_NAME", "Contact name cannot exceed 100 characters")
	}

	t.ContactName = shared.SanitizeString(name)
	t.ContactEmail = shared.NormalizeEmail(email)
	t.ContactPhone = shared.NormalizePhone(phone)
	t.MarkChanged()

	return nil
}

// SetDomain sets the tenant's custom domain for the marketing site
func (t *Tenant) SetDomain(domain string) error {
	domain = strings.ToLower(strings.TrimSpace(domain))
	if len(domain) > 200 {
		return shared.NewDomainError("INVALID_DOMAIN", "Domain cannot exceed 200 characters")
	}
	t.Domain = domain
	t.MarkChanged()
	return nil
}

// SetPlan changes the subscription plan; a paid plan ends the trial
func (t *Tenant) SetPlan(plan TenantPlan) error {
	switch plan {
	case TenantPlanFree, TenantPlanStarter, TenantPlanPro, TenantPlanEnterprise:
	default:
		return shared.NewDomainError("INVALID_PLAN", "Invalid tenant plan")
	}

	t.Plan = plan
	if t.Status == TenantStatusTrial && plan != TenantPlanFree {
		t.Status = TenantStatusActive
		t.TrialEndsAt = nil
	}
	t.MarkChanged()

	return nil
}

// Activate activates the tenant
func (t *Tenant) Activate() error {
	return t.changeStatus(TenantStatusActive, "ALREADY_ACTIVE", "Tenant is already active")
}

// Deactivate deactivates the tenant
func (t *Tenant) Deactivate() error {
	return t.changeStatus(TenantStatusInactive, "ALREADY_INACTIVE", "Tenant is already inactive")
}

// Suspend suspends the tenant
func (t *Tenant) Suspend() error {
	return t.changeStatus(TenantStatusSuspended, "ALREADY_SUSPENDED", "Tenant is already suspended")
}

func (t *Tenant) changeStatus(to TenantStatus, code, msg string) error {
	if t.Status == to {
		return shared.NewDomainError(code, msg)
	}
	from := t.Status
	t.Status = to
	if to == TenantStatusActive {
		t.TrialEndsAt = nil
	}
	t.MarkChanged()
	t.AddDomainEvent(NewTenantStatusChangedEvent(t, from, to))
	return nil
}

// IsActive reports whether the tenant can operate
func (t *Tenant) IsActive() bool {
	return t.Status == TenantStatusActive || (t.Status == TenantStatusTrial && !t.IsTrialExpired())
}

// IsTrialExpired reports whether a trial tenant has run out of time
func (t *Tenant) IsTrialExpired() bool {
	if t.Status != TenantStatusTrial || t.TrialEndsAt == nil {
		return false
	}
	return time.Now().After(*t.TrialEndsAt)
}

// CanAddProperty reports whether the plan allows another property
func (t *Tenant) CanAddProperty(current int64) bool {
	return current < int64(t.Plan.PropertyLimit())
}

func validateTenantCode(code string) error {
	if code == "" {
		return shared.NewDomainError("INVALID_CODE", "Tenant code cannot be empty")
	}
	if len(code) > 50 {
		return shared.NewDomainError("INVALID_CODE", "Tenant code cannot exceed 50 characters")
	}
	if !shared.IsValidCode(code) {
		return shared.NewDomainError("INVALID_CODE", "Tenant code can only contain letters, numbers, underscores, and hyphens")
	}
	return nil
}

func validateTenantName(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Tenant name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Tenant name cannot exceed 200 characters")
	}
	return nil
}
