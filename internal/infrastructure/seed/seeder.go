package seed

import (
	"context"
	"fmt"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/google/uuid"
	"github.com/hospitality/backend/internal/domain/cms"
	"github.com/hospitality/backend/internal/domain/crm"
	"github.com/hospitality/backend/internal/domain/identity"
	"github.com/hospitality/backend/internal/domain/property"
	"github.com/hospitality/backend/internal/domain/staff"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Result summarizes a seeding run
type Result struct {
	TenantID   uuid.UUID
	Skipped    bool
	Users      int
	Properties int
	Rooms      int
	Staff      int
	Leads      int
	Pages      int
}

// graph holds the aggregates built from a dataset, in insert order
type graph struct {
	tenant     *identity.Tenant
	users      []*identity.User
	properties []*property.Property
	rooms      []*property.Room
	staff      []*staff.StaffMember
	leads      []*crm.Lead
	pages      []*cms.Page
}

// Seeder writes a dataset through the domain constructors so seeded rows
// obey the same invariants as API-created ones
type Seeder struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewSeeder creates a Seeder
func NewSeeder(db *gorm.DB, logger *zap.Logger) *Seeder {
	return &Seeder{db: db, logger: logger}
}

// Seed inserts the dataset in one transaction.
// A tenant with the same code already present makes it a no-op.
func (s *Seeder) Seed(ctx context.Context, ds *Dataset) (*Result, error) {
	var existing int64
	code := strings.ToUpper(strings.TrimSpace(ds.Tenant.Code))
	if err := s.db.WithContext(ctx).Model(&identity.Tenant{}).Where("code = ?", code).Count(&existing).Error; err != nil {
		return nil, fmt.Errorf("failed to check existing tenant: %w", err)
	}
	if existing > 0 {
		s.logger.Info("seed tenant already present, skipping", zap.String("code", code))
		return &Result{Skipped: true}, nil
	}

	g, err := build(ds)
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(g.tenant).Error; err != nil {
			return fmt.Errorf("tenant: %w", err)
		}
		rows := []struct {
			name  string
			value any
			n     int
		}{
			{"users", g.users, len(g.users)},
			{"properties", g.properties, len(g.properties)},
			{"rooms", g.rooms, len(g.rooms)},
			{"staff", g.staff, len(g.staff)},
			{"leads", g.leads, len(g.leads)},
			{"pages", g.pages, len(g.pages)},
		}
		for _, r := range rows {
			if r.n == 0 {
				continue
			}
			if err := tx.Create(r.value).Error; err != nil {
				return fmt.Errorf("%s: %w", r.name, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to seed data: %w", err)
	}

	res := g.result()
	s.logger.Info("seed data inserted",
		zap.String("tenant", g.tenant.Code),
		zap.Int("properties", res.Properties),
		zap.Int("rooms", res.Rooms),
		zap.Int("users", res.Users),
	)
	return res, nil
}

func (g *graph) result() *Result {
	return &Result{
		TenantID:   g.tenant.ID,
		Users:      len(g.users),
		Properties: len(g.properties),
		Rooms:      len(g.rooms),
		Staff:      len(g.staff),
		Leads:      len(g.leads),
		Pages:      len(g.pages),
	}
}

func build(ds *Dataset) (*graph, error) {
	t := ds.Tenant
	tenant, err := identity.NewTenant(t.Code, t.Name, t.Slug)
	if err != nil {
		return nil, fmt.Errorf("tenant %s: %w", t.Code, err)
	}
	if err := tenant.Update(t.Name, t.Timezone, t.Currency, t.Locale); err != nil {
		return nil, fmt.Errorf("tenant %s: %w", t.Code, err)
	}
	if t.Plan != "" {
		if err := tenant.SetPlan(identity.TenantPlan(t.Plan)); err != nil {
			return nil, fmt.Errorf("tenant %s: %w", t.Code, err)
		}
	}
	if err := tenant.SetContact(t.Contact.Name, t.Contact.Email, t.Contact.Phone); err != nil {
		return nil, fmt.Errorf("tenant %s: %w", t.Code, err)
	}

	g := &graph{tenant: tenant}
	tenantID := tenant.ID

	for _, u := range ds.Users {
		user, err := identity.NewActiveUser(tenantID, u.Username, u.Password)
		if err != nil {
			return nil, fmt.Errorf("user %s: %w", u.Username, err)
		}
		if err := user.UpdateProfile(u.DisplayName, u.Email, ""); err != nil {
			return nil, fmt.Errorf("user %s: %w", u.Username, err)
		}
		roles := make([]identity.RoleName, 0, len(u.Roles))
		for _, r := range u.Roles {
			roles = append(roles, identity.RoleName(r))
		}
		if err := user.SetRoles(roles); err != nil {
			return nil, fmt.Errorf("user %s: %w", u.Username, err)
		}
		g.users = append(g.users, user)
	}

	byCode := make(map[string]*property.Property, len(ds.Properties))
	for _, ps := range ds.Properties {
		p, rooms, err := buildProperty(tenantID, tenant.Currency, ps)
		if err != nil {
			return nil, fmt.Errorf("property %s: %w", ps.Code, err)
		}
		byCode[ps.Code] = p
		g.properties = append(g.properties, p)
		g.rooms = append(g.rooms, rooms...)
	}

	for _, ss := range ds.Staff {
		member, err := buildStaff(tenantID, ss, byCode)
		if err != nil {
			return nil, fmt.Errorf("staff %s: %w", ss.Code, err)
		}
		g.staff = append(g.staff, member)
	}

	for _, ls := range ds.Leads {
		lead, err := buildLead(tenantID, tenant.Currency, ls, byCode)
		if err != nil {
			return nil, fmt.Errorf("lead %s: %w", ls.Name, err)
		}
		g.leads = append(g.leads, lead)
	}

	for _, pg := range ds.Pages {
		page, err := cms.NewPage(tenantID, pg.Title, pg.Slug, cms.PageKind(pg.Kind), pg.Locale)
		if err != nil {
			return nil, fmt.Errorf("page %s: %w", pg.Slug, err)
		}
		if err := page.Update(pg.Title, pg.Excerpt, pg.Body); err != nil {
			return nil, fmt.Errorf("page %s: %w", pg.Slug, err)
		}
		page.SetSEO(pg.SEOTitle, pg.SEODescription)
		if pg.Publish {
			if err := page.Publish(); err != nil {
				return nil, fmt.Errorf("page %s: %w", pg.Slug, err)
			}
		}
		g.pages = append(g.pages, page)
	}

	return g, nil
}

func buildProperty(tenantID uuid.UUID, currency string, ps PropertySeed) (*property.Property, []*property.Room, error) {
	p, err := property.NewProperty(tenantID, ps.Code, ps.Name, property.PropertyType(ps.Type))
	if err != nil {
		return nil, nil, err
	}
	if err := p.Update(ps.Name, ps.Description); err != nil {
		return nil, nil, err
	}
	if err := p.SetLocation(ps.Address, ps.City, ps.Country, ps.PostalCode, nil, nil); err != nil {
		return nil, nil, err
	}
	if err := p.SetContact(ps.Phone, ps.Email, ""); err != nil {
		return nil, nil, err
	}
	if err := p.SetStarRating(ps.StarRating); err != nil {
		return nil, nil, err
	}
	if ps.CheckIn != "" || ps.CheckOut != "" {
		if err := p.SetCheckTimes(ps.CheckIn, ps.CheckOut); err != nil {
			return nil, nil, err
		}
	}
	if ps.Seating > 0 {
		if err := p.SetSeatingCapacity(ps.Seating); err != nil {
			return nil, nil, err
		}
	}
	p.SetAmenities(ps.Amenities)

	rooms := make([]*property.Room, 0, len(ps.Rooms))
	for _, rs := range ps.Rooms {
		rate, err := decimal.NewFromString(rs.Rate)
		if err != nil {
			return nil, nil, fmt.Errorf("room %s rate: %w", rs.Number, err)
		}
		room, err := property.NewRoom(p, rs.Number, property.RoomType(rs.Type), rs.Capacity, rate, currency)
		if err != nil {
			return nil, nil, fmt.Errorf("room %s: %w", rs.Number, err)
		}
		room.Floor = rs.Floor
		rooms = append(rooms, room)
	}
	if len(rooms) > 0 {
		p.SetRoomCount(len(rooms))
	}
	if err := p.Activate(); err != nil {
		return nil, nil, err
	}
	return p, rooms, nil
}

func buildStaff(tenantID uuid.UUID, ss StaffSeed, props map[string]*property.Property) (*staff.StaffMember, error) {
	hired, err := time.Parse(time.DateOnly, ss.HireDate)
	if err != nil {
		return nil, fmt.Errorf("hire date: %w", err)
	}
	member, err := staff.NewStaffMember(tenantID, ss.Code, ss.FirstName, ss.LastName, staff.Department(ss.Department), hired)
	if err != nil {
		return nil, err
	}
	if err := member.Update(ss.FirstName, ss.LastName, ss.Position, "", ""); err != nil {
		return nil, err
	}
	if err := member.SetContact(ss.Email, ss.Phone); err != nil {
		return nil, err
	}
	if ss.HourlyRate != "" {
		rate, err := decimal.NewFromString(ss.HourlyRate)
		if err != nil {
			return nil, fmt.Errorf("hourly rate: %w", err)
		}
		if err := member.SetHourlyRate(rate); err != nil {
			return nil, err
		}
	}
	if p, ok := props[ss.Property]; ok {
		if err := member.AssignToProperty(&p.ID); err != nil {
			return nil, err
		}
	}
	return member, nil
}

func buildLead(tenantID uuid.UUID, currency string, ls LeadSeed, props map[string]*property.Property) (*crm.Lead, error) {
	lead, err := crm.NewLead(tenantID, crm.Contact{
		Name:    ls.Name,
		Email:   ls.Email,
		Phone:   ls.Phone,
		Company: ls.Company,
	}, crm.LeadSource(ls.Source))
	if err != nil {
		return nil, err
	}
	if ls.Value != "" {
		value, err := decimal.NewFromString(ls.Value)
		if err != nil {
			return nil, fmt.Errorf("value: %w", err)
		}
		if err := lead.SetEstimatedValue(value, currency); err != nil {
			return nil, err
		}
	}
	if p, ok := props[ls.Property]; ok {
		lead.SetProperty(&p.ID)
	}
	lead.SetNotes(ls.Notes)
	if status := crm.LeadStatus(ls.Status); status != "" && status != crm.LeadStatusNew {
		if err := lead.TransitionTo(status); err != nil {
			return nil, err
		}
	}
	return lead, nil
}
