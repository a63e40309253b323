package property

import (
	"strings"

	"github.com/google/uuid"
	"github.com/hospitality/backend/internal/domain/shared"
	"github.com/lib/pq"
)

// PropertyType is the kind of venue
type PropertyType string

const (
	PropertyTypeHotel      PropertyType = "hotel"
	PropertyTypeRestaurant PropertyType = "restaurant"
	PropertyTypeResort     PropertyType = "resort"
	PropertyTypeGuesthouse PropertyType = "guesthouse"
	PropertyTypeCafe       PropertyType = "cafe"
)

// IsValid reports whether the type is known
func (t PropertyType) IsValid() bool {
	switch t {
	case PropertyTypeHotel, PropertyTypeRestaurant, PropertyTypeResort, PropertyTypeGuesthouse, PropertyTypeCafe:
		return true
	}
	return false
}

// HasRooms reports whether venues of this type rent rooms
func (t PropertyType) HasRooms() bool {
	return t == PropertyTypeHotel || t == PropertyTypeResort || t == PropertyTypeGuesthouse
}

// PropertyStatus is the lifecycle status of a venue
type PropertyStatus string

const (
	PropertyStatusDraft    PropertyStatus = "draft"
	PropertyStatusActive   PropertyStatus = "active"
	PropertyStatusInactive PropertyStatus = "inactive"
	PropertyStatusArchived PropertyStatus = "archived"
)

// Property is a hospitality venue owned by a tenant
type Property struct {
	shared.TenantAggregateRoot
	Code            string         `gorm:"type:varchar(50);not null"`
	Name            string         `gorm:"type:varchar(200);not null"`
	Slug            string         `gorm:"type:varchar(200);not null"`
	Type            PropertyType   `gorm:"type:varchar(20);not null"`
	Status          PropertyStatus `gorm:"type:varchar(20);not null;default:'draft'"`
	Description     string         `gorm:"type:text"`
	Address         string         `gorm:"type:varchar(500)"`
	City            string         `gorm:"type:varchar(100);index"`
	Country         string         `gorm:"type:varchar(100)"`
	PostalCode      string         `gorm:"type:varchar(20)"`
	Latitude        *float64
	Longitude       *float64
	Phone           string         `gorm:"type:varchar(50)"`
	Email           string         `gorm:"type:varchar(200)"`
	Website         string         `gorm:"type:varchar(500)"`
	StarRating      int            `gorm:"not null;default:0"`
	CheckInTime     string         `gorm:"type:varchar(5)"`
	CheckOutTime    string         `gorm:"type:varchar(5)"`
	Amenities       pq.StringArray `gorm:"type:text[]"`
	CoverImageKey   string         `gorm:"type:varchar(500)"`
	TotalRooms      int            `gorm:"not null;default:0"`
	SeatingCapacity int            `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (Property) TableName() string {
	return "properties"
}

// NewProperty creates a draft property
func NewProperty(tenantID uuid.UUID, code, name string, propertyType PropertyType) (*Property, error) {
	if err := validateCode(code); err != nil {
		return nil, err
	}
	name = shared.SanitizeString(name)
	if err := validateName(name); err != nil {
		return nil, err
	}
	if !propertyType.IsValid() {
		return nil, shared.NewDomainError("INVALID_TYPE", "Property type must be hotel, restaurant, resort, guesthouse or cafe")
	}

	p := &Property{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Code:                strings.ToUpper(code),
		Name:                name,
		Slug:                shared.Slugify(name),
		Type:                propertyType,
		Status:              PropertyStatusDraft,
		Amenities:           pq.StringArray{},
	}
	if propertyType.HasRooms() {
		p.CheckInTime = "14:00"
		p.CheckOutTime = "11:00"
	}

	p.AddDomainEvent(NewPropertyCreatedEvent(p))

	return p, nil
}

// Update sets the descriptive fields
func (p *Property) Update(name, description string) error {
	name = shared.SanitizeString(name)
	if err := validateName(name); err != nil {
		return err
	}
	p.Name = name
	p.Slug = shared.Slugify(name)
	p.Description = shared.SanitizeHTML(strings.TrimSpace(description))
	p.MarkChanged()
	return nil
}

// SetLocation sets the address and optional coordinates
func (p *Property) SetLocation(address, city, country, postalCode string, lat, lng *float64) error {
	if len(address) > 500 {
		return shared.NewDomainError("INVALID_ADDRESS", "Address cannot exceed 500 characters")
	}
	if lat != nil && (*lat < -90 || *lat > 90) {
		return shared.NewDomainError("INVALID_LATITUDE", "Latitude must be between -90 and 90")
	}
	if lng != nil && (*lng < -180 || *lng > 180) {
		return shared.NewDomainError("INVALID_LONGITUDE", "Longitude must be between -180 and 180")
	}
	p.Address = shared.SanitizeString(address)
	p.City = shared.SanitizeString(city)
	p.Country = shared.SanitizeString(country)
	p.PostalCode = strings.TrimSpace(postalCode)
	p.Latitude = lat
	p.Longitude = lng
	p.MarkChanged()
	return nil
}

// SetContact sets phone, email and website
func (p *Property) SetContact(phone, email, website string) error {
	if phone != "" && !shared.IsValidPhone(phone) {
		return shared.NewDomainError("INVALID_PHONE", "Invalid phone number")
	}
	if email != "" && !shared.IsValidEmail(email) {
		return shared.NewDomainError("INVALID_EMAIL", "Invalid email format")
	}
	if website != "" && !strings.HasPrefix(website, "http://") && !strings.HasPrefix(website, "https://") {
		return shared.NewDomainError("INVALID_WEBSITE", "Website must start with http:// or https://")
	}
	p.Phone = shared.NormalizePhone(phone)
	p.Email = shared.NormalizeEmail(email)
	p.Website = strings.TrimSpace(website)
	p.MarkChanged()
	return nil
}

// SetStarRating sets the star rating, 0 meaning unrated
func (p *Property) SetStarRating(stars int) error {
	if stars < 0 || stars > 5 {
		return shared.NewDomainError("INVALID_STAR_RATING", "Star rating must be between 0 and 5")
	}
	p.StarRating = stars
	p.MarkChanged()
	return nil
}

// SetCheckTimes sets check-in and check-out times in HH:MM
func (p *Property) SetCheckTimes(checkIn, checkOut string) error {
	if !validClock(checkIn) || !validClock(checkOut) {
		return shared.NewDomainError("INVALID_TIME", "Times must be in HH:MM format")
	}
	p.CheckInTime = checkIn
	p.CheckOutTime = checkOut
	p.MarkChanged()
	return nil
}

// SetAmenities replaces the amenity list, trimming blanks and duplicates
func (p *Property) SetAmenities(amenities []string) {
	seen := make(map[string]bool, len(amenities))
	out := make(pq.StringArray, 0, len(amenities))
	for _, a := range amenities {
		a = strings.ToLower(shared.SanitizeString(a))
		if a == "" || seen[a] {
			continue
		}
		seen[a] = true
		out = append(out, a)
	}
	p.Amenities = out
	p.MarkChanged()
}

// SetSeatingCapacity sets the number of covers for dining venues
func (p *Property) SetSeatingCapacity(seats int) error {
	if seats < 0 {
		return shared.NewDomainError("INVALID_CAPACITY", "Seating capacity cannot be negative")
	}
	p.SeatingCapacity = seats
	p.MarkChanged()
	return nil
}

// SetCoverImage records the storage key of the cover photo
func (p *Property) SetCoverImage(key string) {
	p.CoverImageKey = key
	p.MarkChanged()
}

// SetRoomCount records the number of rooms, kept in sync by the room service
func (p *Property) SetRoomCount(n int) {
	p.TotalRooms = n
	p.MarkChanged()
}

// Activate publishes the venue
func (p *Property) Activate() error {
	if p.Status == PropertyStatusActive {
		return shared.NewDomainError("ALREADY_ACTIVE", "Property is already active")
	}
	if p.Status == PropertyStatusArchived {
		return shared.NewInvalidStateError("Archived properties cannot be activated")
	}
	return p.changeStatus(PropertyStatusActive)
}

// Deactivate hides the venue without archiving it
func (p *Property) Deactivate() error {
	if p.Status == PropertyStatusInactive {
		return shared.NewDomainError("ALREADY_INACTIVE", "Property is already inactive")
	}
	if p.Status == PropertyStatusArchived {
		return shared.NewInvalidStateError("Archived properties cannot be deactivated")
	}
	return p.changeStatus(PropertyStatusInactive)
}

// Archive retires the venue permanently
func (p *Property) Archive() error {
	if p.Status == PropertyStatusArchived {
		return shared.NewDomainError("ALREADY_ARCHIVED", "Property is already archived")
	}
	return p.changeStatus(PropertyStatusArchived)
}

func (p *Property) changeStatus(to PropertyStatus) error {
	from := p.Status
	p.Status = to
	p.MarkChanged()
	p.AddDomainEvent(NewPropertyStatusChangedEvent(p, from, to))
	return nil
}

// IsBookable reports whether guests can reserve at this venue
func (p *Property) IsBookable() bool {
	return p.Status == PropertyStatusActive
}

func validateCode(code string) error {
	if code == "" {
		return shared.NewDomainError("INVALID_CODE", "Property code cannot be empty")
	}
	if len(code) > 50 {
		return shared.NewDomainError("INVALID_CODE", "Property code cannot exceed 50 characters")
	}
	if !shared.IsValidCode(code) {
		return shared.NewDomainError("INVALID_CODE", "Property code can only contain letters, numbers, underscores, and hyphens")
	}
	return nil
}

func validateName(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Property name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Property name cannot exceed 200 characters")
	}
	return nil
}

func validClock(s string) bool {
	if len(s) != 5 || s[2] != ':' {
		return false
	}
	for _, i := range []int{0, 1, 3, 4} {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	h := int(s[0]-'0')*10 + int(s[1]-'0')
	m := int(s[3]-'0')*10 + int(s[4]-'0')
	return h < 24 && m < 60
}
