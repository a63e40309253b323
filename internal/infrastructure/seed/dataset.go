// Package seed loads demo data from YAML into a fresh database.
package seed

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed demo.yaml
var demoYAML []byte

// Dataset is the YAML document describing one tenant and its data
type Dataset struct {
	Tenant     TenantSeed     `yaml:"tenant"`
	Users      []UserSeed     `yaml:"users"`
	Properties []PropertySeed `yaml:"properties"`
	Staff      []StaffSeed    `yaml:"staff"`
	Leads      []LeadSeed     `yaml:"leads"`
	Pages      []PageSeed     `yaml:"pages"`
}

type TenantSeed struct {
	Code     string      `yaml:"code"`
	Name     string      `yaml:"name"`
	Slug     string      `yaml:"slug"`
	Plan     string      `yaml:"plan"`
	Timezone string      `yaml:"timezone"`
	Currency string      `yaml:"currency"`
	Locale   string      `yaml:"locale"`
	Contact  ContactSeed `yaml:"contact"`
}

type ContactSeed struct {
	Name  string `yaml:"name"`
	Email string `yaml:"email"`
	Phone string `yaml:"phone"`
}

type UserSeed struct {
	Username    string   `yaml:"username"`
	Password    string   `yaml:"password"`
	DisplayName string   `yaml:"display_name"`
	Email       string   `yaml:"email"`
	Roles       []string `yaml:"roles"`
}

type PropertySeed struct {
	Code        string     `yaml:"code"`
	Name        string     `yaml:"name"`
	Type        string     `yaml:"type"`
	Description string     `yaml:"description"`
	Address     string     `yaml:"address"`
	City        string     `yaml:"city"`
	Country     string     `yaml:"country"`
	PostalCode  string     `yaml:"postal_code"`
	Phone       string     `yaml:"phone"`
	Email       string     `yaml:"email"`
	StarRating  int        `yaml:"star_rating"`
	CheckIn     string     `yaml:"check_in"`
	CheckOut    string     `yaml:"check_out"`
	Seating     int        `yaml:"seating"`
	Amenities   []string   `yaml:"amenities"`
	Rooms       []RoomSeed `yaml:"rooms"`
}

type RoomSeed struct {
	Number   string `yaml:"number"`
	Type     string `yaml:"type"`
	Capacity int    `yaml:"capacity"`
	Rate     string `yaml:"rate"`
	Floor    int    `yaml:"floor"`
}

type StaffSeed struct {
	Code       string `yaml:"code"`
	FirstName  string `yaml:"first_name"`
	LastName   string `yaml:"last_name"`
	Department string `yaml:"department"`
	Position   string `yaml:"position"`
	Property   string `yaml:"property"`
	Email      string `yaml:"email"`
	Phone      string `yaml:"phone"`
	HireDate   string `yaml:"hire_date"`
	HourlyRate string `yaml:"hourly_rate"`
}

type LeadSeed struct {
	Name     string `yaml:"name"`
	Email    string `yaml:"email"`
	Phone    string `yaml:"phone"`
	Company  string `yaml:"company"`
	Source   string `yaml:"source"`
	Status   string `yaml:"status"`
	Value    string `yaml:"value"`
	Property string `yaml:"property"`
	Notes    string `yaml:"notes"`
}

type PageSeed struct {
	Slug           string `yaml:"slug"`
	Title          string `yaml:"title"`
	Kind           string `yaml:"kind"`
	Locale         string `yaml:"locale"`
	Excerpt        string `yaml:"excerpt"`
	Body           string `yaml:"body"`
	SEOTitle       string `yaml:"seo_title"`
	SEODescription string `yaml:"seo_description"`
	Publish        bool   `yaml:"publish"`
}

// Parse decodes a dataset and checks cross references.
// Unknown keys are rejected so typos in seed files surface early.
func Parse(data []byte) (*Dataset, error) {
	var ds Dataset
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&ds); err != nil {
		return nil, fmt.Errorf("failed to decode seed data: %w", err)
	}
	if err := ds.validate(); err != nil {
		return nil, err
	}
	return &ds, nil
}

// Demo returns the embedded demo dataset
func Demo() (*Dataset, error) {
	return Parse(demoYAML)
}

func (ds *Dataset) validate() error {
	if ds.Tenant.Code == "" || ds.Tenant.Name == "" {
		return errors.New("seed tenant code and name are required")
	}

	codes := make(map[string]bool, len(ds.Properties))
	for _, p := range ds.Properties {
		if codes[p.Code] {
			return fmt.Errorf("duplicate property code %q", p.Code)
		}
		codes[p.Code] = true
	}
	for _, s := range ds.Staff {
		if s.Property != "" && !codes[s.Property] {
			return fmt.Errorf("staff %s references unknown property %q", s.Code, s.Property)
		}
	}
	for _, l := range ds.Leads {
		if l.Property != "" && !codes[l.Property] {
			return fmt.Errorf("lead %s references unknown property %q", l.Name, l.Property)
		}
	}
	return nil
}
