package handler

import (
	"github.com/hospitality/backend/internal/application/identity"
)

// CreateTenantRequest represents the request body for creating a tenant
type CreateTenantRequest struct {
	Code         string `json:"code" binding:"required,min=2,max=50"`
	Name         string `json:"name" binding:"required,min=1,max=200"`
	Slug         string `json:"slug" binding:"omitempty,slug"`
	Plan         string `json:"plan" binding:"omitempty,oneof=free starter pro enterprise"`
	ContactName  string `json:"contact_name" binding:"omitempty,max=100"`
	ContactEmail string `json:"contact_email" binding:"omitempty,email,max=200"`
	ContactPhone string `json:"contact_phone" binding:"omitempty,phone"`
	Domain       string `json:"domain" binding:"omitempty,fqdn,max=200"`
	Timezone     string `json:"timezone" binding:"omitempty,max=50"`
	Currency     string `json:"currency" binding:"omitempty,len=3"`
	Locale       string `json:"locale" binding:"omitempty,max=10"`
	TrialDays    int    `json:"trial_days" binding:"omitempty,min=1,max=365"`
}

func (r CreateTenantRequest) toInput() identity.CreateTenantInput {
	return identity.CreateTenantInput{
		Code:         r.Code,
		Name:         r.Name,
		Slug:         r.Slug,
		Plan:         r.Plan,
		ContactName:  r.ContactName,
		ContactEmail: r.ContactEmail,
		ContactPhone: r.ContactPhone,
		Domain:       r.Domain,
		Timezone:     r.Timezone,
		Currency:     r.Currency,
		Locale:       r.Locale,
		TrialDays:    r.TrialDays,
	}
}

// UpdateTenantRequest represents the request body for updating a tenant
type UpdateTenantRequest struct {
	Name         *string `json:"name" binding:"omitempty,min=1,max=200"`
	Plan         *string `json:"plan" binding:"omitempty,oneof=free starter pro enterprise"`
	ContactName  *string `json:"contact_name" binding:"omitempty,max=100"`
	ContactEmail *string `json:"contact_email" binding:"omitempty,email,max=200"`
	ContactPhone *string `json:"contact_phone" binding:"omitempty,phone"`
	Domain       *string `json:"domain" binding:"omitempty,max=200"`
	Timezone     *string `json:"timezone" binding:"omitempty,max=50"`
	Currency     *string `json:"currency" binding:"omitempty,len=3"`
	Locale       *string `json:"locale" binding:"omitempty,max=10"`
}

func (r UpdateTenantRequest) toInput() identity.UpdateTenantInput {
	return identity.UpdateTenantInput{
		Name:         r.Name,
		Plan:         r.Plan,
		ContactName:  r.ContactName,
		ContactEmail: r.ContactEmail,
		ContactPhone: r.ContactPhone,
		Domain:       r.Domain,
		Timezone:     r.Timezone,
		Currency:     r.Currency,
		Locale:       r.Locale,
	}
}

// TenantListQuery represents query parameters for listing tenants
type TenantListQuery struct {
	Keyword  string `form:"keyword" binding:"omitempty,max=100"`
	Status   string `form:"status" binding:"omitempty,oneof=active inactive suspended trial"`
	Plan     string `form:"plan" binding:"omitempty,oneof=free starter pro enterprise"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	SortBy   string `form:"sort_by" binding:"omitempty,oneof=code name status plan created_at updated_at"`
	SortDir  string `form:"sort_dir" binding:"omitempty,oneof=asc desc"`
}
