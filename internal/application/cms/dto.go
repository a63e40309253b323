package cms

import (
	"time"

	"github.com/google/uuid"
	"github.com/hospitality/backend/internal/domain/cms"
)

// CreatePageInput contains input for a new content entry
type CreatePageInput struct {
	TenantID       uuid.UUID
	AuthorID       uuid.UUID
	Title          string
	Slug           string
	Kind           string
	Locale         string
	Excerpt        string
	Body           string
	SEOTitle       string
	SEODescription string
	CoverImageKey  string
}

// UpdatePageInput contains input for editing a page; nil fields are unchanged
type UpdatePageInput struct {
	AuthorID       uuid.UUID
	Title          *string
	Slug           *string
	Excerpt        *string
	Body           *string
	SEOTitle       *string
	SEODescription *string
	CoverImageKey  *string
}

// PageListFilter narrows page listings
type PageListFilter struct {
	Search   string
	Kind     string
	Status   string
	Locale   string
	Page     int
	PageSize int
	OrderBy  string
	OrderDir string
}

// PageDTO represents a content entry
type PageDTO struct {
	ID             uuid.UUID  `json:"id"`
	TenantID       uuid.UUID  `json:"tenant_id"`
	Slug           string     `json:"slug"`
	Title          string     `json:"title"`
	Kind           string     `json:"kind"`
	Status         string     `json:"status"`
	Excerpt        string     `json:"excerpt,omitempty"`
	Body           string     `json:"body,omitempty"`
	SEOTitle       string     `json:"seo_title,omitempty"`
	SEODescription string     `json:"seo_description,omitempty"`
	CoverImageKey  string     `json:"cover_image_key,omitempty"`
	CoverImageURL  string     `json:"cover_image_url,omitempty"`
	Locale         string     `json:"locale"`
	PublishedAt    *time.Time `json:"published_at,omitempty"`
	AuthorID       *uuid.UUID `json:"author_id,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
	Version        int        `json:"version"`
}

// ToPageDTO converts a domain page into its DTO
func ToPageDTO(p *cms.Page) PageDTO {
	return PageDTO{
		ID:             p.ID,
		TenantID:       p.TenantID,
		Slug:           p.Slug,
		Title:          p.Title,
		Kind:           string(p.Kind),
		Status:         string(p.Status),
		Excerpt:        p.Excerpt,
		Body:           p.Body,
		SEOTitle:       p.SEOTitle,
		SEODescription: p.SEODescription,
		CoverImageKey:  p.CoverImageKey,
		Locale:         p.Locale,
		PublishedAt:    p.PublishedAt,
		AuthorID:       p.AuthorID,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
		Version:        p.Version,
	}
}

// PublicPageDTO is the public view of a published page
type PublicPageDTO struct {
	Slug           string     `json:"slug"`
	Title          string     `json:"title"`
	Kind           string     `json:"kind"`
	Excerpt        string     `json:"excerpt,omitempty"`
	Body           string     `json:"body"`
	SEOTitle       string     `json:"seo_title,omitempty"`
	SEODescription string     `json:"seo_description,omitempty"`
	CoverImageURL  string     `json:"cover_image_url,omitempty"`
	Locale         string     `json:"locale"`
	PublishedAt    *time.Time `json:"published_at,omitempty"`
}

// MediaUpload describes a file being uploaded
type MediaUpload struct {
	TenantID    uuid.UUID
	CreatedBy   uuid.UUID
	FileName    string
	ContentType string
	Size        int64
	AltText     string
}

// MediaListFilter narrows media listings
type MediaListFilter struct {
	Search      string
	ContentType string
	Page        int
	PageSize    int
}

// MediaDTO represents an uploaded file
type MediaDTO struct {
	ID          uuid.UUID `json:"id"`
	Key         string    `json:"key"`
	FileName    string    `json:"file_name"`
	ContentType string    `json:"content_type"`
	Size        int64     `json:"size"`
	URL         string    `json:"url"`
	AltText     string    `json:"alt_text,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// ToMediaDTO converts a media asset into its DTO
func ToMediaDTO(m *cms.MediaAsset) MediaDTO {
	return MediaDTO{
		ID:          m.ID,
		Key:         m.Key,
		FileName:    m.FileName,
		ContentType: m.ContentType,
		Size:        m.Size,
		URL:         m.URL,
		AltText:     m.AltText,
		CreatedAt:   m.CreatedAt,
	}
}
