package cms

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hospitality/backend/internal/domain/shared"
)

// PageKind is the kind of content entry
type PageKind string

const (
	PageKindPage    PageKind = "page"
	PageKindPost    PageKind = "post"
	PageKindLanding PageKind = "landing"
)

// IsValid reports whether the kind is known
func (k PageKind) IsValid() bool {
	return k == PageKindPage || k == PageKindPost || k == PageKindLanding
}

// PageStatus is the publication status
type PageStatus string

const (
	PageStatusDraft     PageStatus = "draft"
	PageStatusPublished PageStatus = "published"
	PageStatusArchived  PageStatus = "archived"
)

const (
	DefaultLocale  = "en"
	maxTitleLength = 200
	maxBodyLength  = 200000
)

// Page is a marketing site content entry
type Page struct {
	shared.TenantAggregateRoot
	Slug           string     `gorm:"type:varchar(200);not null"`
	Title          string     `gorm:"type:varchar(200);not null"`
	Kind           PageKind   `gorm:"type:varchar(20);not null;default:'page'"`
	Status         PageStatus `gorm:"type:varchar(20);not null;default:'draft';index"`
	Excerpt        string     `gorm:"type:varchar(500)"`
	Body           string     `gorm:"type:text"`
	SEOTitle       string     `gorm:"column:seo_title;type:varchar(200)"`
	SEODescription string     `gorm:"column:seo_description;type:varchar(500)"`
	CoverImageKey  string     `gorm:"type:varchar(500)"`
	Locale         string     `gorm:"type:varchar(10);not null;default:'en'"`
	PublishedAt    *time.Time
	AuthorID       *uuid.UUID `gorm:"type:uuid"`
}

// TableName returns the table name for GORM
func (Page) TableName() string {
	return "cms_pages"
}

// NewPage creates a draft page. An empty slug is derived from the title.
func NewPage(tenantID uuid.UUID, title, slug string, kind PageKind, locale string) (*Page, error) {
	if kind == "" {
		kind = PageKindPage
	}
	if !kind.IsValid() {
		return nil, shared.NewDomainError("INVALID_KIND", "Unknown page kind")
	}
	p := &Page{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Kind:                kind,
		Status:              PageStatusDraft,
		Locale:              normalizeLocale(locale),
	}
	if err := p.setTitle(title); err != nil {
		return nil, err
	}
	if slug == "" {
		slug = shared.Slugify(p.Title)
	}
	if err := p.SetSlug(slug); err != nil {
		return nil, err
	}

	p.AddDomainEvent(NewPageEvent(EventTypePageCreated, p))

	return p, nil
}

// SetSlug changes the URL slug
func (p *Page) SetSlug(slug string) error {
	slug = strings.TrimSpace(slug)
	if !shared.IsValidSlug(slug) {
		return shared.NewDomainError("INVALID_SLUG", "Slug must be lowercase letters, digits and single hyphens")
	}
	p.Slug = slug
	return nil
}

// Update replaces the editable content. Scripts are stripped from the body.
func (p *Page) Update(title, excerpt, body string) error {
	if p.Status == PageStatusArchived {
		return shared.NewInvalidStateError("Archived pages cannot be edited")
	}
	if err := p.setTitle(title); err != nil {
		return err
	}
	body = shared.SanitizeHTML(body)
	if len(body) > maxBodyLength {
		return shared.NewDomainError("INVALID_BODY", "Body is too long")
	}
	p.Excerpt = shared.Truncate(shared.SanitizeString(excerpt), 500)
	p.Body = body
	p.MarkChanged()
	return nil
}

// SetSEO sets the search metadata
func (p *Page) SetSEO(title, description string) {
	p.SEOTitle = shared.Truncate(shared.SanitizeString(title), 200)
	p.SEODescription = shared.Truncate(shared.SanitizeString(description), 500)
	p.MarkChanged()
}

// SetCoverImage sets the storage key of the cover image
func (p *Page) SetCoverImage(key string) {
	p.CoverImageKey = key
	p.MarkChanged()
}

// SetAuthor records the editing user
func (p *Page) SetAuthor(userID *uuid.UUID) {
	p.AuthorID = userID
}

// Publish makes the page public. PublishedAt is only set the first time.
func (p *Page) Publish() error {
	if p.Status == PageStatusPublished {
		return shared.NewInvalidStateError("Page is already published")
	}
	if p.Status == PageStatusArchived {
		return shared.NewInvalidStateError("Archived pages cannot be published")
	}
	if strings.TrimSpace(p.Body) == "" {
		return shared.NewDomainError("INVALID_BODY", "Cannot publish an empty page")
	}
	if p.PublishedAt == nil {
		now := time.Now()
		p.PublishedAt = &now
	}
	p.Status = PageStatusPublished
	p.MarkChanged()
	p.AddDomainEvent(NewPageEvent(EventTypePagePublished, p))
	return nil
}

// Unpublish returns a published page to draft
func (p *Page) Unpublish() error {
	if p.Status != PageStatusPublished {
		return shared.NewInvalidStateError("Only published pages can be unpublished")
	}
	p.Status = PageStatusDraft
	p.MarkChanged()
	return nil
}

// Archive retires the page; terminal
func (p *Page) Archive() error {
	if p.Status == PageStatusArchived {
		return shared.NewInvalidStateError("Page is already archived")
	}
	p.Status = PageStatusArchived
	p.MarkChanged()
	return nil
}

// IsPublic reports whether the page can be served on the public site
func (p *Page) IsPublic() bool {
	return p.Status == PageStatusPublished
}

func (p *Page) setTitle(title string) error {
	title = shared.SanitizeString(title)
	if title == "" {
		return shared.NewDomainError("INVALID_TITLE", "Title is required")
	}
	if len(title) > maxTitleLength {
		return shared.NewDomainError("INVALID_TITLE", "Title cannot exceed 200 characters")
	}
	p.Title = title
	return nil
}

func normalizeLocale(locale string) string {
	locale = strings.TrimSpace(locale)
	if locale == "" {
		return DefaultLocale
	}
	return strings.ReplaceAll(strings.ToLower(locale), "_", "-")
}
