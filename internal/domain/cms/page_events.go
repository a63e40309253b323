package cms

import (
	"github.com/hospitality/backend/internal/domain/shared"
)

const (
	EventTypePageCreated   = "PageCreated"
	EventTypePagePublished = "PagePublished"
)

const AggregateTypePage = "Page"

// PageEvent carries the identifying fields of a page
type PageEvent struct {
	shared.BaseDomainEvent
	Slug   string   `json:"slug"`
	Title  string   `json:"title"`
	Kind   PageKind `json:"kind"`
	Locale string   `json:"locale"`
}

// NewPageEvent creates a page event of the given type
func NewPageEvent(eventType string, p *Page) *PageEvent {
	return &PageEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, AggregateTypePage, p.ID, p.TenantID),
		Slug:            p.Slug,
		Title:           p.Title,
		Kind:            p.Kind,
		Locale:          p.Locale,
	}
}
