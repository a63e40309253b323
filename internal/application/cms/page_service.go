package cms

import (
	"context"

	"github.com/google/uuid"
	"github.com/hospitality/backend/internal/domain/cms"
	"github.com/hospitality/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// PageService manages marketing site content
type PageService struct {
	repo    cms.PageRepository
	storage shared.ObjectStorage
	events  shared.EventPublisher
	logger  *zap.Logger
}

// NewPageService creates a new page service
func NewPageService(repo cms.PageRepository, storage shared.ObjectStorage, events shared.EventPublisher, logger *zap.Logger) *PageService {
	return &PageService{repo: repo, storage: storage, events: events, logger: logger}
}

// Create adds a draft page
func (s *PageService) Create(ctx context.Context, input CreatePageInput) (*PageDTO, error) {
	page, err := cms.NewPage(input.TenantID, input.Title, input.Slug, cms.PageKind(input.Kind), input.Locale)
	if err != nil {
		return nil, err
	}
	if err := s.ensureSlugFree(ctx, page.TenantID, page.Slug, page.Locale, nil); err != nil {
		return nil, err
	}
	if input.Excerpt != "" || input.Body != "" {
		if err := page.Update(page.Title, input.Excerpt, input.Body); err != nil {
			return nil, err
		}
	}
	if input.SEOTitle != "" || input.SEODescription != "" {
		page.SetSEO(input.SEOTitle, input.SEODescription)
	}
	if input.CoverImageKey != "" {
		page.SetCoverImage(input.CoverImageKey)
	}
	if input.AuthorID != uuid.Nil {
		page.SetAuthor(&input.AuthorID)
		page.SetCreatedBy(input.AuthorID)
	}

	if err := s.repo.Save(ctx, page); err != nil {
		return nil, err
	}
	s.publish(ctx, page)

	s.logger.Info("Page created",
		zap.String("tenant_id", page.TenantID.String()),
		zap.String("page_id", page.ID.String()),
		zap.String("slug", page.Slug))

	return s.toDTO(ctx, page), nil
}

// GetByID returns a page of the tenant
func (s *PageService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*PageDTO, error) {
	page, err := s.repo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	return s.toDTO(ctx, page), nil
}

// GetPublished returns a published page for the public site. Drafts are reported as not found.
func (s *PageService) GetPublished(ctx context.Context, tenantID uuid.UUID, slug, locale string) (*PublicPageDTO, error) {
	if locale == "" {
		locale = cms.DefaultLocale
	}
	page, err := s.repo.FindBySlug(ctx, tenantID, slug, locale)
	if err != nil {
		return nil, err
	}
	if !page.IsPublic() {
		return nil, shared.ErrNotFound
	}
	dto := s.toDTO(ctx, page)
	return &PublicPageDTO{
		Slug:           dto.Slug,
		Title:          dto.Title,
		Kind:           dto.Kind,
		Excerpt:        dto.Excerpt,
		Body:           dto.Body,
		SEOTitle:       dto.SEOTitle,
		SEODescription: dto.SEODescription,
		CoverImageURL:  dto.CoverImageURL,
		Locale:         dto.Locale,
		PublishedAt:    dto.PublishedAt,
	}, nil
}

// List returns pages matching the filter
func (s *PageService) List(ctx context.Context, tenantID uuid.UUID, f PageListFilter) (shared.Paginated[PageDTO], error) {
	filter := shared.Filter{
		Page:     f.Page,
		PageSize: f.PageSize,
		OrderBy:  f.OrderBy,
		OrderDir: f.OrderDir,
		Search:   f.Search,
		Filters: map[string]any{
			"kind":   f.Kind,
			"status": f.Status,
			"locale": f.Locale,
		},
	}.Normalize()

	items, err := s.repo.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return shared.Paginated[PageDTO]{}, err
	}
	total, err := s.repo.CountForTenant(ctx, tenantID, filter)
	if err != nil {
		return shared.Paginated[PageDTO]{}, err
	}

	out := make([]PageDTO, len(items))
	for i := range items {
		dto := ToPageDTO(&items[i])
		dto.Body = ""
		out[i] = dto
	}
	return shared.NewPaginated(out, total, filter.Page, filter.PageSize), nil
}

// Update applies the non-nil fields of input
func (s *PageService) Update(ctx context.Context, tenantID, id uuid.UUID, input UpdatePageInput) (*PageDTO, error) {
	page, err := s.repo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if input.Slug != nil && *input.Slug != page.Slug {
		if err := page.SetSlug(*input.Slug); err != nil {
			return nil, err
		}
		if err := s.ensureSlugFree(ctx, tenantID, page.Slug, page.Locale, &page.ID); err != nil {
			return nil, err
		}
	}
	if input.Title != nil || input.Excerpt != nil || input.Body != nil {
		if err := page.Update(pick(input.Title, page.Title), pick(input.Excerpt, page.Excerpt), pick(input.Body, page.Body)); err != nil {
			return nil, err
		}
	}
	if input.SEOTitle != nil || input.SEODescription != nil {
		page.SetSEO(pick(input.SEOTitle, page.SEOTitle), pick(input.SEODescription, page.SEODescription))
	}
	if input.CoverImageKey != nil {
		page.SetCoverImage(*input.CoverImageKey)
	}
	if input.AuthorID != uuid.Nil {
		page.SetAuthor(&input.AuthorID)
	}

	if err := s.repo.Save(ctx, page); err != nil {
		return nil, err
	}
	return s.toDTO(ctx, page), nil
}

// Publish makes a page public
func (s *PageService) Publish(ctx context.Context, tenantID, id uuid.UUID) (*PageDTO, error) {
	return s.transition(ctx, tenantID, id, (*cms.Page).Publish)
}

// Unpublish returns a page to draft
func (s *PageService) Unpublish(ctx context.Context, tenantID, id uuid.UUID) (*PageDTO, error) {
	return s.transition(ctx, tenantID, id, (*cms.Page).Unpublish)
}

// Archive retires a page
func (s *PageService) Archive(ctx context.Context, tenantID, id uuid.UUID) (*PageDTO, error) {
	return s.transition(ctx, tenantID, id, (*cms.Page).Archive)
}

func (s *PageService) transition(ctx context.Context, tenantID, id uuid.UUID, apply func(*cms.Page) error) (*PageDTO, error) {
	page, err := s.repo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := apply(page); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, page); err != nil {
		return nil, err
	}
	s.publish(ctx, page)
	return s.toDTO(ctx, page), nil
}

// Delete removes a page
func (s *PageService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	if _, err := s.repo.FindByIDForTenant(ctx, tenantID, id); err != nil {
		return err
	}
	return s.repo.DeleteForTenant(ctx, tenantID, id)
}

func (s *PageService) ensureSlugFree(ctx context.Context, tenantID uuid.UUID, slug, locale string, excludeID *uuid.UUID) error {
	exists, err := s.repo.ExistsBySlug(ctx, tenantID, slug, locale, excludeID)
	if err != nil {
		return err
	}
	if exists {
		return shared.NewDomainError("ALREADY_EXISTS", "A page with this slug already exists for the locale")
	}
	return nil
}

func (s *PageService) toDTO(ctx context.Context, page *cms.Page) *PageDTO {
	dto := ToPageDTO(page)
	if page.CoverImageKey != "" && s.storage != nil {
		if url, err := s.storage.URL(ctx, page.CoverImageKey); err == nil {
			dto.CoverImageURL = url
		}
	}
	return &dto
}

func (s *PageService) publish(ctx context.Context, page *cms.Page) {
	if err := shared.PublishPending(ctx, s.events, page); err != nil {
		s.logger.Warn("Failed to publish page events", zap.Error(err))
	}
}

func pick(v *string, fallback string) string {
	if v == nil {
		return fallback
	}
	return *v
}
