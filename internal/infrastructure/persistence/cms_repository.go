package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/hospitality/backend/internal/domain/cms"
	"github.com/hospitality/backend/internal/domain/shared"
	"gorm.io/gorm"
)

var pageList = listQuery{
	searchColumns: []string{"title", "slug", "excerpt"},
	clauses: map[string]string{
		"status": "status = ?",
		"kind":   "kind = ?",
		"locale": "locale = ?",
	},
	sortFields:  PageSortFields,
	defaultSort: "created_at",
}

var mediaList = listQuery{
	searchColumns: []string{"file_name", "alt_text"},
	clauses: map[string]string{
		"content_type": "content_type = ?",
	},
	sortFields:  MediaSortFields,
	defaultSort: "created_at",
}

// GormPageRepository implements PageRepository using GORM
type GormPageRepository struct {
	db *gorm.DB
}

// NewGormPageRepository creates a new GormPageRepository
func NewGormPageRepository(db *gorm.DB) *GormPageRepository {
	return &GormPageRepository{db: db}
}

func (r *GormPageRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*cms.Page, error) {
	return firstForTenant[cms.Page](ctx, r.db, tenantID, id)
}

// FindBySlug finds a page by slug and locale within a tenant
func (r *GormPageRepository) FindBySlug(ctx context.Context, tenantID uuid.UUID, slug, locale string) (*cms.Page, error) {
	var page cms.Page
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND slug = ? AND locale = ?", tenantID, strings.ToLower(slug), locale).
		First(&page).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &page, nil
}

func (r *GormPageRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]cms.Page, error) {
	return listForTenant[cms.Page](ctx, r.db, pageList, tenantID, filter)
}

func (r *GormPageRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	return countForTenant[cms.Page](ctx, r.db, pageList, tenantID, filter)
}

// ExistsBySlug checks if a slug is taken for a locale, optionally ignoring one page
func (r *GormPageRepository) ExistsBySlug(ctx context.Context, tenantID uuid.UUID, slug, locale string, excludeID *uuid.UUID) (bool, error) {
	query := r.db.WithContext(ctx).Model(&cms.Page{}).
		Where("tenant_id = ? AND slug = ? AND locale = ?", tenantID, strings.ToLower(slug), locale)
	if excludeID != nil {
		query = query.Where("id <> ?", *excludeID)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *GormPageRepository) Save(ctx context.Context, page *cms.Page) error {
	return r.db.WithContext(ctx).Save(page).Error
}

func (r *GormPageRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return deleteForTenant[cms.Page](ctx, r.db, tenantID, id)
}

// GormMediaRepository implements MediaRepository using GORM
type GormMediaRepository struct {
	db *gorm.DB
}

// NewGormMediaRepository creates a new GormMediaRepository
func NewGormMediaRepository(db *gorm.DB) *GormMediaRepository {
	return &GormMediaRepository{db: db}
}

func (r *GormMediaRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*cms.MediaAsset, error) {
	return firstForTenant[cms.MediaAsset](ctx, r.db, tenantID, id)
}

func (r *GormMediaRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]cms.MediaAsset, error) {
	return listForTenant[cms.MediaAsset](ctx, r.db, mediaList, tenantID, filter)
}

func (r *GormMediaRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	return countForTenant[cms.MediaAsset](ctx, r.db, mediaList, tenantID, filter)
}

func (r *GormMediaRepository) Save(ctx context.Context, asset *cms.MediaAsset) error {
	return r.db.WithContext(ctx).Save(asset).Error
}

func (r *GormMediaRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return deleteForTenant[cms.MediaAsset](ctx, r.db, tenantID, id)
}

var (
	_ cms.PageRepository  = (*GormPageRepository)(nil)
	_ cms.MediaRepository = (*GormMediaRepository)(nil)
)
