package cms

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/hospitality/backend/internal/domain/cms"
	"github.com/hospitality/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// MediaService stores uploads in object storage and keeps their metadata
type MediaService struct {
	repo    cms.MediaRepository
	storage shared.ObjectStorage
	logger  *zap.Logger
}

// NewMediaService creates a new media service
func NewMediaService(repo cms.MediaRepository, storage shared.ObjectStorage, logger *zap.Logger) *MediaService {
	return &MediaService{repo: repo, storage: storage, logger: logger}
}

// Upload writes the object and records it. The object is removed again if the row cannot be saved.
func (s *MediaService) Upload(ctx context.Context, input MediaUpload, body io.Reader) (*MediaDTO, error) {
	if s.storage == nil {
		return nil, shared.NewDomainError("STORAGE_DISABLED", "Object storage is not configured")
	}
	asset, err := cms.NewMediaAsset(input.TenantID, input.FileName, input.ContentType, input.Size)
	if err != nil {
		return nil, err
	}
	if input.AltText != "" {
		asset.SetAltText(input.AltText)
	}
	if input.CreatedBy != uuid.Nil {
		asset.SetCreatedBy(input.CreatedBy)
	}

	if err := s.storage.Upload(ctx, asset.Key, body, asset.Size, asset.ContentType); err != nil {
		return nil, fmt.Errorf("upload media: %w", err)
	}
	url, err := s.storage.URL(ctx, asset.Key)
	if err != nil {
		s.logger.Warn("Failed to resolve media URL", zap.String("key", asset.Key), zap.Error(err))
	}
	asset.SetURL(url)

	if err := s.repo.Save(ctx, asset); err != nil {
		if derr := s.storage.Delete(ctx, asset.Key); derr != nil {
			s.logger.Warn("Failed to remove orphaned media object", zap.String("key", asset.Key), zap.Error(derr))
		}
		return nil, err
	}

	s.logger.Info("Media uploaded",
		zap.String("tenant_id", input.TenantID.String()),
		zap.String("key", asset.Key),
		zap.Int64("size", asset.Size))

	dto := ToMediaDTO(asset)
	return &dto, nil
}

// List returns media assets, refreshing their URLs
func (s *MediaService) List(ctx context.Context, tenantID uuid.UUID, f MediaListFilter) (shared.Paginated[MediaDTO], error) {
	filter := shared.Filter{
		Page:     f.Page,
		PageSize: f.PageSize,
		Search:   f.Search,
		Filters:  map[string]any{"content_type": f.ContentType},
	}.Normalize()

	items, err := s.repo.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return shared.Paginated[MediaDTO]{}, err
	}
	total, err := s.repo.CountForTenant(ctx, tenantID, filter)
	if err != nil {
		return shared.Paginated[MediaDTO]{}, err
	}

	out := make([]MediaDTO, len(items))
	for i := range items {
		out[i] = ToMediaDTO(&items[i])
		if s.storage != nil {
			if url, err := s.storage.URL(ctx, items[i].Key); err == nil {
				out[i].URL = url
			}
		}
	}
	return shared.NewPaginated(out, total, filter.Page, filter.PageSize), nil
}

// Delete removes the object and its row
func (s *MediaService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	asset, err := s.repo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if s.storage != nil {
		if err := s.storage.Delete(ctx, asset.Key); err != nil {
			return fmt.Errorf("delete media object: %w", err)
		}
	}
	return s.repo.DeleteForTenant(ctx, tenantID, id)
}
