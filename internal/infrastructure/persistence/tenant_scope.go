package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/hospitality/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// firstForTenant loads one row of T owned by the tenant
func firstForTenant[T any](ctx context.Context, db *gorm.DB, tenantID, id uuid.UUID, preloads ...string) (*T, error) {
	var entity T
	query := db.WithContext(ctx).Where("tenant_id = ? AND id = ?", tenantID, id)
	for _, p := range preloads {
		query = query.Preload(p, orderBySortOrder(p))
	}
	if err := query.First(&entity).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &entity, nil
}

// deleteForTenant deletes one row of T owned by the tenant
func deleteForTenant[T any](ctx context.Context, db *gorm.DB, tenantID, id uuid.UUID) error {
	var model T
	result := db.WithContext(ctx).Delete(&model, "tenant_id = ? AND id = ?", tenantID, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// listForTenant pages rows of T owned by the tenant
func listForTenant[T any](ctx context.Context, db *gorm.DB, lq listQuery, tenantID uuid.UUID, filter shared.Filter) ([]T, error) {
	var model T
	var rows []T
	query := lq.page(db.WithContext(ctx).Model(&model).Where("tenant_id = ?", tenantID), filter)
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// countForTenant counts rows of T owned by the tenant
func countForTenant[T any](ctx context.Context, db *gorm.DB, lq listQuery, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var model T
	var count int64
	query := lq.where(db.WithContext(ctx).Model(&model).Where("tenant_id = ?", tenantID), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// orderBySortOrder keeps preloaded children in a stable order
func orderBySortOrder(association string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		switch association {
		case "Items":
			return db.Order("sort_order ASC")
		default:
			return db.Order("created_at ASC")
		}
	}
}
