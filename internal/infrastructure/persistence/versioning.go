package persistence

import (
	"reflect"

	"github.com/hospitality/backend/internal/domain/shared"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// versioned is implemented by every aggregate root
type versioned interface {
	GetVersion() int
	IncrementVersion()
	StoredVersion() int
	SetStoredVersion(v int)
}

// VersionTracking is a gorm plugin that remembers the version of every
// aggregate a query loads. saveWithLock compares against that version.
type VersionTracking struct{}

// Name implements gorm.Plugin
func (VersionTracking) Name() string {
	return "hospitality:version_tracking"
}

// Initialize implements gorm.Plugin
func (VersionTracking) Initialize(db *gorm.DB) error {
	return db.Callback().Query().After("gorm:query").Register("version:remember", rememberVersions)
}

func rememberVersions(tx *gorm.DB) {
	if tx.Error != nil || tx.Statement.Schema == nil {
		return
	}
	rv := reflect.Indirect(tx.Statement.ReflectValue)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		for i := 0; i < rv.Len(); i++ {
			rememberVersion(rv.Index(i))
		}
	case reflect.Struct:
		rememberVersion(rv)
	}
}

func rememberVersion(v reflect.Value) {
	for v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return
		}
		v = v.Elem()
	}
	if !v.CanAddr() {
		return
	}
	if agg, ok := v.Addr().Interface().(versioned); ok {
		agg.SetStoredVersion(agg.GetVersion())
	}
}

// saveWithLock inserts an aggregate that was never stored, otherwise updates
// it only while the row still carries the version it was loaded at.
// Associations are left to the caller.
func saveWithLock(tx *gorm.DB, agg versioned) error {
	stored := agg.StoredVersion()
	if stored == 0 {
		if err := tx.Omit(clause.Associations).Create(agg).Error; err != nil {
			return err
		}
		agg.SetStoredVersion(agg.GetVersion())
		return nil
	}

	if agg.GetVersion() <= stored {
		agg.IncrementVersion()
	}
	result := tx.Model(agg).
		Select("*").
		Omit(clause.Associations).
		Where("version = ?", stored).
		Updates(agg)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	agg.SetStoredVersion(agg.GetVersion())
	return nil
}
