package cms

import (
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/hospitality/backend/internal/domain/shared"
)

// MaxMediaSize is the largest accepted upload
const MaxMediaSize = 10 << 20

var allowedMediaTypes = map[string]bool{
	"image/jpeg":      true,
	"image/png":       true,
	"image/webp":      true,
	"image/gif":       true,
	"image/svg+xml":   true,
	"application/pdf": true,
	"video/mp4":       true,
}

// IsAllowedMediaType reports whether uploads of this content type are accepted
func IsAllowedMediaType(contentType string) bool {
	return allowedMediaTypes[strings.ToLower(strings.TrimSpace(contentType))]
}

// MediaAsset is an uploaded file held in object storage
type MediaAsset struct {
	shared.TenantAggregateRoot
	Key         string `gorm:"type:varchar(500);not null;uniqueIndex"`
	FileName    string `gorm:"type:varchar(255);not null"`
	ContentType string `gorm:"type:varchar(100);not null"`
	Size        int64  `gorm:"not null"`
	URL         string `gorm:"type:varchar(1000)"`
	AltText     string `gorm:"type:varchar(300)"`
}

// TableName returns the table name for GORM
func (MediaAsset) TableName() string {
	return "cms_media"
}

// NewMediaAsset validates an upload and builds its storage key
func NewMediaAsset(tenantID uuid.UUID, fileName, contentType string, size int64) (*MediaAsset, error) {
	if !IsAllowedMediaType(contentType) {
		return nil, shared.NewDomainError("INVALID_CONTENT_TYPE", "Unsupported media type: "+contentType)
	}
	if size <= 0 || size > MaxMediaSize {
		return nil, shared.NewDomainError("INVALID_SIZE", "File must be between 1 byte and 10 MB")
	}
	name := SafeFileName(fileName)
	m := &MediaAsset{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		FileName:            name,
		ContentType:         strings.ToLower(contentType),
		Size:                size,
	}
	m.Key = MediaKey(tenantID, "media", m.ID, name)
	return m, nil
}

// SetURL records the public or presigned URL of the object
func (m *MediaAsset) SetURL(url string) {
	m.URL = url
}

// SetAltText sets the accessibility description
func (m *MediaAsset) SetAltText(alt string) {
	m.AltText = shared.Truncate(shared.SanitizeString(alt), 300)
	m.MarkChanged()
}

// MediaKey builds a tenant-scoped object key: <tenant>/<folder>/<id>-<file>
func MediaKey(tenantID uuid.UUID, folder string, id uuid.UUID, fileName string) string {
	return path.Join(tenantID.String(), folder, id.String()+"-"+SafeFileName(fileName))
}

// SafeFileName reduces a client file name to a safe base name
func SafeFileName(name string) string {
	name = path.Base(strings.ReplaceAll(strings.TrimSpace(name), "\\", "/"))
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			b.WriteRune(r)
		case r == ' ':
			b.WriteRune('-')
		}
	}
	out := strings.Trim(b.String(), ".-")
	if out == "" {
		return "file"
	}
	return shared.Truncate(out, 120)
}
