package storage

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/hospitality/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func testStorageConfig() *config.StorageConfig {
	return &config.StorageConfig{
		Enabled:         true,
		Bucket:          "hms-media",
		Region:          "eu-west-1",
		Endpoint:        "http://localhost:9000",
		AccessKeyID:     "test-key",
		SecretAccessKey: "test-secret",
		UsePathStyle:    true,
		PresignExpiry:   10 * time.Minute,
	}
}

func TestNewS3ObjectStorage_Validation(t *testing.T) {
	ctx := context.Background()

	t.Run("nil config", func(t *testing.T) {
		_, err := NewS3ObjectStorage(ctx, nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "configuration is required")
	})

	t.Run("missing bucket", func(t *testing.T) {
		cfg := testStorageConfig()
		cfg.Bucket = ""
		_, err := NewS3ObjectStorage(ctx, cfg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "bucket is required")
	})

	t.Run("half a credential pair", func(t *testing.T) {
		cfg := testStorageConfig()
		cfg.SecretAccessKey = ""
		_, err := NewS3ObjectStorage(ctx, cfg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "set together")
	})

	t.Run("valid config", func(t *testing.T) {
		s, err := NewS3ObjectStorage(ctx, testStorageConfig(), WithLogger(zaptest.NewLogger(t)))
		require.NoError(t, err)
		assert.Equal(t, "hms-media", s.Bucket())
		assert.Equal(t, 10*time.Minute, s.presignExpiration)
	})

	t.Run("default presign expiration", func(t *testing.T) {
		cfg := testStorageConfig()
		cfg.PresignExpiry = 0
		s, err := NewS3ObjectStorage(ctx, cfg)
		require.NoError(t, err)
		assert.Equal(t, 15*time.Minute, s.presignExpiration)
	})

	t.Run("option overrides config", func(t *testing.T) {
		s, err := NewS3ObjectStorage(ctx, testStorageConfig(), WithPresignExpiration(time.Hour))
		require.NoError(t, err)
		assert.Equal(t, time.Hour, s.presignExpiration)
	})
}

func TestS3ObjectStorage_URL(t *testing.T) {
	ctx := context.Background()

	t.Run("presigns when no public base", func(t *testing.T) {
		s, err := NewS3ObjectStorage(ctx, testStorageConfig())
		require.NoError(t, err)

		link, err := s.URL(ctx, "tenant/cms/abc-photo.jpg")
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(link, "http://localhost:9000/hms-media/"))
		assert.Contains(t, link, "X-Amz-Signature")
	})

	t.Run("uses the public base", func(t *testing.T) {
		cfg := testStorageConfig()
		cfg.PublicBaseURL = "https://cdn.example.com/"
		s, err := NewS3ObjectStorage(ctx, cfg)
		require.NoError(t, err)

		link, err := s.URL(ctx, "tenant/cms/abc-photo.jpg")
		require.NoError(t, err)
		assert.Equal(t, "https://cdn.example.com/tenant/cms/abc-photo.jpg", link)
	})

	t.Run("empty key", func(t *testing.T) {
		s, err := NewS3ObjectStorage(ctx, testStorageConfig())
		require.NoError(t, err)

		_, err = s.URL(ctx, "")
		assert.ErrorIs(t, err, ErrEmptyKey)
	})
}

func TestS3ObjectStorage_KeyValidation(t *testing.T) {
	ctx := context.Background()
	s, err := NewS3ObjectStorage(ctx, testStorageConfig())
	require.NoError(t, err)

	assert.ErrorIs(t, s.Upload(ctx, "", strings.NewReader("x"), 1, "text/plain"), ErrEmptyKey)
	assert.ErrorIs(t, s.Delete(ctx, ""), ErrEmptyKey)
}

func TestMemoryObjectStorage(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryObjectStorage("http://localhost:8080/media")

	require.NoError(t, m.Upload(ctx, "t1/cms/logo.png", strings.NewReader("png-bytes"), 9, "image/png"))
	assert.Equal(t, 1, m.Len())

	data, contentType, ok := m.Get("t1/cms/logo.png")
	require.True(t, ok)
	assert.Equal(t, "png-bytes", string(data))
	assert.Equal(t, "image/png", contentType)

	link, err := m.URL(ctx, "t1/cms/logo.png")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/media/t1/cms/logo.png", link)

	require.NoError(t, m.Delete(ctx, "t1/cms/logo.png"))
	assert.Equal(t, 0, m.Len())
}
