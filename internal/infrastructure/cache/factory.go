package cache

import (
	"time"

	"github.com/hospitality/backend/internal/domain/shared"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// NewIdempotencyStore returns a Redis-backed store when a client is given,
// otherwise an in-memory one
func NewIdempotencyStore(client redis.UniversalClient, logger *zap.Logger) shared.IdempotencyStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	if client != nil {
		logger.Info("using Redis idempotency store")
		return NewRedisIdempotencyStore(client, defaultIdempotencyPrefix)
	}

	logger.Warn("Redis disabled, using in-memory idempotency store; " +
		"duplicate sends are only suppressed within this process")
	return NewInMemoryIdempotencyStore(5 * time.Minute)
}
