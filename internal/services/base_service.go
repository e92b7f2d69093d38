package services

import (
	"context"
	"encoding/json"
	"time"

	"maintenance-system/internal/repositories"

	"go.uber.org/zap"
)

// BaseService holds the JSON cache helpers shared by read-heavy services.
type BaseService struct {
	cache  repositories.CacheRepositoryInterface
	logger *zap.Logger
}

func NewBaseService(cache repositories.CacheRepositoryInterface, logger *zap.Logger) *BaseService {
	return &BaseService{cache: cache, logger: logger}
}

// CacheGet decodes the cached value into dest and reports whether it was found.
func (s *BaseService) CacheGet(ctx context.Context, key string, dest interface{}) bool {
	cached, err := s.cache.Get(ctx, key)
	if err != nil {
		return false
	}
	if err := json.Unmarshal([]byte(cached), dest); err != nil {
		s.logger.Warn("dropping undecodable cache entry", zap.String("key", key), zap.Error(err))
		_ = s.cache.Del(ctx, key)
		return false
	}
	s.logger.Debug("cache hit", zap.String("key", key))
	return true
}

func (s *BaseService) CacheSet(ctx context.Context, key string, data interface{}, ttl time.Duration) {
	serialized, err := json.Marshal(data)
	if err != nil {
		s.logger.Warn("could not encode cache entry", zap.String("key", key), zap.Error(err))
		return
	}
	if err := s.cache.Set(ctx, key, string(serialized), ttl); err != nil {
		s.logger.Warn("could not write cache entry", zap.String("key", key), zap.Error(err))
	}
}

func (s *BaseService) CacheDel(ctx context.Context, keys ...string) error {
	return s.cache.Del(ctx, keys...)
}
