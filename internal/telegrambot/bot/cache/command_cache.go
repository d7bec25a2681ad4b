// Package cache реализует кэширование ответов команд бота.
package cache

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// CommandCache хранит результаты команд ограниченное время
type CommandCache struct {
	cache  map[string]Entry
	mu     sync.RWMutex
	ttl    time.Duration
	now    func() time.Time
	logger *zap.Logger
}

// Убеждаемся, что CommandCache реализует CommandCacheInterface
var _ CommandCacheInterface = (*CommandCache)(nil)

// Entry представляет запись в кэше
type Entry struct {
	Data      any
	Timestamp time.Time
}

// NewCommandCache создает новый кэш команд. Устаревшие записи
// удаляет Run.
func NewCommandCache(ttl time.Duration, logger *zap.Logger) *CommandCache {
	return &CommandCache{
		cache:  make(map[string]Entry),
		ttl:    ttl,
		now:    time.Now,
		logger: logger,
	}
}

// Get получает значение из кэша
func (cc *CommandCache) Get(key string) (any, bool) {
	cc.mu.RLock()
	defer cc.mu.RUnlock()

	entry, exists := cc.cache[key]
	if !exists || cc.expired(entry) {
		return nil, false
	}

	cc.logger.Debug("Cache hit", zap.String("key", key))
	return entry.Data, true
}

// Set устанавливает значение в кэш
func (cc *CommandCache) Set(key string, data any) {
	cc.mu.Lock()
	defer cc.mu.Unlock()

	cc.cache[key] = Entry{
		Data:      data,
		Timestamp: cc.now(),
	}

	cc.logger.Debug("Cache set", zap.String("key", key))
}

// Delete удаляет значение из кэша
func (cc *CommandCache) Delete(key string) {
	cc.mu.Lock()
	defer cc.mu.Unlock()

	delete(cc.cache, key)
	cc.logger.Debug("Cache delete", zap.String("key", key))
}

// Clear очищает весь кэш
func (cc *CommandCache) Clear() {
	cc.mu.Lock()
	defer cc.mu.Unlock()

	cc.cache = make(map[string]Entry)
	cc.logger.Info("Cache cleared")
}

// Run периодически очищает устаревшие записи до отмены ctx
func (cc *CommandCache) Run(ctx context.Context) {
	ticker := time.NewTicker(cc.ttl / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			cc.cleanup()
		}
	}
}

func (cc *CommandCache) expired(entry Entry) bool {
	return cc.now().Sub(entry.Timestamp) > cc.ttl
}

// cleanup очищает устаревшие записи
func (cc *CommandCache) cleanup() {
	cc.mu.Lock()
	defer cc.mu.Unlock()

	deleted := 0
	for key, entry := range cc.cache {
		if cc.expired(entry) {
			delete(cc.cache, key)
			deleted++
		}
	}

	if deleted > 0 {
		cc.logger.Debug("Cleaned up cache entries", zap.Int("deleted", deleted))
	}
}

// Stats возвращает статистику кэша
func (cc *CommandCache) Stats() map[string]any {
	cc.mu.RLock()
	defer cc.mu.RUnlock()

	return map[string]any{
		"size": len(cc.cache),
		"ttl":  cc.ttl.String(),
	}
}
