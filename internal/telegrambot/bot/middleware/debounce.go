package middleware

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"tmmoscow/internal/telegrambot/bot/types"
)

// Debouncer отбрасывает повтор той же команды в том же чате
type Debouncer struct {
	requests map[string]time.Time
	mu       sync.Mutex
	timeout  time.Duration
	now      func() time.Time
	logger   *zap.Logger
}

var _ DebouncerInterface = (*Debouncer)(nil)

// NewDebouncer создает новый debouncer
func NewDebouncer(timeout time.Duration, logger *zap.Logger) *Debouncer {
	return &Debouncer{
		requests: make(map[string]time.Time),
		timeout:  timeout,
		now:      time.Now,
		logger:   logger,
	}
}

// Middleware молча пропускает двойные нажатия
func (d *Debouncer) Middleware(ctx types.Context, next types.HandlerFunc) error {
	key := fmt.Sprintf("%d:%s:%s", ctx.ChatID(), ctx.Command, strings.Join(ctx.Args, " "))
	if !d.CanProcessRequest(key) {
		d.logger.Debug("Request debounced", zap.String("key", key), zap.Int("update_id", ctx.UpdateID))
		return nil
	}
	return next(ctx)
}

// CanProcessRequest проверяет, можно ли обработать запрос
func (d *Debouncer) CanProcessRequest(key string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	now := d.now()
	if last, exists := d.requests[key]; exists && now.Sub(last) < d.timeout {
		return false
	}
	d.requests[key] = now
	return true
}

// Cleanup очищает устаревшие записи
func (d *Debouncer) Cleanup() {
	d.mu.Lock()
	defer d.mu.Unlock()

	now := d.now()
	for key, last := range d.requests {
		if now.Sub(last) >= d.timeout {
			delete(d.requests, key)
		}
	}
}
