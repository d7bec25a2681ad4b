package middleware

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"tmmoscow/internal/telegrambot/bot/types"
)

// RateLimiter ограничивает число команд пользователя в скользящем окне
type RateLimiter struct {
	requests map[int64][]time.Time
	mu       sync.Mutex
	limit    int
	window   time.Duration
	now      func() time.Time
	logger   *zap.Logger
}

// Убеждаемся, что RateLimiter реализует RateLimiterInterface
var _ RateLimiterInterface = (*RateLimiter)(nil)

// NewRateLimiter создает новый rate limiter
func NewRateLimiter(limit int, window time.Duration, logger *zap.Logger) *RateLimiter {
	return &RateLimiter{
		requests: make(map[int64][]time.Time),
		limit:    limit,
		window:   window,
		now:      time.Now,
		logger:   logger,
	}
}

// Middleware ограничивает частоту запросов от пользователей
func (rl *RateLimiter) Middleware(ctx types.Context, next types.HandlerFunc) error {
	userID := ctx.UserID()

	if !rl.AllowRequest(userID) {
		rl.logger.Warn("Rate limit exceeded",
			zap.Int64("user_id", userID),
			zap.String("command", ctx.Command))

		return ctx.Deps.BotAPI.SendMessage(ctx.ChatID(),
			"Слишком много запросов. Попробуйте позже.")
	}

	return next(ctx)
}

// AllowRequest проверяет, разрешен ли запрос, и учитывает его
func (rl *RateLimiter) AllowRequest(userID int64) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	valid := rl.validRequests(rl.requests[userID], now)
	if len(valid) >= rl.limit {
		rl.requests[userID] = valid
		return false
	}

	rl.requests[userID] = append(valid, now)
	return true
}

// Cleanup очищает старые записи
func (rl *RateLimiter) Cleanup() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	for userID, requests := range rl.requests {
		if valid := rl.validRequests(requests, now); len(valid) == 0 {
			delete(rl.requests, userID)
		} else {
			rl.requests[userID] = valid
		}
	}
}

func (rl *RateLimiter) validRequests(requests []time.Time, now time.Time) []time.Time {
	windowStart := now.Add(-rl.window)
	var valid []time.Time
	for _, reqTime := range requests {
		if reqTime.After(windowStart) {
			valid = append(valid, reqTime)
		}
	}
	return valid
}
