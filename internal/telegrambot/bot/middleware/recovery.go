package middleware

import (
	"fmt"
	"runtime/debug"

	"go.uber.org/zap"

	"tmmoscow/internal/telegrambot/bot/types"
)

// Recover превращает панику обработчика в ошибку
func Recover(ctx types.Context, next types.HandlerFunc) (err error) {
	defer func() {
		if panicErr := recover(); panicErr != nil {
			ctx.Deps.Logger.Error("Panic recovered in handler",
				zap.String("command", ctx.Command),
				zap.Int64("chat_id", ctx.ChatID()),
				zap.String("user", types.GetUserIdentifier(ctx.Message.From)),
				zap.Int("update_id", ctx.UpdateID),
				zap.Any("panic", panicErr),
				zap.String("stack", string(debug.Stack())))
			err = fmt.Errorf("panic in /%s: %v", ctx.Command, panicErr)
		}
	}()
	return next(ctx)
}
