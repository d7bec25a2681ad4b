// Package middleware содержит обертки обработчиков команд.
package middleware

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"tmmoscow/internal/gateway/scraper"
	"tmmoscow/internal/telegrambot/bot/types"
	"tmmoscow/internal/tmmoscow"
)

// UserError ошибка, текст которой можно показать пользователю
type UserError struct {
	Message string
}

func (e *UserError) Error() string {
	return e.Message
}

// NewUserError создает ошибку с сообщением для пользователя
func NewUserError(message string) error {
	return &UserError{Message: message}
}

// LogRequest logs incoming commands
func LogRequest(ctx types.Context, next types.HandlerFunc) error {
	ctx.Deps.Logger.Info("Processing command",
		zap.String("command", ctx.Command),
		zap.Strings("args", ctx.Args),
		zap.Int64("chat_id", ctx.ChatID()),
		zap.String("user", types.GetUserIdentifier(ctx.Message.From)))
	ctx.Deps.Logger.Debug("Processing command details",
		zap.Int("update_id", ctx.UpdateID))
	return next(ctx)
}

// AdminOnly пропускает только администратора
func AdminOnly(adminUsername string) types.Middleware {
	return func(ctx types.Context, next types.HandlerFunc) error {
		if ctx.Message.From == nil || ctx.Message.From.UserName != adminUsername {
			return ctx.Deps.BotAPI.SendMessage(ctx.ChatID(), "Эта команда доступна только администратору")
		}
		return next(ctx)
	}
}

// Wrap wraps a middleware and handler into a HandlerFunc
func Wrap(mw types.Middleware, handler types.HandlerFunc) types.HandlerFunc {
	return func(ctx types.Context) error {
		return mw(ctx, handler)
	}
}

// RecordMetrics записывает команду, время ответа и ошибки
func RecordMetrics(ctx types.Context, next types.HandlerFunc) error {
	if ctx.Deps.Metrics == nil {
		return next(ctx)
	}

	start := time.Now()
	ctx.Deps.Metrics.RecordUserCommand(ctx.Command, ctx.UserID())
	err := next(ctx)
	ctx.Deps.Metrics.RecordResponseTime(time.Since(start))
	if err != nil {
		ctx.Deps.Metrics.RecordError()
	}
	return err
}

// ErrorHandler сообщает пользователю об ошибке обработчика
func ErrorHandler(ctx types.Context, next types.HandlerFunc) error {
	err := next(ctx)
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) {
		return err
	}

	ctx.Deps.Logger.Error("Handler error",
		zap.String("command", ctx.Command),
		zap.Int64("chat_id", ctx.ChatID()),
		zap.String("user", types.GetUserIdentifier(ctx.Message.From)),
		zap.Int("update_id", ctx.UpdateID),
		zap.Error(err))

	if sendErr := ctx.Deps.BotAPI.SendMessage(ctx.ChatID(), UserMessage(err)); sendErr != nil {
		return errors.Join(err, sendErr)
	}
	return err
}

// UserMessage текст ошибки для пользователя
func UserMessage(err error) string {
	var userErr *UserError
	var statusErr *scraper.StatusError
	switch {
	case errors.As(err, &userErr):
		return userErr.Message
	case errors.As(err, &statusErr) && statusErr.StatusCode == 404:
		return "Страница не найдена на сайте"
	case errors.As(err, &statusErr):
		return "Сайт tmmoscow.ru недоступен, попробуйте позже"
	case errors.Is(err, tmmoscow.ErrUnknownCategory):
		return "Неизвестная категория. Список категорий: /categories"
	case errors.Is(err, tmmoscow.ErrUnexpectedLayout), errors.Is(err, tmmoscow.ErrUnknownMonth):
		return "Не удалось разобрать страницу сайта"
	case errors.Is(err, context.DeadlineExceeded):
		return "Сайт не ответил вовремя, попробуйте позже"
	default:
		return "Произошла ошибка, попробуйте позже"
	}
}
