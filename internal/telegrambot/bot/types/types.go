// Package types содержит общие типы обработчиков команд.
package types

import (
	"context"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"tmmoscow/internal/config"
	"tmmoscow/internal/telegrambot/bot/botapi"
	"tmmoscow/internal/telegrambot/bot/cache"
	"tmmoscow/internal/telegrambot/bot/metrics"
	"tmmoscow/internal/telegrambot/bot/service"
	"tmmoscow/internal/tmmoscow"
)

// HandlerFunc обработчик команды
type HandlerFunc func(ctx Context) error

// Middleware оборачивает обработчик команды
type Middleware func(ctx Context, next HandlerFunc) error

// Context контекст обработки одной команды
type Context struct {
	Ctx      context.Context
	Message  *tgbotapi.Message
	UpdateID int
	// Command имя команды без суффикса
	Command string
	// Args аргументы команды, включая суффикс вида /competition_123
	Args []string
	Deps *Dependencies
}

// Dependencies зависимости обработчиков команд
type Dependencies struct {
	BotAPI       botapi.BotAPI
	Logger       *zap.Logger
	Config       *config.Config
	Competitions CompetitionService
	CommandCache cache.CommandCacheInterface
	Metrics      metrics.Interface
}

// CompetitionService операции с соревнованиями, доступные командам
type CompetitionService interface {
	Recent(ctx context.Context, category tmmoscow.DistanceCategory, page int) ([]tmmoscow.CompetitionSummary, error)
	Competition(ctx context.Context, id int) (*service.CompetitionResult, error)
}

// GetUserIdentifier returns a user's username or ID
func GetUserIdentifier(user *tgbotapi.User) string {
	if user == nil {
		return "unknown"
	}
	if user.UserName != "" {
		return "@" + user.UserName
	}
	return strconv.FormatInt(user.ID, 10)
}

// UserID возвращает ID отправителя или 0
func (c Context) UserID() int64 {
	if c.Message == nil || c.Message.From == nil {
		return 0
	}
	return c.Message.From.ID
}

// ChatID возвращает ID чата
func (c Context) ChatID() int64 {
	return c.Message.Chat.ID
}
