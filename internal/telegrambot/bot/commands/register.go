// Package commands содержит обработчики команд бота.
package commands

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"tmmoscow/internal/telegrambot/bot/router"
	"tmmoscow/internal/telegrambot/bot/types"
)

// RegisterRoutes registers all command routes
func RegisterRoutes(r router.RouterInterface, deps *types.Dependencies) {
	deps.Logger.Debug("Registering command routes")
	RegisterUserRoutes(r)
	if deps.Config != nil && deps.Config.AdminUsername != "" {
		RegisterAdminRoutes(r, deps)
	}
	deps.Logger.Debug("Command routes registered successfully")
}

// BotCommands меню команд бота
func BotCommands() []tgbotapi.BotCommand {
	return []tgbotapi.BotCommand{
		{Command: "recent", Description: "Последние соревнования категории"},
		{Command: "competition", Description: "Страница соревнования по номеру"},
		{Command: "categories", Description: "Категории дистанций"},
		{Command: "help", Description: "Показать справку"},
	}
}
