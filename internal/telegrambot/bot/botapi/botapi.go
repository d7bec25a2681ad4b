// Package botapi оборачивает клиент Telegram Bot API.
package botapi

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// BotAPI defines the interface for interacting with Telegram API
type BotAPI interface {
	SendMessage(chatID int64, text string) error
	SendHTML(chatID int64, text string) error
	SendDocument(chatID int64, filename string, content []byte) error
	SetBotCommands(commands []tgbotapi.BotCommand) error
	Ping() error
}

// TelegramBotAPI wraps tgbotapi.BotAPI to implement the BotAPI interface
type TelegramBotAPI struct {
	api    *tgbotapi.BotAPI
	logger *zap.Logger
}

// NewTelegramBotAPI creates a new TelegramBotAPI instance
func NewTelegramBotAPI(api *tgbotapi.BotAPI, logger *zap.Logger) *TelegramBotAPI {
	return &TelegramBotAPI{
		api:    api,
		logger: logger,
	}
}

// GetAPI returns the underlying tgbotapi.BotAPI instance
func (t *TelegramBotAPI) GetAPI() *tgbotapi.BotAPI {
	return t.api
}

// SendMessage sends a plain text message
func (t *TelegramBotAPI) SendMessage(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	_, err := t.api.Send(msg)
	if err != nil {
		t.logger.Error("Failed to send message", zap.Int64("chat_id", chatID), zap.Error(err))
	}
	return err
}

// SendHTML sends a message formatted with Telegram HTML
func (t *TelegramBotAPI) SendHTML(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.DisableWebPagePreview = true
	_, err := t.api.Send(msg)
	if err != nil {
		t.logger.Error("Failed to send HTML message", zap.Int64("chat_id", chatID), zap.Error(err))
	}
	return err
}

// SendDocument uploads a file from memory
func (t *TelegramBotAPI) SendDocument(chatID int64, filename string, content []byte) error {
	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{Name: filename, Bytes: content})
	_, err := t.api.Send(doc)
	if err != nil {
		t.logger.Error("Failed to send document",
			zap.Int64("chat_id", chatID),
			zap.String("filename", filename),
			zap.Error(err))
	}
	return err
}

// SetBotCommands sets the bot's command menu
func (t *TelegramBotAPI) SetBotCommands(commands []tgbotapi.BotCommand) error {
	_, err := t.api.Request(tgbotapi.NewSetMyCommands(commands...))
	if err != nil {
		t.logger.Error("Failed to set bot commands", zap.Error(err))
	}
	return err
}

// Ping checks that the token is valid and the API is reachable
func (t *TelegramBotAPI) Ping() error {
	_, err := t.api.GetMe()
	return err
}

var _ BotAPI = (*TelegramBotAPI)(nil)
