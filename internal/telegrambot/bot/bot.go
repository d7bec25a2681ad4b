// Package bot реализует Telegram-бота с анонсами соревнований.
package bot

import (
	"context"
	"errors"
	"fmt"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"tmmoscow/internal/config"
	"tmmoscow/internal/telegrambot/bot/botapi"
	"tmmoscow/internal/telegrambot/bot/cache"
	"tmmoscow/internal/telegrambot/bot/commands"
	"tmmoscow/internal/telegrambot/bot/metrics"
	"tmmoscow/internal/telegrambot/bot/middleware"
	"tmmoscow/internal/telegrambot/bot/router"
	"tmmoscow/internal/telegrambot/bot/types"
	"tmmoscow/internal/telegrambot/bot/worker"
)

// Bot represents the Telegram bot
type Bot struct {
	api     *botapi.TelegramBotAPI
	logger  *zap.Logger
	config  *config.Config
	router  *router.Router
	deps    *types.Dependencies
	pool    worker.PoolInterface
	cache     *cache.CommandCache
	debouncer *middleware.Debouncer
	limiter   *middleware.RateLimiter
	metrics   *metrics.Metrics
}

// NewBot creates a new bot instance
func NewBot(cfg *config.Config, logger *zap.Logger, competitions types.CompetitionService, m *metrics.Metrics) (*Bot, error) {
	factory := NewComponentFactory(cfg, logger)

	api, err := factory.CreateBotAPI()
	if err != nil {
		return nil, err
	}

	commandCache := factory.CreateCommandCache()
	debouncer := factory.CreateDebouncer()
	limiter := factory.CreateRateLimiter()
	deps := factory.CreateDependencies(api, competitions, commandCache, m)

	return &Bot{
		api:       api,
		logger:    logger,
		config:    cfg,
		router:    factory.CreateRouter(deps, debouncer, limiter),
		deps:      deps,
		pool:      factory.CreateWorkerPool(),
		cache:     commandCache,
		debouncer: debouncer,
		limiter:   limiter,
		metrics:   m,
	}, nil
}

// API возвращает клиент Telegram
func (b *Bot) API() botapi.BotAPI {
	return b.api
}

// Pool возвращает пул воркеров
func (b *Bot) Pool() worker.PoolInterface {
	return b.pool
}

// Start получает обновления до отмены ctx
func (b *Bot) Start(ctx context.Context) error {
	tgAPI := b.api.GetAPI()
	b.logger.Info("Bot started", zap.String("username", tgAPI.Self.UserName))

	if _, err := tgAPI.Request(tgbotapi.DeleteWebhookConfig{DropPendingUpdates: true}); err != nil {
		return fmt.Errorf("failed to delete webhook: %w", err)
	}
	if err := b.api.SetBotCommands(commands.BotCommands()); err != nil {
		return fmt.Errorf("failed to set bot commands: %w", err)
	}

	b.pool.Start()
	defer b.pool.Stop()

	if b.cache != nil {
		go b.cache.Run(ctx)
	}
	go b.cleanup(ctx)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	u.AllowedUpdates = []string{"message"}

	b.logger.Info("Starting to fetch updates")
	updates := tgAPI.GetUpdatesChan(u)
	defer tgAPI.StopReceivingUpdates()

	for {
		select {
		case <-ctx.Done():
			b.logger.Info("Bot main loop cancelled by context")
			return nil
		case update, ok := <-updates:
			if !ok {
				b.logger.Info("Update channel closed")
				return nil
			}
			b.submit(update)
		}
	}
}

// submit ставит команду в очередь пула
func (b *Bot) submit(update tgbotapi.Update) {
	msg := update.Message
	if msg == nil || !msg.IsCommand() {
		return
	}

	b.logger.Debug("Received command",
		zap.String("text", msg.Text),
		zap.Int64("chat_id", msg.Chat.ID),
		zap.String("user", types.GetUserIdentifier(msg.From)),
		zap.Int("update_id", update.UpdateID))

	job := worker.Job{
		UpdateID: update.UpdateID,
		Command:  msg.Command(),
		Handler: func(ctx context.Context) error {
			return b.handleUpdate(ctx, update)
		},
	}
	if msg.From != nil {
		job.UserID = msg.From.ID
	}

	if err := b.pool.Submit(job); err != nil {
		b.logger.Warn("Failed to submit command", zap.Int("update_id", update.UpdateID), zap.Error(err))
		if errors.Is(err, worker.ErrQueueFull) {
			_ = b.api.SendMessage(msg.Chat.ID, "Бот сейчас перегружен, попробуйте через минуту")
		}
	}
}

// handleUpdate processes incoming updates
func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) error {
	return b.router.Dispatch(types.Context{
		Ctx:      ctx,
		Message:  update.Message,
		UpdateID: update.UpdateID,
		Deps:     b.deps,
	})
}

// cleanup периодически чистит состояние middleware
func (b *Bot) cleanup(ctx context.Context) {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if b.limiter != nil {
				b.limiter.Cleanup()
			}
			if b.debouncer != nil {
				b.debouncer.Cleanup()
			}
			b.logger.Debug("Bot stats", zap.Any("stats", b.metrics.GetStats()))
		}
	}
}
