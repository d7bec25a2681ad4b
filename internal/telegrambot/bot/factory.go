package bot

import (
	"fmt"

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

// ComponentFactory создает компоненты бота
type ComponentFactory struct {
	config *config.Config
	logger *zap.Logger
}

// NewComponentFactory создает новую фабрику компонентов
func NewComponentFactory(config *config.Config, logger *zap.Logger) *ComponentFactory {
	return &ComponentFactory{
		config: config,
		logger: logger,
	}
}

// CreateBotAPI создает API для работы с Telegram
func (f *ComponentFactory) CreateBotAPI() (*botapi.TelegramBotAPI, error) {
	tgAPI, err := tgbotapi.NewBotAPI(f.config.BotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Telegram bot: %w", err)
	}
	return botapi.NewTelegramBotAPI(tgAPI, f.logger), nil
}

// CreateWorkerPool создает пул воркеров
func (f *ComponentFactory) CreateWorkerPool() worker.PoolInterface {
	return worker.NewWorkerPool(f.config.BotWorkers, f.config.BotQueue, f.logger)
}

// CreateCommandCache создает кэш команд, nil если он выключен
func (f *ComponentFactory) CreateCommandCache() *cache.CommandCache {
	if f.config.CommandCacheTTL <= 0 {
		return nil
	}
	return cache.NewCommandCache(f.config.CommandCacheTTL, f.logger)
}

// CreateRateLimiter создает ограничитель запросов, nil если он выключен
func (f *ComponentFactory) CreateRateLimiter() *middleware.RateLimiter {
	if !f.config.RateLimitEnabled {
		return nil
	}
	return middleware.NewRateLimiter(f.config.RateLimitRequests, f.config.RateLimitWindow, f.logger)
}

// CreateDebouncer создает фильтр повторных команд, nil если он выключен
func (f *ComponentFactory) CreateDebouncer() *middleware.Debouncer {
	if f.config.DebounceTimeout <= 0 {
		return nil
	}
	return middleware.NewDebouncer(f.config.DebounceTimeout, f.logger)
}

// CreateMetrics создает систему метрик
func (f *ComponentFactory) CreateMetrics() *metrics.Metrics {
	return metrics.NewMetrics(f.logger)
}

// CreateRouter создает роутер с middleware и зарегистрированными командами
func (f *ComponentFactory) CreateRouter(deps *types.Dependencies, debouncer *middleware.Debouncer, limiter *middleware.RateLimiter) *router.Router {
	r := router.NewRouter()
	r.Use(middleware.LogRequest)
	if debouncer != nil {
		r.Use(debouncer.Middleware)
	}
	if limiter != nil {
		r.Use(limiter.Middleware)
	}
	r.Use(middleware.RecordMetrics)
	r.Use(middleware.ErrorHandler)
	r.Use(middleware.Recover)

	f.logger.Info("Initializing command routes")
	commands.RegisterRoutes(r, deps)
	return r
}

// CreateDependencies собирает зависимости обработчиков
func (f *ComponentFactory) CreateDependencies(
	api botapi.BotAPI,
	competitions types.CompetitionService,
	commandCache *cache.CommandCache,
	m metrics.Interface,
) *types.Dependencies {
	deps := &types.Dependencies{
		BotAPI:       api,
		Logger:       f.logger,
		Config:       f.config,
		Competitions: competitions,
		Metrics:      m,
	}
	// типизированный nil в интерфейсе не должен попасть в обработчики
	if commandCache != nil {
		deps.CommandCache = commandCache
	}
	return deps
}
