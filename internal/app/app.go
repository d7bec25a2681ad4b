// Package app собирает компоненты приложения и управляет их жизненным циклом.
package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"tmmoscow/internal/config"
	"tmmoscow/internal/gateway/scraper"
	"tmmoscow/internal/infrastructure/health"
	"tmmoscow/internal/storage"
	"tmmoscow/internal/telegrambot/bot"
	"tmmoscow/internal/telegrambot/bot/metrics"
	"tmmoscow/internal/telegrambot/bot/service"
	"tmmoscow/internal/tmmoscow"
)

const shutdownTimeout = 10 * time.Second

// App представляет запущенное приложение
type App struct {
	config *config.Config
	logger *zap.Logger
	db     *storage.Postgres
	bot    *bot.Bot
	health health.ServerInterface
	wg     sync.WaitGroup
}

// New создает все компоненты. Подключение к базе выполняется только при заданном DB_DSN.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}

	a := &App{config: cfg, logger: logger}

	client, err := a.createClient()
	if err != nil {
		return nil, err
	}

	m := metrics.NewMetrics(logger)
	opts := []service.Option{service.WithMetrics(m)}

	if cfg.StorageEnabled() {
		archiveOpt, err := a.createArchive(ctx)
		if err != nil {
			return nil, err
		}
		opts = append(opts, archiveOpt)
	} else {
		logger.Info("DB_DSN is empty, competition archive is disabled")
	}

	competitions := service.NewCompetitionService(client, cfg.MaxCompetitionsListLen, logger, opts...)

	a.bot, err = bot.NewBot(cfg, logger, competitions, m)
	if err != nil {
		a.close()
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	if cfg.HealthCheckEnabled {
		healthOpts := []health.Option{
			health.WithTelegram(a.bot.API()),
			health.WithWorkerPool(a.bot.Pool()),
		}
		if a.db != nil {
			healthOpts = append(healthOpts, health.WithDatabase(a.db))
		}
		a.health = health.NewHealthServer(cfg.HealthPort, logger, healthOpts...)
	}

	return a, nil
}

// createClient создает транспорт и клиент сайта
func (a *App) createClient() (*tmmoscow.Client, error) {
	fetcher, err := scraper.NewFetcher(scraperConfig(a.config.ScraperConfig), a.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create fetcher: %w", err)
	}

	clientOpts := []tmmoscow.Option{tmmoscow.WithBaseURL(a.config.ScraperConfig.BaseURL)}
	if loc, err := a.config.Location(); err != nil {
		a.logger.Warn("Failed to load timezone, using fixed MSK offset", zap.Error(err))
	} else {
		clientOpts = append(clientOpts, tmmoscow.WithLocation(loc))
	}

	client, err := tmmoscow.NewClient(fetcher, a.logger, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create tmmoscow client: %w", err)
	}
	return client, nil
}

// createArchive подключает базу и файловое хранилище
func (a *App) createArchive(ctx context.Context) (service.Option, error) {
	db, err := storage.NewPostgres(ctx, a.config.DatabaseURL, a.logger)
	if err != nil {
		return nil, err
	}
	a.db = db

	if err := db.CreateSchema(ctx); err != nil {
		a.close()
		return nil, err
	}

	files, err := storage.NewFileStore(a.config.GetAppDataDir(), a.logger)
	if err != nil {
		a.close()
		return nil, err
	}

	return service.WithArchive(db.GetCompetitionRepository(), files), nil
}

func scraperConfig(c config.ScraperConfig) scraper.Config {
	return scraper.Config{
		BaseURL:               c.BaseURL,
		UserAgent:             scraper.DefaultUserAgent,
		MaxConcurrentRequests: c.MaxConcurrentRequests,
		RequestTimeout:        c.RequestTimeout,
		RequestDelay:          c.RequestDelay,
		MaxBodySize:           c.MaxBodySize,
		HTTPClientConfig: scraper.HTTPClientConfig{
			MaxIdleConns:          c.HTTPClientConfig.MaxIdleConns,
			MaxIdleConnsPerHost:   c.HTTPClientConfig.MaxIdleConnsPerHost,
			IdleConnTimeout:       c.HTTPClientConfig.IdleConnTimeout,
			TLSHandshakeTimeout:   c.HTTPClientConfig.TLSHandshakeTimeout,
			ResponseHeaderTimeout: c.HTTPClientConfig.ResponseHeaderTimeout,
			DisableKeepAlives:     c.HTTPClientConfig.DisableKeepAlives,
		},
		RetryConfig: scraper.RetryConfig{
			MaxRetries:        c.RetryConfig.MaxRetries,
			InitialDelay:      c.RetryConfig.InitialDelay,
			MaxDelay:          c.RetryConfig.MaxDelay,
			BackoffMultiplier: c.RetryConfig.BackoffMultiplier,
		},
	}
}

// Run работает до отмены ctx
func (a *App) Run(ctx context.Context) error {
	defer a.close()

	a.startHealth()
	err := a.bot.Start(ctx)
	a.stopHealth()

	return err
}

// startHealth запускает сервер проверок в фоне
func (a *App) startHealth() {
	if a.health == nil {
		return
	}
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		if err := a.health.Start(); err != nil {
			a.logger.Error("Health check server failed", zap.Error(err))
		}
	}()
}

// stopHealth останавливает сервер проверок и ждет его горутину
func (a *App) stopHealth() {
	if a.health != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		if err := a.health.Stop(shutdownCtx); err != nil {
			a.logger.Warn("Failed to stop health check server", zap.Error(err))
		}
		cancel()
	}
	a.wg.Wait()
}

func (a *App) close() {
	if a.db == nil {
		return
	}
	if err := a.db.Close(); err != nil {
		a.logger.Warn("Failed to close database", zap.Error(err))
	}
	a.db = nil
}
