// Package main запускает Telegram-бота с анонсами tmmoscow.ru.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"tmmoscow/internal/app"
	"tmmoscow/internal/config"
	"tmmoscow/pkg/logger"
)

func main() {
	// Инициализация логгера
	log := logger.New()
	defer func() { _ = log.Sync() }()

	// Загрузка конфигурации
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	application, err := app.New(ctx, cfg, log)
	if err != nil {
		log.Fatal("Failed to create application", zap.Error(err))
	}

	if err := application.Run(ctx); err != nil {
		log.Error("Bot stopped with error", zap.Error(err))
		os.Exit(1)
	}

	log.Info("Bot stopped successfully")
}
