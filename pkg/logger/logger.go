// Package logger содержит настройку логгера.
package logger

import (
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options параметры логгера
type Options struct {
	Level zapcore.Level
	// Path файл с ротацией; пустой путь отключает запись в файл
	Path string
}

// New создает логгер по переменным окружения LOG_LEVEL, LOG_PATH и APP_DATA_DIR
func New() *zap.Logger {
	return NewWithOptions(OptionsFromEnv())
}

// OptionsFromEnv читает параметры логгера из окружения
func OptionsFromEnv() Options {
	return Options{
		Level: ParseLevel(os.Getenv("LOG_LEVEL")),
		Path:  logPath(),
	}
}

// NewWithOptions пишет JSON в stdout и, если задан путь, в файл с ротацией
func NewWithOptions(opts Options) *zap.Logger {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	encoder := zapcore.NewJSONEncoder(encoderConfig)

	cores := []zapcore.Core{
		zapcore.NewCore(encoder, zapcore.AddSync(os.Stdout), opts.Level),
	}
	if opts.Path != "" {
		cores = append(cores, zapcore.NewCore(
			encoder.Clone(),
			zapcore.AddSync(&lumberjack.Logger{
				Filename:   opts.Path,
				MaxSize:    100, // MB
				MaxBackups: 3,
				MaxAge:     28, // days
				Compress:   true,
			}),
			opts.Level,
		))
	}

	return zap.New(zapcore.NewTee(cores...), zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel))
}

// ParseLevel разбирает уровень логирования; неизвестное значение дает info
func ParseLevel(level string) zapcore.Level {
	parsed, err := zapcore.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		return zapcore.InfoLevel
	}
	return parsed
}

// logPath получает путь к файлу логов из переменной окружения или использует значение по умолчанию
func logPath() string {
	if path := os.Getenv("LOG_PATH"); path != "" {
		return path
	}

	if dataDir := os.Getenv("APP_DATA_DIR"); dataDir != "" {
		if err := os.MkdirAll(dataDir, 0o755); err == nil {
			return filepath.Join(dataDir, "app.log")
		}
	}

	// По умолчанию используем локальную папку logs
	if err := os.MkdirAll("logs", 0o755); err == nil {
		return filepath.Join("logs", "app.log")
	}
	return "app.log"
}
