// Package metrics реализует систему метрик для Telegram-бота.
package metrics

import (
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Metrics представляет систему метрик бота
type Metrics struct {
	mu sync.RWMutex

	// Пользовательская активность
	totalCommands int64
	commands      map[string]int64
	uniqueUsers   map[int64]struct{}

	// Архив
	savedSnapshots  int64
	lastSnapshot    time.Time
	downloadedFiles int64
	missingFiles    int64

	// Метрики производительности
	avgResponseTime time.Duration
	totalRequests   int64
	errorCount      int64

	uptime time.Time

	logger *zap.Logger
}

var _ Interface = (*Metrics)(nil)

// NewMetrics создает новую систему метрик
func NewMetrics(logger *zap.Logger) *Metrics {
	return &Metrics{
		commands:    make(map[string]int64),
		uniqueUsers: make(map[int64]struct{}),
		uptime:      time.Now(),
		logger:      logger,
	}
}

// RecordUserCommand записывает выполнение пользовательской команды
func (m *Metrics) RecordUserCommand(command string, userID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.totalCommands++
	m.commands[command]++
	m.uniqueUsers[userID] = struct{}{}
}

// RecordResponseTime записывает время ответа
func (m *Metrics) RecordResponseTime(duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.totalRequests++
	// Простое скользящее среднее
	if m.avgResponseTime == 0 {
		m.avgResponseTime = duration
	} else {
		m.avgResponseTime = (m.avgResponseTime + duration) / 2
	}
}

// RecordError записывает ошибку
func (m *Metrics) RecordError() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.errorCount++
}

// RecordSnapshot записывает сохранение версии страницы соревнования
func (m *Metrics) RecordSnapshot(competitionID int64, version int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.savedSnapshots++
	m.lastSnapshot = time.Now()
	m.logger.Debug("Snapshot recorded", zap.Int64("competition_id", competitionID), zap.Int("version", version))
}

// RecordFiles записывает скачанные и недоступные файлы
func (m *Metrics) RecordFiles(downloaded, missing int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.downloadedFiles += int64(downloaded)
	m.missingFiles += int64(missing)
}

// GetStats возвращает все метрики в виде map
func (m *Metrics) GetStats() map[string]any {
	m.mu.RLock()
	defer m.mu.RUnlock()

	commands := make(map[string]int64, len(m.commands))
	for k, v := range m.commands {
		commands[k] = v
	}

	return map[string]any{
		"user_activity": map[string]any{
			"total_commands": m.totalCommands,
			"unique_users":   len(m.uniqueUsers),
			"commands":       commands,
		},
		"archive": map[string]any{
			"saved_snapshots":  m.savedSnapshots,
			"last_snapshot":    m.formatTime(m.lastSnapshot),
			"downloaded_files": m.downloadedFiles,
			"missing_files":    m.missingFiles,
		},
		"performance": map[string]any{
			"avg_response_time": m.formatDuration(m.avgResponseTime),
			"total_requests":    m.totalRequests,
			"error_count":       m.errorCount,
			"error_rate":        m.calculateErrorRate(),
		},
		"system": map[string]any{
			"uptime": m.formatDuration(time.Since(m.uptime)),
		},
	}
}

// calculateErrorRate вычисляет процент ошибок
func (m *Metrics) calculateErrorRate() float64 {
	if m.totalRequests > 0 {
		return float64(m.errorCount) / float64(m.totalRequests) * 100
	}
	return 0
}

// formatTime форматирует время в нужном формате или возвращает "Не установлено"
func (m *Metrics) formatTime(t time.Time) string {
	if t.IsZero() {
		return "Не установлено"
	}
	return t.Format("02.01.06 15:04")
}

// formatDuration форматирует короткие интервалы в секундах с двумя знаками,
// длинные в минутах и секундах
func (m *Metrics) formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%.2fs", d.Seconds())
	}
	minutes := int(d.Minutes())
	seconds := int(d.Seconds()) % 60
	return fmt.Sprintf("%d мин %d сек", minutes, seconds)
}
