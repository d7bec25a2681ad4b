package metrics

import "time"

// Interface определяет интерфейс для системы метрик
type Interface interface {
	// RecordUserCommand записывает выполнение пользовательской команды
	RecordUserCommand(command string, userID int64)

	// RecordResponseTime записывает время ответа
	RecordResponseTime(duration time.Duration)

	// RecordError записывает ошибку
	RecordError()

	// RecordSnapshot записывает сохранение версии страницы соревнования
	RecordSnapshot(competitionID int64, version int)

	// RecordFiles записывает скачанные и недоступные файлы
	RecordFiles(downloaded, missing int)

	// GetStats возвращает все метрики в виде map
	GetStats() map[string]any
}
