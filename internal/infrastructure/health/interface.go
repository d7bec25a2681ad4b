package health

import "context"

// ServerInterface жизненный цикл сервера проверок, как его видит приложение
type ServerInterface interface {
	// Start блокируется до остановки; штатная остановка не ошибка
	Start() error
	// Stop завершает сервер, дожидаясь активных запросов не дольше ctx
	Stop(ctx context.Context) error
}
