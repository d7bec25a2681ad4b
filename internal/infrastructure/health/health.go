// Package health реализует HTTP healthcheck сервер для мониторинга состояния бота.
package health

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"
)

const checkTimeout = 5 * time.Second

// TelegramPinger проверяет доступность Telegram API
type TelegramPinger interface {
	Ping() error
}

// DatabasePinger проверяет доступность базы
type DatabasePinger interface {
	Ping(ctx context.Context) error
}

// PoolChecker сообщает состояние пула воркеров
type PoolChecker interface {
	IsRunning() bool
	GetQueueSize() int
}

// Server представляет HTTP сервер для health check
type Server struct {
	server     *http.Server
	logger     *zap.Logger
	startTime  time.Time
	botAPI     TelegramPinger
	db         DatabasePinger
	workerPool PoolChecker
}

var _ ServerInterface = (*Server)(nil)

// Option настраивает проверяемые компоненты
type Option func(*Server)

// WithTelegram добавляет проверку Telegram API
func WithTelegram(api TelegramPinger) Option {
	return func(s *Server) { s.botAPI = api }
}

// WithDatabase добавляет проверку базы данных
func WithDatabase(db DatabasePinger) Option {
	return func(s *Server) { s.db = db }
}

// WithWorkerPool добавляет проверку пула воркеров
func WithWorkerPool(pool PoolChecker) Option {
	return func(s *Server) { s.workerPool = pool }
}

// Status представляет статус здоровья системы
type Status struct {
	Status     string            `json:"status"`
	Timestamp  time.Time         `json:"timestamp"`
	Uptime     string            `json:"uptime"`
	Components map[string]string `json:"components,omitempty"`
}

// NewHealthServer создает новый health check сервер
func NewHealthServer(port string, logger *zap.Logger, opts ...Option) *Server {
	mux := http.NewServeMux()

	hs := &Server{
		server: &http.Server{
			Addr:              net.JoinHostPort("", port),
			Handler:           mux,
			ReadHeaderTimeout: 10 * time.Second,
		},
		logger:    logger,
		startTime: time.Now(),
	}
	for _, opt := range opts {
		opt(hs)
	}

	mux.HandleFunc("/health", hs.healthHandler)
	mux.HandleFunc("/ready", hs.readyHandler)

	return hs
}

// Start запускает health check сервер, блокируется до Stop
func (hs *Server) Start() error {
	hs.logger.Info("Starting health check server", zap.String("addr", hs.server.Addr))
	if err := hs.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Stop останавливает health check сервер
func (hs *Server) Stop(ctx context.Context) error {
	hs.logger.Info("Stopping health check server")
	return hs.server.Shutdown(ctx)
}

// healthHandler отвечает, пока процесс жив
func (hs *Server) healthHandler(w http.ResponseWriter, _ *http.Request) {
	hs.writeStatus(w, http.StatusOK, Status{
		Status:    "healthy",
		Timestamp: time.Now(),
		Uptime:    time.Since(hs.startTime).Truncate(time.Second).String(),
	})
}

// readyHandler отвечает 503, если хоть один компонент неисправен
func (hs *Server) readyHandler(w http.ResponseWriter, r *http.Request) {
	components := hs.checkComponents(r.Context())

	overallStatus := "ready"
	code := http.StatusOK
	for _, status := range components {
		if status != "healthy" {
			overallStatus = "unhealthy"
			code = http.StatusServiceUnavailable
			break
		}
	}

	if code == http.StatusOK {
		hs.logger.Debug("Health check passed", zap.Any("components", components))
	} else {
		hs.logger.Warn("Health check failed", zap.Any("components", components))
	}

	hs.writeStatus(w, code, Status{
		Status:     overallStatus,
		Timestamp:  time.Now(),
		Uptime:     time.Since(hs.startTime).Truncate(time.Second).String(),
		Components: components,
	})
}

func (hs *Server) writeStatus(w http.ResponseWriter, code int, status Status) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(status); err != nil {
		hs.logger.Error("Failed to encode health status", zap.Error(err))
	}
}

// checkComponents проверяет состояние всех компонентов
func (hs *Server) checkComponents(ctx context.Context) map[string]string {
	components := make(map[string]string)

	if hs.botAPI != nil {
		components["telegram_api"] = hs.result("telegram_api", hs.botAPI.Ping())
	}

	if hs.db != nil {
		pingCtx, cancel := context.WithTimeout(ctx, checkTimeout)
		components["database"] = hs.result("database", hs.db.Ping(pingCtx))
		cancel()
	}

	if hs.workerPool != nil {
		if hs.workerPool.IsRunning() {
			components["worker_pool"] = "healthy"
		} else {
			components["worker_pool"] = "unhealthy"
		}
	}

	return components
}

func (hs *Server) result(component string, err error) string {
	if err != nil {
		hs.logger.Error("Component check failed", zap.String("component", component), zap.Error(err))
		return "unhealthy"
	}
	return "healthy"
}
