// Package worker реализует пул воркеров для асинхронной обработки команд бота.
package worker

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Ошибки пула
var (
	ErrQueueFull   = errors.New("job queue is full")
	ErrPoolStopped = errors.New("worker pool is stopped")
)

// Pool пул воркеров для обработки обновлений
type Pool struct {
	workers  int
	jobQueue chan Job
	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	logger   *zap.Logger
	stopOnce sync.Once
	stopped  bool
	mu       sync.RWMutex

	metricsMu sync.Mutex
	metrics   Metrics
}

// Убеждаемся, что Pool реализует PoolInterface
var _ PoolInterface = (*Pool)(nil)

// Job задача для обработки. Handler получает контекст пула,
// который отменяется при остановке.
type Job struct {
	UpdateID int
	Handler  func(ctx context.Context) error
	UserID   int64
	Command  string
}

// Metrics метрики воркер пула
type Metrics struct {
	ProcessedJobs  int64
	FailedJobs     int64
	ProcessingTime time.Duration
	QueueSize      int
}

// NewWorkerPool создает новый пул воркеров
func NewWorkerPool(workers int, queueSize int, logger *zap.Logger) *Pool {
	ctx, cancel := context.WithCancel(context.Background())

	return &Pool{
		workers:  workers,
		jobQueue: make(chan Job, queueSize),
		ctx:      ctx,
		cancel:   cancel,
		logger:   logger,
	}
}

// Start запускает пул воркеров
func (wp *Pool) Start() {
	wp.logger.Info("Starting worker pool", zap.Int("workers", wp.workers))

	for i := range wp.workers {
		wp.wg.Add(1)
		go wp.worker(i)
	}
}

// Stop отменяет выполняющиеся задачи и ждет завершения воркеров.
// Задачи, оставшиеся в очереди, не выполняются.
func (wp *Pool) Stop() {
	wp.stopOnce.Do(func() {
		wp.logger.Info("Stopping worker pool")
		wp.cancel()

		wp.mu.Lock()
		wp.stopped = true
		close(wp.jobQueue)
		wp.mu.Unlock()

		wp.wg.Wait()
		wp.logger.Info("Worker pool stopped")
	})
}

// Submit добавляет задачу в очередь без ожидания
func (wp *Pool) Submit(job Job) error {
	wp.mu.RLock()
	defer wp.mu.RUnlock()

	if wp.stopped {
		return ErrPoolStopped
	}

	select {
	case wp.jobQueue <- job:
		wp.setQueueSize()
		return nil
	default:
		return ErrQueueFull
	}
}

func (wp *Pool) setQueueSize() {
	wp.metricsMu.Lock()
	wp.metrics.QueueSize = len(wp.jobQueue)
	wp.metricsMu.Unlock()
}

// worker основной цикл воркера
func (wp *Pool) worker(id int) {
	defer wp.wg.Done()

	wp.logger.Debug("Worker started", zap.Int("worker_id", id))

	for {
		select {
		case <-wp.ctx.Done():
			wp.logger.Debug("Worker context cancelled", zap.Int("worker_id", id))
			return
		case job, ok := <-wp.jobQueue:
			if !ok {
				wp.logger.Debug("Worker stopping", zap.Int("worker_id", id))
				return
			}
			wp.setQueueSize()
			wp.processJob(job, id)
		}
	}
}

// processJob обрабатывает задачу
func (wp *Pool) processJob(job Job, workerID int) {
	startTime := time.Now()

	wp.logger.Debug("Processing job",
		zap.Int("worker_id", workerID),
		zap.Int("update_id", job.UpdateID),
		zap.String("command", job.Command),
		zap.Int64("user_id", job.UserID))

	err := job.Handler(wp.ctx)
	duration := time.Since(startTime)

	wp.metricsMu.Lock()
	if err != nil {
		wp.metrics.FailedJobs++
	} else {
		wp.metrics.ProcessedJobs++
	}
	wp.metrics.ProcessingTime += duration
	wp.metricsMu.Unlock()

	if err != nil {
		wp.logger.Error("Job processing failed",
			zap.Int("worker_id", workerID),
			zap.Int("update_id", job.UpdateID),
			zap.String("command", job.Command),
			zap.Int64("user_id", job.UserID),
			zap.Error(err))
		return
	}

	wp.logger.Debug("Job processed successfully",
		zap.Int("worker_id", workerID),
		zap.Int("update_id", job.UpdateID),
		zap.Duration("duration", duration))
}

// GetMetrics возвращает копию текущих метрик
func (wp *Pool) GetMetrics() Metrics {
	wp.metricsMu.Lock()
	defer wp.metricsMu.Unlock()
	return wp.metrics
}

// GetProcessedJobs возвращает количество обработанных задач
func (wp *Pool) GetProcessedJobs() int64 {
	return wp.GetMetrics().ProcessedJobs
}

// GetFailedJobs возвращает количество неудачных задач
func (wp *Pool) GetFailedJobs() int64 {
	return wp.GetMetrics().FailedJobs
}

// GetQueueSize возвращает текущий размер очереди
func (wp *Pool) GetQueueSize() int {
	return wp.GetMetrics().QueueSize
}

// IsRunning сообщает, принимает ли пул задачи
func (wp *Pool) IsRunning() bool {
	wp.mu.RLock()
	defer wp.mu.RUnlock()
	return !wp.stopped
}
