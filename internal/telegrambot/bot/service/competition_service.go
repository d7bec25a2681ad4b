// Package service содержит бизнес-логику команд бота.
package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"tmmoscow/internal/model"
	"tmmoscow/internal/telegrambot/bot/metrics"
	"tmmoscow/internal/tmmoscow"
)

// Extractor источник данных о соревнованиях
type Extractor interface {
	ListRecent(ctx context.Context, category tmmoscow.DistanceCategory, offset int) ([]tmmoscow.CompetitionSummary, error)
	GetDetail(ctx context.Context, id int, opts tmmoscow.DetailOptions) (*tmmoscow.CompetitionDetail, []tmmoscow.File, error)
}

// FileStorage хранилище содержимого файлов
type FileStorage interface {
	Save(sha256Hash string, content []byte) (string, error)
}

// CompetitionResult ответ на запрос страницы соревнования
type CompetitionResult struct {
	Detail *tmmoscow.CompetitionDetail
	Files  []tmmoscow.File
	// Version номер сохраненной версии, 0 если архив выключен или не сработал
	Version int
}

// CompetitionService handles business logic for competition commands
type CompetitionService struct {
	client     Extractor
	repo       model.CompetitionRepository
	files      FileStorage
	metrics    metrics.Interface
	maxListLen int
	logger     *zap.Logger
}

// Option настраивает CompetitionService
type Option func(*CompetitionService)

// WithArchive включает сохранение версий страниц и файлов
func WithArchive(repo model.CompetitionRepository, files FileStorage) Option {
	return func(s *CompetitionService) {
		s.repo = repo
		s.files = files
	}
}

// WithMetrics подключает метрики
func WithMetrics(m metrics.Interface) Option {
	return func(s *CompetitionService) {
		s.metrics = m
	}
}

// NewCompetitionService creates a new CompetitionService instance
func NewCompetitionService(client Extractor, maxListLen int, logger *zap.Logger, opts ...Option) *CompetitionService {
	s := &CompetitionService{
		client:     client,
		maxListLen: maxListLen,
		logger:     logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ArchiveEnabled сообщает, сохраняются ли версии страниц
func (s *CompetitionService) ArchiveEnabled() bool {
	return s.repo != nil && s.files != nil
}

// Recent возвращает последние соревнования категории, не больше maxListLen
func (s *CompetitionService) Recent(ctx context.Context, category tmmoscow.DistanceCategory, page int) ([]tmmoscow.CompetitionSummary, error) {
	if page < 0 {
		return nil, fmt.Errorf("page must not be negative, got %d", page)
	}

	summaries, err := s.client.ListRecent(ctx, category, page)
	if err != nil {
		return nil, fmt.Errorf("failed to list competitions: %w", err)
	}
	if s.maxListLen > 0 && len(summaries) > s.maxListLen {
		summaries = summaries[:s.maxListLen]
	}
	return summaries, nil
}

// Competition возвращает страницу соревнования. Если архив включен,
// страница и ее файлы сохраняются новой версией. Ошибка архива
// не мешает ответу пользователю.
func (s *CompetitionService) Competition(ctx context.Context, id int) (*CompetitionResult, error) {
	if id <= 0 {
		return nil, fmt.Errorf("competition id must be positive, got %d", id)
	}

	archive := s.ArchiveEnabled()
	detail, files, err := s.client.GetDetail(ctx, id, tmmoscow.DetailOptions{
		WithCreatedAt: true,
		WithFiles:     archive,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get competition: %w", err)
	}

	result := &CompetitionResult{Detail: detail, Files: files}
	if s.metrics != nil && len(files) > 0 {
		downloaded := 0
		for _, f := range files {
			if f.Content != nil {
				downloaded++
			}
		}
		s.metrics.RecordFiles(downloaded, len(files)-downloaded)
	}

	if !archive {
		return result, nil
	}

	version, err := s.archive(ctx, detail, files)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, err
		}
		s.logger.Error("Failed to archive competition", zap.Int("id", id), zap.Error(err))
		return result, nil
	}
	result.Version = version
	return result, nil
}

func (s *CompetitionService) archive(ctx context.Context, detail *tmmoscow.CompetitionDetail, files []tmmoscow.File) (int, error) {
	snapshot, err := model.NewSnapshot(detail, files)
	if err != nil {
		return 0, fmt.Errorf("failed to build snapshot: %w", err)
	}

	for i := range snapshot.Files {
		f := &snapshot.Files[i]
		path, err := s.files.Save(f.File.SHA256Hash, f.Content)
		if err != nil {
			return 0, fmt.Errorf("failed to store file %s: %w", f.File.ServerPath, err)
		}
		f.File.StoragePath = path
	}

	version, err := s.repo.SaveSnapshot(ctx, snapshot)
	if err != nil {
		return 0, fmt.Errorf("failed to save snapshot: %w", err)
	}

	if s.metrics != nil {
		s.metrics.RecordSnapshot(snapshot.Competition.ID, version)
	}
	return version, nil
}
