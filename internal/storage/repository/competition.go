// Package repository содержит репозитории для работы с базой данных.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/uptrace/bun"
	"go.uber.org/zap"

	"tmmoscow/internal/model"
)

// CompetitionRepository реализует интерфейс для работы со снимками соревнований
type CompetitionRepository struct {
	db     *bun.DB
	logger *zap.Logger
}

// NewCompetitionRepository создает новый репозиторий соревнований
func NewCompetitionRepository(db *bun.DB, logger *zap.Logger) *CompetitionRepository {
	return &CompetitionRepository{
		db:     db,
		logger: logger,
	}
}

// SaveSnapshot сохраняет снимок одной транзакцией и возвращает номер новой версии.
// Идентификаторы вставленных строк записываются обратно в snapshot.
func (r *CompetitionRepository) SaveSnapshot(ctx context.Context, snapshot *model.Snapshot) (int, error) {
	var version int

	err := r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		competition := &snapshot.Competition

		// Строка соревнования блокируется до конца транзакции,
		// поэтому номера версий не пересекаются
		_, err := tx.NewInsert().
			Model(competition).
			On("CONFLICT (id) DO UPDATE").
			Set("title = EXCLUDED.title").
			Set("event_dates = EXCLUDED.event_dates").
			Set("location = EXCLUDED.location").
			Set("views = EXCLUDED.views").
			Set("logo_url = EXCLUDED.logo_url").
			Set("author = EXCLUDED.author").
			Set("event_begins_at = EXCLUDED.event_begins_at").
			Set("event_ends_at = EXCLUDED.event_ends_at").
			Set("competition_created_at = COALESCE(EXCLUDED.competition_created_at, competition.competition_created_at)").
			Set("competition_updated_at = EXCLUDED.competition_updated_at").
			Set("updated_at = NOW()").
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to upsert competition: %w", err)
		}

		err = tx.NewSelect().
			Model((*model.CompetitionVersion)(nil)).
			ColumnExpr("COALESCE(MAX(version), 0) + 1").
			Where("competition_id = ?", competition.ID).
			Scan(ctx, &version)
		if err != nil {
			return fmt.Errorf("failed to get next version: %w", err)
		}

		_, err = tx.NewInsert().
			Model(&model.CompetitionVersion{CompetitionID: competition.ID, Version: version}).
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to insert version: %w", err)
		}

		fileIDs, err := r.upsertFiles(ctx, tx, snapshot.Files)
		if err != nil {
			return err
		}

		for i := range snapshot.Blocks {
			if err := r.insertBlock(ctx, tx, &snapshot.Blocks[i], competition.ID, version, fileIDs); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	r.logger.Info("Competition snapshot saved",
		zap.Int64("competition_id", snapshot.Competition.ID),
		zap.Int("version", version),
		zap.Int("blocks", len(snapshot.Blocks)),
		zap.Int("files", len(snapshot.Files)))

	return version, nil
}

// upsertFiles сохраняет файлы, одинаковые по sha256 получают один id
func (r *CompetitionRepository) upsertFiles(ctx context.Context, tx bun.Tx, files []model.FileSnapshot) ([]int64, error) {
	ids := make([]int64, len(files))
	for i := range files {
		file := &files[i].File
		_, err := tx.NewInsert().
			Model(file).
			On("CONFLICT (sha256_hash) DO UPDATE").
			Set("updated_at = NOW()").
			Returning("id").
			Exec(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to upsert file %s: %w", file.ServerPath, err)
		}
		ids[i] = file.ID
	}
	return ids, nil
}

func (r *CompetitionRepository) insertBlock(ctx context.Context, tx bun.Tx, block *model.BlockSnapshot, competitionID int64, version int, fileIDs []int64) error {
	block.Block.CompetitionID = competitionID
	block.Block.Version = version

	_, err := tx.NewInsert().
		Model(&block.Block).
		Returning("id").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to insert content block: %w", err)
	}

	var links []model.FileContentLine
	for i := range block.Lines {
		line := &block.Lines[i]
		line.Line.ContentBlockID = block.Block.ID

		_, err := tx.NewInsert().
			Model(&line.Line).
			Returning("id").
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to insert content line: %w", err)
		}

		lineLinks, err := fileLinks(line.Line.ID, line.Files, fileIDs)
		if err != nil {
			return err
		}
		links = append(links, lineLinks...)
	}

	if len(links) == 0 {
		return nil
	}
	if _, err := tx.NewInsert().Model(&links).Exec(ctx); err != nil {
		return fmt.Errorf("failed to link files: %w", err)
	}
	return nil
}

// fileLinks связывает строку с файлами. Разные ссылки на файлы с одинаковым
// содержимым получают один id, такая пара записывается один раз.
func fileLinks(lineID int64, fileIdx []int, fileIDs []int64) ([]model.FileContentLine, error) {
	var links []model.FileContentLine
	seen := make(map[int64]bool, len(fileIdx))
	for _, idx := range fileIdx {
		if idx < 0 || idx >= len(fileIDs) {
			return nil, fmt.Errorf("content line references unknown file %d", idx)
		}
		fileID := fileIDs[idx]
		if seen[fileID] {
			continue
		}
		seen[fileID] = true
		links = append(links, model.FileContentLine{
			FileID:        fileID,
			ContentLineID: lineID,
			Position:      len(links),
		})
	}
	return links, nil
}

// GetByID возвращает соревнование по ID или nil, если его нет
func (r *CompetitionRepository) GetByID(ctx context.Context, id int64) (*model.Competition, error) {
	competition := new(model.Competition)

	err := r.db.NewSelect().
		Model(competition).
		Where("id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query competition by ID: %w", err)
	}

	return competition, nil
}

// LatestVersion возвращает номер последней версии, 0 если снимков нет
func (r *CompetitionRepository) LatestVersion(ctx context.Context, id int64) (int, error) {
	var version int

	err := r.db.NewSelect().
		Model((*model.CompetitionVersion)(nil)).
		ColumnExpr("COALESCE(MAX(version), 0)").
		Where("competition_id = ?", id).
		Scan(ctx, &version)
	if err != nil {
		return 0, fmt.Errorf("failed to query latest version: %w", err)
	}

	return version, nil
}

// GetContent возвращает разделы версии вместе со строками в порядке документа
func (r *CompetitionRepository) GetContent(ctx context.Context, id int64, version int) ([]model.ContentBlock, error) {
	var blocks []model.ContentBlock

	err := r.db.NewSelect().
		Model(&blocks).
		Relation("Lines", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Order("position ASC")
		}).
		Where("competition_id = ? AND version = ?", id, version).
		Order("position ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to query content: %w", err)
	}

	return blocks, nil
}
