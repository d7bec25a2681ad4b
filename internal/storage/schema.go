package storage

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
	"go.uber.org/zap"

	"tmmoscow/internal/model"
)

// CreateSchema создает недостающие таблицы. Существующие таблицы не меняются.
func (p *Postgres) CreateSchema(ctx context.Context) error {
	err := p.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		for _, q := range createTableQueries(tx) {
			p.logger.Debug("Schema query", zap.String("sql", q.String()))
			if _, err := q.Exec(ctx); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	p.logger.Info("Database schema is ready")
	return nil
}

// createTableQueries запросы в порядке зависимостей внешних ключей
func createTableQueries(db bun.IDB) []*bun.CreateTableQuery {
	return []*bun.CreateTableQuery{
		db.NewCreateTable().
			Model((*model.Competition)(nil)).
			IfNotExists(),
		db.NewCreateTable().
			Model((*model.CompetitionVersion)(nil)).
			IfNotExists().
			ForeignKey(`("competition_id") REFERENCES "competitions" ("id") ON DELETE CASCADE`),
		db.NewCreateTable().
			Model((*model.ContentBlock)(nil)).
			IfNotExists().
			ForeignKey(`("competition_id", "version") REFERENCES "competition_versions" ("competition_id", "version") ON DELETE CASCADE`),
		db.NewCreateTable().
			Model((*model.ContentLine)(nil)).
			IfNotExists().
			ForeignKey(`("content_block_id") REFERENCES "content_blocks" ("id") ON DELETE CASCADE`),
		db.NewCreateTable().
			Model((*model.File)(nil)).
			IfNotExists(),
		db.NewCreateTable().
			Model((*model.FileContentLine)(nil)).
			IfNotExists().
			ForeignKey(`("file_id") REFERENCES "files" ("id") ON DELETE CASCADE`).
			ForeignKey(`("content_line_id") REFERENCES "content_lines" ("id") ON DELETE CASCADE`),
	}
}
