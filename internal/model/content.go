package model

import (
	"github.com/uptrace/bun"
)

// LineType тип строки раздела
type LineType string

// Типы строк раздела
const (
	LineTypeContentLine     LineType = "ContentLine"
	LineTypeContentSubtitle LineType = "ContentSubtitle"
)

// ContentBlock раздел объявления в конкретной версии
type ContentBlock struct {
	bun.BaseModel `bun:"table:content_blocks"`

	ID            int64  `bun:"id,pk,autoincrement" json:"id"`
	CompetitionID int64  `bun:"competition_id,notnull" json:"competition_id"`
	Version       int    `bun:"version,notnull" json:"version"`
	Position      int    `bun:"position,notnull" json:"position"`
	Title         string `bun:"title,notnull" json:"title"`

	Lines []*ContentLine `bun:"rel:has-many,join:id=content_block_id" json:"lines,omitempty"`

	TimestampedModel
}

// ContentLine строка раздела
type ContentLine struct {
	bun.BaseModel `bun:"table:content_lines"`

	ID             int64    `bun:"id,pk,autoincrement" json:"id"`
	ContentBlockID int64    `bun:"content_block_id,notnull" json:"content_block_id"`
	Position       int      `bun:"position,notnull" json:"position"`
	HTML           string   `bun:"html,notnull" json:"html"`
	Comment        *string  `bun:"comment" json:"comment,omitempty"`
	LineType       LineType `bun:"line_type,notnull" json:"line_type"`

	TimestampedModel
}
