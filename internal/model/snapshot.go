package model

import (
	"fmt"
	"slices"

	"tmmoscow/internal/tmmoscow"
)

// Snapshot строки для сохранения одной версии страницы соревнования.
// Идентификаторы заполняет репозиторий при вставке.
type Snapshot struct {
	Competition Competition
	Blocks      []BlockSnapshot
	Files       []FileSnapshot
}

// BlockSnapshot раздел со строками
type BlockSnapshot struct {
	Block ContentBlock
	Lines []LineSnapshot
}

// LineSnapshot строка и индексы упомянутых в ней файлов в Snapshot.Files
type LineSnapshot struct {
	Line  ContentLine
	Files []int
}

// FileSnapshot файл вместе с содержимым
type FileSnapshot struct {
	File    File
	Content []byte
}

// NewSnapshot раскладывает страницу соревнования по строкам таблиц.
// Позиции идут в порядке документа. Файлы без содержимого не сохраняются.
func NewSnapshot(detail *tmmoscow.CompetitionDetail, files []tmmoscow.File) (*Snapshot, error) {
	if detail == nil {
		return nil, fmt.Errorf("competition detail is nil")
	}

	snapshot := &Snapshot{Competition: competitionRow(detail)}
	if err := snapshot.Competition.Validate(); err != nil {
		return nil, err
	}

	fileIndex := make(map[string]int)
	for _, f := range files {
		if f.Content == nil {
			continue
		}
		row := File{
			Title:      f.Filename,
			ServerPath: f.URL,
			SHA256Hash: f.SHA256Hash,
		}
		if err := row.Validate(); err != nil {
			return nil, fmt.Errorf("file %s: %w", f.URL, err)
		}
		fileIndex[f.URL] = len(snapshot.Files)
		snapshot.Files = append(snapshot.Files, FileSnapshot{File: row, Content: f.Content})
	}

	for blockPos, block := range detail.ContentBlocks {
		bs := BlockSnapshot{Block: ContentBlock{
			CompetitionID: snapshot.Competition.ID,
			Position:      blockPos,
			Title:         block.Title,
		}}
		for linePos, item := range block.Lines {
			ls, err := lineRow(item, fileIndex)
			if err != nil {
				return nil, fmt.Errorf("block %d line %d: %w", blockPos, linePos, err)
			}
			ls.Line.Position = linePos
			bs.Lines = append(bs.Lines, ls)
		}
		snapshot.Blocks = append(snapshot.Blocks, bs)
	}
	return snapshot, nil
}

func competitionRow(detail *tmmoscow.CompetitionDetail) Competition {
	c := Competition{
		ID:                   int64(detail.ID),
		Title:                detail.Title,
		EventDates:           detail.EventDates,
		Location:             detail.Location,
		LogoURL:              detail.LogoURL,
		Author:               detail.Author,
		EventBeginsAt:        detail.EventBeginsAt,
		EventEndsAt:          detail.EventEndsAt,
		CompetitionCreatedAt: detail.CreatedAt,
		CompetitionUpdatedAt: detail.UpdatedAt,
	}
	if detail.Views != nil {
		views := int64(*detail.Views)
		c.Views = &views
	}
	return c
}

func lineRow(item tmmoscow.ContentItem, fileIndex map[string]int) (LineSnapshot, error) {
	switch v := item.(type) {
	case tmmoscow.ContentLine:
		ls := LineSnapshot{Line: ContentLine{
			HTML:     v.Markup,
			Comment:  v.Comment,
			LineType: LineTypeContentLine,
		}}
		for _, href := range v.Links() {
			if idx, ok := fileIndex[href]; ok && !slices.Contains(ls.Files, idx) {
				ls.Files = append(ls.Files, idx)
			}
		}
		return ls, nil
	case tmmoscow.ContentSubtitle:
		return LineSnapshot{Line: ContentLine{
			HTML:     v.Markup,
			LineType: LineTypeContentSubtitle,
		}}, nil
	default:
		return LineSnapshot{}, fmt.Errorf("unsupported content item %T", item)
	}
}
