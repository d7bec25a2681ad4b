package model

import (
	"github.com/uptrace/bun"
)

// File приложенный к соревнованию файл. Одинаковые файлы хранятся один раз.
type File struct {
	bun.BaseModel `bun:"table:files"`

	ID          int64  `bun:"id,pk,autoincrement" json:"id"`
	Title       string `bun:"title,notnull" json:"title"`
	ServerPath  string `bun:"server_path,notnull" json:"server_path"`
	StoragePath string `bun:"storage_path,notnull" json:"storage_path"`
	SHA256Hash  string `bun:"sha256_hash,type:varchar(64),notnull,unique" json:"sha256_hash"`

	TimestampedModel
}

// Validate проверяет валидность файла
func (f *File) Validate() error {
	var errs ValidationErrors
	if f.Title == "" {
		errs = append(errs, ValidationError{Field: "title", Message: "title is required"})
	}
	if len(f.SHA256Hash) != 64 {
		errs = append(errs, ValidationError{Field: "sha256_hash", Message: "sha256 hash must be 64 hex characters"})
	}
	return errs.orNil()
}

// FileContentLine связь файла со строкой, в которой он упомянут
type FileContentLine struct {
	bun.BaseModel `bun:"table:files_content_lines"`

	FileID        int64 `bun:"file_id,pk" json:"file_id"`
	ContentLineID int64 `bun:"content_line_id,pk" json:"content_line_id"`
	Position      int   `bun:"position,notnull" json:"position"`
}
