package model

import (
	"context"
	"time"

	"github.com/uptrace/bun"
)

// Competition последнее известное состояние соревнования
type Competition struct {
	bun.BaseModel `bun:"table:competitions"`

	ID                   int64      `bun:"id,pk" json:"id"`
	Title                string     `bun:"title,notnull" json:"title"`
	EventDates           *string    `bun:"event_dates" json:"event_dates,omitempty"`
	Location             *string    `bun:"location" json:"location,omitempty"`
	Views                *int64     `bun:"views" json:"views,omitempty"`
	LogoURL              *string    `bun:"logo_url" json:"logo_url,omitempty"`
	Author               *string    `bun:"author" json:"author,omitempty"`
	EventBeginsAt        *time.Time `bun:"event_begins_at" json:"event_begins_at,omitempty"`
	EventEndsAt          *time.Time `bun:"event_ends_at" json:"event_ends_at,omitempty"`
	CompetitionCreatedAt *time.Time `bun:"competition_created_at" json:"competition_created_at,omitempty"`
	CompetitionUpdatedAt *time.Time `bun:"competition_updated_at" json:"competition_updated_at,omitempty"`

	TimestampedModel
}

// Validate проверяет валидность соревнования
func (c *Competition) Validate() error {
	var errs ValidationErrors
	if c.ID <= 0 {
		errs = append(errs, ValidationError{Field: "id", Message: "id must be positive"})
	}
	if c.EventBeginsAt != nil && c.EventEndsAt != nil && c.EventEndsAt.Before(*c.EventBeginsAt) {
		errs = append(errs, ValidationError{Field: "event_ends_at", Message: "event ends before it begins"})
	}
	return errs.orNil()
}

// CompetitionVersion номер сохранённого снимка страницы
type CompetitionVersion struct {
	bun.BaseModel `bun:"table:competition_versions"`

	CompetitionID int64     `bun:"competition_id,pk" json:"competition_id"`
	Version       int       `bun:"version,pk" json:"version"`
	CreatedAt     time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
}

// CompetitionRepository определяет интерфейс для работы со снимками соревнований
type CompetitionRepository interface {
	// SaveSnapshot сохраняет снимок и возвращает номер новой версии
	SaveSnapshot(ctx context.Context, snapshot *Snapshot) (int, error)
	GetByID(ctx context.Context, id int64) (*Competition, error)
	LatestVersion(ctx context.Context, id int64) (int, error)
	GetContent(ctx context.Context, id int64, version int) ([]ContentBlock, error)
}
