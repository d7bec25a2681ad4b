// Package model содержит модели хранилища и их преобразование
// из данных, извлечённых с сайта.
package model

import (
	"time"
)

// TimestampedModel представляет модель с временными метками
type TimestampedModel struct {
	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp" json:"updated_at"`
}
