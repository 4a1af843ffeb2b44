package models

import (
	"time"

	"github.com/uptrace/bun"
)

// UserCard is one inventory entry: a collected card and its copy count.
// Unique per (user_id, card_id).
type UserCard struct {
	bun.BaseModel `bun:"table:user_cards,alias:uc"`

	ID          int64     `bun:"id,pk,autoincrement"`
	UserID      string    `bun:"user_id,notnull"`
	CardID      string    `bun:"card_id,notnull"`
	Copies      int64     `bun:"copies,notnull,default:1"`
	CollectedAt time.Time `bun:"collected_at,notnull"`

	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt time.Time `bun:"updated_at,notnull"`
}
