package models

import (
	"time"

	"github.com/uptrace/bun"
)

// DefaultGiftAmount is the coin value of a friend gift.
const DefaultGiftAmount = 20

// Gift records a coin gift between friends. At most one per
// sender/recipient pair per calendar day.
type Gift struct {
	bun.BaseModel `bun:"table:gifts,alias:g"`

	ID          int64     `bun:"id,pk,autoincrement"`
	SenderID    string    `bun:"sender_id,notnull"`
	RecipientID string    `bun:"recipient_id,notnull"`
	Amount      int64     `bun:"amount,notnull,default:20"`
	GiftedAt    time.Time `bun:"gifted_at,notnull"`

	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt time.Time `bun:"updated_at,notnull"`
}
