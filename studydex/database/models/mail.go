package models

import (
	"time"

	"github.com/uptrace/bun"
)

// MailTypeGift is currently the only mail type.
const MailTypeGift = "gift"

// Mail is an inbox entry holding coins until the recipient collects it.
type Mail struct {
	bun.BaseModel `bun:"table:mail,alias:m"`

	ID          int64  `bun:"id,pk,autoincrement"`
	RecipientID string `bun:"recipient_id,notnull"`
	SenderID    string `bun:"sender_id,notnull"`
	Type        string `bun:"type,notnull"`
	Amount      int64  `bun:"amount,notnull,default:20"`

	Collected   bool       `bun:"collected,notnull,default:false"`
	CollectedAt *time.Time `bun:"collected_at"`

	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt time.Time `bun:"updated_at,notnull"`
}
