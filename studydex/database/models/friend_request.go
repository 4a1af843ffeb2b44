package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Friend request states.
const (
	FriendRequestPending  = "pending"
	FriendRequestAccepted = "accepted"
	FriendRequestDeclined = "declined"
)

type FriendRequest struct {
	bun.BaseModel `bun:"table:friend_requests,alias:fr"`

	ID          int64  `bun:"id,pk,autoincrement"`
	SenderID    string `bun:"sender_id,notnull"`
	RecipientID string `bun:"recipient_id,notnull"`
	Status      string `bun:"status,notnull,default:'pending'"`

	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt time.Time `bun:"updated_at,notnull"`
}
