package models

import (
	"time"

	"github.com/uptrace/bun"
)

type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	// External identity-provider id, e.g. a Clerk user id.
	ID           string `bun:"id,pk"`
	Username     string `bun:"username,notnull"`
	Email        string `bun:"email,notnull"`
	ProfileImage string `bun:"profile_image"`

	// Balances
	Coins      int64 `bun:"coins,notnull,default:0"`
	Experience int64 `bun:"experience,notnull,default:0"`
	Level      int   `bun:"level,notnull,default:1"`

	// Card ids pinned to the user's profile, stored as JSONB
	CardDisplay []string `bun:"card_display,type:jsonb"`

	// Friend user ids stored as JSONB
	Friends []string `bun:"friends,type:jsonb"`

	// Reference to the in-flight study session, nil when idle
	CurrentSessionID *int64 `bun:"current_session_id"`

	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt time.Time `bun:"updated_at,notnull"`
}

// HasFriend reports whether id is in the user's friends list.
func (u *User) HasFriend(id string) bool {
	for _, f := range u.Friends {
		if f == id {
			return true
		}
	}
	return false
}

// RemoveFriend drops id from the friends list if present.
func (u *User) RemoveFriend(id string) {
	out := u.Friends[:0]
	for _, f := range u.Friends {
		if f != id {
			out = append(out, f)
		}
	}
	u.Friends = out
}
