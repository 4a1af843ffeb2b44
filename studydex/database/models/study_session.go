package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Study session states. Completed and failed are terminal.
const (
	SessionActive    = "active"
	SessionCompleted = "completed"
	SessionFailed    = "failed"
)

// StudySession is one timed study attempt. A user has at most one
// active session at a time; durations are minutes.
type StudySession struct {
	bun.BaseModel `bun:"table:study_sessions,alias:ss"`

	ID     int64  `bun:"id,pk,autoincrement"`
	UserID string `bun:"user_id,notnull"`

	PlannedDuration int64  `bun:"planned_duration,notnull"`
	ActualDuration  int64  `bun:"actual_duration"`
	Status          string `bun:"status,notnull,default:'active'"`

	StartTime time.Time  `bun:"start_time,notnull"`
	EndTime   *time.Time `bun:"end_time"`

	RewardCoins      int64 `bun:"reward_coins,notnull,default:0"`
	RewardExperience int64 `bun:"reward_experience,notnull,default:0"`

	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt time.Time `bun:"updated_at,notnull"`
}
