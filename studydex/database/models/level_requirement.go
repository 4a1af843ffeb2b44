package models

import (
	"time"

	"github.com/uptrace/bun"
)

// LevelRequirement is a static lookup row: the total experience needed
// to reach a level and the coin bonus paid out on reaching it.
type LevelRequirement struct {
	bun.BaseModel `bun:"table:level_requirements,alias:lr"`

	ID                 int64 `bun:"id,pk,autoincrement"`
	Level              int   `bun:"level,notnull,unique"`
	ExperienceRequired int64 `bun:"experience_required,notnull"`
	RewardCoins        int64 `bun:"reward_coins,notnull,default:0"`

	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt time.Time `bun:"updated_at,notnull"`
}
