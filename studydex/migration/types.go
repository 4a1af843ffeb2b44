package migration

import (
	"sync"
	"time"
)

// Legacy documents as stored by the original Mongo deployment.

type legacyUser struct {
	ClerkID      string    `bson:"clerkId"`
	Username     string    `bson:"username"`
	Email        string    `bson:"email"`
	ProfileImage string    `bson:"profileImage"`
	Coins        int64     `bson:"coins"`
	Experience   int64     `bson:"experience"`
	Level        int       `bson:"level"`
	CardDisplay  []string  `bson:"cardDisplay"`
	Friends      []string  `bson:"friends"`
	Cards        []string  `bson:"cards"`
	CreatedAt    time.Time `bson:"createdAt"`
}

type legacyCard struct {
	CardID     string   `bson:"cardId"`
	Name       string   `bson:"name"`
	Types      []string `bson:"types"`
	Rarity     string   `bson:"rarity"`
	SmallImage string   `bson:"smallImage"`
	LargeImage string   `bson:"largeImage"`
}

type legacyPack struct {
	Code        string   `bson:"code"`
	Name        string   `bson:"name"`
	Cost        int64    `bson:"cost"`
	Description string   `bson:"description"`
	Cards       []string `bson:"cards"`
	NumOfCards  int      `bson:"numOfCards"`
	Slots       []struct {
		Slot          int `bson:"slot"`
		Probabilities []struct {
			Rarity string  `bson:"rarity"`
			Chance float64 `bson:"chance"`
		} `bson:"probabilities"`
	} `bson:"slots"`
}

type legacySession struct {
	ClerkID         string     `bson:"clerkId"`
	PlannedDuration int64      `bson:"plannedDuration"`
	ActualDuration  int64      `bson:"actualDuration"`
	Status          string     `bson:"status"`
	StartTime       time.Time  `bson:"startTime"`
	EndTime         *time.Time `bson:"endTime"`
	RewardCoins     int64      `bson:"rewardCoins"`
	RewardExp       int64      `bson:"rewardExperience"`
}

// TableStats tracks migration counts for one target table.
type TableStats struct {
	Read     int64
	Inserted int64
	Skipped  int64
	Errors   int64
}

// MigrationStats aggregates per-table counters.
type MigrationStats struct {
	mu        sync.Mutex
	Tables    map[string]*TableStats
	StartTime time.Time
}

func (s *MigrationStats) table(name string) *TableStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.Tables[name]
	if !ok {
		t = &TableStats{}
		s.Tables[name] = t
	}
	return t
}
