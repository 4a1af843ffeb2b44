package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Card rarities as defined by the TCG API the catalog is imported from.
const (
	RarityCommon                  = "Common"
	RarityUncommon                = "Uncommon"
	RarityRare                    = "Rare"
	RarityDoubleRare              = "Double Rare"
	RarityIllustrationRare        = "Illustration Rare"
	RaritySpecialIllustrationRare = "Special Illustration Rare"
)

// Rarities lists every rarity in ascending order of scarcity.
var Rarities = []string{
	RarityCommon,
	RarityUncommon,
	RarityRare,
	RarityDoubleRare,
	RarityIllustrationRare,
	RaritySpecialIllustrationRare,
}

// RarityRank returns the sort position of a rarity, commons first.
// Unknown rarities sort last.
func RarityRank(rarity string) int {
	for i, r := range Rarities {
		if r == rarity {
			return i
		}
	}
	return len(Rarities)
}

// Card is an immutable catalog entry. Seeded or imported, never mutated
// at runtime.
type Card struct {
	bun.BaseModel `bun:"table:cards,alias:c"`

	ID     string   `bun:"id,pk"`
	Name   string   `bun:"name,notnull"`
	Types  []string `bun:"types,type:jsonb"`
	Rarity string   `bun:"rarity,notnull"`

	// Image URLs served by the external asset host
	SmallImage string `bun:"small_image"`
	LargeImage string `bun:"large_image"`

	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt time.Time `bun:"updated_at,notnull"`
}
