package models

import (
	"time"

	"github.com/uptrace/bun"
)

// SlotProbability is one {rarity, chance} pair of a slot's distribution.
// Chances are percentages and by convention sum to 100 per slot, but the
// draw algorithm tolerates distributions that do not.
type SlotProbability struct {
	Rarity string  `json:"rarity"`
	Chance float64 `json:"chance"`
}

// PackSlot is one ordered slot of a pack. Opening a pack yields exactly
// one card per slot.
type PackSlot struct {
	Slot          int               `json:"slot"`
	Probabilities []SlotProbability `json:"probabilities"`
}

// CardPack defines a purchasable pack: its cost, the card ids it can
// draw from and the per-slot rarity distributions.
type CardPack struct {
	bun.BaseModel `bun:"table:card_packs,alias:cp"`

	ID          int64  `bun:"id,pk,autoincrement"`
	Code        string `bun:"code,notnull,unique"`
	Name        string `bun:"name,notnull"`
	Cost        int64  `bun:"cost,notnull"`
	Description string `bun:"description"`

	CardIDs  []string   `bun:"card_ids,type:jsonb"`
	Slots    []PackSlot `bun:"slots,type:jsonb"`
	NumCards int        `bun:"num_cards,notnull"`

	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt time.Time `bun:"updated_at,notnull"`
}
