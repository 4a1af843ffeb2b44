package database

import (
	"context"
	"fmt"
	"time"

	"log/slog"

	"github.com/studydex/studydex/studydex/database/models"
)

// InitializeLevelData seeds the level curve. Level 1 is implicit: every
// user starts there with zero experience, so the table begins at 2.
func (db *DB) InitializeLevelData(ctx context.Context) error {
	count, err := db.bunDB.NewSelect().
		Model((*models.LevelRequirement)(nil)).
		Count(ctx)
	if err != nil {
		return fmt.Errorf("failed to count level requirements: %w", err)
	}
	if count > 0 {
		return nil
	}

	now := time.Now()
	levels := make([]*models.LevelRequirement, 0, maxSeededLevel-1)
	required := int64(100)
	for level := 2; level <= maxSeededLevel; level++ {
		levels = append(levels, &models.LevelRequirement{
			Level:              level,
			ExperienceRequired: required,
			RewardCoins:        int64(level * 100),
			CreatedAt:          now,
			UpdatedAt:          now,
		})
		// Each level costs half again as much as the previous one,
		// rounded down to a clean multiple of ten.
		required = required * 3 / 2
		required -= required % 10
	}

	if _, err := db.bunDB.NewInsert().
		Model(&levels).
		Exec(ctx); err != nil {
		return fmt.Errorf("failed to insert level requirements: %w", err)
	}

	slog.Info("Seeded level requirements",
		slog.String("type", "db"),
		slog.Int("count", len(levels)),
	)
	return nil
}

const maxSeededLevel = 50

// starterSlots is the shared slot layout for the starter packs. Chances
// within a slot sum to 100; the draw walks them cumulatively.
var starterSlots = []models.PackSlot{
	{Slot: 1, Probabilities: []models.SlotProbability{
		{Rarity: models.RarityCommon, Chance: 100},
	}},
	{Slot: 2, Probabilities: []models.SlotProbability{
		{Rarity: models.RarityUncommon, Chance: 100},
	}},
	{Slot: 3, Probabilities: []models.SlotProbability{
		{Rarity: models.RarityRare, Chance: 90},
		{Rarity: models.RarityIllustrationRare, Chance: 10},
	}},
	{Slot: 4, Probabilities: []models.SlotProbability{
		{Rarity: models.RarityRare, Chance: 80},
		{Rarity: models.RarityIllustrationRare, Chance: 10},
		{Rarity: models.RarityDoubleRare, Chance: 10},
	}},
	{Slot: 5, Probabilities: []models.SlotProbability{
		{Rarity: models.RarityRare, Chance: 60},
		{Rarity: models.RarityIllustrationRare, Chance: 30},
		{Rarity: models.RarityDoubleRare, Chance: 10},
	}},
	{Slot: 6, Probabilities: []models.SlotProbability{
		{Rarity: models.RarityRare, Chance: 40},
		{Rarity: models.RarityIllustrationRare, Chance: 45},
		{Rarity: models.RarityDoubleRare, Chance: 10},
		{Rarity: models.RaritySpecialIllustrationRare, Chance: 5},
	}},
}

type seedCard struct {
	id     string
	name   string
	types  []string
	rarity string
}

var eeveeCards = []seedCard{
	{"sv08-125", "Eevee", []string{"Colorless"}, models.RarityCommon},
	{"sv08-126", "Vaporeon", []string{"Water"}, models.RarityUncommon},
	{"sv08-127", "Jolteon", []string{"Lightning"}, models.RarityUncommon},
	{"sv08-128", "Flareon", []string{"Fire"}, models.RarityUncommon},
	{"sv08-129", "Espeon", []string{"Psychic"}, models.RarityRare},
	{"sv08-130", "Umbreon", []string{"Darkness"}, models.RarityRare},
	{"sv08-131", "Leafeon", []string{"Grass"}, models.RarityRare},
	{"sv08-132", "Glaceon", []string{"Water"}, models.RarityRare},
	{"sv08-133", "Sylveon", []string{"Psychic"}, models.RarityRare},
	{"sv08-191", "Sylveon ex", []string{"Psychic"}, models.RarityDoubleRare},
	{"sv08-210", "Eevee", []string{"Colorless"}, models.RarityIllustrationRare},
	{"sv08-214", "Umbreon", []string{"Darkness"}, models.RarityIllustrationRare},
	{"sv08-240", "Sylveon ex", []string{"Psychic"}, models.RaritySpecialIllustrationRare},
}

var pikachuCards = []seedCard{
	{"sv09-054", "Pichu", []string{"Lightning"}, models.RarityCommon},
	{"sv09-055", "Pikachu", []string{"Lightning"}, models.RarityCommon},
	{"sv09-056", "Raichu", []string{"Lightning"}, models.RarityUncommon},
	{"sv09-057", "Pachirisu", []string{"Lightning"}, models.RarityUncommon},
	{"sv09-058", "Emolga", []string{"Lightning"}, models.RarityRare},
	{"sv09-059", "Dedenne", []string{"Lightning"}, models.RarityRare},
	{"sv09-060", "Togedemaru", []string{"Lightning"}, models.RarityRare},
	{"sv09-061", "Morpeko", []string{"Lightning"}, models.RarityRare},
	{"sv09-190", "Pikachu ex", []string{"Lightning"}, models.RarityDoubleRare},
	{"sv09-211", "Pikachu", []string{"Lightning"}, models.RarityIllustrationRare},
	{"sv09-215", "Raichu", []string{"Lightning"}, models.RarityIllustrationRare},
	{"sv09-238", "Pikachu ex", []string{"Lightning"}, models.RaritySpecialIllustrationRare},
}

// InitializePackData seeds the starter card catalog and the two starter
// packs. Idempotent: a non-empty card_packs table skips everything.
func (db *DB) InitializePackData(ctx context.Context) error {
	count, err := db.bunDB.NewSelect().
		Model((*models.CardPack)(nil)).
		Count(ctx)
	if err != nil {
		return fmt.Errorf("failed to count card packs: %w", err)
	}
	if count > 0 {
		return nil
	}

	now := time.Now()

	var cards []*models.Card
	eeveeIDs := make([]string, 0, len(eeveeCards))
	pikachuIDs := make([]string, 0, len(pikachuCards))

	for _, sc := range eeveeCards {
		cards = append(cards, seededCard(sc, now))
		eeveeIDs = append(eeveeIDs, sc.id)
	}
	for _, sc := range pikachuCards {
		cards = append(cards, seededCard(sc, now))
		pikachuIDs = append(pikachuIDs, sc.id)
	}

	if _, err := db.bunDB.NewInsert().
		Model(&cards).
		On("CONFLICT (id) DO NOTHING").
		Exec(ctx); err != nil {
		return fmt.Errorf("failed to insert seed cards: %w", err)
	}

	packs := []*models.CardPack{
		{
			Code:        "eevee",
			Name:        "Eevee Evolutions",
			Cost:        20,
			Description: "A pack full of Eevee and its evolutions.",
			CardIDs:     eeveeIDs,
			Slots:       starterSlots,
			NumCards:    6,
			CreatedAt:   now,
			UpdatedAt:   now,
		},
		{
			Code:        "pikachu",
			Name:        "Pikachu and Friends",
			Cost:        20,
			Description: "Electric types led by Pikachu.",
			CardIDs:     pikachuIDs,
			Slots:       starterSlots,
			NumCards:    6,
			CreatedAt:   now,
			UpdatedAt:   now,
		},
	}

	if _, err := db.bunDB.NewInsert().
		Model(&packs).
		Exec(ctx); err != nil {
		return fmt.Errorf("failed to insert card packs: %w", err)
	}

	slog.Info("Seeded card packs",
		slog.String("type", "db"),
		slog.Int("cards", len(cards)),
		slog.Int("packs", len(packs)),
	)
	return nil
}

func seededCard(sc seedCard, now time.Time) *models.Card {
	return &models.Card{
		ID:         sc.id,
		Name:       sc.name,
		Types:      sc.types,
		Rarity:     sc.rarity,
		SmallImage: fmt.Sprintf("https://images.studydex.app/cards/%s_small.png", sc.id),
		LargeImage: fmt.Sprintf("https://images.studydex.app/cards/%s_large.png", sc.id),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}
