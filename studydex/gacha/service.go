package gacha

import (
	"context"
	"sort"

	"log/slog"

	"github.com/studydex/studydex/studydex/apperrors"
	"github.com/studydex/studydex/studydex/database/models"
	"github.com/studydex/studydex/studydex/database/repositories"
	"github.com/studydex/studydex/studydex/economy"
)

// OpenResult is the outcome of a pack opening: the drawn cards in slot
// order and the user's remaining coin balance.
type OpenResult struct {
	Cards []*models.Card `json:"cards"`
	Coins int64          `json:"coins"`
}

// Service opens card packs.
type Service struct {
	repo  Repository
	guard *economy.UserGuard
	rng   Rand
}

func NewService(repo Repository, guard *economy.UserGuard, rng Rand) *Service {
	if rng == nil {
		rng = NewRand()
	}
	return &Service{repo: repo, guard: guard, rng: rng}
}

// OpenPack draws one card per pack slot, charges the pack cost and
// stores the cards, all atomically. Concurrent openings for the same
// user are rejected rather than queued.
func (s *Service) OpenPack(ctx context.Context, code, userID string) (*OpenResult, error) {
	if s.guard != nil {
		if !s.guard.TryLock(userID) {
			return nil, apperrors.InvalidState("Another operation is already in progress", nil)
		}
		defer s.guard.Release(userID)
	}

	pack, err := s.repo.PackByCode(ctx, code)
	if err != nil {
		if repositories.IsNotFound(err) {
			return nil, apperrors.NotFound("CardPack not found", err)
		}
		return nil, apperrors.Internal("Failed to load pack", err)
	}

	user, err := s.repo.User(ctx, userID)
	if err != nil {
		if repositories.IsNotFound(err) {
			return nil, apperrors.NotFound("User not found", err)
		}
		return nil, apperrors.Internal("Failed to load user", err)
	}

	if user.Coins < pack.Cost {
		return nil, apperrors.Forbidden("Not enough coins to open this pack", nil)
	}

	pool, err := s.repo.CardsByIDs(ctx, pack.CardIDs)
	if err != nil {
		return nil, apperrors.Internal("Failed to load pack cards", err)
	}
	if len(pool) == 0 {
		return nil, apperrors.Internal("No cards found in pack", nil)
	}

	drawn := s.drawCards(pack, pool)

	cardIDs := make([]string, len(drawn))
	for i, c := range drawn {
		cardIDs[i] = c.ID
	}

	if err := s.repo.ApplyOpening(ctx, userID, pack.Cost, cardIDs); err != nil {
		if apperrors.KindOf(err) != apperrors.KindInternal {
			return nil, err
		}
		return nil, apperrors.Internal("Failed to apply pack opening", err)
	}

	return &OpenResult{
		Cards: drawn,
		Coins: user.Coins - pack.Cost,
	}, nil
}

// drawCards yields one card per slot, in ascending slot order.
func (s *Service) drawCards(pack *models.CardPack, pool []*models.Card) []*models.Card {
	slots := make([]models.PackSlot, len(pack.Slots))
	copy(slots, pack.Slots)
	sort.Slice(slots, func(i, j int) bool { return slots[i].Slot < slots[j].Slot })

	drawn := make([]*models.Card, 0, len(slots))
	for _, slot := range slots {
		rarity := s.drawRarity(slot.Probabilities)
		drawn = append(drawn, s.pickCard(pack, slot.Slot, rarity, pool))
	}
	return drawn
}

// drawRarity rolls in [0, 100) and walks the cumulative distribution.
// When the chances sum below 100 the roll can overshoot every bucket;
// the last rarity absorbs it.
func (s *Service) drawRarity(probs []models.SlotProbability) string {
	if len(probs) == 0 {
		// Misconfigured slot; pickCard falls back to the whole pool.
		return ""
	}

	roll := s.rng.Float64() * 100

	var cumulative float64
	for _, p := range probs {
		cumulative += p.Chance
		if roll < cumulative {
			return p.Rarity
		}
	}
	return probs[len(probs)-1].Rarity
}

// pickCard picks uniformly among pool cards of the drawn rarity. A
// rarity with no cards in the pool indicates misconfigured pack data;
// it is logged and the draw falls back to the whole pool so an opening
// never comes up short a card.
func (s *Service) pickCard(pack *models.CardPack, slot int, rarity string, pool []*models.Card) *models.Card {
	var candidates []*models.Card
	for _, c := range pool {
		if c.Rarity == rarity {
			candidates = append(candidates, c)
		}
	}

	if len(candidates) == 0 {
		slog.Warn("No cards of drawn rarity in pack pool",
			slog.String("type", "system"),
			slog.String("pack", pack.Code),
			slog.Int("slot", slot),
			slog.String("rarity", rarity),
		)
		candidates = pool
	}

	return candidates[s.rng.Intn(len(candidates))]
}
