package collection

import (
	"context"
	"sort"
	"time"

	"github.com/sahilm/fuzzy"
	"github.com/studydex/studydex/studydex/apperrors"
	"github.com/studydex/studydex/studydex/database/models"
	"github.com/studydex/studydex/studydex/database/repositories"
)

// Sort orders for collection listings.
const (
	SortRecent     = "recent"
	SortRarity     = "rarity"
	SortTypes      = "types"
	SortDuplicates = "duplicates"
)

// MaxDisplayCards is how many cards fit on a profile.
const MaxDisplayCards = 3

// Entry is one owned card joined with its catalog data.
type Entry struct {
	Card        *models.Card `json:"card"`
	Copies      int64        `json:"copies"`
	CollectedAt time.Time    `json:"collectedAt"`
}

// Filters narrows and orders a collection listing.
type Filters struct {
	Rarity string
	Name   string
	Sort   string
}

// Service serves collection views and the profile card display.
type Service struct {
	userCards repositories.UserCardRepository
	cards     repositories.CardRepository
	users     repositories.UserRepository
}

func NewService(
	userCards repositories.UserCardRepository,
	cards repositories.CardRepository,
	users repositories.UserRepository,
) *Service {
	return &Service{userCards: userCards, cards: cards, users: users}
}

// List returns the user's collection with catalog data joined, filtered
// and sorted per f.
func (s *Service) List(ctx context.Context, userID string, f Filters) ([]Entry, error) {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		if repositories.IsNotFound(err) {
			return nil, apperrors.NotFound("User not found", err)
		}
		return nil, apperrors.Internal("Failed to load user", err)
	}

	owned, err := s.userCards.GetByUser(ctx, userID)
	if err != nil {
		return nil, apperrors.Internal("Failed to load collection", err)
	}
	if len(owned) == 0 {
		return []Entry{}, nil
	}

	ids := make([]string, len(owned))
	for i, uc := range owned {
		ids[i] = uc.CardID
	}
	cards, err := s.cards.GetByIDs(ctx, ids)
	if err != nil {
		return nil, apperrors.Internal("Failed to load cards", err)
	}
	byID := make(map[string]*models.Card, len(cards))
	for _, c := range cards {
		byID[c.ID] = c
	}

	entries := make([]Entry, 0, len(owned))
	for _, uc := range owned {
		card, ok := byID[uc.CardID]
		if !ok {
			continue
		}
		if f.Rarity != "" && card.Rarity != f.Rarity {
			continue
		}
		entries = append(entries, Entry{
			Card:        card,
			Copies:      uc.Copies,
			CollectedAt: uc.CollectedAt,
		})
	}

	if f.Name != "" {
		entries = filterByName(entries, f.Name)
	}
	sortEntries(entries, f.Sort)
	return entries, nil
}

// filterByName keeps fuzzy name matches, best match first.
func filterByName(entries []Entry, query string) []Entry {
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Card.Name
	}

	matches := fuzzy.Find(query, names)
	out := make([]Entry, 0, len(matches))
	for _, m := range matches {
		out = append(out, entries[m.Index])
	}
	return out
}

func sortEntries(entries []Entry, order string) {
	switch order {
	case SortRarity:
		sort.SliceStable(entries, func(i, j int) bool {
			ri, rj := models.RarityRank(entries[i].Card.Rarity), models.RarityRank(entries[j].Card.Rarity)
			if ri != rj {
				return ri > rj
			}
			return entries[i].Card.Name < entries[j].Card.Name
		})
	case SortTypes:
		sort.SliceStable(entries, func(i, j int) bool {
			ti, tj := firstType(entries[i].Card), firstType(entries[j].Card)
			if ti != tj {
				return ti < tj
			}
			return entries[i].Card.Name < entries[j].Card.Name
		})
	case SortDuplicates:
		sort.SliceStable(entries, func(i, j int) bool {
			if entries[i].Copies != entries[j].Copies {
				return entries[i].Copies > entries[j].Copies
			}
			return entries[i].Card.Name < entries[j].Card.Name
		})
	case SortRecent, "":
		sort.SliceStable(entries, func(i, j int) bool {
			return entries[i].CollectedAt.After(entries[j].CollectedAt)
		})
	}
}

func firstType(c *models.Card) string {
	if len(c.Types) == 0 {
		return ""
	}
	return c.Types[0]
}

// CardDisplay resolves the user's pinned profile cards.
func (s *Service) CardDisplay(ctx context.Context, userID string) ([]*models.Card, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if repositories.IsNotFound(err) {
			return nil, apperrors.NotFound("User not found", err)
		}
		return nil, apperrors.Internal("Failed to load user", err)
	}
	if len(user.CardDisplay) == 0 {
		return []*models.Card{}, nil
	}

	cards, err := s.cards.GetByIDs(ctx, user.CardDisplay)
	if err != nil {
		return nil, apperrors.Internal("Failed to load display cards", err)
	}
	return cards, nil
}

// UpdateCardDisplay replaces the pinned cards. Every card must be owned
// by the user.
func (s *Service) UpdateCardDisplay(ctx context.Context, userID string, cardIDs []string) error {
	if len(cardIDs) > MaxDisplayCards {
		return apperrors.InvalidState("Too many display cards", nil)
	}

	owns, err := s.userCards.OwnsAll(ctx, userID, cardIDs)
	if err != nil {
		return apperrors.Internal("Failed to verify card ownership", err)
	}
	if !owns {
		return apperrors.Forbidden("Cannot display cards you do not own", nil)
	}

	if err := s.users.UpdateCardDisplay(ctx, userID, cardIDs); err != nil {
		if repositories.IsNotFound(err) {
			return apperrors.NotFound("User not found", err)
		}
		return apperrors.Internal("Failed to update card display", err)
	}
	return nil
}
