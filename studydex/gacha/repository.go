//go:generate mockgen -source=repository.go -destination=mock/repository.go -package=mock
package gacha

import (
	"context"

	"github.com/studydex/studydex/studydex/database/models"
	"github.com/studydex/studydex/studydex/database/repositories"
	"github.com/studydex/studydex/studydex/economy"
	"github.com/uptrace/bun"
)

// Repository is the persistence surface a pack opening needs.
type Repository interface {
	PackByCode(ctx context.Context, code string) (*models.CardPack, error)
	User(ctx context.Context, userID string) (*models.User, error)
	CardsByIDs(ctx context.Context, ids []string) ([]*models.Card, error)
	// ApplyOpening atomically deducts the pack cost and adds the drawn
	// cards to the user's inventory. The whole opening commits or none
	// of it does.
	ApplyOpening(ctx context.Context, userID string, cost int64, cardIDs []string) error
}

type repository struct {
	packs repositories.PackRepository
	users repositories.UserRepository
	cards repositories.CardRepository
	tm    *economy.TransactionManager
}

func NewRepository(
	packs repositories.PackRepository,
	users repositories.UserRepository,
	cards repositories.CardRepository,
	tm *economy.TransactionManager,
) Repository {
	return &repository{packs: packs, users: users, cards: cards, tm: tm}
}

func (r *repository) PackByCode(ctx context.Context, code string) (*models.CardPack, error) {
	return r.packs.GetByCode(ctx, code)
}

func (r *repository) User(ctx context.Context, userID string) (*models.User, error) {
	return r.users.GetByID(ctx, userID)
}

func (r *repository) CardsByIDs(ctx context.Context, ids []string) ([]*models.Card, error) {
	return r.cards.GetByIDs(ctx, ids)
}

func (r *repository) ApplyOpening(ctx context.Context, userID string, cost int64, cardIDs []string) error {
	return r.tm.WithTransaction(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if err := r.tm.ValidateAndUpdateCoins(ctx, tx, userID, -cost, "Not enough coins to open this pack"); err != nil {
			return err
		}
		for _, cardID := range cardIDs {
			if err := r.tm.AddCardToInventory(ctx, tx, userID, cardID); err != nil {
				return err
			}
		}
		return nil
	})
}
