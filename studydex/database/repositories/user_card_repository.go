package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/studydex/studydex/studydex/database/models"
	"github.com/uptrace/bun"
)

type UserCardRepository interface {
	GetByUser(ctx context.Context, userID string) ([]*models.UserCard, error)
	GetByUserAndCard(ctx context.Context, userID, cardID string) (*models.UserCard, error)
	OwnsAll(ctx context.Context, userID string, cardIDs []string) (bool, error)
	CountDistinct(ctx context.Context, userID string) (int, error)
}

type userCardRepository struct {
	*BaseRepository
}

func NewUserCardRepository(db *bun.DB) UserCardRepository {
	return &userCardRepository{BaseRepository: NewBaseRepository(db)}
}

func (r *userCardRepository) GetByUser(ctx context.Context, userID string) ([]*models.UserCard, error) {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	var cards []*models.UserCard
	err := r.GetDB().NewSelect().
		Model(&cards).
		Where("user_id = ?", userID).
		Order("collected_at DESC").
		Scan(ctx)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, r.HandleErrorWithID("get_by_user", "user_card", userID, err)
	}
	return cards, nil
}

func (r *userCardRepository) GetByUserAndCard(ctx context.Context, userID, cardID string) (*models.UserCard, error) {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	card := new(models.UserCard)
	err := r.GetDB().NewSelect().
		Model(card).
		Where("user_id = ? AND card_id = ?", userID, cardID).
		Scan(ctx)
	if err != nil {
		return nil, r.HandleErrorWithID("get", "user_card", cardID, err)
	}
	return card, nil
}

// OwnsAll reports whether the user owns every card in cardIDs.
func (r *userCardRepository) OwnsAll(ctx context.Context, userID string, cardIDs []string) (bool, error) {
	if len(cardIDs) == 0 {
		return true, nil
	}

	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	count, err := r.GetDB().NewSelect().
		Model((*models.UserCard)(nil)).
		Where("user_id = ?", userID).
		Where("card_id IN (?)", bun.In(cardIDs)).
		Count(ctx)
	if err != nil {
		return false, r.HandleErrorWithID("owns_all", "user_card", userID, err)
	}
	return count == len(cardIDs), nil
}

func (r *userCardRepository) CountDistinct(ctx context.Context, userID string) (int, error) {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	count, err := r.GetDB().NewSelect().
		Model((*models.UserCard)(nil)).
		Where("user_id = ?", userID).
		Count(ctx)
	if err != nil {
		return 0, r.HandleErrorWithID("count", "user_card", userID, err)
	}
	return count, nil
}
