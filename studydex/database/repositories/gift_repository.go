package repositories

import (
	"context"
	"time"

	"github.com/studydex/studydex/studydex/database/models"
	"github.com/uptrace/bun"
)

type GiftRepository interface {
	Create(ctx context.Context, gift *models.Gift) error
	// SentInRange reports whether the sender already gifted the
	// recipient within [from, to).
	SentInRange(ctx context.Context, senderID, recipientID string, from, to time.Time) (bool, error)
}

type giftRepository struct {
	*BaseRepository
}

func NewGiftRepository(db *bun.DB) GiftRepository {
	return &giftRepository{BaseRepository: NewBaseRepository(db)}
}

func (r *giftRepository) Create(ctx context.Context, gift *models.Gift) error {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	now := time.Now()
	gift.CreatedAt = now
	gift.UpdatedAt = now
	if gift.GiftedAt.IsZero() {
		gift.GiftedAt = now
	}

	_, err := r.GetDB().NewInsert().
		Model(gift).
		Exec(ctx)
	return r.HandleErrorWithID("create", "gift", gift.SenderID, err)
}

func (r *giftRepository) SentInRange(ctx context.Context, senderID, recipientID string, from, to time.Time) (bool, error) {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	exists, err := r.GetDB().NewSelect().
		Model((*models.Gift)(nil)).
		Where("sender_id = ? AND recipient_id = ?", senderID, recipientID).
		Where("gifted_at >= ? AND gifted_at < ?", from, to).
		Exists(ctx)
	if err != nil {
		return false, r.HandleError("sent_in_range", "gift", err)
	}
	return exists, nil
}
