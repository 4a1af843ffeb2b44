package social

import (
	"context"

	"github.com/studydex/studydex/studydex/apperrors"
	"github.com/studydex/studydex/studydex/database/models"
	"github.com/studydex/studydex/studydex/stats"
	"github.com/uptrace/bun"
)

// CanSendGift reports whether sender may gift recipient right now:
// they must be friends and no gift may have been sent to that friend
// today. The client uses this to grey out the gift button.
func (s *Service) CanSendGift(ctx context.Context, senderID, recipientID string) (bool, error) {
	sender, err := s.getUser(ctx, senderID)
	if err != nil {
		return false, err
	}
	if !sender.HasFriend(recipientID) {
		return false, nil
	}

	dayStart, dayEnd := stats.DayBounds(s.now(), s.loc)
	sent, err := s.gifts.SentInRange(ctx, senderID, recipientID, dayStart, dayEnd)
	if err != nil {
		return false, apperrors.Internal("Failed to check gift history", err)
	}
	return !sent, nil
}

// SendGift sends the daily coin gift to a friend. The gift lands in the
// recipient's mailbox rather than crediting coins directly, and a
// sender can gift each friend once per calendar day (app timezone).
func (s *Service) SendGift(ctx context.Context, senderID, recipientID string) (*models.Gift, error) {
	sender, err := s.getUser(ctx, senderID)
	if err != nil {
		return nil, err
	}
	if _, err := s.getUser(ctx, recipientID); err != nil {
		return nil, err
	}
	if !sender.HasFriend(recipientID) {
		return nil, apperrors.Forbidden("Can only send gifts to friends", nil)
	}

	dayStart, dayEnd := stats.DayBounds(s.now(), s.loc)
	sent, err := s.gifts.SentInRange(ctx, senderID, recipientID, dayStart, dayEnd)
	if err != nil {
		return nil, apperrors.Internal("Failed to check gift history", err)
	}
	if sent {
		return nil, apperrors.InvalidState("Gift already sent today", nil)
	}

	now := s.now()
	gift := &models.Gift{
		SenderID:    senderID,
		RecipientID: recipientID,
		Amount:      models.DefaultGiftAmount,
		GiftedAt:    now,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err = s.tm.WithTransaction(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewInsert().Model(gift).Exec(ctx); err != nil {
			return err
		}

		mail := &models.Mail{
			RecipientID: recipientID,
			SenderID:    senderID,
			Type:        models.MailTypeGift,
			Amount:      gift.Amount,
			CreatedAt:   gift.GiftedAt,
			UpdatedAt:   gift.GiftedAt,
		}
		_, err := tx.NewInsert().Model(mail).Exec(ctx)
		return err
	})
	if err != nil {
		return nil, apperrors.Internal("Failed to send gift", err)
	}
	return gift, nil
}
