package social

import (
	"context"
	"time"

	"github.com/studydex/studydex/studydex/apperrors"
	"github.com/studydex/studydex/studydex/database/models"
	"github.com/studydex/studydex/studydex/database/repositories"
	"github.com/uptrace/bun"
)

// Mailbox lists the user's mail, newest first.
func (s *Service) Mailbox(ctx context.Context, userID string, uncollectedOnly bool) ([]*models.Mail, error) {
	if _, err := s.getUser(ctx, userID); err != nil {
		return nil, err
	}

	mails, err := s.mail.ListByRecipient(ctx, userID, uncollectedOnly)
	if err != nil {
		return nil, apperrors.Internal("Failed to load mailbox", err)
	}
	return mails, nil
}

// CollectMail credits a mail's coins to the recipient and marks it
// collected, atomically. Double collection is rejected.
func (s *Service) CollectMail(ctx context.Context, mailID int64, userID string) (*models.Mail, error) {
	mail, err := s.mail.GetByID(ctx, mailID)
	if err != nil {
		if repositories.IsNotFound(err) {
			return nil, apperrors.NotFound("Mail not found", err)
		}
		return nil, apperrors.Internal("Failed to load mail", err)
	}
	if mail.RecipientID != userID {
		return nil, apperrors.Forbidden("Cannot collect another user's mail", nil)
	}
	if mail.Collected {
		return nil, apperrors.InvalidState("Mail already collected", nil)
	}

	err = s.tm.WithTransaction(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		now := time.Now()

		// Mark collected first with a collected guard in the WHERE so
		// a concurrent collect loses cleanly.
		res, err := tx.NewUpdate().
			Model((*models.Mail)(nil)).
			Set("collected = TRUE").
			Set("collected_at = ?", now).
			Set("updated_at = ?", now).
			Where("id = ? AND collected = FALSE", mailID).
			Exec(ctx)
		if err != nil {
			return err
		}
		if rows, _ := res.RowsAffected(); rows == 0 {
			return apperrors.InvalidState("Mail already collected", nil)
		}

		mail.Collected = true
		mail.CollectedAt = &now
		mail.UpdatedAt = now

		return s.tm.ValidateAndUpdateCoins(ctx, tx, userID, mail.Amount, "")
	})
	if err != nil {
		if apperrors.KindOf(err) != apperrors.KindInternal {
			return nil, err
		}
		return nil, apperrors.Internal("Failed to collect mail", err)
	}
	return mail, nil
}
