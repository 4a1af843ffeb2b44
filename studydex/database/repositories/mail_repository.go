package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/studydex/studydex/studydex/database/models"
	"github.com/uptrace/bun"
)

type MailRepository interface {
	Create(ctx context.Context, mail *models.Mail) error
	GetByID(ctx context.Context, id int64) (*models.Mail, error)
	ListByRecipient(ctx context.Context, recipientID string, uncollectedOnly bool) ([]*models.Mail, error)
}

type mailRepository struct {
	*BaseRepository
}

func NewMailRepository(db *bun.DB) MailRepository {
	return &mailRepository{BaseRepository: NewBaseRepository(db)}
}

func (r *mailRepository) Create(ctx context.Context, mail *models.Mail) error {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	now := time.Now()
	mail.CreatedAt = now
	mail.UpdatedAt = now

	_, err := r.GetDB().NewInsert().
		Model(mail).
		Exec(ctx)
	return r.HandleErrorWithID("create", "mail", mail.RecipientID, err)
}

func (r *mailRepository) GetByID(ctx context.Context, id int64) (*models.Mail, error) {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	mail := new(models.Mail)
	err := r.GetDB().NewSelect().
		Model(mail).
		Where("id = ?", id).
		Scan(ctx)
	if err != nil {
		return nil, r.HandleErrorWithID("get", "mail", id, err)
	}
	return mail, nil
}

func (r *mailRepository) ListByRecipient(ctx context.Context, recipientID string, uncollectedOnly bool) ([]*models.Mail, error) {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	var mails []*models.Mail
	q := r.GetDB().NewSelect().
		Model(&mails).
		Where("recipient_id = ?", recipientID).
		Order("created_at DESC")
	if uncollectedOnly {
		q = q.Where("collected = FALSE")
	}

	err := q.Scan(ctx)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, r.HandleErrorWithID("list", "mail", recipientID, err)
	}
	return mails, nil
}
