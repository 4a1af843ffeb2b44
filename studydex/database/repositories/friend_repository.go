package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/studydex/studydex/studydex/database/models"
	"github.com/uptrace/bun"
)

type FriendRepository interface {
	CreateRequest(ctx context.Context, req *models.FriendRequest) error
	GetRequest(ctx context.Context, id int64) (*models.FriendRequest, error)
	PendingForRecipient(ctx context.Context, recipientID string) ([]*models.FriendRequest, error)
	HasPendingBetween(ctx context.Context, senderID, recipientID string) (bool, error)
	UpdateStatus(ctx context.Context, id int64, status string) error
}

type friendRepository struct {
	*BaseRepository
}

func NewFriendRepository(db *bun.DB) FriendRepository {
	return &friendRepository{BaseRepository: NewBaseRepository(db)}
}

func (r *friendRepository) CreateRequest(ctx context.Context, req *models.FriendRequest) error {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	now := time.Now()
	req.Status = models.FriendRequestPending
	req.CreatedAt = now
	req.UpdatedAt = now

	_, err := r.GetDB().NewInsert().
		Model(req).
		Exec(ctx)
	return r.HandleErrorWithID("create", "friend_request", req.SenderID, err)
}

func (r *friendRepository) GetRequest(ctx context.Context, id int64) (*models.FriendRequest, error) {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	req := new(models.FriendRequest)
	err := r.GetDB().NewSelect().
		Model(req).
		Where("id = ?", id).
		Scan(ctx)
	if err != nil {
		return nil, r.HandleErrorWithID("get", "friend_request", id, err)
	}
	return req, nil
}

func (r *friendRepository) PendingForRecipient(ctx context.Context, recipientID string) ([]*models.FriendRequest, error) {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	var reqs []*models.FriendRequest
	err := r.GetDB().NewSelect().
		Model(&reqs).
		Where("recipient_id = ? AND status = ?", recipientID, models.FriendRequestPending).
		Order("created_at ASC").
		Scan(ctx)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, r.HandleErrorWithID("pending", "friend_request", recipientID, err)
	}
	return reqs, nil
}

// HasPendingBetween reports a pending request in either direction.
func (r *friendRepository) HasPendingBetween(ctx context.Context, senderID, recipientID string) (bool, error) {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	exists, err := r.GetDB().NewSelect().
		Model((*models.FriendRequest)(nil)).
		Where("status = ?", models.FriendRequestPending).
		WhereGroup(" AND ", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.
				Where("(sender_id = ? AND recipient_id = ?)", senderID, recipientID).
				WhereOr("(sender_id = ? AND recipient_id = ?)", recipientID, senderID)
		}).
		Exists(ctx)
	if err != nil {
		return false, r.HandleError("has_pending", "friend_request", err)
	}
	return exists, nil
}

func (r *friendRepository) UpdateStatus(ctx context.Context, id int64, status string) error {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	res, err := r.GetDB().NewUpdate().
		Model((*models.FriendRequest)(nil)).
		Set("status = ?", status).
		Set("updated_at = ?", time.Now()).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return r.HandleErrorWithID("update_status", "friend_request", id, err)
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return &NotFoundError{Entity: "friend_request", ID: id}
	}
	return nil
}
