package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/studydex/studydex/studydex/database/models"
	"github.com/uptrace/bun"
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByIDs(ctx context.Context, ids []string) ([]*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	UpdateCardDisplay(ctx context.Context, userID string, cardIDs []string) error
	SetCurrentSession(ctx context.Context, userID string, sessionID *int64) error
	Delete(ctx context.Context, id string) error
	Exists(ctx context.Context, id string) (bool, error)
	SearchByUsername(ctx context.Context, query string, limit int) ([]*models.User, error)
}

type userRepository struct {
	*BaseRepository
}

func NewUserRepository(db *bun.DB) UserRepository {
	return &userRepository{BaseRepository: NewBaseRepository(db)}
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	if user.Level < 1 {
		user.Level = 1
	}
	if user.CardDisplay == nil {
		user.CardDisplay = []string{}
	}
	if user.Friends == nil {
		user.Friends = []string{}
	}

	_, err := r.GetDB().NewInsert().
		Model(user).
		Exec(ctx)
	return r.HandleErrorWithID("create", "user", user.ID, err)
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	user := new(models.User)
	err := r.GetDB().NewSelect().
		Model(user).
		Where("id = ?", id).
		Scan(ctx)
	if err != nil {
		return nil, r.HandleErrorWithID("get", "user", id, err)
	}
	return user, nil
}

func (r *userRepository) GetByIDs(ctx context.Context, ids []string) ([]*models.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	var users []*models.User
	err := r.GetDB().NewSelect().
		Model(&users).
		Where("id IN (?)", bun.In(ids)).
		Scan(ctx)
	if err != nil {
		return nil, r.HandleError("get_many", "user", err)
	}
	return users, nil
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	user := new(models.User)
	err := r.GetDB().NewSelect().
		Model(user).
		Where("LOWER(username) = LOWER(?)", username).
		Scan(ctx)
	if err != nil {
		return nil, r.HandleErrorWithID("get", "user", username, err)
	}
	return user, nil
}

func (r *userRepository) Update(ctx context.Context, user *models.User) error {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	user.UpdatedAt = time.Now()
	res, err := r.GetDB().NewUpdate().
		Model(user).
		WherePK().
		Exec(ctx)
	if err != nil {
		return r.HandleErrorWithID("update", "user", user.ID, err)
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return &NotFoundError{Entity: "user", ID: user.ID}
	}
	return nil
}

func (r *userRepository) UpdateCardDisplay(ctx context.Context, userID string, cardIDs []string) error {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	if cardIDs == nil {
		cardIDs = []string{}
	}

	res, err := r.GetDB().NewUpdate().
		Model((*models.User)(nil)).
		Set("card_display = ?", cardIDs).
		Set("updated_at = ?", time.Now()).
		Where("id = ?", userID).
		Exec(ctx)
	if err != nil {
		return r.HandleErrorWithID("update_card_display", "user", userID, err)
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return &NotFoundError{Entity: "user", ID: userID}
	}
	return nil
}

func (r *userRepository) SetCurrentSession(ctx context.Context, userID string, sessionID *int64) error {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	res, err := r.GetDB().NewUpdate().
		Model((*models.User)(nil)).
		Set("current_session_id = ?", sessionID).
		Set("updated_at = ?", time.Now()).
		Where("id = ?", userID).
		Exec(ctx)
	if err != nil {
		return r.HandleErrorWithID("set_current_session", "user", userID, err)
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return &NotFoundError{Entity: "user", ID: userID}
	}
	return nil
}

func (r *userRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	res, err := r.GetDB().NewDelete().
		Model((*models.User)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return r.HandleErrorWithID("delete", "user", id, err)
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return &NotFoundError{Entity: "user", ID: id}
	}
	return nil
}

func (r *userRepository) Exists(ctx context.Context, id string) (bool, error) {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	exists, err := r.GetDB().NewSelect().
		Model((*models.User)(nil)).
		Where("id = ?", id).
		Exists(ctx)
	if err != nil {
		return false, r.HandleErrorWithID("exists", "user", id, err)
	}
	return exists, nil
}

func (r *userRepository) SearchByUsername(ctx context.Context, query string, limit int) ([]*models.User, error) {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	if limit <= 0 {
		limit = 20
	}

	var users []*models.User
	err := r.GetDB().NewSelect().
		Model(&users).
		Where("username ILIKE ?", fmt.Sprintf("%%%s%%", query)).
		Order("username ASC").
		Limit(limit).
		Scan(ctx)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, r.HandleError("search", "user", err)
	}
	return users, nil
}
