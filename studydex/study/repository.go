//go:generate mockgen -source=repository.go -destination=mock/repository.go -package=mock
package study

import (
	"context"
	"time"

	"github.com/studydex/studydex/studydex/database/models"
	"github.com/studydex/studydex/studydex/database/repositories"
	"github.com/studydex/studydex/studydex/economy"
	"github.com/uptrace/bun"
)

// Repository is the persistence surface of the session lifecycle.
type Repository interface {
	User(ctx context.Context, userID string) (*models.User, error)
	Session(ctx context.Context, id int64) (*models.StudySession, error)
	CreateSession(ctx context.Context, session *models.StudySession) error
	FailAbandoned(ctx context.Context, userID string) (int64, error)
	SetCurrentSession(ctx context.Context, userID string, sessionID *int64) error
	// FinishSession persists a terminal session state and the reward
	// mutation in one transaction. The user row is locked before apply
	// runs, so apply sees a consistent balance.
	FinishSession(ctx context.Context, session *models.StudySession, apply func(ctx context.Context, user *models.User) error) error
}

type repository struct {
	users    repositories.UserRepository
	sessions repositories.SessionRepository
	tm       *economy.TransactionManager
}

func NewRepository(
	users repositories.UserRepository,
	sessions repositories.SessionRepository,
	tm *economy.TransactionManager,
) Repository {
	return &repository{users: users, sessions: sessions, tm: tm}
}

func (r *repository) User(ctx context.Context, userID string) (*models.User, error) {
	return r.users.GetByID(ctx, userID)
}

func (r *repository) Session(ctx context.Context, id int64) (*models.StudySession, error) {
	return r.sessions.GetByID(ctx, id)
}

func (r *repository) CreateSession(ctx context.Context, session *models.StudySession) error {
	return r.sessions.Create(ctx, session)
}

func (r *repository) FailAbandoned(ctx context.Context, userID string) (int64, error) {
	return r.sessions.FailAbandoned(ctx, userID)
}

func (r *repository) SetCurrentSession(ctx context.Context, userID string, sessionID *int64) error {
	return r.users.SetCurrentSession(ctx, userID, sessionID)
}

func (r *repository) FinishSession(ctx context.Context, session *models.StudySession, apply func(ctx context.Context, user *models.User) error) error {
	return r.tm.WithTransaction(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		user, err := r.tm.LockUser(ctx, tx, session.UserID)
		if err != nil {
			return err
		}

		if err := apply(ctx, user); err != nil {
			return err
		}

		now := time.Now()
		user.CurrentSessionID = nil
		user.UpdatedAt = now
		if _, err := tx.NewUpdate().
			Model(user).
			WherePK().
			Exec(ctx); err != nil {
			return err
		}

		session.UpdatedAt = now
		_, err = tx.NewUpdate().
			Model(session).
			WherePK().
			Exec(ctx)
		return err
	})
}
