package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/studydex/studydex/studydex/database/models"
	"github.com/uptrace/bun"
)

// LeaderboardRow is one aggregated leaderboard entry.
type LeaderboardRow struct {
	UserID       string `bun:"user_id"`
	Username     string `bun:"username"`
	ProfileImage string `bun:"profile_image"`
	Value        int64  `bun:"value"`
}

type SessionRepository interface {
	Create(ctx context.Context, session *models.StudySession) error
	GetByID(ctx context.Context, id int64) (*models.StudySession, error)
	GetActiveByUser(ctx context.Context, userID string) (*models.StudySession, error)
	Update(ctx context.Context, session *models.StudySession) error
	FailAbandoned(ctx context.Context, userID string) (int64, error)
	GetInRange(ctx context.Context, userID string, from, to time.Time) ([]*models.StudySession, error)
	MinutesLeaderboard(ctx context.Context, userIDs []string, from, to time.Time) ([]LeaderboardRow, error)
	PointsLeaderboard(ctx context.Context, userIDs []string, from, to time.Time) ([]LeaderboardRow, error)
}

type sessionRepository struct {
	*BaseRepository
}

func NewSessionRepository(db *bun.DB) SessionRepository {
	return &sessionRepository{BaseRepository: NewBaseRepository(db)}
}

func (r *sessionRepository) Create(ctx context.Context, session *models.StudySession) error {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	now := time.Now()
	session.CreatedAt = now
	session.UpdatedAt = now

	_, err := r.GetDB().NewInsert().
		Model(session).
		Exec(ctx)
	return r.HandleErrorWithID("create", "study_session", session.UserID, err)
}

func (r *sessionRepository) GetByID(ctx context.Context, id int64) (*models.StudySession, error) {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	session := new(models.StudySession)
	err := r.GetDB().NewSelect().
		Model(session).
		Where("id = ?", id).
		Scan(ctx)
	if err != nil {
		return nil, r.HandleErrorWithID("get", "study_session", id, err)
	}
	return session, nil
}

func (r *sessionRepository) GetActiveByUser(ctx context.Context, userID string) (*models.StudySession, error) {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	session := new(models.StudySession)
	err := r.GetDB().NewSelect().
		Model(session).
		Where("user_id = ? AND status = ?", userID, models.SessionActive).
		Order("start_time DESC").
		Limit(1).
		Scan(ctx)
	if err != nil {
		return nil, r.HandleErrorWithID("get_active", "study_session", userID, err)
	}
	return session, nil
}

func (r *sessionRepository) Update(ctx context.Context, session *models.StudySession) error {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	session.UpdatedAt = time.Now()
	res, err := r.GetDB().NewUpdate().
		Model(session).
		WherePK().
		Exec(ctx)
	if err != nil {
		return r.HandleErrorWithID("update", "study_session", session.ID, err)
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return &NotFoundError{Entity: "study_session", ID: session.ID}
	}
	return nil
}

// FailAbandoned marks every still-active session of the user as failed.
// Used before starting a new session so client crashes never leave a
// user wedged with a phantom active session.
func (r *sessionRepository) FailAbandoned(ctx context.Context, userID string) (int64, error) {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	now := time.Now()
	res, err := r.GetDB().NewUpdate().
		Model((*models.StudySession)(nil)).
		Set("status = ?", models.SessionFailed).
		Set("end_time = ?", now).
		Set("updated_at = ?", now).
		Where("user_id = ? AND status = ?", userID, models.SessionActive).
		Exec(ctx)
	if err != nil {
		return 0, r.HandleErrorWithID("fail_abandoned", "study_session", userID, err)
	}
	rows, _ := res.RowsAffected()
	return rows, nil
}

// GetInRange returns every session the user started in [from, to),
// regardless of status.
func (r *sessionRepository) GetInRange(ctx context.Context, userID string, from, to time.Time) ([]*models.StudySession, error) {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	var sessions []*models.StudySession
	err := r.GetDB().NewSelect().
		Model(&sessions).
		Where("user_id = ?", userID).
		Where("start_time >= ? AND start_time < ?", from, to).
		Order("start_time ASC").
		Scan(ctx)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, r.HandleErrorWithID("get_in_range", "study_session", userID, err)
	}
	return sessions, nil
}

// MinutesLeaderboard ranks the given users by total studied minutes
// over completed sessions started in [from, to). Users with no sessions
// appear with a zero value. Ties break by username.
func (r *sessionRepository) MinutesLeaderboard(ctx context.Context, userIDs []string, from, to time.Time) ([]LeaderboardRow, error) {
	return r.leaderboard(ctx, "COALESCE(SUM(ss.actual_duration), 0)", userIDs, from, to)
}

// PointsLeaderboard ranks the given users by coins earned from
// completed sessions started in [from, to).
func (r *sessionRepository) PointsLeaderboard(ctx context.Context, userIDs []string, from, to time.Time) ([]LeaderboardRow, error) {
	return r.leaderboard(ctx, "COALESCE(SUM(ss.reward_coins), 0)", userIDs, from, to)
}

func (r *sessionRepository) leaderboard(ctx context.Context, valueExpr string, userIDs []string, from, to time.Time) ([]LeaderboardRow, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}

	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	var rows []LeaderboardRow
	err := r.GetDB().NewSelect().
		TableExpr("users AS u").
		ColumnExpr("u.id AS user_id").
		ColumnExpr("u.username AS username").
		ColumnExpr("u.profile_image AS profile_image").
		ColumnExpr(valueExpr+" AS value").
		Join("LEFT JOIN study_sessions AS ss ON ss.user_id = u.id").
		JoinOn("ss.status = ?", models.SessionCompleted).
		JoinOn("ss.start_time >= ? AND ss.start_time < ?", from, to).
		Where("u.id IN (?)", bun.In(userIDs)).
		GroupExpr("u.id, u.username, u.profile_image").
		OrderExpr("value DESC, u.username ASC").
		Scan(ctx, &rows)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, r.HandleError("leaderboard", "study_session", err)
	}
	return rows, nil
}
