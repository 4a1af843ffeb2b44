package study

import (
	"context"
	"time"

	"log/slog"

	"github.com/studydex/studydex/studydex/apperrors"
	"github.com/studydex/studydex/studydex/database/models"
	"github.com/studydex/studydex/studydex/database/repositories"
	"github.com/studydex/studydex/studydex/economy"
	"github.com/studydex/studydex/studydex/leveling"
)

// Reward paid for a session whose measured time covers the plan.
const (
	CompletedSessionCoins      = 50
	CompletedSessionExperience = 20

	// Recorded duration of a completed session. The client runs fixed
	// pomodoro blocks, so a completed session always counts as one
	// block regardless of wall-clock drift.
	recordedSessionMinutes = 25
)

// CompleteResult pairs the finished session with the reward outcome.
type CompleteResult struct {
	Session   *models.StudySession    `json:"session"`
	LevelInfo *leveling.UserLevelInfo `json:"levelInfo,omitempty"`
}

// Service drives the study session lifecycle.
type Service struct {
	repo     Repository
	leveling *leveling.Service
	guard    *economy.UserGuard
	now      func() time.Time
}

func NewService(repo Repository, lvl *leveling.Service, guard *economy.UserGuard) *Service {
	return &Service{
		repo:     repo,
		leveling: lvl,
		guard:    guard,
		now:      time.Now,
	}
}

// StartSession begins a new active session. Any session the user left
// active, from a crashed client or a force-quit, is failed first so the
// new one is the only active session.
func (s *Service) StartSession(ctx context.Context, userID string, plannedMinutes int64) (*models.StudySession, error) {
	if plannedMinutes <= 0 {
		return nil, apperrors.InvalidState("Planned duration must be positive", nil)
	}

	if s.guard != nil {
		if !s.guard.TryLock(userID) {
			return nil, apperrors.InvalidState("Another operation is already in progress", nil)
		}
		defer s.guard.Release(userID)
	}

	user, err := s.repo.User(ctx, userID)
	if err != nil {
		if repositories.IsNotFound(err) {
			return nil, apperrors.NotFound("User not found", err)
		}
		return nil, apperrors.Internal("Failed to load user", err)
	}

	failed, err := s.repo.FailAbandoned(ctx, user.ID)
	if err != nil {
		return nil, apperrors.Internal("Failed to clean up abandoned sessions", err)
	}
	if failed > 0 {
		slog.Info("Failed abandoned sessions",
			slog.String("type", "system"),
			slog.String("user_id", user.ID),
			slog.Int64("count", failed),
		)
	}

	session := &models.StudySession{
		UserID:          user.ID,
		PlannedDuration: plannedMinutes,
		Status:          models.SessionActive,
		StartTime:       s.now(),
	}
	if err := s.repo.CreateSession(ctx, session); err != nil {
		return nil, apperrors.Internal("Failed to create session", err)
	}

	if err := s.repo.SetCurrentSession(ctx, user.ID, &session.ID); err != nil {
		return nil, apperrors.Internal("Failed to track current session", err)
	}

	return session, nil
}

// CompleteSession finishes an active session and pays out rewards when
// the measured time covers the planned duration. Completion and reward
// commit atomically.
func (s *Service) CompleteSession(ctx context.Context, sessionID int64) (*CompleteResult, error) {
	session, err := s.loadActive(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if s.guard != nil {
		if !s.guard.TryLock(session.UserID) {
			return nil, apperrors.InvalidState("Another operation is already in progress", nil)
		}
		defer s.guard.Release(session.UserID)
	}

	now := s.now()
	measured := measuredMinutes(session.StartTime, now)

	session.Status = models.SessionCompleted
	session.EndTime = &now
	session.ActualDuration = recordedSessionMinutes

	if measured >= session.PlannedDuration {
		session.RewardCoins = CompletedSessionCoins
		session.RewardExperience = CompletedSessionExperience
	}

	// The reward may be zero; leveling still runs so a user already
	// sitting on threshold experience levels up, and the client always
	// gets level info back.
	var info *leveling.UserLevelInfo
	err = s.repo.FinishSession(ctx, session, func(ctx context.Context, user *models.User) error {
		var applyErr error
		info, applyErr = s.leveling.ApplyReward(ctx, user, session.RewardCoins, session.RewardExperience)
		return applyErr
	})
	if err != nil {
		if apperrors.KindOf(err) != apperrors.KindInternal {
			return nil, err
		}
		return nil, apperrors.Internal("Failed to complete session", err)
	}

	return &CompleteResult{Session: session, LevelInfo: info}, nil
}

// FailSession marks an active session failed with no reward. The
// measured duration is kept for the user's stats.
func (s *Service) FailSession(ctx context.Context, sessionID int64) (*models.StudySession, error) {
	session, err := s.loadActive(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if s.guard != nil {
		if !s.guard.TryLock(session.UserID) {
			return nil, apperrors.InvalidState("Another operation is already in progress", nil)
		}
		defer s.guard.Release(session.UserID)
	}

	now := s.now()
	session.Status = models.SessionFailed
	session.EndTime = &now
	session.ActualDuration = measuredMinutes(session.StartTime, now)

	err = s.repo.FinishSession(ctx, session, func(context.Context, *models.User) error { return nil })
	if err != nil {
		if apperrors.KindOf(err) != apperrors.KindInternal {
			return nil, err
		}
		return nil, apperrors.Internal("Failed to fail session", err)
	}
	return session, nil
}

func (s *Service) loadActive(ctx context.Context, sessionID int64) (*models.StudySession, error) {
	session, err := s.repo.Session(ctx, sessionID)
	if err != nil {
		if repositories.IsNotFound(err) {
			return nil, apperrors.NotFound("Session not found", err)
		}
		return nil, apperrors.Internal("Failed to load session", err)
	}
	if session.Status != models.SessionActive {
		return nil, apperrors.InvalidState("Session is not active", nil)
	}
	return session, nil
}

// measuredMinutes counts elapsed whole minutes. Partial minutes do not
// count, so a session one second short of its plan earns nothing.
func measuredMinutes(start, end time.Time) int64 {
	return int64(end.Sub(start).Minutes())
}
