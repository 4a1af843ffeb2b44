package study

import (
	"context"
	"testing"
	"time"

	"github.com/studydex/studydex/studydex/apperrors"
	"github.com/studydex/studydex/studydex/database/models"
	"github.com/studydex/studydex/studydex/database/repositories"
	"github.com/studydex/studydex/studydex/economy"
	"github.com/studydex/studydex/studydex/leveling"
	"github.com/studydex/studydex/studydex/study/mock"
	"go.uber.org/mock/gomock"
)

type fakeLevels struct{}

func (fakeLevels) GetByLevel(_ context.Context, level int) (*models.LevelRequirement, error) {
	if level == 2 {
		return &models.LevelRequirement{Level: 2, ExperienceRequired: 100, RewardCoins: 200}, nil
	}
	return nil, nil
}

func (fakeLevels) GetAll(context.Context) ([]*models.LevelRequirement, error) {
	return nil, nil
}

func newTestService(repo *mock.MockRepository, at time.Time) *Service {
	svc := NewService(repo, leveling.NewService(fakeLevels{}), nil)
	svc.now = func() time.Time { return at }
	return svc
}

func TestStartSession(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mock.NewMockRepository(ctrl)
	start := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	svc := newTestService(repo, start)

	ctx := context.Background()
	repo.EXPECT().User(ctx, "u1").Return(&models.User{ID: "u1"}, nil)
	repo.EXPECT().FailAbandoned(ctx, "u1").Return(int64(2), nil)
	repo.EXPECT().CreateSession(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, s *models.StudySession) error {
			s.ID = 7
			return nil
		})
	repo.EXPECT().SetCurrentSession(ctx, "u1", gomock.Any()).DoAndReturn(
		func(_ context.Context, _ string, sessionID *int64) error {
			if sessionID == nil || *sessionID != 7 {
				t.Errorf("SetCurrentSession got %v, want 7", sessionID)
			}
			return nil
		})

	session, err := svc.StartSession(ctx, "u1", 25)
	if err != nil {
		t.Fatalf("StartSession() error = %v", err)
	}
	if session.Status != models.SessionActive {
		t.Errorf("status = %s, want active", session.Status)
	}
	if session.PlannedDuration != 25 {
		t.Errorf("plannedDuration = %d, want 25", session.PlannedDuration)
	}
	if !session.StartTime.Equal(start) {
		t.Errorf("startTime = %v, want %v", session.StartTime, start)
	}
}

func TestStartSession_InvalidDuration(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := newTestService(mock.NewMockRepository(ctrl), time.Now())

	_, err := svc.StartSession(context.Background(), "u1", 0)
	if apperrors.KindOf(err) != apperrors.KindInvalidState {
		t.Fatalf("got kind %v, want invalid_state", apperrors.KindOf(err))
	}
}

func TestStartSession_UserNotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mock.NewMockRepository(ctrl)
	svc := newTestService(repo, time.Now())

	ctx := context.Background()
	repo.EXPECT().User(ctx, "ghost").
		Return(nil, &repositories.NotFoundError{Entity: "user", ID: "ghost"})

	_, err := svc.StartSession(ctx, "ghost", 25)
	if apperrors.KindOf(err) != apperrors.KindNotFound {
		t.Fatalf("got kind %v, want not_found", apperrors.KindOf(err))
	}
	if apperrors.MessageOf(err) != "User not found" {
		t.Errorf("got message %q", apperrors.MessageOf(err))
	}
}

func TestCompleteSession_PaysReward(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mock.NewMockRepository(ctrl)
	start := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	end := start.Add(26 * time.Minute)
	svc := newTestService(repo, end)

	ctx := context.Background()
	repo.EXPECT().Session(ctx, int64(7)).Return(&models.StudySession{
		ID:              7,
		UserID:          "u1",
		PlannedDuration: 25,
		Status:          models.SessionActive,
		StartTime:       start,
	}, nil)
	repo.EXPECT().FinishSession(ctx, gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, s *models.StudySession, apply func(context.Context, *models.User) error) error {
			return apply(ctx, &models.User{ID: "u1", Level: 1, Coins: 10, Experience: 0})
		})

	result, err := svc.CompleteSession(ctx, 7)
	if err != nil {
		t.Fatalf("CompleteSession() error = %v", err)
	}

	s := result.Session
	if s.Status != models.SessionCompleted {
		t.Errorf("status = %s, want completed", s.Status)
	}
	if s.RewardCoins != CompletedSessionCoins || s.RewardExperience != CompletedSessionExperience {
		t.Errorf("reward = {%d, %d}, want {50, 20}", s.RewardCoins, s.RewardExperience)
	}
	// Completed sessions always record one pomodoro block.
	if s.ActualDuration != 25 {
		t.Errorf("actualDuration = %d, want 25", s.ActualDuration)
	}
	if s.EndTime == nil || !s.EndTime.Equal(end) {
		t.Errorf("endTime = %v, want %v", s.EndTime, end)
	}
	if result.LevelInfo == nil {
		t.Fatal("expected level info with a paid reward")
	}
	if result.LevelInfo.Coins != 60 {
		t.Errorf("levelInfo coins = %d, want 60", result.LevelInfo.Coins)
	}
}

func TestCompleteSession_JustShortOfPlanPaysNothing(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mock.NewMockRepository(ctrl)
	start := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	// 24m40s elapsed against a 25-minute plan.
	svc := newTestService(repo, start.Add(24*time.Minute+40*time.Second))

	ctx := context.Background()
	repo.EXPECT().Session(ctx, int64(7)).Return(&models.StudySession{
		ID:              7,
		UserID:          "u1",
		PlannedDuration: 25,
		Status:          models.SessionActive,
		StartTime:       start,
	}, nil)
	repo.EXPECT().FinishSession(ctx, gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, s *models.StudySession, apply func(context.Context, *models.User) error) error {
			return apply(ctx, &models.User{ID: "u1", Level: 1})
		})

	result, err := svc.CompleteSession(ctx, 7)
	if err != nil {
		t.Fatalf("CompleteSession() error = %v", err)
	}
	if result.Session.RewardCoins != 0 || result.Session.RewardExperience != 0 {
		t.Errorf("reward = {%d, %d}, want {0, 0}",
			result.Session.RewardCoins, result.Session.RewardExperience)
	}
}

func TestCompleteSession_ShortSessionPaysNothing(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mock.NewMockRepository(ctrl)
	start := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	svc := newTestService(repo, start.Add(10*time.Minute))

	ctx := context.Background()
	repo.EXPECT().Session(ctx, int64(7)).Return(&models.StudySession{
		ID:              7,
		UserID:          "u1",
		PlannedDuration: 25,
		Status:          models.SessionActive,
		StartTime:       start,
	}, nil)
	repo.EXPECT().FinishSession(ctx, gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, s *models.StudySession, apply func(context.Context, *models.User) error) error {
			return apply(ctx, &models.User{ID: "u1", Level: 1})
		})

	result, err := svc.CompleteSession(ctx, 7)
	if err != nil {
		t.Fatalf("CompleteSession() error = %v", err)
	}
	if result.Session.RewardCoins != 0 || result.Session.RewardExperience != 0 {
		t.Errorf("reward = {%d, %d}, want {0, 0}",
			result.Session.RewardCoins, result.Session.RewardExperience)
	}
	// Level info comes back even with no reward.
	if result.LevelInfo == nil {
		t.Fatal("expected level info")
	}
	if result.LevelInfo.Level != 1 || result.LevelInfo.IsLevelUp {
		t.Errorf("levelInfo = {level %d, levelUp %v}, want {1, false}",
			result.LevelInfo.Level, result.LevelInfo.IsLevelUp)
	}
}

func TestCompleteSession_ZeroRewardStillLevels(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mock.NewMockRepository(ctrl)
	start := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	svc := newTestService(repo, start.Add(5*time.Minute))

	ctx := context.Background()
	repo.EXPECT().Session(ctx, int64(7)).Return(&models.StudySession{
		ID:              7,
		UserID:          "u1",
		PlannedDuration: 25,
		Status:          models.SessionActive,
		StartTime:       start,
	}, nil)
	var saved *models.User
	repo.EXPECT().FinishSession(ctx, gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, s *models.StudySession, apply func(context.Context, *models.User) error) error {
			saved = &models.User{ID: "u1", Level: 1, Coins: 5, Experience: 150}
			return apply(ctx, saved)
		})

	result, err := svc.CompleteSession(ctx, 7)
	if err != nil {
		t.Fatalf("CompleteSession() error = %v", err)
	}

	// Banked experience past the threshold levels the user up even
	// though the short session paid nothing.
	if result.Session.RewardCoins != 0 || result.Session.RewardExperience != 0 {
		t.Errorf("reward = {%d, %d}, want {0, 0}",
			result.Session.RewardCoins, result.Session.RewardExperience)
	}
	if result.LevelInfo == nil {
		t.Fatal("expected level info")
	}
	if !result.LevelInfo.IsLevelUp || result.LevelInfo.Level != 2 {
		t.Errorf("levelInfo = {level %d, levelUp %v}, want {2, true}",
			result.LevelInfo.Level, result.LevelInfo.IsLevelUp)
	}
	if result.LevelInfo.LevelUpCoins != 200 || result.LevelInfo.Coins != 205 {
		t.Errorf("levelInfo coins = {bonus %d, total %d}, want {200, 205}",
			result.LevelInfo.LevelUpCoins, result.LevelInfo.Coins)
	}
	if saved == nil || saved.Level != 2 {
		t.Errorf("persisted user level = %+v, want 2", saved)
	}
}

func TestStartSession_GuardRejectsConcurrent(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mock.NewMockRepository(ctrl)
	guard := economy.NewUserGuard()
	guard.TryLock("u1")
	svc := NewService(repo, leveling.NewService(fakeLevels{}), guard)

	_, err := svc.StartSession(context.Background(), "u1", 25)
	if apperrors.KindOf(err) != apperrors.KindInvalidState {
		t.Fatalf("got kind %v, want invalid_state", apperrors.KindOf(err))
	}
}

func TestFailSession_GuardRejectsConcurrent(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mock.NewMockRepository(ctrl)
	guard := economy.NewUserGuard()
	guard.TryLock("u1")
	svc := NewService(repo, leveling.NewService(fakeLevels{}), guard)

	ctx := context.Background()
	repo.EXPECT().Session(ctx, int64(7)).Return(&models.StudySession{
		ID:     7,
		UserID: "u1",
		Status: models.SessionActive,
	}, nil)

	_, err := svc.FailSession(ctx, 7)
	if apperrors.KindOf(err) != apperrors.KindInvalidState {
		t.Fatalf("got kind %v, want invalid_state", apperrors.KindOf(err))
	}
}

func TestCompleteSession_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mock.NewMockRepository(ctrl)
	svc := newTestService(repo, time.Now())

	ctx := context.Background()
	repo.EXPECT().Session(ctx, int64(99)).
		Return(nil, &repositories.NotFoundError{Entity: "study_session", ID: int64(99)})

	_, err := svc.CompleteSession(ctx, 99)
	if apperrors.KindOf(err) != apperrors.KindNotFound {
		t.Fatalf("got kind %v, want not_found", apperrors.KindOf(err))
	}
	if apperrors.MessageOf(err) != "Session not found" {
		t.Errorf("got message %q", apperrors.MessageOf(err))
	}
}

func TestCompleteSession_NotActive(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mock.NewMockRepository(ctrl)
	svc := newTestService(repo, time.Now())

	ctx := context.Background()
	repo.EXPECT().Session(ctx, int64(7)).Return(&models.StudySession{
		ID:     7,
		UserID: "u1",
		Status: models.SessionCompleted,
	}, nil)

	_, err := svc.CompleteSession(ctx, 7)
	if apperrors.KindOf(err) != apperrors.KindInvalidState {
		t.Fatalf("got kind %v, want invalid_state", apperrors.KindOf(err))
	}
	if apperrors.MessageOf(err) != "Session is not active" {
		t.Errorf("got message %q", apperrors.MessageOf(err))
	}
}

func TestFailSession_KeepsMeasuredDuration(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mock.NewMockRepository(ctrl)
	start := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	svc := newTestService(repo, start.Add(12*time.Minute+40*time.Second))

	ctx := context.Background()
	repo.EXPECT().Session(ctx, int64(7)).Return(&models.StudySession{
		ID:              7,
		UserID:          "u1",
		PlannedDuration: 25,
		Status:          models.SessionActive,
		StartTime:       start,
	}, nil)
	repo.EXPECT().FinishSession(ctx, gomock.Any(), gomock.Any()).Return(nil)

	session, err := svc.FailSession(ctx, 7)
	if err != nil {
		t.Fatalf("FailSession() error = %v", err)
	}
	if session.Status != models.SessionFailed {
		t.Errorf("status = %s, want failed", session.Status)
	}
	// 12m40s counts as 12 whole minutes.
	if session.ActualDuration != 12 {
		t.Errorf("actualDuration = %d, want 12", session.ActualDuration)
	}
	if session.RewardCoins != 0 || session.RewardExperience != 0 {
		t.Errorf("failed session paid a reward: {%d, %d}",
			session.RewardCoins, session.RewardExperience)
	}
}

func TestMeasuredMinutes(t *testing.T) {
	start := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		elapsed time.Duration
		want    int64
	}{
		{"exact", 25 * time.Minute, 25},
		{"partial minute dropped", 25*time.Minute + 20*time.Second, 25},
		{"just short of the plan", 24*time.Minute + 40*time.Second, 24},
		{"one second short", 25*time.Minute - time.Second, 24},
		{"zero", 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := measuredMinutes(start, start.Add(tt.elapsed)); got != tt.want {
				t.Errorf("measuredMinutes(%v) = %d, want %d", tt.elapsed, got, tt.want)
			}
		})
	}
}
