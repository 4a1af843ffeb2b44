package stats

import (
	"context"
	"testing"
	"time"

	"github.com/studydex/studydex/studydex/apperrors"
	"github.com/studydex/studydex/studydex/database/models"
	"github.com/studydex/studydex/studydex/database/repositories"
)

// fakeSessions serves canned sessions and leaderboard rows.
type fakeSessions struct {
	repositories.SessionRepository

	sessions []*models.StudySession
	minutes  []repositories.LeaderboardRow
	points   []repositories.LeaderboardRow

	minutesCalls int
	pointsCalls  int
	lastIDs      []string
}

func (f *fakeSessions) GetInRange(_ context.Context, _ string, _, _ time.Time) ([]*models.StudySession, error) {
	return f.sessions, nil
}

func (f *fakeSessions) MinutesLeaderboard(_ context.Context, userIDs []string, _, _ time.Time) ([]repositories.LeaderboardRow, error) {
	f.minutesCalls++
	f.lastIDs = userIDs
	return f.minutes, nil
}

func (f *fakeSessions) PointsLeaderboard(_ context.Context, userIDs []string, _, _ time.Time) ([]repositories.LeaderboardRow, error) {
	f.pointsCalls++
	return f.points, nil
}

// fakeUsers serves a single canned user.
type fakeUsers struct {
	repositories.UserRepository

	user *models.User
}

func (f *fakeUsers) GetByID(_ context.Context, id string) (*models.User, error) {
	if f.user != nil && f.user.ID == id {
		return f.user, nil
	}
	return nil, &repositories.NotFoundError{Entity: "user", ID: id}
}

func sessionAt(t time.Time, status string, minutes int64) *models.StudySession {
	return &models.StudySession{
		Status:         status,
		StartTime:      t,
		ActualDuration: minutes,
	}
}

func TestWeeklyStats_Bucketing(t *testing.T) {
	loc := nzLocation(t)
	// Wednesday afternoon in Auckland; the week began Sunday 2025-03-09.
	now := time.Date(2025, 3, 12, 15, 0, 0, 0, loc)

	sunday := time.Date(2025, 3, 9, 10, 0, 0, 0, loc)
	wednesday := time.Date(2025, 3, 12, 9, 0, 0, 0, loc)

	repo := &fakeSessions{sessions: []*models.StudySession{
		sessionAt(sunday, models.SessionCompleted, 25),
		sessionAt(wednesday, models.SessionCompleted, 25),
		sessionAt(wednesday.Add(time.Hour), models.SessionFailed, 13),
	}}

	svc := &Service{sessions: repo, loc: loc, now: func() time.Time { return now }}

	stats, err := svc.WeeklyStats(context.Background(), "u1")
	if err != nil {
		t.Fatalf("WeeklyStats() error = %v", err)
	}

	wantStart := time.Date(2025, 3, 9, 0, 0, 0, 0, loc)
	if !stats.WeekStart.Equal(wantStart) {
		t.Errorf("weekStart = %v, want %v", stats.WeekStart, wantStart)
	}
	if stats.Days[0].Sessions != 1 || stats.Days[0].TotalMinutes != 25 || stats.Days[0].CompletedMinutes != 25 {
		t.Errorf("sunday bucket = %+v", stats.Days[0])
	}
	// The failed session counts towards the day total but not completed.
	if stats.Days[3].Sessions != 2 || stats.Days[3].TotalMinutes != 38 || stats.Days[3].CompletedMinutes != 25 {
		t.Errorf("wednesday bucket = %+v", stats.Days[3])
	}
	if stats.TotalSessions != 3 {
		t.Errorf("totalSessions = %d, want 3", stats.TotalSessions)
	}
	if stats.TotalMinutes != 63 {
		t.Errorf("totalMinutes = %d, want 63", stats.TotalMinutes)
	}
	if stats.CompletedMinutes != 50 {
		t.Errorf("completedMinutes = %d, want 50", stats.CompletedMinutes)
	}
	if stats.Days[0].Weekday != "Sunday" || stats.Days[6].Weekday != "Saturday" {
		t.Errorf("weekday labels = %q..%q", stats.Days[0].Weekday, stats.Days[6].Weekday)
	}
}

func TestWeeklyLeaderboards_NoCache(t *testing.T) {
	loc := nzLocation(t)
	repo := &fakeSessions{
		minutes: []repositories.LeaderboardRow{{UserID: "u1", Username: "alice", Value: 250}},
		points:  []repositories.LeaderboardRow{{UserID: "u2", Username: "bob", Value: 120}},
	}
	users := &fakeUsers{user: &models.User{ID: "u1", Friends: []string{"u2", "u3"}}}
	svc := &Service{sessions: repo, users: users, loc: loc, now: time.Now}

	lb, err := svc.WeeklyLeaderboards(context.Background(), "u1")
	if err != nil {
		t.Fatalf("WeeklyLeaderboards() error = %v", err)
	}

	if len(lb.Minutes) != 1 || lb.Minutes[0].Username != "alice" {
		t.Errorf("minutes = %+v", lb.Minutes)
	}
	if len(lb.Points) != 1 || lb.Points[0].Username != "bob" {
		t.Errorf("points = %+v", lb.Points)
	}
	if repo.minutesCalls != 1 || repo.pointsCalls != 1 {
		t.Errorf("calls = {%d, %d}, want {1, 1}", repo.minutesCalls, repo.pointsCalls)
	}
	// The user competes alongside their friends.
	if len(repo.lastIDs) != 3 {
		t.Errorf("queried ids = %v, want the user and both friends", repo.lastIDs)
	}
}

func TestWeeklyLeaderboards_UserNotFound(t *testing.T) {
	loc := nzLocation(t)
	svc := &Service{sessions: &fakeSessions{}, users: &fakeUsers{}, loc: loc, now: time.Now}

	_, err := svc.WeeklyLeaderboards(context.Background(), "ghost")
	if apperrors.KindOf(err) != apperrors.KindNotFound {
		t.Fatalf("got kind %v, want not_found", apperrors.KindOf(err))
	}
}
