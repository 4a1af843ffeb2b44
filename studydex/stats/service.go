package stats

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"log/slog"

	"github.com/go-redis/redis/v8"
	"github.com/studydex/studydex/studydex/apperrors"
	"github.com/studydex/studydex/studydex/database/models"
	"github.com/studydex/studydex/studydex/database/repositories"
	"golang.org/x/sync/errgroup"
)

const leaderboardCacheTTL = 5 * time.Minute

// DayStat is one weekday bucket of a user's weekly summary. TotalMinutes
// covers every session started that day; CompletedMinutes only those
// that finished successfully.
type DayStat struct {
	Weekday          string `json:"weekday"`
	TotalMinutes     int64  `json:"totalMinutes"`
	CompletedMinutes int64  `json:"completedMinutes"`
	Sessions         int    `json:"sessions"`
}

// WeeklyStats summarizes a user's sessions for the current study week.
type WeeklyStats struct {
	WeekStart        time.Time  `json:"weekStart"`
	Days             [7]DayStat `json:"days"`
	TotalMinutes     int64      `json:"totalMinutes"`
	CompletedMinutes int64      `json:"completedMinutes"`
	TotalSessions    int        `json:"totalSessions"`
}

// Leaderboards holds both weekly rankings.
type Leaderboards struct {
	Minutes []repositories.LeaderboardRow `json:"minutes"`
	Points  []repositories.LeaderboardRow `json:"points"`
}

// Service computes weekly study summaries and leaderboards.
type Service struct {
	sessions repositories.SessionRepository
	users    repositories.UserRepository
	cache    *redis.Client
	loc      *time.Location
	now      func() time.Time
}

func NewService(sessions repositories.SessionRepository, users repositories.UserRepository, cache *redis.Client) (*Service, error) {
	loc, err := time.LoadLocation(TimezoneName)
	if err != nil {
		return nil, fmt.Errorf("failed to load timezone %s: %w", TimezoneName, err)
	}
	return &Service{
		sessions: sessions,
		users:    users,
		cache:    cache,
		loc:      loc,
		now:      time.Now,
	}, nil
}

// WeeklyStats buckets the user's sessions by the weekday they started.
// Every session counts towards the day's total minutes; only completed
// ones count towards the completed minutes.
func (s *Service) WeeklyStats(ctx context.Context, userID string) (*WeeklyStats, error) {
	from, to := WeekBounds(s.now(), s.loc)

	sessions, err := s.sessions.GetInRange(ctx, userID, from, to)
	if err != nil {
		return nil, apperrors.Internal("Failed to load weekly sessions", err)
	}

	out := &WeeklyStats{WeekStart: from}
	for i := range out.Days {
		out.Days[i].Weekday = time.Weekday(i).String()
	}
	for _, sess := range sessions {
		i := DayIndex(sess.StartTime, s.loc)
		out.Days[i].TotalMinutes += sess.ActualDuration
		out.Days[i].Sessions++
		out.TotalMinutes += sess.ActualDuration
		out.TotalSessions++
		if sess.Status == models.SessionCompleted {
			out.Days[i].CompletedMinutes += sess.ActualDuration
			out.CompletedMinutes += sess.ActualDuration
		}
	}
	return out, nil
}

// WeeklyLeaderboards returns this week's rankings for a user and their
// friends, by studied minutes and by earned coins. Friends with no
// completed sessions still appear with a zero score. Both queries run
// concurrently; results are cached in Redis for a few minutes since the
// client polls them.
func (s *Service) WeeklyLeaderboards(ctx context.Context, userID string) (*Leaderboards, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if repositories.IsNotFound(err) {
			return nil, apperrors.NotFound("User not found", err)
		}
		return nil, apperrors.Internal("Failed to load user", err)
	}

	from, to := WeekBounds(s.now(), s.loc)
	cacheKey := fmt.Sprintf("leaderboards:%s:%s", from.Format("2006-01-02"), userID)

	if cached := s.readCache(ctx, cacheKey); cached != nil {
		return cached, nil
	}

	ids := append([]string{}, user.Friends...)
	ids = append(ids, userID)

	out := &Leaderboards{}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rows, err := s.sessions.MinutesLeaderboard(gctx, ids, from, to)
		if err != nil {
			return err
		}
		out.Minutes = rows
		return nil
	})
	g.Go(func() error {
		rows, err := s.sessions.PointsLeaderboard(gctx, ids, from, to)
		if err != nil {
			return err
		}
		out.Points = rows
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, apperrors.Internal("Failed to load leaderboards", err)
	}

	s.writeCache(ctx, cacheKey, out)
	return out, nil
}

func (s *Service) readCache(ctx context.Context, key string) *Leaderboards {
	if s.cache == nil {
		return nil
	}

	raw, err := s.cache.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			slog.Warn("Leaderboard cache read failed",
				slog.String("type", "system"),
				slog.Any("error", err),
			)
		}
		return nil
	}

	var out Leaderboards
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil
	}
	return &out
}

func (s *Service) writeCache(ctx context.Context, key string, lb *Leaderboards) {
	if s.cache == nil {
		return
	}

	raw, err := json.Marshal(lb)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, raw, leaderboardCacheTTL).Err(); err != nil {
		slog.Warn("Leaderboard cache write failed",
			slog.String("type", "system"),
			slog.Any("error", err),
		)
	}
}
