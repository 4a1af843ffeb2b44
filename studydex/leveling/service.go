package leveling

import (
	"context"

	"github.com/studydex/studydex/studydex/database/models"
	"github.com/studydex/studydex/studydex/database/repositories"
)

// Service applies coin and experience rewards to a user and advances
// their level against the seeded level curve.
type Service struct {
	levels repositories.LevelRepository
}

func NewService(levels repositories.LevelRepository) *Service {
	return &Service{levels: levels}
}

// ApplyReward credits coins and experience to the user in memory and
// advances at most one level per call. Callers persist the mutated user
// inside their own transaction.
//
// A user sitting on enough experience for several levels still climbs
// one level per reward. That matches the client, which shows a single
// level-up animation per session.
func (s *Service) ApplyReward(ctx context.Context, user *models.User, coins, experience int64) (*UserLevelInfo, error) {
	user.Coins += coins
	user.Experience += experience

	info := &UserLevelInfo{}

	next, err := s.levels.GetByLevel(ctx, user.Level+1)
	if err != nil {
		return nil, err
	}
	if next != nil && user.Experience >= next.ExperienceRequired {
		user.Level++
		user.Coins += next.RewardCoins
		info.IsLevelUp = true
		info.LevelUpCoins = next.RewardCoins
	}

	// Lookahead for the level after the (possibly new) current one.
	ahead, err := s.levels.GetByLevel(ctx, user.Level+1)
	if err != nil {
		return nil, err
	}
	if ahead != nil {
		info.NextLevelExperience = ahead.ExperienceRequired
		info.NextLevelNeededExperience = ahead.ExperienceRequired - user.Experience
		if info.NextLevelNeededExperience < 0 {
			info.NextLevelNeededExperience = 0
		}
	}

	info.Level = user.Level
	info.Coins = user.Coins
	info.Experience = user.Experience
	return info, nil
}

// Progress reports the user's current level progress without applying
// any reward or advancing the level.
func (s *Service) Progress(ctx context.Context, user *models.User) (*UserLevelInfo, error) {
	info := &UserLevelInfo{
		Level:      user.Level,
		Coins:      user.Coins,
		Experience: user.Experience,
	}

	next, err := s.levels.GetByLevel(ctx, user.Level+1)
	if err != nil {
		return nil, err
	}
	if next != nil {
		info.NextLevelExperience = next.ExperienceRequired
		info.NextLevelNeededExperience = next.ExperienceRequired - user.Experience
		if info.NextLevelNeededExperience < 0 {
			info.NextLevelNeededExperience = 0
		}
	}
	return info, nil
}
