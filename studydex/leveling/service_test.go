package leveling

import (
	"context"
	"testing"

	"github.com/studydex/studydex/studydex/database/models"
)

// fakeLevels serves a fixed level curve from memory.
type fakeLevels struct {
	curve map[int]*models.LevelRequirement
}

func (f *fakeLevels) GetByLevel(_ context.Context, level int) (*models.LevelRequirement, error) {
	return f.curve[level], nil
}

func (f *fakeLevels) GetAll(_ context.Context) ([]*models.LevelRequirement, error) {
	out := make([]*models.LevelRequirement, 0, len(f.curve))
	for _, lr := range f.curve {
		out = append(out, lr)
	}
	return out, nil
}

func testCurve() *fakeLevels {
	return &fakeLevels{curve: map[int]*models.LevelRequirement{
		2: {Level: 2, ExperienceRequired: 100, RewardCoins: 200},
		3: {Level: 3, ExperienceRequired: 200, RewardCoins: 300},
	}}
}

func TestApplyReward_NoLevelUp(t *testing.T) {
	svc := NewService(testCurve())
	user := &models.User{ID: "u1", Level: 1, Coins: 10, Experience: 30}

	info, err := svc.ApplyReward(context.Background(), user, 50, 20)
	if err != nil {
		t.Fatalf("ApplyReward() error = %v", err)
	}

	if info.IsLevelUp {
		t.Error("unexpected level-up")
	}
	if user.Level != 1 {
		t.Errorf("level = %d, want 1", user.Level)
	}
	if user.Coins != 60 {
		t.Errorf("coins = %d, want 60", user.Coins)
	}
	if user.Experience != 50 {
		t.Errorf("experience = %d, want 50", user.Experience)
	}
	if info.NextLevelExperience != 100 {
		t.Errorf("nextLevelExperience = %d, want 100", info.NextLevelExperience)
	}
	if info.NextLevelNeededExperience != 50 {
		t.Errorf("nextLevelNeededExperience = %d, want 50", info.NextLevelNeededExperience)
	}
}

func TestApplyReward_LevelUp(t *testing.T) {
	svc := NewService(testCurve())
	user := &models.User{ID: "u1", Level: 1, Coins: 10, Experience: 90}

	info, err := svc.ApplyReward(context.Background(), user, 50, 20)
	if err != nil {
		t.Fatalf("ApplyReward() error = %v", err)
	}

	if !info.IsLevelUp {
		t.Fatal("expected a level-up")
	}
	if user.Level != 2 {
		t.Errorf("level = %d, want 2", user.Level)
	}
	if info.LevelUpCoins != 200 {
		t.Errorf("levelUpCoins = %d, want 200", info.LevelUpCoins)
	}
	// 10 base + 50 reward + 200 level bonus.
	if user.Coins != 260 {
		t.Errorf("coins = %d, want 260", user.Coins)
	}
	if info.NextLevelExperience != 200 {
		t.Errorf("nextLevelExperience = %d, want 200", info.NextLevelExperience)
	}
	if info.NextLevelNeededExperience != 90 {
		t.Errorf("nextLevelNeededExperience = %d, want 90", info.NextLevelNeededExperience)
	}
}

func TestApplyReward_SingleStepOnly(t *testing.T) {
	svc := NewService(testCurve())
	// Enough experience for level 3 outright, but rewards advance one
	// level at a time.
	user := &models.User{ID: "u1", Level: 1, Coins: 0, Experience: 500}

	info, err := svc.ApplyReward(context.Background(), user, 0, 100)
	if err != nil {
		t.Fatalf("ApplyReward() error = %v", err)
	}

	if user.Level != 2 {
		t.Errorf("level = %d, want 2", user.Level)
	}
	if !info.IsLevelUp {
		t.Error("expected a level-up")
	}
	if info.NextLevelNeededExperience != 0 {
		t.Errorf("nextLevelNeededExperience = %d, want 0 (clamped)", info.NextLevelNeededExperience)
	}
}

func TestApplyReward_BeyondCurve(t *testing.T) {
	svc := NewService(&fakeLevels{curve: map[int]*models.LevelRequirement{}})
	user := &models.User{ID: "u1", Level: 50, Coins: 5, Experience: 99999}

	info, err := svc.ApplyReward(context.Background(), user, 50, 20)
	if err != nil {
		t.Fatalf("ApplyReward() error = %v", err)
	}

	if info.IsLevelUp {
		t.Error("unexpected level-up past the curve")
	}
	if user.Level != 50 {
		t.Errorf("level = %d, want 50", user.Level)
	}
	if info.NextLevelExperience != 0 {
		t.Errorf("nextLevelExperience = %d, want 0", info.NextLevelExperience)
	}
}

func TestProgress_DoesNotMutate(t *testing.T) {
	svc := NewService(testCurve())
	user := &models.User{ID: "u1", Level: 1, Coins: 10, Experience: 150}

	info, err := svc.Progress(context.Background(), user)
	if err != nil {
		t.Fatalf("Progress() error = %v", err)
	}

	if info.IsLevelUp {
		t.Error("Progress() must never report a level-up")
	}
	if user.Level != 1 || user.Coins != 10 || user.Experience != 150 {
		t.Errorf("user mutated: %+v", user)
	}
	if info.Level != 1 {
		t.Errorf("level = %d, want 1", info.Level)
	}
	if info.NextLevelNeededExperience != 0 {
		t.Errorf("nextLevelNeededExperience = %d, want 0 (clamped)", info.NextLevelNeededExperience)
	}
}
