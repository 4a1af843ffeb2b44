package leveling

// UserLevelInfo is the reward summary returned after coins and
// experience are applied, shaped for the client's level-up screen.
type UserLevelInfo struct {
	Level      int   `json:"level"`
	Coins      int64 `json:"coins"`
	Experience int64 `json:"experience"`

	IsLevelUp    bool  `json:"isLevelUp"`
	LevelUpCoins int64 `json:"levelUpCoins"`

	// Progress toward the next level. Zero when the user has outgrown
	// the seeded level curve.
	NextLevelNeededExperience int64 `json:"nextLevelNeededExperience"`
	NextLevelExperience       int64 `json:"nextLevelExperience"`
}
