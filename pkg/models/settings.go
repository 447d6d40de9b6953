package models

// Difficulty tiers
const (
	MinTier     = 1
	MaxTier     = 3
	DefaultTier = MinTier
)

// Settings stores user-specific preferences
type Settings struct {
	Tier          int  `json:"tier"`           // 1-3, gates which verbs are drilled
	DailyReminder bool `json:"daily_reminder"` // Remind after a day without training
}

// DefaultSettings returns the settings a new user starts with
func DefaultSettings() Settings {
	return Settings{Tier: DefaultTier}
}

// ClampTier forces a tier into the supported range
func ClampTier(tier int) int {
	if tier < MinTier {
		return MinTier
	}
	if tier > MaxTier {
		return MaxTier
	}
	return tier
}
