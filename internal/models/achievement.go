package models

import "time"

type AchievementCategory string

const (
	CategoryCompetitions AchievementCategory = "competitions"
	CategoryResults      AchievementCategory = "results"
	CategoryActivity     AchievementCategory = "activity"
	CategoryGeography    AchievementCategory = "geography"
	CategorySpecial      AchievementCategory = "special"
)

type AchievementLevel string

const (
	LevelWhite  AchievementLevel = "white"
	LevelGreen  AchievementLevel = "green"
	LevelBlue   AchievementLevel = "blue"
	LevelPurple AchievementLevel = "purple"
	LevelGold   AchievementLevel = "gold"
)

// Achievement is a static catalog entry. The catalog lives in code, the
// database only stores which entries a user has earned.
type Achievement struct {
	ID          string
	Category    AchievementCategory
	Emoji       string
	Name        string
	Description string
	Level       AchievementLevel
	Points      int
	Order       int
}

// UserAchievement is one row of the append-only award ledger.
type UserAchievement struct {
	ID            int64
	UserID        int64
	AchievementID string
	AwardedAt     time.Time
}

// CategoryInfo describes how a category is rendered in lists.
type CategoryInfo struct {
	Name  string
	Emoji string
	Order int
}

// LevelInfo describes how an award level is rendered.
type LevelInfo struct {
	Name  string
	Emoji string
	Order int
}
