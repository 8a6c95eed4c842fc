package services

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ad/go-training-diary/internal/models"
)

// AchievementDisplayText renders one catalog entry for a list. Locked
// entries get the padlock marker, earned ones a check mark.
func AchievementDisplayText(achievementID string, unlocked bool) string {
	achievement, ok := GetAchievementByID(achievementID)
	if !ok {
		return ""
	}

	levelEmoji := AchievementLevels[achievement.Level].Emoji
	check := ""
	lock := "🔒 "
	if unlocked {
		check = "✅ "
		lock = ""
	}

	return fmt.Sprintf("%s%s%s %s %s\n   %s\n   ⭐ %d баллов",
		check, lock, achievement.Emoji, achievement.Name, levelEmoji,
		achievement.Description, achievement.Points)
}

// CategoryAchievementsText renders a whole category with lock markers
// against the user's earned set.
func CategoryAchievementsText(category models.AchievementCategory, unlocked map[string]struct{}) string {
	info, ok := AchievementCategories[category]
	if !ok {
		return ""
	}

	lines := []string{fmt.Sprintf("\n%s %s", info.Emoji, info.Name)}
	for _, achievement := range AchievementsByCategory(category) {
		_, has := unlocked[achievement.ID]
		lines = append(lines, AchievementDisplayText(achievement.ID, has))
	}
	return strings.Join(lines, "\n")
}

// AllCategoriesText renders the full catalog grouped by category.
func AllCategoriesText(unlocked map[string]struct{}) string {
	categories := make([]models.AchievementCategory, 0, len(AchievementCategories))
	for category := range AchievementCategories {
		categories = append(categories, category)
	}
	sort.Slice(categories, func(i, j int) bool {
		return AchievementCategories[categories[i]].Order < AchievementCategories[categories[j]].Order
	})

	var b strings.Builder
	b.WriteString("🏆 Достижения\n")
	fmt.Fprintf(&b, "Получено: %d из %d\n", len(unlocked), len(achievementCatalog))
	for _, category := range categories {
		b.WriteString(CategoryAchievementsText(category, unlocked))
		b.WriteString("\n")
	}
	return b.String()
}

// LeaderboardEntry is one row of the points ranking.
type LeaderboardEntry struct {
	UserID int64
	Name   string
	Count  int
	Points int
}

// FormatLeaderboard renders the top entries, highest points first.
func FormatLeaderboard(entries []LeaderboardEntry, limit int) string {
	if len(entries) == 0 {
		return "🏆 Рейтинг пока пуст"
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Points != entries[j].Points {
			return entries[i].Points > entries[j].Points
		}
		return entries[i].Count > entries[j].Count
	})
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}

	medals := []string{"🥇", "🥈", "🥉"}
	var b strings.Builder
	b.WriteString("🏆 <b>Рейтинг по достижениям</b>\n\n")
	for i, entry := range entries {
		marker := fmt.Sprintf("%d.", i+1)
		if i < len(medals) {
			marker = medals[i]
		}
		fmt.Fprintf(&b, "%s %s — %d баллов (%d достижений)\n", marker, entry.Name, entry.Points, entry.Count)
	}
	return b.String()
}
