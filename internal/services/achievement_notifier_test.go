package services

import (
	"strings"
	"testing"
)

func TestFormatNotification(t *testing.T) {
	achievement, ok := GetAchievementByID("marathon_first")
	if !ok {
		t.Fatal("marathon_first missing from catalog")
	}

	msg := FormatNotification(achievement)
	for _, want := range []string{
		"🎉 Поздравляем! Вы получили достижение!",
		achievement.Name,
		achievement.Description,
		"+80 баллов к рейтингу",
	} {
		if !strings.Contains(msg, want) {
			t.Errorf("Notification missing %q:\n%s", want, msg)
		}
	}
}
