package services

import (
	"context"
	"fmt"
	"log"

	"github.com/ad/go-training-diary/internal/models"
	"github.com/go-telegram/bot"
)

// Notifier is the outbound boundary for achievement messages. The bot
// implements it in production, tests substitute a recorder.
type Notifier interface {
	NotifyAchievements(ctx context.Context, userID int64, achievementIDs []string) error
}

// AchievementNotifier sends award congratulations through Telegram. A
// delivery failure for one achievement is logged and never blocks the
// rest of the batch.
type AchievementNotifier struct {
	bot *bot.Bot
}

func NewAchievementNotifier(b *bot.Bot) *AchievementNotifier {
	return &AchievementNotifier{bot: b}
}

func FormatNotification(achievement models.Achievement) string {
	levelEmoji := AchievementLevels[achievement.Level].Emoji
	return fmt.Sprintf(
		"🎉 Поздравляем! Вы получили достижение!\n\n%s %s %s\n%s\n\n⭐ +%d баллов к рейтингу",
		achievement.Emoji,
		achievement.Name,
		levelEmoji,
		achievement.Description,
		achievement.Points,
	)
}

func (n *AchievementNotifier) NotifyAchievements(ctx context.Context, userID int64, achievementIDs []string) error {
	if len(achievementIDs) == 0 {
		return nil
	}

	for _, id := range achievementIDs {
		achievement, ok := GetAchievementByID(id)
		if !ok {
			log.Printf("[ACHIEVEMENT_NOTIFIER] Unknown achievement id %s, skipping", id)
			continue
		}
		if err := n.send(ctx, userID, FormatNotification(achievement)); err != nil {
			log.Printf("[ACHIEVEMENT_NOTIFIER] Error notifying user %d about %s: %v", userID, id, err)
		}
	}

	return nil
}

func (n *AchievementNotifier) send(ctx context.Context, userID int64, message string) error {
	_, err := n.bot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: userID,
		Text:   message,
	})
	return err
}
