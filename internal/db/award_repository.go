package db

import (
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/ad/go-training-diary/internal/models"
)

// ErrDuplicateAward is returned by Award when the ledger already holds the
// same (user, achievement) pair. The engine treats it as already awarded.
var ErrDuplicateAward = errors.New("achievement already awarded")

// AwardRepository is the append-only ledger of earned achievements.
type AwardRepository struct {
	queue *DBQueue
}

func NewAwardRepository(queue *DBQueue) *AwardRepository {
	return &AwardRepository{queue: queue}
}

// Award appends one ledger row. Duplicates are rejected by the unique
// index and surface as ErrDuplicateAward.
func (r *AwardRepository) Award(userID int64, achievementID string, awardedAt time.Time) error {
	_, err := r.queue.Execute(func(db *sql.DB) (interface{}, error) {
		_, err := db.Exec(`
			INSERT INTO user_achievements (user_id, achievement_id, awarded_at)
			VALUES (?, ?, ?)
		`, userID, achievementID, awardedAt)
		if err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return nil, ErrDuplicateAward
		}
		return nil, err
	})
	return err
}

func (r *AwardRepository) HasAward(userID int64, achievementID string) (bool, error) {
	result, err := r.queue.Execute(func(db *sql.DB) (interface{}, error) {
		var count int
		err := db.QueryRow(`
			SELECT COUNT(*) FROM user_achievements
			WHERE user_id = ? AND achievement_id = ?
		`, userID, achievementID).Scan(&count)
		return count > 0, err
	})
	if err != nil {
		return false, err
	}
	return result.(bool), nil
}

// GetAwardedIDs returns the set of achievement ids the user holds.
func (r *AwardRepository) GetAwardedIDs(userID int64) (map[string]struct{}, error) {
	result, err := r.queue.Execute(func(db *sql.DB) (interface{}, error) {
		rows, err := db.Query(`
			SELECT achievement_id FROM user_achievements WHERE user_id = ?
		`, userID)
		if err != nil {
			return nil, err
		}
		defer rows.Close()

		ids := make(map[string]struct{})
		for rows.Next() {
			var id string
			if err := rows.Scan(&id); err != nil {
				return nil, err
			}
			ids[id] = struct{}{}
		}
		return ids, rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return result.(map[string]struct{}), nil
}

// GetUserAchievements returns the user's ledger rows, newest first.
func (r *AwardRepository) GetUserAchievements(userID int64) ([]models.UserAchievement, error) {
	result, err := r.queue.Execute(func(db *sql.DB) (interface{}, error) {
		rows, err := db.Query(`
			SELECT id, user_id, achievement_id, awarded_at
			FROM user_achievements
			WHERE user_id = ?
			ORDER BY awarded_at DESC, id DESC
		`, userID)
		if err != nil {
			return nil, err
		}
		defer rows.Close()

		var awards []models.UserAchievement
		for rows.Next() {
			var ua models.UserAchievement
			if err := rows.Scan(&ua.ID, &ua.UserID, &ua.AchievementID, &ua.AwardedAt); err != nil {
				return nil, err
			}
			awards = append(awards, ua)
		}
		return awards, rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return result.([]models.UserAchievement), nil
}

// GetAwardsGroupedByUser returns every user's achievement ids, for
// leaderboard building.
func (r *AwardRepository) GetAwardsGroupedByUser() (map[int64][]string, error) {
	result, err := r.queue.Execute(func(db *sql.DB) (interface{}, error) {
		rows, err := db.Query(`
			SELECT user_id, achievement_id FROM user_achievements
		`)
		if err != nil {
			return nil, err
		}
		defer rows.Close()

		grouped := make(map[int64][]string)
		for rows.Next() {
			var userID int64
			var id string
			if err := rows.Scan(&userID, &id); err != nil {
				return nil, err
			}
			grouped[userID] = append(grouped[userID], id)
		}
		return grouped, rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return result.(map[int64][]string), nil
}
