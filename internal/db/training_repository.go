package db

import (
	"database/sql"
	"time"

	"github.com/ad/go-training-diary/internal/models"
)

type TrainingRepository struct {
	queue *DBQueue
}

func NewTrainingRepository(queue *DBQueue) *TrainingRepository {
	return &TrainingRepository{queue: queue}
}

func (r *TrainingRepository) Create(t *models.Training) (int64, error) {
	result, err := r.queue.Execute(func(db *sql.DB) (interface{}, error) {
		res, err := db.Exec(`
			INSERT INTO trainings (user_id, date, distance, start_time, comment)
			VALUES (?, ?, ?, ?, ?)
		`, t.UserID, t.Date.Format(dateLayout), t.Distance, t.StartTime, t.Comment)
		if err != nil {
			return nil, err
		}
		return res.LastInsertId()
	})
	if err != nil {
		return 0, err
	}
	return result.(int64), nil
}

// GetByUser returns the user's workouts, newest first.
func (r *TrainingRepository) GetByUser(userID int64) ([]models.Training, error) {
	result, err := r.queue.Execute(func(db *sql.DB) (interface{}, error) {
		rows, err := db.Query(`
			SELECT id, user_id, date, distance, start_time, comment
			FROM trainings
			WHERE user_id = ?
			ORDER BY date DESC, id DESC
		`, userID)
		if err != nil {
			return nil, err
		}
		defer rows.Close()

		var trainings []models.Training
		for rows.Next() {
			var t models.Training
			var dateStr string
			var startTime, comment sql.NullString
			var distance sql.NullFloat64
			if err := rows.Scan(&t.ID, &t.UserID, &dateStr, &distance, &startTime, &comment); err != nil {
				return nil, err
			}
			t.Distance = distance.Float64
			t.StartTime = startTime.String
			t.Comment = comment.String
			t.Date, _ = time.Parse(dateLayout, dateStr)
			trainings = append(trainings, t)
		}
		return trainings, rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return result.([]models.Training), nil
}
