package db

import (
	"database/sql"
	"time"

	"github.com/ad/go-training-diary/internal/models"
)

// RecordRepository maintains the personal_records cache. A record row only
// ever moves toward faster times.
type RecordRepository struct {
	queue *DBQueue
}

func NewRecordRepository(queue *DBQueue) *RecordRepository {
	return &RecordRepository{queue: queue}
}

// UpsertIfBetter stores a result as the record for its distance unless an
// equal or faster one is already cached. Returns true when the record
// changed.
func (r *RecordRepository) UpsertIfBetter(rec *models.PersonalRecord) (bool, error) {
	result, err := r.queue.Execute(func(db *sql.DB) (interface{}, error) {
		res, err := db.Exec(`
			INSERT INTO personal_records (user_id, distance, best_time, best_seconds, competition_id, date)
			VALUES (?, ?, ?, ?, ?, ?)
			ON CONFLICT(user_id, distance) DO UPDATE SET
				best_time = excluded.best_time,
				best_seconds = excluded.best_seconds,
				competition_id = excluded.competition_id,
				date = excluded.date
			WHERE excluded.best_seconds < personal_records.best_seconds
		`, rec.UserID, rec.Distance, rec.BestTime, rec.BestSeconds,
			rec.CompetitionID, rec.Date.Format(dateLayout))
		if err != nil {
			return nil, err
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return nil, err
		}
		return affected > 0, nil
	})
	if err != nil {
		return false, err
	}
	return result.(bool), nil
}

// GetByUser returns the cached records, shortest distance first.
func (r *RecordRepository) GetByUser(userID int64) ([]models.PersonalRecord, error) {
	result, err := r.queue.Execute(func(db *sql.DB) (interface{}, error) {
		rows, err := db.Query(`
			SELECT user_id, distance, best_time, best_seconds, competition_id, date
			FROM personal_records
			WHERE user_id = ?
			ORDER BY distance
		`, userID)
		if err != nil {
			return nil, err
		}
		defer rows.Close()

		var records []models.PersonalRecord
		for rows.Next() {
			var rec models.PersonalRecord
			var dateStr sql.NullString
			if err := rows.Scan(&rec.UserID, &rec.Distance, &rec.BestTime,
				&rec.BestSeconds, &rec.CompetitionID, &dateStr); err != nil {
				return nil, err
			}
			rec.Date, _ = time.Parse(dateLayout, dateStr.String)
			records = append(records, rec)
		}
		return records, rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return result.([]models.PersonalRecord), nil
}

// CountDistances returns how many distances have a cached record.
func (r *RecordRepository) CountDistances(userID int64) (int, error) {
	result, err := r.queue.Execute(func(db *sql.DB) (interface{}, error) {
		var count int
		err := db.QueryRow(`
			SELECT COUNT(*) FROM personal_records WHERE user_id = ?
		`, userID).Scan(&count)
		return count, err
	})
	if err != nil {
		return 0, err
	}
	return result.(int), nil
}
