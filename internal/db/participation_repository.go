package db

import (
	"database/sql"
	"time"

	"github.com/ad/go-training-diary/internal/models"
)

const dateLayout = "2006-01-02"

type ParticipationRepository struct {
	queue *DBQueue
}

func NewParticipationRepository(queue *DBQueue) *ParticipationRepository {
	return &ParticipationRepository{queue: queue}
}

// CreateCompetition inserts a competition and returns its id.
func (r *ParticipationRepository) CreateCompetition(c *models.Competition) (int64, error) {
	result, err := r.queue.Execute(func(db *sql.DB) (interface{}, error) {
		res, err := db.Exec(`
			INSERT INTO competitions (name, sport_type, comp_type, organizer, city, date)
			VALUES (?, ?, ?, ?, ?, ?)
		`, c.Name, c.SportType, c.CompType, c.Organizer, c.City, c.Date.Format(dateLayout))
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

// Register adds a user's entry to a competition.
func (r *ParticipationRepository) Register(p *models.Participation) (int64, error) {
	result, err := r.queue.Execute(func(db *sql.DB) (interface{}, error) {
		res, err := db.Exec(`
			INSERT INTO competition_participants
				(user_id, competition_id, distance, distance_name, status, target_time)
			VALUES (?, ?, ?, ?, ?, ?)
		`, p.UserID, p.CompetitionID, p.Distance, p.DistanceName,
			string(models.StatusRegistered), p.TargetTime)
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

// SaveResult records a finish time and placements for an entry and marks
// it finished.
func (r *ParticipationRepository) SaveResult(participationID int64, finishTime string, placeOverall, placeAgeCategory int, ageCategory string) error {
	_, err := r.queue.Execute(func(db *sql.DB) (interface{}, error) {
		_, err := db.Exec(`
			UPDATE competition_participants
			SET finish_time = ?, place_overall = ?, place_age_category = ?,
			    age_category = ?, status = ?
			WHERE id = ?
		`, finishTime, placeOverall, placeAgeCategory, ageCategory,
			string(models.StatusFinished), participationID)
		return nil, err
	})
	return err
}

// SetStatus updates the lifecycle status of an entry (dns, dnf).
func (r *ParticipationRepository) SetStatus(participationID int64, status models.ParticipationStatus) error {
	_, err := r.queue.Execute(func(db *sql.DB) (interface{}, error) {
		_, err := db.Exec(`
			UPDATE competition_participants SET status = ? WHERE id = ?
		`, string(status), participationID)
		return nil, err
	})
	return err
}

// GetByUser returns all entries of a user joined with their competitions,
// oldest first.
func (r *ParticipationRepository) GetByUser(userID int64) ([]models.Participation, error) {
	result, err := r.queue.Execute(func(db *sql.DB) (interface{}, error) {
		rows, err := db.Query(`
			SELECT p.id, p.user_id, p.competition_id, c.name, c.comp_type,
			       c.sport_type, c.organizer, c.city, c.date,
			       p.distance, p.distance_name, p.status, p.finish_time,
			       p.target_time, p.place_overall, p.place_age_category, p.age_category
			FROM competition_participants p
			JOIN competitions c ON c.id = p.competition_id
			WHERE p.user_id = ?
			ORDER BY c.date, p.id
		`, userID)
		if err != nil {
			return nil, err
		}
		defer rows.Close()

		var parts []models.Participation
		for rows.Next() {
			p, err := scanParticipation(rows)
			if err != nil {
				return nil, err
			}
			parts = append(parts, p)
		}
		return parts, rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return result.([]models.Participation), nil
}

// GetByID returns a single entry with its competition fields.
func (r *ParticipationRepository) GetByID(id int64) (*models.Participation, error) {
	result, err := r.queue.Execute(func(db *sql.DB) (interface{}, error) {
		rows, err := db.Query(`
			SELECT p.id, p.user_id, p.competition_id, c.name, c.comp_type,
			       c.sport_type, c.organizer, c.city, c.date,
			       p.distance, p.distance_name, p.status, p.finish_time,
			       p.target_time, p.place_overall, p.place_age_category, p.age_category
			FROM competition_participants p
			JOIN competitions c ON c.id = p.competition_id
			WHERE p.id = ?
		`, id)
		if err != nil {
			return nil, err
		}
		defer rows.Close()

		if !rows.Next() {
			return nil, sql.ErrNoRows
		}
		p, err := scanParticipation(rows)
		if err != nil {
			return nil, err
		}
		return &p, rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return result.(*models.Participation), nil
}

func scanParticipation(rows *sql.Rows) (models.Participation, error) {
	var p models.Participation
	var dateStr string
	var compType, organizer, city, distanceName sql.NullString
	var finishTime, targetTime, ageCategory sql.NullString
	var distance sql.NullFloat64
	var placeOverall, placeAge sql.NullInt64
	var status string

	err := rows.Scan(&p.ID, &p.UserID, &p.CompetitionID, &p.CompetitionName,
		&compType, &p.SportType, &organizer, &city, &dateStr,
		&distance, &distanceName, &status, &finishTime,
		&targetTime, &placeOverall, &placeAge, &ageCategory)
	if err != nil {
		return p, err
	}

	p.CompetitionType = compType.String
	p.Organizer = organizer.String
	p.City = city.String
	p.Distance = distance.Float64
	p.DistanceName = distanceName.String
	p.Status = models.ParticipationStatus(status)
	p.FinishTime = finishTime.String
	p.TargetTime = targetTime.String
	p.PlaceOverall = int(placeOverall.Int64)
	p.PlaceAgeCategory = int(placeAge.Int64)
	p.AgeCategory = ageCategory.String
	p.Date, _ = time.Parse(dateLayout, dateStr)
	return p, nil
}
