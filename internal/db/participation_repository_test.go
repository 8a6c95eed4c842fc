package db

import (
	"testing"
	"time"

	"github.com/ad/go-training-diary/internal/models"
)

func TestRegisterAndSaveResult(t *testing.T) {
	queue, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewParticipationRepository(queue)
	createTestUser(t, queue, 30)

	compID, err := repo.CreateCompetition(&models.Competition{
		Name:      "Московский марафон",
		SportType: models.SportRunning,
		CompType:  "шоссе",
		Organizer: "Беговое сообщество",
		City:      "Москва",
		Date:      time.Date(2026, 9, 20, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("CreateCompetition failed: %v", err)
	}

	partID, err := repo.Register(&models.Participation{
		UserID:        30,
		CompetitionID: compID,
		Distance:      42.195,
		DistanceName:  "марафон",
		TargetTime:    "3:50:00",
	})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	p, err := repo.GetByID(partID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if p.Status != models.StatusRegistered {
		t.Fatalf("Expected status registered, got %s", p.Status)
	}
	if p.CompetitionName != "Московский марафон" || p.City != "Москва" {
		t.Fatalf("Competition fields not joined: %+v", p)
	}
	if p.Date.Format("2006-01-02") != "2026-09-20" {
		t.Fatalf("Expected date 2026-09-20, got %v", p.Date)
	}
	if p.HasResult() {
		t.Fatal("Entry without finish time must not have a result")
	}

	if err := repo.SaveResult(partID, "3:45:10", 154, 12, "M40"); err != nil {
		t.Fatalf("SaveResult failed: %v", err)
	}

	p, err = repo.GetByID(partID)
	if err != nil {
		t.Fatalf("GetByID after result failed: %v", err)
	}
	if p.Status != models.StatusFinished {
		t.Fatalf("Expected status finished, got %s", p.Status)
	}
	if p.FinishTime != "3:45:10" || p.PlaceOverall != 154 || p.PlaceAgeCategory != 12 || p.AgeCategory != "M40" {
		t.Fatalf("Result fields not saved: %+v", p)
	}
	if !p.HasResult() {
		t.Fatal("Entry with finish time must have a result")
	}
}

func TestSetStatus(t *testing.T) {
	queue, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewParticipationRepository(queue)
	createTestUser(t, queue, 31)

	compID, err := repo.CreateCompetition(&models.Competition{
		Name:      "Забег выходного дня",
		SportType: models.SportRunning,
		Date:      time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("CreateCompetition failed: %v", err)
	}

	partID, err := repo.Register(&models.Participation{
		UserID:        31,
		CompetitionID: compID,
		Distance:      10.0,
	})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	if err := repo.SetStatus(partID, models.StatusDNF); err != nil {
		t.Fatalf("SetStatus failed: %v", err)
	}

	p, err := repo.GetByID(partID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if p.Status != models.StatusDNF {
		t.Fatalf("Expected status dnf, got %s", p.Status)
	}
}

func TestGetByUserOrderedByDate(t *testing.T) {
	queue, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewParticipationRepository(queue)
	createTestUser(t, queue, 32)

	dates := []time.Time{
		time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 4, 5, 0, 0, 0, 0, time.UTC),
	}
	for i, date := range dates {
		compID, err := repo.CreateCompetition(&models.Competition{
			Name:      "Старт",
			SportType: models.SportRunning,
			Date:      date,
		})
		if err != nil {
			t.Fatalf("CreateCompetition %d failed: %v", i, err)
		}
		if _, err := repo.Register(&models.Participation{
			UserID:        32,
			CompetitionID: compID,
			Distance:      5.0,
		}); err != nil {
			t.Fatalf("Register %d failed: %v", i, err)
		}
	}

	parts, err := repo.GetByUser(32)
	if err != nil {
		t.Fatalf("GetByUser failed: %v", err)
	}
	if len(parts) != 3 {
		t.Fatalf("Expected 3 entries, got %d", len(parts))
	}
	for i := 1; i < len(parts); i++ {
		if parts[i].Date.Before(parts[i-1].Date) {
			t.Fatalf("Entries not ordered by date: %v after %v", parts[i].Date, parts[i-1].Date)
		}
	}
}
