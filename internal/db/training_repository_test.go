package db

import (
	"testing"
	"time"

	"github.com/ad/go-training-diary/internal/models"
)

func TestTrainingCreateAndGet(t *testing.T) {
	queue, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewTrainingRepository(queue)
	createTestUser(t, queue, 40)

	if _, err := repo.Create(&models.Training{
		UserID:   40,
		Date:     time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
		Distance: 10.5,
		Comment:  "лёгкий темп",
	}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := repo.Create(&models.Training{
		UserID:    40,
		Date:      time.Date(2026, 2, 3, 0, 0, 0, 0, time.UTC),
		Distance:  6.0,
		StartTime: "06:30",
	}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	trainings, err := repo.GetByUser(40)
	if err != nil {
		t.Fatalf("GetByUser failed: %v", err)
	}
	if len(trainings) != 2 {
		t.Fatalf("Expected 2 trainings, got %d", len(trainings))
	}
	// Newest first
	if trainings[0].Date.Format("2006-01-02") != "2026-02-03" {
		t.Fatalf("Expected newest training first, got %v", trainings[0].Date)
	}
	if trainings[0].StartTime != "06:30" {
		t.Fatalf("Expected start time 06:30, got %q", trainings[0].StartTime)
	}
	if trainings[1].Comment != "лёгкий темп" {
		t.Fatalf("Expected comment to round-trip, got %q", trainings[1].Comment)
	}
}
