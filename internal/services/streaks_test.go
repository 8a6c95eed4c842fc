package services

import (
	"testing"
	"time"
)

func TestCompetitionMonthStreak(t *testing.T) {
	tests := []struct {
		name   string
		months []string
		want   int
	}{
		{"empty", nil, 0},
		{"single month", []string{"2026-03"}, 1},
		{"three consecutive", []string{"2026-01", "2026-02", "2026-03"}, 3},
		{"unsorted input", []string{"2026-03", "2026-01", "2026-02"}, 3},
		{"duplicates ignored", []string{"2026-03", "2026-03", "2026-02"}, 2},
		{"year rollover", []string{"2025-11", "2025-12", "2026-01"}, 3},
		{"gap breaks streak", []string{"2026-01", "2026-03"}, 1},
		{"gap after two", []string{"2025-10", "2026-02", "2026-03"}, 2},
		{"junk labels skipped", []string{"2026-03", "not-a-month", ""}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CompetitionMonthStreak(tt.months); got != tt.want {
				t.Errorf("CompetitionMonthStreak(%v) = %d, want %d", tt.months, got, tt.want)
			}
		})
	}
}

func TestTrainingDayStreak(t *testing.T) {
	day := func(offset int) time.Time {
		return time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, offset)
	}

	tests := []struct {
		name  string
		dates []time.Time
		want  int
	}{
		{"empty", nil, 0},
		{"single day", []time.Time{day(0)}, 1},
		{"week streak", []time.Time{day(0), day(1), day(2), day(3), day(4), day(5), day(6)}, 7},
		{"gap breaks streak", []time.Time{day(0), day(2), day(3)}, 2},
		{"two workouts same day", []time.Time{day(0), day(0), day(1)}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TrainingDayStreak(tt.dates); got != tt.want {
				t.Errorf("TrainingDayStreak = %d, want %d", got, tt.want)
			}
		})
	}

	t.Run("time of day ignored", func(t *testing.T) {
		dates := []time.Time{
			time.Date(2026, 8, 1, 6, 30, 0, 0, time.UTC),
			time.Date(2026, 8, 2, 19, 0, 0, 0, time.UTC),
		}
		if got := TrainingDayStreak(dates); got != 2 {
			t.Errorf("Expected streak 2, got %d", got)
		}
	})

	t.Run("only 30 most recent dates counted", func(t *testing.T) {
		var dates []time.Time
		for i := 0; i < 45; i++ {
			dates = append(dates, day(i))
		}
		if got := TrainingDayStreak(dates); got != 30 {
			t.Errorf("Expected streak capped at 30, got %d", got)
		}
	})
}
