package services

import (
	"sort"
	"testing"
	"time"

	"github.com/ad/go-training-diary/internal/models"
)

func newTestEngine(repos *testRepos, now time.Time) *AchievementEngine {
	engine := NewAchievementEngine(repos.awards, newStatsService(repos, now))
	engine.now = func() time.Time { return now }
	return engine
}

func assertAwardedSet(t *testing.T, got []string, want []string) {
	t.Helper()
	gotSorted := append([]string(nil), got...)
	wantSorted := append([]string(nil), want...)
	sort.Strings(gotSorted)
	sort.Strings(wantSorted)
	if len(gotSorted) != len(wantSorted) {
		t.Fatalf("Awarded %v, want %v", gotSorted, wantSorted)
	}
	for i := range gotSorted {
		if gotSorted[i] != wantSorted[i] {
			t.Fatalf("Awarded %v, want %v", gotSorted, wantSorted)
		}
	}
}

func TestEvaluateUserAchievements(t *testing.T) {
	repos, cleanup := setupServicesTestDB(t)
	defer cleanup()

	seedUser(t, repos, 60)
	seedRace(t, repos, 60, raceSeed{
		name: "Казанский десяток", city: "Казань",
		date: "2026-05-10", distance: 10.0, finishTime: "50:00",
	})

	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	engine := newTestEngine(repos, now)

	awarded, err := engine.EvaluateUserAchievements(60)
	if err != nil {
		t.Fatalf("EvaluateUserAchievements failed: %v", err)
	}
	assertAwardedSet(t, awarded, []string{
		"first_competition", "ten_k_first", "first_result", "first_registration",
	})

	// A second run over the same data awards nothing
	awarded, err = engine.EvaluateUserAchievements(60)
	if err != nil {
		t.Fatalf("Second evaluation failed: %v", err)
	}
	if len(awarded) != 0 {
		t.Fatalf("Expected idempotent run, got new awards %v", awarded)
	}
}

func TestEvaluateUserAchievements_SkipsPreexistingAward(t *testing.T) {
	repos, cleanup := setupServicesTestDB(t)
	defer cleanup()

	seedUser(t, repos, 61)
	seedRace(t, repos, 61, raceSeed{
		name: "Казанский десяток", city: "Казань",
		date: "2026-05-10", distance: 10.0, finishTime: "50:00",
	})

	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	if err := repos.awards.Award(61, "first_competition", now); err != nil {
		t.Fatalf("Pre-award failed: %v", err)
	}

	engine := newTestEngine(repos, now)
	awarded, err := engine.EvaluateUserAchievements(61)
	if err != nil {
		t.Fatalf("EvaluateUserAchievements failed: %v", err)
	}
	assertAwardedSet(t, awarded, []string{
		"ten_k_first", "first_result", "first_registration",
	})

	ledger, err := repos.awards.GetUserAchievements(61)
	if err != nil {
		t.Fatalf("GetUserAchievements failed: %v", err)
	}
	if len(ledger) != 4 {
		t.Fatalf("Expected 4 ledger rows without duplicates, got %d", len(ledger))
	}
}

func TestEvaluateUserAchievements_NoPredicateNeverAwards(t *testing.T) {
	repos, cleanup := setupServicesTestDB(t)
	defer cleanup()

	seedUser(t, repos, 62)
	seedRace(t, repos, 62, raceSeed{
		name: "Казанский десяток", city: "Казань",
		date: "2026-05-10", distance: 10.0, finishTime: "50:00",
	})

	achievementCatalog = append(achievementCatalog, models.Achievement{
		ID:       "unwired_entry",
		Category: models.CategorySpecial,
		Name:     "Без условия",
		Level:    models.LevelWhite,
		Points:   5,
		Order:    99,
	})
	defer func() {
		achievementCatalog = achievementCatalog[:len(achievementCatalog)-1]
	}()

	engine := newTestEngine(repos, time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC))
	awarded, err := engine.EvaluateUserAchievements(62)
	if err != nil {
		t.Fatalf("EvaluateUserAchievements failed: %v", err)
	}
	for _, id := range awarded {
		if id == "unwired_entry" {
			t.Fatal("Entry without a predicate must never be awarded")
		}
	}

	has, err := repos.awards.HasAward(62, "unwired_entry")
	if err != nil {
		t.Fatalf("HasAward failed: %v", err)
	}
	if has {
		t.Fatal("Entry without a predicate must not reach the ledger")
	}
}

func TestEvaluateUserAchievements_EmptyUser(t *testing.T) {
	repos, cleanup := setupServicesTestDB(t)
	defer cleanup()

	seedUser(t, repos, 63)

	engine := newTestEngine(repos, time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC))
	awarded, err := engine.EvaluateUserAchievements(63)
	if err != nil {
		t.Fatalf("EvaluateUserAchievements failed: %v", err)
	}
	if len(awarded) != 0 {
		t.Fatalf("User without activity must earn nothing, got %v", awarded)
	}
}

func TestCatalogIntegrity(t *testing.T) {
	seen := make(map[string]struct{})
	for _, a := range achievementCatalog {
		if _, dup := seen[a.ID]; dup {
			t.Errorf("Duplicate catalog id %s", a.ID)
		}
		seen[a.ID] = struct{}{}

		if _, ok := achievementPredicates[a.ID]; !ok {
			t.Errorf("Catalog entry %s has no predicate", a.ID)
		}
		if _, ok := AchievementCategories[a.Category]; !ok {
			t.Errorf("Catalog entry %s has unknown category %s", a.ID, a.Category)
		}
		if _, ok := AchievementLevels[a.Level]; !ok {
			t.Errorf("Catalog entry %s has unknown level %s", a.ID, a.Level)
		}
		if a.Points <= 0 {
			t.Errorf("Catalog entry %s has no points", a.ID)
		}
	}

	for id := range achievementPredicates {
		if _, ok := GetAchievementByID(id); !ok {
			t.Errorf("Predicate %s has no catalog entry", id)
		}
	}
}
