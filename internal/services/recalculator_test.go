package services

import (
	"context"
	"sync"
	"testing"
	"time"
)

type recordingNotifier struct {
	mu    sync.Mutex
	calls map[int64][]string
}

func newRecordingNotifier() *recordingNotifier {
	return &recordingNotifier{calls: make(map[int64][]string)}
}

func (n *recordingNotifier) NotifyAchievements(_ context.Context, userID int64, achievementIDs []string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls[userID] = append(n.calls[userID], achievementIDs...)
	return nil
}

func TestRecalculatorRun(t *testing.T) {
	repos, cleanup := setupServicesTestDB(t)
	defer cleanup()

	seedUser(t, repos, 70)
	seedUser(t, repos, 71)
	seedRace(t, repos, 70, raceSeed{
		name: "Казанский десяток", city: "Казань",
		date: "2026-05-10", distance: 10.0, finishTime: "50:00",
	})

	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	notifier := newRecordingNotifier()
	recalc := NewRecalculator(newTestEngine(repos, now), newStatsService(repos, now), repos.users, notifier, 2)

	progress, err := recalc.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if progress.TotalUsers != 2 || progress.ProcessedUsers != 2 {
		t.Fatalf("Expected 2 users processed, got %+v", progress)
	}
	if progress.AwardedCount != 4 {
		t.Fatalf("Expected 4 awards for the active user, got %d", progress.AwardedCount)
	}
	if progress.ErrorCount != 0 {
		t.Fatalf("Expected no errors, got %v", progress.Errors)
	}
	if progress.IsRunning {
		t.Fatal("Run must be marked finished")
	}
	if progress.EndTime == nil {
		t.Fatal("Finished run must carry an end time")
	}

	if len(notifier.calls[70]) != 4 {
		t.Fatalf("Expected 4 notifications for user 70, got %v", notifier.calls[70])
	}
	if len(notifier.calls[71]) != 0 {
		t.Fatalf("Expected no notifications for inactive user, got %v", notifier.calls[71])
	}

	// Records refreshed as part of the run
	count, err := repos.records.CountDistances(70)
	if err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Fatalf("Expected 1 record distance after run, got %d", count)
	}

	// Second run changes nothing and notifies nobody
	progress, err = recalc.Run(context.Background())
	if err != nil {
		t.Fatalf("Second run failed: %v", err)
	}
	if progress.AwardedCount != 0 {
		t.Fatalf("Expected idempotent second run, got %d awards", progress.AwardedCount)
	}
}

func TestRecalculatorRunCancelled(t *testing.T) {
	repos, cleanup := setupServicesTestDB(t)
	defer cleanup()

	seedUser(t, repos, 72)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	recalc := NewRecalculator(newTestEngine(repos, now), newStatsService(repos, now), repos.users, nil, 1)

	progress, err := recalc.Run(ctx)
	if err == nil {
		t.Fatal("Expected context error from cancelled run")
	}
	if progress == nil || progress.IsRunning {
		t.Fatal("Cancelled run must still finish its progress record")
	}
}

func TestRecalculatorNilNotifier(t *testing.T) {
	repos, cleanup := setupServicesTestDB(t)
	defer cleanup()

	seedUser(t, repos, 73)
	seedRace(t, repos, 73, raceSeed{
		name: "Казанский десяток", city: "Казань",
		date: "2026-05-10", distance: 10.0, finishTime: "50:00",
	})

	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	recalc := NewRecalculator(newTestEngine(repos, now), newStatsService(repos, now), repos.users, nil, 1)

	progress, err := recalc.Run(context.Background())
	if err != nil {
		t.Fatalf("Run without notifier failed: %v", err)
	}
	if progress.AwardedCount != 4 {
		t.Fatalf("Expected 4 awards, got %d", progress.AwardedCount)
	}
}
