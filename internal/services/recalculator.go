package services

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/ad/go-training-diary/internal/db"
)

// RecalcProgress reports the state of one batch recomputation run.
type RecalcProgress struct {
	TotalUsers     int
	ProcessedUsers int
	AwardedCount   int
	ErrorCount     int
	StartTime      time.Time
	EndTime        *time.Time
	IsRunning      bool
	Errors         []string
}

// Recalculator re-evaluates every user's records and achievements. Used
// by the nightly job and the standalone recalc binary, so that results
// imported behind the bot's back still produce awards.
type Recalculator struct {
	engine       *AchievementEngine
	statsService *UserStatsService
	userRepo     *db.UserRepository
	notifier     Notifier
	workers      int

	mu       sync.RWMutex
	progress *RecalcProgress
}

// NewRecalculator builds a batch runner. notifier may be nil, then awards
// are recorded silently.
func NewRecalculator(
	engine *AchievementEngine,
	statsService *UserStatsService,
	userRepo *db.UserRepository,
	notifier Notifier,
	workers int,
) *Recalculator {
	if workers <= 0 {
		workers = 4
	}
	return &Recalculator{
		engine:       engine,
		statsService: statsService,
		userRepo:     userRepo,
		notifier:     notifier,
		workers:      workers,
	}
}

// Run processes every user once and returns the final progress. Only one
// run can be active at a time.
func (r *Recalculator) Run(ctx context.Context) (*RecalcProgress, error) {
	r.mu.Lock()
	if r.progress != nil && r.progress.IsRunning {
		r.mu.Unlock()
		return nil, fmt.Errorf("recalculation already running")
	}
	progress := &RecalcProgress{StartTime: time.Now(), IsRunning: true}
	r.progress = progress
	r.mu.Unlock()

	defer func() {
		r.mu.Lock()
		progress.IsRunning = false
		now := time.Now()
		progress.EndTime = &now
		r.mu.Unlock()
	}()

	users, err := r.userRepo.GetAll()
	if err != nil {
		return progress, err
	}

	r.mu.Lock()
	progress.TotalUsers = len(users)
	r.mu.Unlock()

	jobs := make(chan int64)
	var wg sync.WaitGroup
	for i := 0; i < r.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for userID := range jobs {
				r.processUser(ctx, userID)
			}
		}()
	}

	log.Printf("[RECALCULATOR] Starting run for %d users with %d workers", len(users), r.workers)

feed:
	for _, user := range users {
		select {
		case <-ctx.Done():
			break feed
		case jobs <- user.ID:
		}
	}
	close(jobs)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		log.Printf("[RECALCULATOR] Run cancelled after %d of %d users", progress.ProcessedUsers, progress.TotalUsers)
		return progress, err
	}

	log.Printf("[RECALCULATOR] Run finished: %d users, %d awards, %d errors",
		progress.ProcessedUsers, progress.AwardedCount, progress.ErrorCount)
	return progress, nil
}

func (r *Recalculator) processUser(ctx context.Context, userID int64) {
	if err := r.statsService.RefreshPersonalRecords(userID); err != nil {
		r.recordError(fmt.Sprintf("user %d: records: %v", userID, err))
		return
	}

	newlyAwarded, err := r.engine.EvaluateUserAchievements(userID)
	if err != nil {
		r.recordError(fmt.Sprintf("user %d: evaluate: %v", userID, err))
		return
	}

	if len(newlyAwarded) > 0 && r.notifier != nil {
		if err := r.notifier.NotifyAchievements(ctx, userID, newlyAwarded); err != nil {
			log.Printf("[RECALCULATOR] Error notifying user %d: %v", userID, err)
		}
	}

	r.mu.Lock()
	r.progress.ProcessedUsers++
	r.progress.AwardedCount += len(newlyAwarded)
	r.mu.Unlock()
}

func (r *Recalculator) recordError(msg string) {
	log.Printf("[RECALCULATOR] %s", msg)
	r.mu.Lock()
	r.progress.ProcessedUsers++
	r.progress.ErrorCount++
	if len(r.progress.Errors) < 20 {
		r.progress.Errors = append(r.progress.Errors, msg)
	}
	r.mu.Unlock()
}

// Progress returns a copy of the latest run state, or nil when no run has
// started yet.
func (r *Recalculator) Progress() *RecalcProgress {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.progress == nil {
		return nil
	}
	copied := *r.progress
	return &copied
}
