package services

import (
	"errors"
	"log"
	"time"

	"github.com/ad/go-training-diary/internal/db"
)

// AchievementEngine walks the catalog for one user and appends newly
// earned achievements to the ledger. Safe to run at any time: the run is
// idempotent, a repeat evaluation awards nothing new.
type AchievementEngine struct {
	awardRepo    *db.AwardRepository
	statsService *UserStatsService
	now          func() time.Time
}

func NewAchievementEngine(awardRepo *db.AwardRepository, statsService *UserStatsService) *AchievementEngine {
	return &AchievementEngine{
		awardRepo:    awardRepo,
		statsService: statsService,
		now:          time.Now,
	}
}

// EvaluateUserAchievements builds one stats snapshot, checks every
// not-yet-earned catalog entry against it and records the passes. Returns
// the ids awarded by this run.
func (e *AchievementEngine) EvaluateUserAchievements(userID int64) ([]string, error) {
	awarded, err := e.awardRepo.GetAwardedIDs(userID)
	if err != nil {
		return nil, err
	}

	stats, err := e.statsService.BuildSnapshot(userID)
	if err != nil {
		return nil, err
	}

	var newlyAwarded []string
	for _, achievement := range AllAchievements() {
		if _, has := awarded[achievement.ID]; has {
			continue
		}

		predicate, ok := achievementPredicates[achievement.ID]
		if !ok {
			log.Printf("[ACHIEVEMENT_ENGINE] No predicate registered for %s, skipping", achievement.ID)
			continue
		}
		if !predicate(stats) {
			continue
		}

		if err := e.awardRepo.Award(userID, achievement.ID, e.now()); err != nil {
			if errors.Is(err, db.ErrDuplicateAward) {
				// Another evaluation run won the race, nothing to do.
				continue
			}
			return newlyAwarded, err
		}
		newlyAwarded = append(newlyAwarded, achievement.ID)
		log.Printf("[ACHIEVEMENT_ENGINE] Awarded %s to user %d", achievement.ID, userID)
	}

	return newlyAwarded, nil
}
