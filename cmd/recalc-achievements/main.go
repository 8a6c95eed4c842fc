package main

import (
	"context"
	"database/sql"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	_ "github.com/joho/godotenv/autoload"
	_ "modernc.org/sqlite"

	"github.com/ad/go-training-diary/internal/db"
	"github.com/ad/go-training-diary/internal/services"
)

// Standalone batch recalculation, for results imported outside the bot.
func main() {
	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = "./diary.db"
	}

	workers := 4
	if w, err := strconv.Atoi(os.Getenv("RECALC_WORKERS")); err == nil && w > 0 {
		workers = w
	}

	sqlDB, err := sql.Open("sqlite", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer sqlDB.Close()

	if err := db.InitSchema(sqlDB); err != nil {
		log.Fatalf("Failed to initialize schema: %v", err)
	}

	dbQueue := db.NewDBQueue(sqlDB)
	defer dbQueue.Close()

	userRepo := db.NewUserRepository(dbQueue)
	participationRepo := db.NewParticipationRepository(dbQueue)
	trainingRepo := db.NewTrainingRepository(dbQueue)
	recordRepo := db.NewRecordRepository(dbQueue)
	awardRepo := db.NewAwardRepository(dbQueue)

	statsService := services.NewUserStatsService(userRepo, participationRepo, trainingRepo, recordRepo)
	engine := services.NewAchievementEngine(awardRepo, statsService)
	recalculator := services.NewRecalculator(engine, statsService, userRepo, nil, workers)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	progress, err := recalculator.Run(ctx)
	if err != nil {
		log.Fatalf("Recalculation failed: %v", err)
	}

	log.Printf("Done: %d users processed, %d achievements awarded, %d errors",
		progress.ProcessedUsers, progress.AwardedCount, progress.ErrorCount)
}
