package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/ad/go-training-diary/internal/db"
	"github.com/ad/go-training-diary/internal/handlers"
	"github.com/ad/go-training-diary/internal/services"
	"github.com/go-telegram/bot"
	tgmodels "github.com/go-telegram/bot/models"
	_ "github.com/joho/godotenv/autoload"
	"github.com/robfig/cron/v3"
	_ "modernc.org/sqlite"
)

func main() {
	botToken := os.Getenv("BOT_TOKEN")
	if botToken == "" {
		log.Fatal("BOT_TOKEN environment variable is required")
	}

	adminIDStr := os.Getenv("ADMIN_ID")
	if adminIDStr == "" {
		log.Fatal("ADMIN_ID environment variable is required")
	}
	adminID, err := strconv.ParseInt(adminIDStr, 10, 64)
	if err != nil {
		log.Fatalf("Invalid ADMIN_ID: %v", err)
	}

	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = "diary.db"
	}

	recalcSchedule := os.Getenv("RECALC_SCHEDULE")
	if recalcSchedule == "" {
		recalcSchedule = "0 3 * * *"
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

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	httpClient := &http.Client{
		Timeout: 30 * time.Second,
	}

	b, err := bot.New(botToken, bot.WithHTTPClient(15*time.Second, httpClient))
	if err != nil {
		log.Fatalf("Failed to create bot: %v", err)
	}

	// Retry getMe with shorter timeout
	for i := 0; i < 3; i++ {
		log.Printf("Attempting to connect to Telegram API (attempt %d/3)...", i+1)
		getMeCtx, getMeCancel := context.WithTimeout(context.Background(), 10*time.Second)
		_, err = b.GetMe(getMeCtx)
		getMeCancel()
		if err == nil {
			log.Printf("Successfully connected to Telegram API")
			break
		}
		log.Printf("Failed to get bot info (attempt %d/3): %v", i+1, err)
		if i < 2 {
			log.Printf("Retrying in 2 seconds...")
			time.Sleep(2 * time.Second)
		}
	}
	if err != nil {
		log.Fatalf("Failed to get bot info after 3 attempts: %v", err)
	}

	errorManager := services.NewErrorManager(b, adminID)
	statsService := services.NewUserStatsService(userRepo, participationRepo, trainingRepo, recordRepo)
	engine := services.NewAchievementEngine(awardRepo, statsService)
	notifier := services.NewAchievementNotifier(b)
	recalculator := services.NewRecalculator(engine, statsService, userRepo, notifier, 4)
	coach := services.NewCoachClient(os.Getenv("COACH_API_URL"), os.Getenv("COACH_API_KEY"), httpClient)

	handler := handlers.NewBotHandler(
		b,
		adminID,
		errorManager,
		userRepo,
		participationRepo,
		trainingRepo,
		awardRepo,
		statsService,
		engine,
		notifier,
		recalculator,
		coach,
	)

	b.RegisterHandlerMatchFunc(func(update *tgmodels.Update) bool {
		return true
	}, handler.HandleUpdate, logMiddleware)

	scheduler := cron.New()
	_, err = scheduler.AddFunc(recalcSchedule, func() {
		if _, err := recalculator.Run(ctx); err != nil {
			log.Printf("[CRON] Nightly recalculation failed: %v", err)
		}
	})
	if err != nil {
		log.Fatalf("Invalid RECALC_SCHEDULE %q: %v", recalcSchedule, err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	log.Printf("Bot started. Admin ID: %d, DB: %s, recalc schedule: %s", adminID, dbPath, recalcSchedule)

	b.Start(ctx)
}

func formatUser(u tgmodels.User) string {
	name := u.FirstName
	if u.LastName != "" {
		name += " " + u.LastName
	}
	if u.Username != "" {
		name += " @" + u.Username
	}
	return fmt.Sprintf("%s [%d]", name, u.ID)
}

func logMiddleware(next bot.HandlerFunc) bot.HandlerFunc {
	return func(ctx context.Context, b *bot.Bot, update *tgmodels.Update) {
		if update.Message != nil && update.Message.From != nil {
			log.Printf("[MSG] from=%s text=%q", formatUser(*update.Message.From), update.Message.Text)
		}
		next(ctx, b, update)
	}
}
