package handlers

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/ad/go-training-diary/internal/db"
	"github.com/ad/go-training-diary/internal/models"
	"github.com/ad/go-training-diary/internal/services"
	"github.com/go-telegram/bot"
	tgmodels "github.com/go-telegram/bot/models"
)

const helpText = `📖 Команды дневника:

/stats — статистика соревнований
/stats_mi — статистика в милях
/achievements — достижения
/leaderboard — рейтинг по достижениям

Быстрые записи:
тренировка 10.5 06:30 комментарий
старт 2026-09-20 Московский марафон; 42.195; Москва; Russia Running
результат 12 3:45:10 154 12 M40`

type BotHandler struct {
	bot               *bot.Bot
	adminID           int64
	errorManager      *services.ErrorManager
	userRepo          *db.UserRepository
	participationRepo *db.ParticipationRepository
	trainingRepo      *db.TrainingRepository
	awardRepo         *db.AwardRepository
	statsService      *services.UserStatsService
	engine            *services.AchievementEngine
	notifier          services.Notifier
	recalculator      *services.Recalculator
	coach             *services.CoachClient
}

func NewBotHandler(
	b *bot.Bot,
	adminID int64,
	errorManager *services.ErrorManager,
	userRepo *db.UserRepository,
	participationRepo *db.ParticipationRepository,
	trainingRepo *db.TrainingRepository,
	awardRepo *db.AwardRepository,
	statsService *services.UserStatsService,
	engine *services.AchievementEngine,
	notifier services.Notifier,
	recalculator *services.Recalculator,
	coach *services.CoachClient,
) *BotHandler {
	return &BotHandler{
		bot:               b,
		adminID:           adminID,
		errorManager:      errorManager,
		userRepo:          userRepo,
		participationRepo: participationRepo,
		trainingRepo:      trainingRepo,
		awardRepo:         awardRepo,
		statsService:      statsService,
		engine:            engine,
		notifier:          notifier,
		recalculator:      recalculator,
		coach:             coach,
	}
}

func (h *BotHandler) HandleUpdate(ctx context.Context, b *bot.Bot, update *tgmodels.Update) {
	defer h.recoverPanic(ctx, update)

	if update.Message != nil {
		h.handleMessage(ctx, update.Message)
	}
}

func (h *BotHandler) recoverPanic(ctx context.Context, update *tgmodels.Update) {
	if r := recover(); r != nil {
		h.errorManager.NotifyAdmin(ctx, r, update)
	}
}

func (h *BotHandler) handleMessage(ctx context.Context, msg *tgmodels.Message) {
	if msg.From == nil {
		return
	}

	text := strings.TrimSpace(msg.Text)
	lower := strings.ToLower(text)

	switch {
	case text == "/start":
		h.handleStart(ctx, msg)
	case text == "/help":
		h.send(ctx, msg.Chat.ID, helpText)
	case text == "/stats":
		h.handleStats(ctx, msg, services.UnitKilometers)
	case text == "/stats_mi":
		h.handleStats(ctx, msg, services.UnitMiles)
	case text == "/achievements":
		h.handleAchievements(ctx, msg)
	case text == "/leaderboard":
		h.handleLeaderboard(ctx, msg)
	case text == "/recalc" && msg.From.ID == h.adminID:
		h.handleRecalc(ctx, msg)
	case strings.HasPrefix(lower, "тренировка "):
		h.handleTraining(ctx, msg, strings.TrimSpace(text[len("тренировка "):]))
	case strings.HasPrefix(lower, "старт "):
		h.handleRegistration(ctx, msg, strings.TrimSpace(text[len("старт "):]))
	case strings.HasPrefix(lower, "результат "):
		h.handleResult(ctx, msg, strings.TrimSpace(text[len("результат "):]))
	}
}

func (h *BotHandler) handleStart(ctx context.Context, msg *tgmodels.Message) {
	user := &models.User{
		ID:        msg.From.ID,
		FirstName: msg.From.FirstName,
		LastName:  msg.From.LastName,
		Username:  msg.From.Username,
	}
	if err := h.userRepo.CreateOrUpdate(user); err != nil {
		log.Printf("[HANDLER] Error creating user %d: %v", msg.From.ID, err)
		h.sendUnavailable(ctx, msg.Chat.ID)
		return
	}

	h.send(ctx, msg.Chat.ID, "👋 Привет! Это дневник тренировок и соревнований.\n\n"+helpText)
}

func (h *BotHandler) handleStats(ctx context.Context, msg *tgmodels.Message, unit services.DistanceUnit) {
	parts, err := h.participationRepo.GetByUser(msg.From.ID)
	if err != nil {
		log.Printf("[HANDLER] Error loading participations for %d: %v", msg.From.ID, err)
		h.sendUnavailable(ctx, msg.Chat.ID)
		return
	}

	stats := services.CalculateCompetitionsStatistics(parts)
	h.sendHTML(ctx, msg.Chat.ID, services.FormatStatisticsMessage(stats, unit))
}

func (h *BotHandler) handleAchievements(ctx context.Context, msg *tgmodels.Message) {
	unlocked, err := h.awardRepo.GetAwardedIDs(msg.From.ID)
	if err != nil {
		log.Printf("[HANDLER] Error loading achievements for %d: %v", msg.From.ID, err)
		h.sendUnavailable(ctx, msg.Chat.ID)
		return
	}

	h.send(ctx, msg.Chat.ID, services.AllCategoriesText(unlocked))
}

func (h *BotHandler) handleLeaderboard(ctx context.Context, msg *tgmodels.Message) {
	grouped, err := h.awardRepo.GetAwardsGroupedByUser()
	if err != nil {
		log.Printf("[HANDLER] Error loading leaderboard: %v", err)
		h.sendUnavailable(ctx, msg.Chat.ID)
		return
	}

	var entries []services.LeaderboardEntry
	for userID, ids := range grouped {
		name := fmt.Sprintf("[%d]", userID)
		if user, err := h.userRepo.GetByID(userID); err == nil {
			name = user.DisplayName()
		}
		entries = append(entries, services.LeaderboardEntry{
			UserID: userID,
			Name:   name,
			Count:  len(ids),
			Points: services.TotalPoints(ids),
		})
	}

	h.sendHTML(ctx, msg.Chat.ID, services.FormatLeaderboard(entries, 10))
}

func (h *BotHandler) handleRecalc(ctx context.Context, msg *tgmodels.Message) {
	go func() {
		progress, err := h.recalculator.Run(context.WithoutCancel(ctx))
		if err != nil {
			log.Printf("[HANDLER] Recalculation error: %v", err)
			return
		}
		h.send(ctx, msg.Chat.ID, fmt.Sprintf(
			"Пересчёт завершён: %d пользователей, %d наград, %d ошибок",
			progress.ProcessedUsers, progress.AwardedCount, progress.ErrorCount))
	}()
	h.send(ctx, msg.Chat.ID, "Пересчёт достижений запущен")
}

// handleTraining parses "тренировка <км> [ЧЧ:ММ] [комментарий]".
func (h *BotHandler) handleTraining(ctx context.Context, msg *tgmodels.Message, args string) {
	fields := strings.Fields(args)
	if len(fields) == 0 {
		h.send(ctx, msg.Chat.ID, "Укажите дистанцию: тренировка 10.5 06:30 комментарий")
		return
	}

	distance, err := strconv.ParseFloat(strings.ReplaceAll(fields[0], ",", "."), 64)
	if err != nil || distance <= 0 {
		h.send(ctx, msg.Chat.ID, "Не удалось разобрать дистанцию, пример: тренировка 10.5")
		return
	}

	training := &models.Training{
		UserID:   msg.From.ID,
		Date:     time.Now(),
		Distance: distance,
	}
	rest := fields[1:]
	if len(rest) > 0 && isClockTime(rest[0]) {
		training.StartTime = normalizeClock(rest[0])
		rest = rest[1:]
	}
	training.Comment = strings.Join(rest, " ")

	if _, err := h.trainingRepo.Create(training); err != nil {
		log.Printf("[HANDLER] Error saving training for %d: %v", msg.From.ID, err)
		h.sendUnavailable(ctx, msg.Chat.ID)
		return
	}

	h.send(ctx, msg.Chat.ID, fmt.Sprintf("💪 Тренировка записана: %.1f км", distance))
	h.afterDiaryUpdate(ctx, msg.From.ID)

	if h.coach.Available() && training.Comment != "" {
		go h.sendCoachComment(ctx, msg.Chat.ID, training)
	}
}

// handleRegistration parses
// "старт <дата> <название>; <дистанция>; [город]; [организатор]".
func (h *BotHandler) handleRegistration(ctx context.Context, msg *tgmodels.Message, args string) {
	sections := strings.Split(args, ";")
	head := strings.Fields(strings.TrimSpace(sections[0]))
	if len(head) < 2 || len(sections) < 2 {
		h.send(ctx, msg.Chat.ID, "Формат: старт 2026-09-20 Название; 42.195; Город; Организатор")
		return
	}

	date, err := time.Parse("2006-01-02", head[0])
	if err != nil {
		h.send(ctx, msg.Chat.ID, "Дата должна быть в формате ГГГГ-ММ-ДД")
		return
	}
	name := strings.Join(head[1:], " ")

	distance, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(sections[1]), ",", "."), 64)
	if err != nil || distance <= 0 {
		h.send(ctx, msg.Chat.ID, "Не удалось разобрать дистанцию")
		return
	}

	city := ""
	if len(sections) > 2 {
		city = strings.TrimSpace(sections[2])
	}
	organizer := ""
	if len(sections) > 3 {
		organizer = strings.TrimSpace(sections[3])
	}

	competitionID, err := h.participationRepo.CreateCompetition(&models.Competition{
		Name:      name,
		SportType: services.NormalizeSportType(name),
		Organizer: organizer,
		City:      city,
		Date:      date,
	})
	if err != nil {
		log.Printf("[HANDLER] Error creating competition: %v", err)
		h.sendUnavailable(ctx, msg.Chat.ID)
		return
	}

	participationID, err := h.participationRepo.Register(&models.Participation{
		UserID:        msg.From.ID,
		CompetitionID: competitionID,
		Distance:      distance,
	})
	if err != nil {
		log.Printf("[HANDLER] Error registering user %d: %v", msg.From.ID, err)
		h.sendUnavailable(ctx, msg.Chat.ID)
		return
	}

	h.send(ctx, msg.Chat.ID, fmt.Sprintf("📝 Регистрация №%d: %s, %s км", participationID, name, formatKm(distance)))
	h.afterDiaryUpdate(ctx, msg.From.ID)
}

// handleResult parses "результат <id> <время> [место] [место в категории] [категория]".
func (h *BotHandler) handleResult(ctx context.Context, msg *tgmodels.Message, args string) {
	fields := strings.Fields(args)
	if len(fields) < 2 {
		h.send(ctx, msg.Chat.ID, "Формат: результат 12 3:45:10 154 12 M40")
		return
	}

	participationID, err := strconv.ParseInt(fields[0], 10, 64)
	if err != nil {
		h.send(ctx, msg.Chat.ID, "Первым идёт номер регистрации, пример: результат 12 45:30")
		return
	}

	finishTime := services.NormalizeTime(fields[1])
	if _, ok := services.ParseTime(finishTime); !ok {
		h.send(ctx, msg.Chat.ID, "Время указывается как 45:30 или 3:45:10")
		return
	}

	participation, err := h.participationRepo.GetByID(participationID)
	if err != nil || participation.UserID != msg.From.ID {
		h.send(ctx, msg.Chat.ID, "Регистрация с таким номером не найдена")
		return
	}

	placeOverall := 0
	placeAge := 0
	ageCategory := ""
	if len(fields) > 2 {
		placeOverall, _ = strconv.Atoi(fields[2])
	}
	if len(fields) > 3 {
		placeAge, _ = strconv.Atoi(fields[3])
	}
	if len(fields) > 4 {
		ageCategory = fields[4]
	}

	if err := h.participationRepo.SaveResult(participationID, finishTime, placeOverall, placeAge, ageCategory); err != nil {
		log.Printf("[HANDLER] Error saving result for %d: %v", msg.From.ID, err)
		h.sendUnavailable(ctx, msg.Chat.ID)
		return
	}
	if err := h.statsService.RefreshPersonalRecords(msg.From.ID); err != nil {
		log.Printf("[HANDLER] Error refreshing records for %d: %v", msg.From.ID, err)
	}

	reply := fmt.Sprintf("🏁 Результат записан: %s", finishTime)
	if pace := services.CalculatePace(participation.Distance, finishTime); pace != "" {
		reply += fmt.Sprintf(" (%s мин/км)", pace)
	}
	h.send(ctx, msg.Chat.ID, reply)
	h.afterDiaryUpdate(ctx, msg.From.ID)
}

// afterDiaryUpdate re-checks achievements after any diary write and sends
// the congratulations for new ones.
func (h *BotHandler) afterDiaryUpdate(ctx context.Context, userID int64) {
	newlyAwarded, err := h.engine.EvaluateUserAchievements(userID)
	if err != nil {
		log.Printf("[HANDLER] Error evaluating achievements for %d: %v", userID, err)
		return
	}
	if len(newlyAwarded) == 0 {
		return
	}
	if err := h.notifier.NotifyAchievements(ctx, userID, newlyAwarded); err != nil {
		log.Printf("[HANDLER] Error notifying user %d: %v", userID, err)
	}
}

func (h *BotHandler) sendCoachComment(ctx context.Context, chatID int64, training *models.Training) {
	prompt := fmt.Sprintf("Тренировка %.1f км, комментарий спортсмена: %s", training.Distance, training.Comment)
	comment, err := h.coach.GenerateComment(ctx, prompt)
	if err != nil {
		log.Printf("[HANDLER] Coach comment error: %v", err)
		return
	}
	h.send(ctx, chatID, "🧑‍🏫 "+comment)
}

func (h *BotHandler) send(ctx context.Context, chatID int64, text string) {
	_, err := h.bot.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: text})
	if err != nil {
		log.Printf("[HANDLER] Error sending message to %d: %v", chatID, err)
	}
}

func (h *BotHandler) sendHTML(ctx context.Context, chatID int64, text string) {
	_, err := h.bot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:    chatID,
		Text:      text,
		ParseMode: tgmodels.ParseModeHTML,
	})
	if err != nil {
		log.Printf("[HANDLER] Error sending message to %d: %v", chatID, err)
	}
}

func (h *BotHandler) sendUnavailable(ctx context.Context, chatID int64) {
	h.send(ctx, chatID, "😔 Сервис временно недоступен, попробуйте позже")
}

func isClockTime(s string) bool {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return false
	}
	hours, err1 := strconv.Atoi(parts[0])
	minutes, err2 := strconv.Atoi(parts[1])
	return err1 == nil && err2 == nil && hours >= 0 && hours < 24 && minutes >= 0 && minutes < 60
}

func normalizeClock(s string) string {
	parts := strings.Split(s, ":")
	hours, _ := strconv.Atoi(parts[0])
	minutes, _ := strconv.Atoi(parts[1])
	return fmt.Sprintf("%02d:%02d", hours, minutes)
}

func formatKm(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
