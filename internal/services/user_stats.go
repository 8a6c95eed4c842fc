package services

import (
	"sort"
	"strings"
	"time"

	"github.com/ad/go-training-diary/internal/db"
	"github.com/ad/go-training-diary/internal/models"
)

// AchievementStats is the flat counter snapshot the predicate registry
// evaluates against. Built fresh for every evaluation run.
type AchievementStats struct {
	TotalCompetitions    int
	HasTenK              bool
	HasHalfMarathon      bool
	HasMarathon          bool
	HasUltra             bool
	TriathlonCount       int
	SwimmingCompetitions int
	CyclingCompetitions  int
	MidDistanceRaces     int
	DifferentSports      int
	HasAllDistances      bool

	CompetitionsThisYear    int
	CompetitionStreakMonths int

	PodiumCount         int
	HasBigPRImprovement bool
	HasProgressStreak   bool
	PRDistancesCount    int
	TargetTimeAchieved  int

	TotalResults          int
	DetailedResults       int
	BotRegistrations      int
	UpcomingRegistrations int

	TotalTrainings     int
	TrainingsThisMonth int
	MonthlyKm          float64
	TrainingStreakDays int
	EarlyTrainings     int

	DifferentCities  int
	DifferentRegions int
	MoscowSpbCount   int

	BotUsageDays int

	RussiaRunningCount int
	HeroLeagueCount    int
	ParkrunCount       int
	TrailCount         int
	NightRaces         int
	RelayCount         int
	VirtualRaces       int
	CharityRaces       int
}

// UserStatsService builds AchievementStats snapshots and maintains the
// personal records cache.
type UserStatsService struct {
	userRepo          *db.UserRepository
	participationRepo *db.ParticipationRepository
	trainingRepo      *db.TrainingRepository
	recordRepo        *db.RecordRepository
	now               func() time.Time
}

func NewUserStatsService(
	userRepo *db.UserRepository,
	participationRepo *db.ParticipationRepository,
	trainingRepo *db.TrainingRepository,
	recordRepo *db.RecordRepository,
) *UserStatsService {
	return &UserStatsService{
		userRepo:          userRepo,
		participationRepo: participationRepo,
		trainingRepo:      trainingRepo,
		recordRepo:        recordRepo,
		now:               time.Now,
	}
}

// BuildSnapshot computes the full counter set for one user.
func (s *UserStatsService) BuildSnapshot(userID int64) (*AchievementStats, error) {
	parts, err := s.participationRepo.GetByUser(userID)
	if err != nil {
		return nil, err
	}
	trainings, err := s.trainingRepo.GetByUser(userID)
	if err != nil {
		return nil, err
	}
	prCount, err := s.recordRepo.CountDistances(userID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	stats := &AchievementStats{
		TotalCompetitions: len(parts),
		BotRegistrations:  len(parts),
		PRDistancesCount:  prCount,
	}

	distances := make(map[float64]struct{})
	sports := make(map[string]struct{})
	cities := make(map[string]struct{})
	var monthLabels []string
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	for _, p := range parts {
		if p.Distance > 0 {
			distances[p.Distance] = struct{}{}
			switch {
			case p.Distance == models.DistanceTen:
				stats.HasTenK = true
			case p.Distance == models.DistanceHalfMarathon:
				stats.HasHalfMarathon = true
			case p.Distance == models.DistanceMarathon:
				stats.HasMarathon = true
			case p.Distance > models.DistanceMarathon:
				stats.HasUltra = true
			}
			if p.Distance >= 5.0 && p.Distance <= 10.0 {
				stats.MidDistanceRaces++
			}
		}

		sport := NormalizeSportType(p.SportType)
		sports[sport] = struct{}{}
		switch sport {
		case models.SportSwimming:
			stats.SwimmingCompetitions++
		case models.SportCycling:
			stats.CyclingCompetitions++
		case models.SportTriathlon:
			stats.TriathlonCount++
		}

		organizer := strings.ToLower(p.Organizer)
		switch {
		case strings.Contains(organizer, "russia running"):
			stats.RussiaRunningCount++
		case strings.Contains(organizer, "hero"), strings.Contains(organizer, "лига героев"):
			stats.HeroLeagueCount++
		case strings.Contains(organizer, "parkrun"), strings.Contains(organizer, "паркран"):
			stats.ParkrunCount++
		}

		kind := strings.ToLower(p.CompetitionType + " " + p.CompetitionName)
		if strings.Contains(kind, "трейл") {
			stats.TrailCount++
		}
		if strings.Contains(kind, "ночн") {
			stats.NightRaces++
		}
		if strings.Contains(kind, "эстафет") {
			stats.RelayCount++
		}
		if strings.Contains(kind, "виртуал") {
			stats.VirtualRaces++
		}
		if strings.Contains(kind, "благотвор") {
			stats.CharityRaces++
		}

		if p.PlaceOverall > 0 && p.PlaceOverall <= 3 {
			stats.PodiumCount++
		}

		if p.City != "" {
			cities[p.City] = struct{}{}
			city := strings.ToLower(p.City)
			if city == "москва" || city == "санкт-петербург" {
				stats.MoscowSpbCount++
			}
		}

		if p.Date.Year() == now.Year() {
			stats.CompetitionsThisYear++
		}
		if !p.Date.IsZero() {
			monthLabels = append(monthLabels, p.Date.Format("2006-01"))
			if !p.Date.Before(today) {
				stats.UpcomingRegistrations++
			}
		}

		if p.FinishTime != "" {
			stats.TotalResults++
			if p.PlaceOverall > 0 && p.AgeCategory != "" {
				stats.DetailedResults++
			}
			if p.TargetTime != "" && CompareTimes(p.FinishTime, p.TargetTime) <= 0 {
				stats.TargetTimeAchieved++
			}
		}
	}

	_, has5 := distances[5.0]
	_, has10 := distances[models.DistanceTen]
	_, has21 := distances[models.DistanceHalfMarathon]
	_, has42 := distances[models.DistanceMarathon]
	stats.HasAllDistances = has5 && has10 && has21 && has42

	stats.DifferentSports = len(sports)
	stats.DifferentCities = len(cities)
	stats.DifferentRegions = min(stats.DifferentCities/2, stats.DifferentCities)
	stats.CompetitionStreakMonths = CompetitionMonthStreak(monthLabels)

	stats.HasBigPRImprovement = hasBigPRImprovement(parts)
	stats.HasProgressStreak = hasProgressStreak(parts)

	monthAgo := now.AddDate(0, 0, -30)
	stats.TotalTrainings = len(trainings)
	var trainingDates []time.Time
	for _, t := range trainings {
		trainingDates = append(trainingDates, t.Date)
		if !t.Date.Before(monthAgo) {
			stats.TrainingsThisMonth++
			stats.MonthlyKm += t.Distance
		}
		if t.StartTime != "" && t.StartTime < "07:00" {
			stats.EarlyTrainings++
		}
	}
	stats.TrainingStreakDays = TrainingDayStreak(trainingDates)

	user, err := s.userRepo.GetByID(userID)
	if err == nil && !user.CreatedAt.IsZero() {
		stats.BotUsageDays = int(now.Sub(user.CreatedAt).Hours() / 24)
	}

	return stats, nil
}

// resultHistory groups finish times per distance, each group ordered by
// competition date.
func resultHistory(parts []models.Participation) map[float64][]string {
	history := make(map[float64][]models.Participation)
	for _, p := range parts {
		if p.Distance > 0 && p.FinishTime != "" {
			history[p.Distance] = append(history[p.Distance], p)
		}
	}
	out := make(map[float64][]string, len(history))
	for distance, group := range history {
		sort.SliceStable(group, func(i, j int) bool { return group[i].Date.Before(group[j].Date) })
		for _, p := range group {
			out[distance] = append(out[distance], p.FinishTime)
		}
	}
	return out
}

// hasBigPRImprovement reports whether some result beat the immediately
// preceding one on the same distance by five minutes or more.
func hasBigPRImprovement(parts []models.Participation) bool {
	for _, times := range resultHistory(parts) {
		for i := 0; i < len(times)-1; i++ {
			oldSec, okOld := ParseTime(times[i])
			newSec, okNew := ParseTime(times[i+1])
			if okOld && okNew && oldSec-newSec >= 300 {
				return true
			}
		}
	}
	return false
}

// hasProgressStreak reports whether some distance has three consecutive
// results where each one beats the previous.
func hasProgressStreak(parts []models.Participation) bool {
	for _, times := range resultHistory(parts) {
		for i := 0; i+2 < len(times); i++ {
			first, ok1 := ParseTime(times[i])
			second, ok2 := ParseTime(times[i+1])
			third, ok3 := ParseTime(times[i+2])
			if ok1 && ok2 && ok3 && second < first && third < second {
				return true
			}
		}
	}
	return false
}

// RefreshPersonalRecords pushes every finished result through the records
// cache so record_holder counts stay current.
func (s *UserStatsService) RefreshPersonalRecords(userID int64) error {
	parts, err := s.participationRepo.GetByUser(userID)
	if err != nil {
		return err
	}
	for _, p := range parts {
		if p.Status != models.StatusFinished || p.Distance <= 0 || p.FinishTime == "" {
			continue
		}
		seconds, ok := ParseTime(p.FinishTime)
		if !ok {
			continue
		}
		_, err := s.recordRepo.UpsertIfBetter(&models.PersonalRecord{
			UserID:        userID,
			Distance:      p.Distance,
			BestTime:      p.FinishTime,
			BestSeconds:   seconds,
			CompetitionID: p.CompetitionID,
			Date:          p.Date,
		})
		if err != nil {
			return err
		}
	}
	return nil
}
