package services

import (
	"sort"

	"github.com/ad/go-training-diary/internal/models"
)

// AchievementCategories describes rendering order and labels for the five
// catalog categories.
var AchievementCategories = map[models.AchievementCategory]models.CategoryInfo{
	models.CategoryCompetitions: {Name: "Соревнования", Emoji: "🏃", Order: 1},
	models.CategoryResults:      {Name: "Результаты", Emoji: "🏆", Order: 2},
	models.CategoryActivity:     {Name: "Активность", Emoji: "📊", Order: 3},
	models.CategoryGeography:    {Name: "География", Emoji: "🌍", Order: 4},
	models.CategorySpecial:      {Name: "Специальные", Emoji: "🎯", Order: 5},
}

// AchievementLevels describes the award levels.
var AchievementLevels = map[models.AchievementLevel]models.LevelInfo{
	models.LevelWhite:  {Name: "Белый", Emoji: "⚪", Order: 1},
	models.LevelGreen:  {Name: "Зеленый", Emoji: "🟢", Order: 2},
	models.LevelBlue:   {Name: "Синий", Emoji: "🔵", Order: 3},
	models.LevelPurple: {Name: "Фиолетовый", Emoji: "🟣", Order: 4},
	models.LevelGold:   {Name: "Золотой", Emoji: "🟡", Order: 5},
}

// achievementCatalog holds every achievement the bot can award. The
// database stores only the earned ids, so the catalog can grow without
// migrations.
var achievementCatalog = []models.Achievement{
	// Соревнования (20)
	{ID: "first_competition", Category: models.CategoryCompetitions, Emoji: "🎯", Name: "Первый старт", Description: "Участие в первом соревновании", Level: models.LevelWhite, Points: 10, Order: 1},
	{ID: "ten_k_first", Category: models.CategoryCompetitions, Emoji: "🔟", Name: "Десятка", Description: "Участие в первом забеге на 10 км", Level: models.LevelWhite, Points: 20, Order: 2},
	{ID: "half_marathon_first", Category: models.CategoryCompetitions, Emoji: "🏃", Name: "Полумарафонец", Description: "Участие в первом полумарафоне", Level: models.LevelGreen, Points: 40, Order: 3},
	{ID: "marathon_first", Category: models.CategoryCompetitions, Emoji: "🏁", Name: "Марафонец", Description: "Участие в первом марафоне", Level: models.LevelBlue, Points: 80, Order: 4},
	{ID: "ultra_marathon", Category: models.CategoryCompetitions, Emoji: "⚡", Name: "Ультрамарафонец", Description: "Участие в ультрамарафоне (42+ км)", Level: models.LevelPurple, Points: 120, Order: 5},
	{ID: "triathlon_first", Category: models.CategoryCompetitions, Emoji: "🏊🚴🏃", Name: "Триатлет", Description: "Участие в триатлоне", Level: models.LevelBlue, Points: 60, Order: 6},
	{ID: "swimmer", Category: models.CategoryCompetitions, Emoji: "🏊", Name: "Пловец", Description: "Участие в 5 соревнованиях по плаванию", Level: models.LevelGreen, Points: 30, Order: 7},
	{ID: "cyclist", Category: models.CategoryCompetitions, Emoji: "🚴", Name: "Велосипедист", Description: "Участие в 5 велозаездах", Level: models.LevelGreen, Points: 30, Order: 8},
	{ID: "mid_distance", Category: models.CategoryCompetitions, Emoji: "🏃‍♀️", Name: "Средневик", Description: "Участие в 10 забегах 5-10 км", Level: models.LevelGreen, Points: 30, Order: 9},
	{ID: "versatile", Category: models.CategoryCompetitions, Emoji: "🏊‍♂️🚴‍♂️🏃‍♂️", Name: "Универсал", Description: "Участие в соревнованиях по 3 разным видам спорта", Level: models.LevelGreen, Points: 50, Order: 10},
	{ID: "distance_collector", Category: models.CategoryCompetitions, Emoji: "🎯", Name: "Коллекционер дистанций", Description: "Участие в стартах на всех популярных дистанциях (5, 10, 21.1, 42.2 км)", Level: models.LevelBlue, Points: 100, Order: 11},
	{ID: "enthusiast", Category: models.CategoryCompetitions, Emoji: "🏃", Name: "Любитель", Description: "Участие в 5 соревнованиях", Level: models.LevelWhite, Points: 20, Order: 12},
	{ID: "active_runner", Category: models.CategoryCompetitions, Emoji: "🏃‍♂️", Name: "Энтузиаст", Description: "Участие в 10 соревнованиях", Level: models.LevelGreen, Points: 30, Order: 13},
	{ID: "experienced_runner", Category: models.CategoryCompetitions, Emoji: "🏅", Name: "Опытный бегун", Description: "Участие в 25 соревнованиях", Level: models.LevelBlue, Points: 50, Order: 14},
	{ID: "veteran", Category: models.CategoryCompetitions, Emoji: "🎖️", Name: "Ветеран", Description: "Участие в 50 соревнованиях", Level: models.LevelPurple, Points: 100, Order: 15},
	{ID: "legend", Category: models.CategoryCompetitions, Emoji: "👑", Name: "Легенда", Description: "Участие в 100 соревнованиях", Level: models.LevelGold, Points: 200, Order: 16},
	{ID: "annual_marathon", Category: models.CategoryCompetitions, Emoji: "📅", Name: "Годовой марафон", Description: "Участие в 12+ соревнованиях за год", Level: models.LevelBlue, Points: 50, Order: 17},
	{ID: "streak_3_months", Category: models.CategoryCompetitions, Emoji: "🔥", Name: "Серийник", Description: "Участие в соревнованиях 3 месяца подряд", Level: models.LevelGreen, Points: 30, Order: 18},
	{ID: "streak_6_months", Category: models.CategoryCompetitions, Emoji: "🔥🔥", Name: "Непрерывная полоса", Description: "Участие в соревнованиях 6 месяцев подряд", Level: models.LevelBlue, Points: 60, Order: 19},
	{ID: "streak_12_months", Category: models.CategoryCompetitions, Emoji: "🔥🔥🔥", Name: "Соревнования на автомате", Description: "Участие в соревнованиях 12 месяцев подряд", Level: models.LevelPurple, Points: 120, Order: 20},

	// Результаты (6)
	{ID: "first_podium", Category: models.CategoryResults, Emoji: "🥉", Name: "Первый подиум", Description: "Первое место в топ-3", Level: models.LevelGreen, Points: 40, Order: 1},
	{ID: "podium_5_times", Category: models.CategoryResults, Emoji: "🏆", Name: "Подиумист", Description: "5 раз в топ-3", Level: models.LevelBlue, Points: 100, Order: 2},
	{ID: "pr_improvement", Category: models.CategoryResults, Emoji: "💥", Name: "Прорыв", Description: "Улучшение ЛР на 5+ минут", Level: models.LevelBlue, Points: 60, Order: 3},
	{ID: "progress_streak", Category: models.CategoryResults, Emoji: "📈", Name: "Серия прогресса", Description: "Улучшение ЛР 3 раза подряд на одной дистанции", Level: models.LevelGreen, Points: 50, Order: 4},
	{ID: "record_holder", Category: models.CategoryResults, Emoji: "⭐", Name: "Рекордсмен", Description: "Установка ЛР на 5 разных дистанциях", Level: models.LevelBlue, Points: 70, Order: 5},
	{ID: "goal_achiever", Category: models.CategoryResults, Emoji: "🎯", Name: "Целеустремленный", Description: "Выполнение целевого времени 5 раз", Level: models.LevelGreen, Points: 50, Order: 6},

	// Активность (12)
	{ID: "first_result", Category: models.CategoryActivity, Emoji: "📖", Name: "Дневник готов", Description: "Добавление первого результата", Level: models.LevelWhite, Points: 10, Order: 1},
	{ID: "historian_10", Category: models.CategoryActivity, Emoji: "📚", Name: "Историк", Description: "Добавление 10 результатов", Level: models.LevelGreen, Points: 30, Order: 2},
	{ID: "archivist", Category: models.CategoryActivity, Emoji: "🗂️", Name: "Архивариус", Description: "Добавление 50 результатов", Level: models.LevelBlue, Points: 80, Order: 3},
	{ID: "first_training", Category: models.CategoryActivity, Emoji: "🏋️", Name: "Первая тренировка", Description: "Добавление первой тренировки", Level: models.LevelWhite, Points: 5, Order: 4},
	{ID: "training_month", Category: models.CategoryActivity, Emoji: "💪", Name: "Тренировочный месяц", Description: "20+ тренировок за месяц", Level: models.LevelGreen, Points: 40, Order: 5},
	{ID: "regularity", Category: models.CategoryActivity, Emoji: "📅", Name: "Регулярность", Description: "Тренировки 7 дней подряд", Level: models.LevelGreen, Points: 30, Order: 6},
	{ID: "mileage_100", Category: models.CategoryActivity, Emoji: "🏃‍♂️", Name: "Километраж", Description: "100 км за месяц в тренировках", Level: models.LevelGreen, Points: 50, Order: 7},
	{ID: "mileage_200", Category: models.CategoryActivity, Emoji: "🏃‍♂️💨", Name: "Марафонский километраж", Description: "200+ км за месяц в тренировках", Level: models.LevelBlue, Points: 80, Order: 8},
	{ID: "first_registration", Category: models.CategoryActivity, Emoji: "📝", Name: "Планировщик", Description: "Регистрация на первое соревнование через бота", Level: models.LevelWhite, Points: 5, Order: 9},
	{ID: "active_planner", Category: models.CategoryActivity, Emoji: "📋", Name: "Активный планировщик", Description: "Регистрация на 10 соревнований через бота", Level: models.LevelGreen, Points: 20, Order: 10},
	{ID: "calendar_full", Category: models.CategoryActivity, Emoji: "📆", Name: "Календарь полон", Description: "Одновременная регистрация на 5+ предстоящих соревнований", Level: models.LevelGreen, Points: 30, Order: 11},
	{ID: "detailer", Category: models.CategoryActivity, Emoji: "📊", Name: "Детализатор", Description: "Добавление полной информации (время, место, категория, фото) 10 раз", Level: models.LevelGreen, Points: 40, Order: 12},

	// География (6)
	{ID: "traveler", Category: models.CategoryGeography, Emoji: "🗺️", Name: "Путешественник", Description: "Участие в соревнованиях в 5 разных городах", Level: models.LevelGreen, Points: 30, Order: 1},
	{ID: "russia_geography", Category: models.CategoryGeography, Emoji: "🌍", Name: "География России", Description: "Участие в соревнованиях в 10 разных городах", Level: models.LevelBlue, Points: 60, Order: 2},
	{ID: "explorer", Category: models.CategoryGeography, Emoji: "🧭", Name: "Исследователь", Description: "Участие в соревнованиях в 20 разных городах", Level: models.LevelPurple, Points: 100, Order: 3},
	{ID: "regions_5", Category: models.CategoryGeography, Emoji: "🗾", Name: "Регионы России", Description: "Участие в соревнованиях в 5 разных регионах", Level: models.LevelGreen, Points: 50, Order: 4},
	{ID: "regions_10", Category: models.CategoryGeography, Emoji: "🇷🇺", Name: "Всероссийский", Description: "Участие в соревнованиях в 10 разных регионах", Level: models.LevelBlue, Points: 100, Order: 5},
	{ID: "moscow_spb", Category: models.CategoryGeography, Emoji: "🏛️", Name: "Москвич/Питерец", Description: "Участие в 10 соревнованиях в Москве или СПб", Level: models.LevelGreen, Points: 40, Order: 6},

	// Специальные (11)
	{ID: "bot_1_year", Category: models.CategorySpecial, Emoji: "🎂", Name: "Долгожитель", Description: "Использование бота 1 год", Level: models.LevelGreen, Points: 50, Order: 1},
	{ID: "bot_2_years", Category: models.CategorySpecial, Emoji: "🎂🎂", Name: "Ветеран бота", Description: "Использование бота 2 года", Level: models.LevelBlue, Points: 100, Order: 2},
	{ID: "russia_running_fan", Category: models.CategorySpecial, Emoji: "🏃‍♂️🇷🇺", Name: "Russia Running фанат", Description: "Участие в 10 соревнованиях Russia Running", Level: models.LevelGreen, Points: 40, Order: 3},
	{ID: "hero_league", Category: models.CategorySpecial, Emoji: "🦸", Name: "Лига героев", Description: "Участие в 5 соревнованиях Hero League", Level: models.LevelGreen, Points: 40, Order: 4},
	{ID: "parkrun_regular", Category: models.CategorySpecial, Emoji: "🌳", Name: "Паркранер", Description: "Участие в 10 паркранах", Level: models.LevelGreen, Points: 30, Order: 5},
	{ID: "trail_runner", Category: models.CategorySpecial, Emoji: "⛰️", Name: "Трейлраннер", Description: "Участие в 5 трейловых забегах", Level: models.LevelGreen, Points: 40, Order: 6},
	{ID: "night_runner", Category: models.CategorySpecial, Emoji: "🌙", Name: "Ночной бегун", Description: "Участие в 3 ночных забегах", Level: models.LevelGreen, Points: 30, Order: 7},
	{ID: "relay_team", Category: models.CategorySpecial, Emoji: "🤝", Name: "Командный игрок", Description: "Участие в 3 эстафетах", Level: models.LevelGreen, Points: 30, Order: 8},
	{ID: "virtual_runner", Category: models.CategorySpecial, Emoji: "💻", Name: "Виртуальный бегун", Description: "Участие в 5 виртуальных забегах", Level: models.LevelWhite, Points: 20, Order: 9},
	{ID: "charity_runner", Category: models.CategorySpecial, Emoji: "❤️", Name: "Бегун с сердцем", Description: "Участие в 3 благотворительных забегах", Level: models.LevelGreen, Points: 40, Order: 10},
	{ID: "early_bird", Category: models.CategorySpecial, Emoji: "🌅", Name: "Ранняя пташка", Description: "10 утренних тренировок (до 7:00)", Level: models.LevelWhite, Points: 20, Order: 11},
}

// achievementPredicates maps a catalog id to its awarding condition over a
// stats snapshot. An id without a predicate is never awarded.
var achievementPredicates = map[string]func(*AchievementStats) bool{
	"first_competition":   func(s *AchievementStats) bool { return s.TotalCompetitions >= 1 },
	"ten_k_first":         func(s *AchievementStats) bool { return s.HasTenK },
	"half_marathon_first": func(s *AchievementStats) bool { return s.HasHalfMarathon },
	"marathon_first":      func(s *AchievementStats) bool { return s.HasMarathon },
	"ultra_marathon":      func(s *AchievementStats) bool { return s.HasUltra },
	"triathlon_first":     func(s *AchievementStats) bool { return s.TriathlonCount >= 1 },
	"swimmer":             func(s *AchievementStats) bool { return s.SwimmingCompetitions >= 5 },
	"cyclist":             func(s *AchievementStats) bool { return s.CyclingCompetitions >= 5 },
	"mid_distance":        func(s *AchievementStats) bool { return s.MidDistanceRaces >= 10 },
	"versatile":           func(s *AchievementStats) bool { return s.DifferentSports >= 3 },
	"distance_collector":  func(s *AchievementStats) bool { return s.HasAllDistances },
	"enthusiast":          func(s *AchievementStats) bool { return s.TotalCompetitions >= 5 },
	"active_runner":       func(s *AchievementStats) bool { return s.TotalCompetitions >= 10 },
	"experienced_runner":  func(s *AchievementStats) bool { return s.TotalCompetitions >= 25 },
	"veteran":             func(s *AchievementStats) bool { return s.TotalCompetitions >= 50 },
	"legend":              func(s *AchievementStats) bool { return s.TotalCompetitions >= 100 },
	"annual_marathon":     func(s *AchievementStats) bool { return s.CompetitionsThisYear >= 12 },
	"streak_3_months":     func(s *AchievementStats) bool { return s.CompetitionStreakMonths >= 3 },
	"streak_6_months":     func(s *AchievementStats) bool { return s.CompetitionStreakMonths >= 6 },
	"streak_12_months":    func(s *AchievementStats) bool { return s.CompetitionStreakMonths >= 12 },

	"first_podium":    func(s *AchievementStats) bool { return s.PodiumCount >= 1 },
	"podium_5_times":  func(s *AchievementStats) bool { return s.PodiumCount >= 5 },
	"pr_improvement":  func(s *AchievementStats) bool { return s.HasBigPRImprovement },
	"progress_streak": func(s *AchievementStats) bool { return s.HasProgressStreak },
	"record_holder":   func(s *AchievementStats) bool { return s.PRDistancesCount >= 5 },
	"goal_achiever":   func(s *AchievementStats) bool { return s.TargetTimeAchieved >= 5 },

	"first_result":       func(s *AchievementStats) bool { return s.TotalResults >= 1 },
	"historian_10":       func(s *AchievementStats) bool { return s.TotalResults >= 10 },
	"archivist":          func(s *AchievementStats) bool { return s.TotalResults >= 50 },
	"first_training":     func(s *AchievementStats) bool { return s.TotalTrainings >= 1 },
	"training_month":     func(s *AchievementStats) bool { return s.TrainingsThisMonth >= 20 },
	"regularity":         func(s *AchievementStats) bool { return s.TrainingStreakDays >= 7 },
	"mileage_100":        func(s *AchievementStats) bool { return s.MonthlyKm >= 100 },
	"mileage_200":        func(s *AchievementStats) bool { return s.MonthlyKm >= 200 },
	"first_registration": func(s *AchievementStats) bool { return s.BotRegistrations >= 1 },
	"active_planner":     func(s *AchievementStats) bool { return s.BotRegistrations >= 10 },
	"calendar_full":      func(s *AchievementStats) bool { return s.UpcomingRegistrations >= 5 },
	"detailer":           func(s *AchievementStats) bool { return s.DetailedResults >= 10 },

	"traveler":         func(s *AchievementStats) bool { return s.DifferentCities >= 5 },
	"russia_geography": func(s *AchievementStats) bool { return s.DifferentCities >= 10 },
	"explorer":         func(s *AchievementStats) bool { return s.DifferentCities >= 20 },
	"regions_5":        func(s *AchievementStats) bool { return s.DifferentRegions >= 5 },
	"regions_10":       func(s *AchievementStats) bool { return s.DifferentRegions >= 10 },
	"moscow_spb":       func(s *AchievementStats) bool { return s.MoscowSpbCount >= 10 },

	"bot_1_year":         func(s *AchievementStats) bool { return s.BotUsageDays >= 365 },
	"bot_2_years":        func(s *AchievementStats) bool { return s.BotUsageDays >= 730 },
	"russia_running_fan": func(s *AchievementStats) bool { return s.RussiaRunningCount >= 10 },
	"hero_league":        func(s *AchievementStats) bool { return s.HeroLeagueCount >= 5 },
	"parkrun_regular":    func(s *AchievementStats) bool { return s.ParkrunCount >= 10 },
	"trail_runner":       func(s *AchievementStats) bool { return s.TrailCount >= 5 },
	"night_runner":       func(s *AchievementStats) bool { return s.NightRaces >= 3 },
	"relay_team":         func(s *AchievementStats) bool { return s.RelayCount >= 3 },
	"virtual_runner":     func(s *AchievementStats) bool { return s.VirtualRaces >= 5 },
	"charity_runner":     func(s *AchievementStats) bool { return s.CharityRaces >= 3 },
	"early_bird":         func(s *AchievementStats) bool { return s.EarlyTrainings >= 10 },
}

// GetAchievementByID returns the catalog entry for an id.
func GetAchievementByID(id string) (models.Achievement, bool) {
	for _, a := range achievementCatalog {
		if a.ID == id {
			return a, true
		}
	}
	return models.Achievement{}, false
}

// AllAchievements returns the catalog sorted by category then order.
func AllAchievements() []models.Achievement {
	out := make([]models.Achievement, len(achievementCatalog))
	copy(out, achievementCatalog)
	sort.SliceStable(out, func(i, j int) bool {
		ci := AchievementCategories[out[i].Category].Order
		cj := AchievementCategories[out[j].Category].Order
		if ci != cj {
			return ci < cj
		}
		return out[i].Order < out[j].Order
	})
	return out
}

// AchievementsByCategory returns one category's entries sorted by order.
func AchievementsByCategory(category models.AchievementCategory) []models.Achievement {
	var out []models.Achievement
	for _, a := range achievementCatalog {
		if a.Category == category {
			out = append(out, a)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out
}

// TotalPoints sums the points of the given achievement ids. Unknown ids
// contribute nothing.
func TotalPoints(ids []string) int {
	total := 0
	for _, id := range ids {
		if a, ok := GetAchievementByID(id); ok {
			total += a.Points
		}
	}
	return total
}
