package services

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/ad/go-training-diary/internal/models"
)

// PersonalRecordEntry is the best result on one distance.
type PersonalRecordEntry struct {
	Time        string
	Competition string
	Date        time.Time
	Pace        string
}

// PlacementEntry is one finish with a recorded place.
type PlacementEntry struct {
	Place       int
	Competition string
	Date        time.Time
	Distance    float64
	Category    string
}

// GoalAchievement splits finished results by target-time outcome.
type GoalAchievement struct {
	Achieved    int
	NotAchieved int
	NoGoal      int
}

// CompetitionStatistics is the aggregate over all of a user's entries.
// Computed from scratch on every request, never stored.
type CompetitionStatistics struct {
	TotalCompetitions int
	Finished          int
	DNS               int
	DNF               int
	Registered        int

	BySport    map[string]int
	ByDistance map[float64]int

	TotalDistance float64

	PersonalRecords       map[float64]PersonalRecordEntry
	AveragePaceByDistance map[float64]string

	Cities     map[string]struct{}
	Organizers map[string]struct{}

	BestPlacesOverall  []PlacementEntry
	BestPlacesCategory []PlacementEntry

	Goals GoalAchievement
}

// NormalizeSportType maps a free-form sport label to one of the four
// canonical sports. Anything unrecognized counts as running.
func NormalizeSportType(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	switch {
	case containsAny(s, "плав", "заплыв", "swim"):
		return models.SportSwimming
	case containsAny(s, "велос", "вело", "bike", "cycl"):
		return models.SportCycling
	case containsAny(s, "триатлон", "triathlon", "акватлон"):
		return models.SportTriathlon
	default:
		return models.SportRunning
	}
}

func containsAny(s string, keywords ...string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}

// CalculateCompetitionsStatistics aggregates a user's entries in a single
// pass. The result does not depend on the input order.
func CalculateCompetitionsStatistics(participations []models.Participation) *CompetitionStatistics {
	stats := &CompetitionStatistics{
		BySport:               make(map[string]int),
		ByDistance:            make(map[float64]int),
		PersonalRecords:       make(map[float64]PersonalRecordEntry),
		AveragePaceByDistance: make(map[float64]string),
		Cities:                make(map[string]struct{}),
		Organizers:            make(map[string]struct{}),
	}
	if len(participations) == 0 {
		return stats
	}

	stats.TotalCompetitions = len(participations)
	paceData := make(map[float64][]float64)

	for _, p := range participations {
		switch p.Status {
		case models.StatusFinished:
			stats.Finished++
		case models.StatusDNS:
			stats.DNS++
		case models.StatusDNF:
			stats.DNF++
		case models.StatusRegistered:
			stats.Registered++
		}

		stats.BySport[NormalizeSportType(p.SportType)]++

		if p.City != "" {
			stats.Cities[p.City] = struct{}{}
		}
		if p.Organizer != "" {
			stats.Organizers[p.Organizer] = struct{}{}
		}

		if p.Status != models.StatusFinished || p.Distance <= 0 {
			continue
		}
		stats.ByDistance[p.Distance]++
		stats.TotalDistance += p.Distance

		if p.FinishTime == "" {
			continue
		}

		current, exists := stats.PersonalRecords[p.Distance]
		if !exists || CompareTimes(p.FinishTime, current.Time) < 0 {
			stats.PersonalRecords[p.Distance] = PersonalRecordEntry{
				Time:        p.FinishTime,
				Competition: p.CompetitionName,
				Date:        p.Date,
				Pace:        CalculatePace(p.Distance, p.FinishTime),
			}
		}

		if seconds, ok := ParseTime(p.FinishTime); ok {
			paceData[p.Distance] = append(paceData[p.Distance], float64(seconds)/p.Distance)
		}

		if p.TargetTime != "" {
			if CompareTimes(p.FinishTime, p.TargetTime) <= 0 {
				stats.Goals.Achieved++
			} else {
				stats.Goals.NotAchieved++
			}
		} else {
			stats.Goals.NoGoal++
		}

		if p.PlaceOverall > 0 {
			stats.BestPlacesOverall = append(stats.BestPlacesOverall, PlacementEntry{
				Place:       p.PlaceOverall,
				Competition: p.CompetitionName,
				Date:        p.Date,
				Distance:    p.Distance,
			})
		}
		if p.PlaceAgeCategory > 0 {
			stats.BestPlacesCategory = append(stats.BestPlacesCategory, PlacementEntry{
				Place:       p.PlaceAgeCategory,
				Competition: p.CompetitionName,
				Date:        p.Date,
				Distance:    p.Distance,
				Category:    p.AgeCategory,
			})
		}
	}

	// Mean of per-result paces, not the pace of the mean time.
	for distance, paces := range paceData {
		var sum float64
		for _, pace := range paces {
			sum += pace
		}
		avg := int(sum / float64(len(paces)))
		stats.AveragePaceByDistance[distance] = fmt.Sprintf("%02d:%02d", avg/60, avg%60)
	}

	sortPlacements(stats.BestPlacesOverall)
	sortPlacements(stats.BestPlacesCategory)
	if len(stats.BestPlacesOverall) > 5 {
		stats.BestPlacesOverall = stats.BestPlacesOverall[:5]
	}
	if len(stats.BestPlacesCategory) > 5 {
		stats.BestPlacesCategory = stats.BestPlacesCategory[:5]
	}

	return stats
}

func sortPlacements(entries []PlacementEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Place < entries[j].Place
	})
}

// DistanceUnit converts stored kilometer figures for display.
type DistanceUnit struct {
	Label string
	PerKm float64
}

var (
	UnitKilometers = DistanceUnit{Label: "км", PerKm: 1}
	UnitMiles      = DistanceUnit{Label: "ми", PerKm: 0.621371}
)

func (u DistanceUnit) Convert(km float64) float64 {
	return math.Round(km*u.PerKm*1000) / 1000
}

func formatDistance(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// FormatStatisticsMessage renders the aggregate as a Telegram HTML
// message. All distance figures use the requested unit.
func FormatStatisticsMessage(stats *CompetitionStatistics, unit DistanceUnit) string {
	if stats.TotalCompetitions == 0 {
		return "📊 У вас пока нет соревнований"
	}

	var b strings.Builder
	b.WriteString("📊 <b>Статистика соревнований</b>\n\n")
	fmt.Fprintf(&b, "🏃 <b>Всего соревнований:</b> %d\n", stats.TotalCompetitions)
	fmt.Fprintf(&b, "✅ Финишировано: %d\n", stats.Finished)
	if stats.Registered > 0 {
		fmt.Fprintf(&b, "📝 Зарегистрировано: %d\n", stats.Registered)
	}
	if stats.DNS > 0 {
		fmt.Fprintf(&b, "❌ DNS: %d\n", stats.DNS)
	}
	if stats.DNF > 0 {
		fmt.Fprintf(&b, "⚠️ DNF: %d\n", stats.DNF)
	}

	fmt.Fprintf(&b, "\n📏 <b>Суммарный километраж:</b> %.1f %s\n", unit.Convert(stats.TotalDistance), unit.Label)

	if len(stats.BySport) > 0 {
		b.WriteString("\n<b>По видам спорта:</b>\n")
		for _, sc := range sortedByCount(stats.BySport) {
			fmt.Fprintf(&b, "  • %s: %d\n", sc.name, sc.count)
		}
	}

	if len(stats.PersonalRecords) > 0 {
		b.WriteString("\n🏆 <b>Личные рекорды:</b>\n")
		distances := make([]float64, 0, len(stats.PersonalRecords))
		for d := range stats.PersonalRecords {
			distances = append(distances, d)
		}
		sort.Float64s(distances)
		for _, d := range distances {
			pr := stats.PersonalRecords[d]
			paceInfo := ""
			if pr.Pace != "" {
				paceInfo = fmt.Sprintf(" (%s мин/км)", pr.Pace)
			}
			fmt.Fprintf(&b, "  • %s %s: %s%s\n", formatDistance(unit.Convert(d)), unit.Label, pr.Time, paceInfo)
		}
	}

	if len(stats.BestPlacesOverall) > 0 {
		b.WriteString("\n🥇 <b>Топ-5 мест (общий зачёт):</b>\n")
		for _, item := range stats.BestPlacesOverall {
			fmt.Fprintf(&b, "  • %d место - %s (%s %s)\n",
				item.Place, item.Competition, formatDistance(unit.Convert(item.Distance)), unit.Label)
		}
	}

	if stats.Finished > 0 {
		totalWithGoal := stats.Goals.Achieved + stats.Goals.NotAchieved
		if totalWithGoal > 0 {
			rate := float64(stats.Goals.Achieved) / float64(totalWithGoal) * 100
			fmt.Fprintf(&b, "\n🎯 <b>Достижение целей:</b> %.0f%%\n", rate)
			fmt.Fprintf(&b, "  • Выполнено: %d\n", stats.Goals.Achieved)
			fmt.Fprintf(&b, "  • Не выполнено: %d\n", stats.Goals.NotAchieved)
		}
	}

	return b.String()
}

type sportCount struct {
	name  string
	count int
}

func sortedByCount(m map[string]int) []sportCount {
	out := make([]sportCount, 0, len(m))
	for name, count := range m {
		out = append(out, sportCount{name, count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].count != out[j].count {
			return out[i].count > out[j].count
		}
		return out[i].name < out[j].name
	})
	return out
}
