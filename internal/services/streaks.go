package services

import (
	"sort"
	"time"
)

// CompetitionMonthStreak counts how many consecutive months, ending at
// the most recent one, contain at least one competition. months holds
// "YYYY-MM" labels in any order; duplicates are ignored. A December to
// January boundary does not break the streak.
func CompetitionMonthStreak(months []string) int {
	unique := make(map[string]struct{}, len(months))
	for _, m := range months {
		if _, err := time.Parse("2006-01", m); err != nil {
			continue
		}
		unique[m] = struct{}{}
	}
	if len(unique) == 0 {
		return 0
	}

	sorted := make([]string, 0, len(unique))
	for m := range unique {
		sorted = append(sorted, m)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(sorted)))

	streak := 1
	for i := 0; i < len(sorted)-1; i++ {
		cur, _ := time.Parse("2006-01", sorted[i])
		prev, _ := time.Parse("2006-01", sorted[i+1])
		if !prev.AddDate(0, 1, 0).Equal(cur) {
			break
		}
		streak++
	}
	return streak
}

// TrainingDayStreak counts consecutive calendar days with at least one
// workout, ending at the most recent training date. Only the 30 most
// recent distinct dates are considered.
func TrainingDayStreak(dates []time.Time) int {
	unique := make(map[time.Time]struct{}, len(dates))
	for _, d := range dates {
		day := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
		unique[day] = struct{}{}
	}
	if len(unique) == 0 {
		return 0
	}

	sorted := make([]time.Time, 0, len(unique))
	for d := range unique {
		sorted = append(sorted, d)
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].After(sorted[j]) })
	if len(sorted) > 30 {
		sorted = sorted[:30]
	}

	streak := 1
	for i := 0; i < len(sorted)-1; i++ {
		if !sorted[i+1].AddDate(0, 0, 1).Equal(sorted[i]) {
			break
		}
		streak++
	}
	return streak
}
