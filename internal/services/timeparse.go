package services

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseTime converts "Ч:ММ:СС" or "ММ:СС" into seconds. ok is false for
// anything else: wrong part count, non-numeric parts, negative parts.
func ParseTime(timeStr string) (int, bool) {
	parts := strings.Split(strings.TrimSpace(timeStr), ":")
	if len(parts) != 2 && len(parts) != 3 {
		return 0, false
	}
	values := make([]int, len(parts))
	for i, part := range parts {
		v, err := strconv.Atoi(part)
		if err != nil || v < 0 {
			return 0, false
		}
		values[i] = v
	}
	if len(values) == 2 {
		return values[0]*60 + values[1], true
	}
	return values[0]*3600 + values[1]*60 + values[2], true
}

// SecondsToTime renders seconds as "Ч:ММ:СС", or "М:СС" when under an
// hour. Round-trips with ParseTime for any non-negative input.
func SecondsToTime(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	hours := seconds / 3600
	minutes := (seconds % 3600) / 60
	secs := seconds % 60
	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d", hours, minutes, secs)
	}
	return fmt.Sprintf("%d:%02d", minutes, secs)
}

// CompareTimes orders two time strings: -1 when a is faster, 1 when b is,
// 0 when equal. Unparsable values compare equal to everything, so a junk
// result never displaces a valid record.
func CompareTimes(a, b string) int {
	secondsA, okA := ParseTime(a)
	secondsB, okB := ParseTime(b)
	if !okA || !okB {
		return 0
	}
	switch {
	case secondsA < secondsB:
		return -1
	case secondsA > secondsB:
		return 1
	default:
		return 0
	}
}

// CalculatePace returns the "М:СС" pace per kilometer, or "" when the
// time is unparsable or the distance is not positive. Fractional seconds
// are truncated.
func CalculatePace(distanceKm float64, timeStr string) string {
	if distanceKm <= 0 {
		return ""
	}
	total, ok := ParseTime(timeStr)
	if !ok {
		return ""
	}
	paceSeconds := int(float64(total) / distanceKm)
	return fmt.Sprintf("%02d:%02d", paceSeconds/60, paceSeconds%60)
}

// NormalizeTime canonicalizes a result string: "0:45:30" becomes "45:30",
// "1:5:3" becomes "1:05:03". Unparsable input is returned unchanged.
func NormalizeTime(timeStr string) string {
	seconds, ok := ParseTime(timeStr)
	if !ok {
		return timeStr
	}
	return SecondsToTime(seconds)
}
