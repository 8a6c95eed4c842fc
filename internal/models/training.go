package models

import "time"

// Training is a diary entry for a single workout. StartTime is an
// "HH:MM" wall-clock string, "" when the user did not log one.
type Training struct {
	ID        int64
	UserID    int64
	Date      time.Time
	Distance  float64
	StartTime string
	Comment   string
	CreatedAt time.Time
}
