package models

import "time"

// ParticipationStatus tracks the lifecycle of a race entry.
type ParticipationStatus string

const (
	StatusRegistered ParticipationStatus = "registered"
	StatusFinished   ParticipationStatus = "finished"
	StatusDNS        ParticipationStatus = "dns"
	StatusDNF        ParticipationStatus = "dnf"
)

// Canonical sport labels as stored in the competitions table.
const (
	SportRunning   = "бег"
	SportSwimming  = "плавание"
	SportCycling   = "велоспорт"
	SportTriathlon = "триатлон"
)

// Well-known race distances in kilometers.
const (
	DistanceTen          = 10.0
	DistanceHalfMarathon = 21.1
	DistanceMarathon     = 42.195
)

// Competition is a race event shared between participants.
type Competition struct {
	ID        int64
	Name      string
	SportType string
	CompType  string
	Organizer string
	City      string
	Date      time.Time
	CreatedAt time.Time
}

// Participation is one user's entry in a competition, joined with the
// competition fields the statistics pipeline needs. Optional values use
// zero defaults: Distance 0 means unknown, FinishTime "" means no result,
// PlaceOverall 0 means no placement.
type Participation struct {
	ID               int64
	UserID           int64
	CompetitionID    int64
	CompetitionName  string
	CompetitionType  string
	SportType        string
	Organizer        string
	City             string
	Date             time.Time
	Distance         float64
	DistanceName     string
	Status           ParticipationStatus
	FinishTime       string
	TargetTime       string
	PlaceOverall     int
	PlaceAgeCategory int
	AgeCategory      string
}

// HasResult reports whether the entry carries a recorded finish time.
func (p *Participation) HasResult() bool {
	return p.FinishTime != ""
}

// PersonalRecord is a cached best result for one distance.
type PersonalRecord struct {
	UserID        int64
	Distance      float64
	BestTime      string
	BestSeconds   int
	CompetitionID int64
	Date          time.Time
}
