package models

import "time"

// Session lifecycle states.
const (
	SessionActive    = "active"
	SessionCompleted = "completed"
	SessionAbandoned = "abandoned"
)

// Self-assessed quality of the player's submitted code for one attempt.
const (
	CodeQualityPoor      = "poor"
	CodeQualityGood      = "good"
	CodeQualityExcellent = "excellent"
)

func ValidCodeQuality(q string) bool {
	return q == CodeQualityPoor || q == CodeQualityGood || q == CodeQualityExcellent
}

// GameSession is one continuous play attempt at a single level. At most one
// active session exists per player; starting a new one abandons the old.
// Closed sessions are kept as attempt history.
type GameSession struct {
	ID             string `gorm:"primaryKey;type:uuid" json:"id"`
	ExternalUserID string `gorm:"index;not null" json:"external_user_id"`

	LevelID   int       `gorm:"not null" json:"level_id"`
	StartedAt time.Time `gorm:"not null" json:"started_at"`
	EndedAt   *time.Time `json:"ended_at,omitempty"`

	Attempts  int `gorm:"default:0" json:"attempts"`
	HintsUsed int `gorm:"default:0" json:"hints_used"`

	CodeQuality string `gorm:"type:varchar(16)" json:"code_quality,omitempty"`
	Status      string `gorm:"type:varchar(16);index;default:'active'" json:"status"`

	Timestamps
}

// Elapsed returns the wall-clock duration of the session as of now (or of
// EndedAt once closed). Never negative.
func (s *GameSession) Elapsed(now time.Time) time.Duration {
	end := now
	if s.EndedAt != nil {
		end = *s.EndedAt
	}
	d := end.Sub(s.StartedAt)
	if d < 0 {
		return 0
	}
	return d
}
