package models

// ProgressRecord is the persisted "furthest level cleared" gate for one
// player. HighestCompleted is monotonically non-decreasing; 0 means nothing
// cleared yet.
type ProgressRecord struct {
	ID             string `gorm:"primaryKey;type:uuid" json:"id"`
	ExternalUserID string `gorm:"uniqueIndex;not null" json:"external_user_id"`

	HighestCompleted int `gorm:"default:0" json:"highest_completed"`

	Timestamps
}

// RecordCompletion raises HighestCompleted to level and reports true when it
// actually moved. Lower or equal levels are no-ops — replays never regress
// the gate.
func (p *ProgressRecord) RecordCompletion(level int) bool {
	if level <= p.HighestCompleted {
		return false
	}
	p.HighestCompleted = level
	return true
}

// CanAccess reports whether level is playable: everything cleared so far
// plus the next unplayed one.
func (p *ProgressRecord) CanAccess(level int) bool {
	return level <= p.HighestCompleted+1
}

// NextLevel returns the level after current, or 0 when the catalog is done.
func NextLevel(current int) int {
	if current+1 > TotalLevels() {
		return 0
	}
	return current + 1
}
