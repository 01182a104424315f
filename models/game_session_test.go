package models

import (
	"testing"
	"time"
)

func TestSessionElapsed(t *testing.T) {
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	sess := GameSession{StartedAt: start}

	if got := sess.Elapsed(start.Add(90 * time.Second)); got != 90*time.Second {
		t.Errorf("Elapsed = %v, want 90s", got)
	}

	// Clock skew must never produce negative play time.
	if got := sess.Elapsed(start.Add(-time.Minute)); got != 0 {
		t.Errorf("Elapsed with earlier now = %v, want 0", got)
	}
}

func TestSessionElapsedUsesEndedAt(t *testing.T) {
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	end := start.Add(5 * time.Minute)
	sess := GameSession{StartedAt: start, EndedAt: &end}

	// Once closed, later "now" values don't grow the session.
	if got := sess.Elapsed(start.Add(time.Hour)); got != 5*time.Minute {
		t.Errorf("Elapsed = %v, want 5m", got)
	}
}

func TestValidCodeQuality(t *testing.T) {
	for _, q := range []string{CodeQualityPoor, CodeQualityGood, CodeQualityExcellent} {
		if !ValidCodeQuality(q) {
			t.Errorf("ValidCodeQuality(%q) = false, want true", q)
		}
	}
	if ValidCodeQuality("perfect") {
		t.Errorf("unknown quality accepted")
	}
}
