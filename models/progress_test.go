package models

import "testing"

func TestRecordCompletionMonotonic(t *testing.T) {
	rec := ProgressRecord{}

	if !rec.RecordCompletion(1) {
		t.Fatalf("first completion of level 1 should advance")
	}
	if rec.HighestCompleted != 1 {
		t.Fatalf("HighestCompleted = %d, want 1", rec.HighestCompleted)
	}

	if rec.RecordCompletion(1) {
		t.Errorf("replaying level 1 should not advance")
	}
	if !rec.RecordCompletion(3) {
		t.Errorf("jump to level 3 should advance")
	}
	if rec.RecordCompletion(2) {
		t.Errorf("completing level 2 after 3 should not regress the gate")
	}
	if rec.HighestCompleted != 3 {
		t.Errorf("HighestCompleted = %d, want 3", rec.HighestCompleted)
	}
}

func TestCanAccessBoundary(t *testing.T) {
	rec := ProgressRecord{HighestCompleted: 2}

	for level := 1; level <= 3; level++ {
		if !rec.CanAccess(level) {
			t.Errorf("level %d should be accessible with highest=2", level)
		}
	}
	if rec.CanAccess(4) {
		t.Errorf("level 4 should be locked with highest=2")
	}

	fresh := ProgressRecord{}
	if !fresh.CanAccess(1) {
		t.Errorf("level 1 should be open for a fresh player")
	}
	if fresh.CanAccess(2) {
		t.Errorf("level 2 should be locked for a fresh player")
	}
}

func TestNextLevel(t *testing.T) {
	if got := NextLevel(0); got != 1 {
		t.Errorf("NextLevel(0) = %d, want 1", got)
	}
	if got := NextLevel(3); got != 4 {
		t.Errorf("NextLevel(3) = %d, want 4", got)
	}
	if got := NextLevel(TotalLevels()); got != 0 {
		t.Errorf("NextLevel(last) = %d, want 0", got)
	}
}
