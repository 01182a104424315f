package services

import (
	"testing"
	"time"

	"solidity-quest-system/models"
)

func freshStats() *models.PlayerStats {
	return &models.PlayerStats{
		Level:       1,
		StarsEarned: map[int]int{},
		BestTimes:   map[int]int64{},
	}
}

func TestLevelForXP(t *testing.T) {
	cases := []struct {
		xp   int64
		want int
	}{
		{0, 1},
		{499, 1},
		{500, 2},
		{999, 2},
		{1000, 3},
		{-50, 1},
	}
	for _, c := range cases {
		if got := LevelForXP(c.xp); got != c.want {
			t.Errorf("LevelForXP(%d) = %d, want %d", c.xp, got, c.want)
		}
	}
}

func TestApplyAttemptFirstClearBonus(t *testing.T) {
	stats := freshStats()

	gain, fresh := applyAttempt(stats, 1, 3, 40*time.Second)
	if !fresh {
		t.Fatalf("first clear should be a new completion")
	}
	if gain != 250 { // 3 stars * 50 + 100 first-clear
		t.Errorf("first clear gain = %d, want 250", gain)
	}
	if stats.TotalXP != 250 {
		t.Errorf("TotalXP = %d, want 250", stats.TotalXP)
	}

	gain, fresh = applyAttempt(stats, 1, 3, 35*time.Second)
	if fresh {
		t.Errorf("replay should not count as a new completion")
	}
	if gain != 150 { // no bonus on replay
		t.Errorf("replay gain = %d, want 150", gain)
	}
	if stats.TotalXP != 400 {
		t.Errorf("TotalXP after replay = %d, want 400", stats.TotalXP)
	}
	if len(stats.CompletedLevels) != 1 {
		t.Errorf("CompletedLevels = %v, want exactly one entry", stats.CompletedLevels)
	}
}

func TestApplyAttemptStarMaxMerge(t *testing.T) {
	stats := freshStats()

	applyAttempt(stats, 2, 2, time.Minute)
	applyAttempt(stats, 2, 1, time.Minute)
	if stats.StarsEarned[2] != 2 {
		t.Errorf("stars after worse replay = %d, want 2", stats.StarsEarned[2])
	}
	applyAttempt(stats, 2, 3, time.Minute)
	if stats.StarsEarned[2] != 3 {
		t.Errorf("stars after better replay = %d, want 3", stats.StarsEarned[2])
	}
}

func TestApplyAttemptZeroStarClearRecordsEntry(t *testing.T) {
	stats := freshStats()

	applyAttempt(stats, 3, 0, time.Minute)
	if stars, ok := stats.StarsEarned[3]; !ok {
		t.Fatalf("zero-star clear must still record a StarsEarned entry")
	} else if stars != 0 {
		t.Errorf("stars = %d, want 0", stars)
	}

	applyAttempt(stats, 3, 2, time.Minute)
	if stats.StarsEarned[3] != 2 {
		t.Errorf("stars after replay = %d, want 2", stats.StarsEarned[3])
	}
}

func TestApplyAttemptBestTimeMinMerge(t *testing.T) {
	stats := freshStats()

	applyAttempt(stats, 1, 3, 5*time.Second)
	applyAttempt(stats, 1, 3, 9*time.Second)
	if stats.BestTimes[1] != 5000 {
		t.Errorf("best time after slower replay = %d, want 5000", stats.BestTimes[1])
	}
	applyAttempt(stats, 1, 3, 3*time.Second)
	if stats.BestTimes[1] != 3000 {
		t.Errorf("best time after faster replay = %d, want 3000", stats.BestTimes[1])
	}
}

func TestApplyAttemptLevelRecompute(t *testing.T) {
	stats := freshStats()

	// Five first clears at 3 stars: 5 * 250 = 1250 XP -> level 3
	for id := 1; id <= 5; id++ {
		applyAttempt(stats, id, 3, time.Minute)
	}
	if stats.TotalXP != 1250 {
		t.Fatalf("TotalXP = %d, want 1250", stats.TotalXP)
	}
	if stats.Level != 3 {
		t.Errorf("Level = %d, want 3", stats.Level)
	}
	if stats.Level != LevelForXP(stats.TotalXP) {
		t.Errorf("stored level %d disagrees with derived %d", stats.Level, LevelForXP(stats.TotalXP))
	}
}

func TestApplyAttemptNilMaps(t *testing.T) {
	// Rows written before the maps existed deserialize with nil maps.
	stats := &models.PlayerStats{Level: 1}

	applyAttempt(stats, 1, 2, 10*time.Second)
	if stats.StarsEarned[1] != 2 {
		t.Errorf("stars = %d, want 2", stats.StarsEarned[1])
	}
	if stats.BestTimes[1] != 10000 {
		t.Errorf("best time = %d, want 10000", stats.BestTimes[1])
	}
}

func TestValidateAttempt(t *testing.T) {
	if err := validateAttempt(1, 3, time.Minute); err != nil {
		t.Errorf("valid attempt rejected: %v", err)
	}

	bad := []struct {
		name    string
		levelID int
		stars   int
		elapsed time.Duration
	}{
		{"level zero", 0, 3, time.Minute},
		{"level past catalog", models.TotalLevels() + 1, 3, time.Minute},
		{"negative stars", 1, -1, time.Minute},
		{"too many stars", 1, 4, time.Minute},
		{"negative elapsed", 1, 3, -time.Second},
	}
	for _, c := range bad {
		if err := validateAttempt(c.levelID, c.stars, c.elapsed); err == nil {
			t.Errorf("%s: expected validation error", c.name)
		}
	}
}
