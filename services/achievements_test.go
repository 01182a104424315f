package services

import (
	"testing"
	"time"

	"solidity-quest-system/models"
)

func statsAllCleared(stars int) *models.PlayerStats {
	stats := &models.PlayerStats{
		StarsEarned: map[int]int{},
		BestTimes:   map[int]int64{},
	}
	for id := 1; id <= models.TotalLevels(); id++ {
		stats.CompletedLevels = append(stats.CompletedLevels, id)
		stats.StarsEarned[id] = stars
		stats.BestTimes[id] = 180000
	}
	return stats
}

func TestMeetsTriggerLevelClear(t *testing.T) {
	first := models.AchievementByCode("FIRST_CONTRACT")
	if first == nil {
		t.Fatalf("FIRST_CONTRACT missing from catalog")
	}

	stats := &models.PlayerStats{}
	if meetsTrigger(stats, first) {
		t.Errorf("fresh player should not have FIRST_CONTRACT")
	}
	stats.CompletedLevels = []int{1}
	if !meetsTrigger(stats, first) {
		t.Errorf("level 1 clear should grant FIRST_CONTRACT")
	}
}

func TestMeetsTriggerPerfectionist(t *testing.T) {
	perf := models.AchievementByCode("PERFECTIONIST")
	if perf == nil {
		t.Fatalf("PERFECTIONIST missing from catalog")
	}

	if !meetsTrigger(statsAllCleared(3), perf) {
		t.Errorf("all levels at 3 stars should grant PERFECTIONIST")
	}
	if meetsTrigger(statsAllCleared(2), perf) {
		t.Errorf("2-star clears should not grant PERFECTIONIST")
	}

	// One level short, even at full stars
	stats := statsAllCleared(3)
	stats.CompletedLevels = stats.CompletedLevels[:len(stats.CompletedLevels)-1]
	if meetsTrigger(stats, perf) {
		t.Errorf("missing a level should not grant PERFECTIONIST")
	}

	// All cleared but one level only got 2 stars
	stats = statsAllCleared(3)
	stats.StarsEarned[2] = 2
	if meetsTrigger(stats, perf) {
		t.Errorf("a single 2-star level should block PERFECTIONIST")
	}
}

func TestPerfectionistBlockedByZeroStarClear(t *testing.T) {
	perf := models.AchievementByCode("PERFECTIONIST")
	if perf == nil {
		t.Fatalf("PERFECTIONIST missing from catalog")
	}

	// Drive the stats through the real mutation path: four 3-star clears
	// and a zero-star clear of the last level.
	stats := freshStats()
	for id := 1; id < models.TotalLevels(); id++ {
		applyAttempt(stats, id, 3, time.Minute)
	}
	applyAttempt(stats, models.TotalLevels(), 0, time.Minute)

	if len(stats.CompletedLevels) != models.TotalLevels() {
		t.Fatalf("all levels should count as completed")
	}
	if meetsTrigger(stats, perf) {
		t.Errorf("a zero-star clear must block PERFECTIONIST")
	}

	// A missing entry (legacy row) must block it too, never satisfy it.
	stats = statsAllCleared(3)
	delete(stats.StarsEarned, models.TotalLevels())
	if meetsTrigger(stats, perf) {
		t.Errorf("a completed level without a star entry must block PERFECTIONIST")
	}
}

func TestMeetsTriggerSpeedRunner(t *testing.T) {
	speed := models.AchievementByCode("SPEED_RUNNER")
	if speed == nil {
		t.Fatalf("SPEED_RUNNER missing from catalog")
	}

	stats := &models.PlayerStats{BestTimes: map[int]int64{1: 119999}}
	if !meetsTrigger(stats, speed) {
		t.Errorf("119999ms should grant SPEED_RUNNER")
	}

	stats.BestTimes[1] = 120000
	if meetsTrigger(stats, speed) {
		t.Errorf("exactly 120000ms should not grant SPEED_RUNNER (strict bound)")
	}
}

func TestMeetsTriggerManualNeverAuto(t *testing.T) {
	zen := models.AchievementByCode("ZEN_CODER")
	if zen == nil {
		t.Fatalf("ZEN_CODER missing from catalog")
	}
	if meetsTrigger(statsAllCleared(3), zen) {
		t.Errorf("manual achievements must never auto-unlock")
	}
}

func TestApplyUnlockIdempotent(t *testing.T) {
	row := models.PlayerAchievement{
		ExternalUserID: "u1",
		Code:           "FIRST_CONTRACT",
	}

	first := time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)
	if !applyUnlock(&row, first) {
		t.Fatalf("first unlock should report fresh")
	}
	if !row.Unlocked || row.UnlockedAt == nil || !row.UnlockedAt.Equal(first) {
		t.Fatalf("first unlock did not set state: unlocked=%t at=%v", row.Unlocked, row.UnlockedAt)
	}

	later := first.Add(time.Hour)
	if applyUnlock(&row, later) {
		t.Errorf("second unlock must not report fresh")
	}
	if !row.UnlockedAt.Equal(first) {
		t.Errorf("UnlockedAt = %v, original timestamp must stand", row.UnlockedAt)
	}
}

func TestUnlockAwardsXPExactlyOnce(t *testing.T) {
	cat := models.AchievementByCode("ZEN_CODER")
	if cat == nil {
		t.Fatalf("ZEN_CODER missing from catalog")
	}

	row := models.PlayerAchievement{ExternalUserID: "u1", Code: cat.Code}
	var totalXP int64

	// XP is granted only on a fresh unlock — the caller contract evaluateTx
	// and Unlock both follow.
	for i := 0; i < 3; i++ {
		if applyUnlock(&row, time.Now()) {
			totalXP += cat.XPReward
		}
	}
	if totalXP != cat.XPReward {
		t.Errorf("total XP after repeated unlocks = %d, want %d", totalXP, cat.XPReward)
	}
}

func TestAchievementCatalogCodesUnique(t *testing.T) {
	seen := map[string]bool{}
	for _, a := range models.AchievementCatalog {
		if seen[a.Code] {
			t.Errorf("duplicate achievement code %q", a.Code)
		}
		seen[a.Code] = true
		if a.XPReward <= 0 {
			t.Errorf("achievement %q has non-positive XP reward", a.Code)
		}
	}
}
