package services

import (
	"fmt"
	"log"
	"time"

	"solidity-quest-system/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// XPWeights define relative values (tunable via config/env later)
type XPWeights struct {
	StarXP       int64 `default:"50"`  // per star on a clear
	FirstClearXP int64 `default:"100"` // one-time bonus per level
}

var DefaultXPWeights = XPWeights{
	StarXP:       50,
	FirstClearXP: 100,
}

// XPPerLevel: flat level curve — every 500 XP is one player level.
const XPPerLevel = 500

// LevelForXP derives the player level from total XP. Level is never stored
// independently: every XP mutation recomputes it through here.
func LevelForXP(totalXP int64) int {
	if totalXP < 0 {
		return 1
	}
	return int(totalXP/XPPerLevel) + 1
}

// validateAttempt guards the numeric inputs of a stats update.
func validateAttempt(levelID, stars int, elapsed time.Duration) error {
	if !models.ValidLevelID(levelID) {
		return fmt.Errorf("%w: level %d outside catalog [1,%d]", models.ErrValidation, levelID, models.TotalLevels())
	}
	if stars < 0 || stars > 3 {
		return fmt.Errorf("%w: stars %d outside [0,3]", models.ErrValidation, stars)
	}
	if elapsed < 0 {
		return fmt.Errorf("%w: negative elapsed time %v", models.ErrValidation, elapsed)
	}
	return nil
}

// applyAttempt folds one level clear into the stats block: XP (stars plus
// one-time first-clear bonus), completion set, star max-merge, best-time
// min-merge, level recompute. Pure — the caller persists.
func applyAttempt(stats *models.PlayerStats, levelID, stars int, elapsed time.Duration) (xpGain int64, newCompletion bool) {
	newCompletion = !stats.HasCompleted(levelID)

	xpGain = int64(stars) * DefaultXPWeights.StarXP
	if newCompletion {
		xpGain += DefaultXPWeights.FirstClearXP
	}
	stats.TotalXP += xpGain
	stats.Level = LevelForXP(stats.TotalXP)

	if newCompletion {
		stats.CompletedLevels = append(stats.CompletedLevels, levelID)
	}

	if stats.StarsEarned == nil {
		stats.StarsEarned = make(map[int]int)
	}
	// Every clear records an entry, even a zero-star one; replays only raise it.
	if prev, ok := stats.StarsEarned[levelID]; !ok || stars > prev {
		stats.StarsEarned[levelID] = stars
	}

	if stats.BestTimes == nil {
		stats.BestTimes = make(map[int]int64)
	}
	elapsedMs := elapsed.Milliseconds()
	if prev, ok := stats.BestTimes[levelID]; !ok || elapsedMs < prev {
		stats.BestTimes[levelID] = elapsedMs
	}

	return xpGain, newCompletion
}

type ProgressionService struct {
	DB *gorm.DB

	// Leaderboard mirrors XP changes into redis when configured; nil is fine.
	Leaderboard *LeaderboardService
}

func NewProgressionService(db *gorm.DB) *ProgressionService {
	return &ProgressionService{DB: db}
}

// EnsureProgressRecord ensures a ProgressRecord row exists (idempotent)
func (s *ProgressionService) EnsureProgressRecord(externalUserID string) (*models.ProgressRecord, error) {
	return ensureProgressTx(s.DB, externalUserID)
}

// RecordCompletion raises the player's progress gate to level. Returns true
// only for a genuinely new furthest level; replays are no-ops.
func (s *ProgressionService) RecordCompletion(externalUserID string, level int) (bool, error) {
	if !models.ValidLevelID(level) {
		return false, fmt.Errorf("%w: level %d outside catalog [1,%d]", models.ErrValidation, level, models.TotalLevels())
	}

	advanced := false
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		rec, err := ensureProgressTx(tx, externalUserID)
		if err != nil {
			return err
		}
		if !rec.RecordCompletion(level) {
			return nil
		}
		advanced = true
		return tx.Save(rec).Error
	})
	if err != nil {
		return false, err
	}
	if advanced {
		log.Printf("🏁 Progress advanced: %s → highest_completed=%d", externalUserID, level)
	}
	return advanced, nil
}

// CanAccess reports whether the player may open level (cleared levels stay
// replayable, the next unplayed one is open, everything beyond is locked).
func (s *ProgressionService) CanAccess(externalUserID string, level int) (bool, error) {
	rec, err := s.EnsureProgressRecord(externalUserID)
	if err != nil {
		return false, err
	}
	return rec.CanAccess(level), nil
}

// AttemptOutcome is the consolidated result of one stats update.
type AttemptOutcome struct {
	XPGained             int64    `json:"xp_gained"`
	TotalXP              int64    `json:"total_xp"`
	Level                int      `json:"level"`
	LeveledUp            bool     `json:"leveled_up"`
	NewCompletion        bool     `json:"new_completion"`
	StarsEarned          int      `json:"stars_earned"`
	BestTimeMs           int64    `json:"best_time_ms"`
	UnlockedAchievements []string `json:"unlocked_achievements"`
}

// UpdateStats applies one level clear to the profile: XP, completion set,
// star/best-time merges, then achievement evaluation — all in one
// transaction so the stored Level always reflects the final TotalXP.
func (s *ProgressionService) UpdateStats(externalUserID string, levelID, stars int, elapsed time.Duration) (*AttemptOutcome, error) {
	if err := validateAttempt(levelID, stars, elapsed); err != nil {
		return nil, err
	}

	var outcome *AttemptOutcome
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		prof, err := profileTx(tx, externalUserID)
		if err != nil {
			return err
		}

		o, err := applyStatsTx(tx, prof, levelID, stars, elapsed)
		if err != nil {
			return err
		}
		outcome = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.mirrorLeaderboard(externalUserID, outcome.TotalXP)
	return outcome, nil
}

// LevelCompletionResult is the consolidated result of the composite
// completion: session bookkeeping, stats, achievements and progress applied
// as one unit.
type LevelCompletionResult struct {
	AttemptOutcome
	SessionElapsedMs int64 `json:"session_elapsed_ms"`
	Attempts         int   `json:"attempts"`
	HintsUsed        int   `json:"hints_used"`
	ProgressAdvanced bool  `json:"progress_advanced"`
	NextLevel        int   `json:"next_level,omitempty"`
}

// CompleteLevel is the single entry point a level page should call on
// success. It ends the active session, accrues play time, updates stats,
// evaluates achievements and records progress in one transaction — the old
// "remember to call endSession AND updateStats AND recordCompletion"
// ordering hazard cannot happen.
func (s *ProgressionService) CompleteLevel(externalUserID string, levelID, stars int, codeQuality string) (*LevelCompletionResult, error) {
	if err := validateAttempt(levelID, stars, 0); err != nil {
		return nil, err
	}
	if codeQuality != "" && !models.ValidCodeQuality(codeQuality) {
		return nil, fmt.Errorf("%w: unknown code quality %q", models.ErrValidation, codeQuality)
	}

	var result *LevelCompletionResult
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var session models.GameSession
		err := tx.Where("external_user_id = ? AND status = ?", externalUserID, models.SessionActive).
			First(&session).Error
		if err == gorm.ErrRecordNotFound {
			return models.ErrNoActiveSession
		}
		if err != nil {
			return err
		}
		if session.LevelID != levelID {
			return fmt.Errorf("%w: active session is for level %d, not %d", models.ErrValidation, session.LevelID, levelID)
		}

		now := time.Now()
		elapsed := session.Elapsed(now)
		session.EndedAt = &now
		session.Status = models.SessionCompleted
		session.CodeQuality = codeQuality
		if err := tx.Save(&session).Error; err != nil {
			return err
		}

		prof, err := profileTx(tx, externalUserID)
		if err != nil {
			return err
		}
		prof.TotalPlayTimeMs += elapsed.Milliseconds()

		outcome, err := applyStatsTx(tx, prof, levelID, stars, elapsed)
		if err != nil {
			return err
		}

		rec, err := ensureProgressTx(tx, externalUserID)
		if err != nil {
			return err
		}
		advanced := rec.RecordCompletion(levelID)
		if advanced {
			if err := tx.Save(rec).Error; err != nil {
				return err
			}
		}

		result = &LevelCompletionResult{
			AttemptOutcome:   *outcome,
			SessionElapsedMs: elapsed.Milliseconds(),
			Attempts:         session.Attempts,
			HintsUsed:        session.HintsUsed,
			ProgressAdvanced: advanced,
			NextLevel:        models.NextLevel(levelID),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.mirrorLeaderboard(externalUserID, result.TotalXP)
	log.Printf("🎮 Level %d complete: %s → XP=%d, Lvl=%d, stars=%d, new=%t",
		levelID, externalUserID, result.TotalXP, result.Level, stars, result.NewCompletion)
	return result, nil
}

// applyStatsTx runs the stats mutation plus achievement evaluation against
// an open transaction and saves the profile with the final derived level.
func applyStatsTx(tx *gorm.DB, prof *models.PlayerProfile, levelID, stars int, elapsed time.Duration) (*AttemptOutcome, error) {
	oldLevel := prof.Level

	xpGain, newCompletion := applyAttempt(&prof.PlayerStats, levelID, stars, elapsed)

	// Auto-unlock achievements; their XP rewards land on this profile before
	// the final save, so Level reflects the final TotalXP.
	achSvc := NewAchievementService(tx)
	unlocked, err := achSvc.evaluateTx(tx, prof)
	if err != nil {
		return nil, err
	}

	if err := tx.Save(prof).Error; err != nil {
		return nil, err
	}

	return &AttemptOutcome{
		XPGained:             xpGain,
		TotalXP:              prof.TotalXP,
		Level:                prof.Level,
		LeveledUp:            prof.Level > oldLevel,
		NewCompletion:        newCompletion,
		StarsEarned:          prof.StarsEarned[levelID],
		BestTimeMs:           prof.BestTimes[levelID],
		UnlockedAchievements: unlocked,
	}, nil
}

func (s *ProgressionService) mirrorLeaderboard(externalUserID string, totalXP int64) {
	if s.Leaderboard == nil {
		return
	}
	if err := s.Leaderboard.UpdateScore(externalUserID, totalXP); err != nil {
		log.Printf("⚠️ Leaderboard mirror failed for %s: %v", externalUserID, err)
	}
}

// profileTx loads the profile inside a transaction, mapping absence to
// ErrNotInitialized.
func profileTx(tx *gorm.DB, externalUserID string) (*models.PlayerProfile, error) {
	var prof models.PlayerProfile
	err := tx.Where("external_user_id = ?", externalUserID).First(&prof).Error
	if err == gorm.ErrRecordNotFound {
		return nil, models.ErrNotInitialized
	}
	if err != nil {
		return nil, err
	}
	return &prof, nil
}

func ensureProgressTx(tx *gorm.DB, externalUserID string) (*models.ProgressRecord, error) {
	var rec models.ProgressRecord
	err := tx.Where("external_user_id = ?", externalUserID).First(&rec).Error
	if err == gorm.ErrRecordNotFound {
		rec = models.ProgressRecord{
			ID:             uuid.NewString(),
			ExternalUserID: externalUserID,
		}
		if err := tx.Create(&rec).Error; err != nil {
			return nil, err
		}
		return &rec, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}
