package services

import (
	"fmt"
	"log"
	"time"

	"solidity-quest-system/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AchievementService struct {
	DB *gorm.DB
}

func NewAchievementService(db *gorm.DB) *AchievementService {
	return &AchievementService{DB: db}
}

// meetsTrigger evaluates one catalog predicate against the stats block.
// Manual achievements never auto-unlock.
func meetsTrigger(stats *models.PlayerStats, a *models.AchievementType) bool {
	switch a.Trigger {
	case models.TriggerLevelClear:
		return stats.HasCompleted(a.LevelID)

	case models.TriggerAllStars:
		// Every level cleared with a recorded full three stars. The entry must
		// exist per completed level — a zero-star clear is still a clear.
		if len(stats.CompletedLevels) != models.TotalLevels() {
			return false
		}
		for _, id := range stats.CompletedLevels {
			if stars, ok := stats.StarsEarned[id]; !ok || stars != 3 {
				return false
			}
		}
		return true

	case models.TriggerBestTime:
		for _, ms := range stats.BestTimes {
			if ms < a.TriggerValue { // strict: exactly the bound does not count
				return true
			}
		}
		return false
	}
	return false
}

// evaluateTx walks the whole catalog against the profile's current stats and
// unlocks everything due, adding each XP reward to the profile and
// recomputing the derived level afterwards. Already-unlocked rows are left
// untouched (no double XP, no timestamp overwrite). The caller saves the
// profile.
func (s *AchievementService) evaluateTx(tx *gorm.DB, prof *models.PlayerProfile) ([]string, error) {
	var unlocked []string
	for i := range models.AchievementCatalog {
		a := &models.AchievementCatalog[i]
		if a.Trigger == models.TriggerManual {
			continue
		}
		if !meetsTrigger(&prof.PlayerStats, a) {
			continue
		}

		fresh, err := unlockRowTx(tx, prof.ExternalUserID, a.Code)
		if err != nil {
			return nil, err
		}
		if !fresh {
			continue
		}

		prof.TotalXP += a.XPReward
		unlocked = append(unlocked, a.Code)
		log.Printf("🏆 Achievement unlocked: %s → %s (+%d XP)", a.Code, prof.ExternalUserID, a.XPReward)
	}

	if len(unlocked) > 0 {
		prof.Level = LevelForXP(prof.TotalXP)
	}
	return unlocked, nil
}

// applyUnlock flips the row to unlocked and reports whether it was a fresh
// unlock. Already-unlocked rows are untouched — the first UnlockedAt stands
// and the caller must not award XP again.
func applyUnlock(row *models.PlayerAchievement, now time.Time) bool {
	if row.Unlocked {
		return false
	}
	row.Unlocked = true
	row.UnlockedAt = &now
	return true
}

// unlockRowTx flips (or creates) the player's unlock row for code. Returns
// false when it was already unlocked.
func unlockRowTx(tx *gorm.DB, externalUserID, code string) (bool, error) {
	var row models.PlayerAchievement
	err := tx.Where("external_user_id = ? AND code = ?", externalUserID, code).First(&row).Error
	now := time.Now()

	if err == gorm.ErrRecordNotFound {
		row = models.PlayerAchievement{
			ID:             uuid.NewString(),
			ExternalUserID: externalUserID,
			Code:           code,
		}
		applyUnlock(&row, now)
		return true, tx.Create(&row).Error
	}
	if err != nil {
		return false, err
	}
	if !applyUnlock(&row, now) {
		return false, nil
	}
	return true, tx.Save(&row).Error
}

// UnlockResult reports the outcome of an explicit unlock call.
type UnlockResult struct {
	Code             string `json:"code"`
	AlreadyUnlocked  bool   `json:"already_unlocked"`
	XPAwarded        int64  `json:"xp_awarded"`
	TotalXP          int64  `json:"total_xp"`
	Level            int    `json:"level"`
}

// Unlock is the explicit unlock path for manual achievements (and an
// idempotent no-op for anything already unlocked). The XP reward is granted
// exactly once, with the level recomputed from the final total.
func (s *AchievementService) Unlock(externalUserID, code string) (*UnlockResult, error) {
	cat := models.AchievementByCode(code)
	if cat == nil {
		return nil, fmt.Errorf("%w: unknown achievement code %q", models.ErrValidation, code)
	}

	var result *UnlockResult
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		prof, err := profileTx(tx, externalUserID)
		if err != nil {
			return err
		}

		fresh, err := unlockRowTx(tx, externalUserID, code)
		if err != nil {
			return err
		}
		if !fresh {
			result = &UnlockResult{
				Code:            code,
				AlreadyUnlocked: true,
				TotalXP:         prof.TotalXP,
				Level:           prof.Level,
			}
			return nil
		}

		prof.TotalXP += cat.XPReward
		prof.Level = LevelForXP(prof.TotalXP)
		if err := tx.Save(prof).Error; err != nil {
			return err
		}

		result = &UnlockResult{
			Code:      code,
			XPAwarded: cat.XPReward,
			TotalXP:   prof.TotalXP,
			Level:     prof.Level,
		}
		log.Printf("🏆 Achievement unlocked (manual): %s → %s (+%d XP)", code, externalUserID, cat.XPReward)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// AchievementView merges a catalog entry with the player's unlock state.
type AchievementView struct {
	models.AchievementType
	Unlocked   bool       `json:"unlocked"`
	UnlockedAt *time.Time `json:"unlocked_at,omitempty"`
}

// ListForUser returns the full catalog with the player's unlock state.
// Catalog entries added after the profile was created show up locked —
// growth is merged forward, unlock state is never re-seeded.
func (s *AchievementService) ListForUser(externalUserID string) ([]AchievementView, error) {
	var rows []models.PlayerAchievement
	if err := s.DB.Where("external_user_id = ?", externalUserID).Find(&rows).Error; err != nil {
		return nil, err
	}
	byCode := make(map[string]*models.PlayerAchievement, len(rows))
	for i := range rows {
		byCode[rows[i].Code] = &rows[i]
	}

	views := make([]AchievementView, 0, len(models.AchievementCatalog))
	for i := range models.AchievementCatalog {
		a := models.AchievementCatalog[i]
		v := AchievementView{AchievementType: a}
		if row, ok := byCode[a.Code]; ok {
			v.Unlocked = row.Unlocked
			v.UnlockedAt = row.UnlockedAt
		}
		views = append(views, v)
	}
	return views, nil
}

// SeedForUser creates locked rows for the whole catalog (profile creation).
// Safe to re-run: existing rows are left alone.
func (s *AchievementService) SeedForUser(tx *gorm.DB, externalUserID string) error {
	for i := range models.AchievementCatalog {
		code := models.AchievementCatalog[i].Code
		var count int64
		if err := tx.Model(&models.PlayerAchievement{}).
			Where("external_user_id = ? AND code = ?", externalUserID, code).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			continue
		}
		row := models.PlayerAchievement{
			ID:             uuid.NewString(),
			ExternalUserID: externalUserID,
			Code:           code,
		}
		if err := tx.Create(&row).Error; err != nil {
			return err
		}
	}
	return nil
}
