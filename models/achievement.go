package models

import (
	"time"
)

// Achievement trigger kinds. level_clear/all_stars/best_time are evaluated
// automatically after every stats update; manual ones are unlocked only by
// an explicit API call (the client knows things we don't, e.g. hint usage UI).
const (
	TriggerLevelClear = "level_clear"
	TriggerAllStars   = "all_stars"
	TriggerBestTime   = "best_time"
	TriggerManual     = "manual"
)

// AchievementType: static catalog entry. Unlocking one grants XPReward once.
type AchievementType struct {
	Code        string `json:"code"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Rarity      string `json:"rarity"` // common, rare, epic, legendary
	XPReward    int64  `json:"xp_reward"`

	Trigger      string `json:"trigger"`
	LevelID      int    `json:"level_id,omitempty"`      // for level_clear
	TriggerValue int64  `json:"trigger_value,omitempty"` // for best_time: strict upper bound, ms
}

// PlayerAchievement: per-player unlock state, seeded locked from the catalog
// when the profile is created and merged forward when the catalog grows.
type PlayerAchievement struct {
	ID             string `gorm:"primaryKey;type:uuid" json:"id"`
	ExternalUserID string `gorm:"index:idx_player_achievement,unique;not null" json:"external_user_id"`
	Code           string `gorm:"index:idx_player_achievement,unique;not null" json:"code"`

	Unlocked   bool       `gorm:"default:false" json:"unlocked"`
	UnlockedAt *time.Time `json:"unlocked_at,omitempty"`

	Timestamps
}

// AchievementCatalog lists every achievement the game ships with.
var AchievementCatalog = []AchievementType{
	{
		Code:        "FIRST_CONTRACT",
		Name:        "First Contract",
		Description: "Cleared Hello Blockchain",
		Icon:        "📜",
		Rarity:      "common",
		XPReward:    50,
		Trigger:     TriggerLevelClear,
		LevelID:     1,
	},
	{
		Code:        "TYPE_TAMER",
		Name:        "Type Tamer",
		Description: "Cleared State & Variables",
		Icon:        "🔢",
		Rarity:      "common",
		XPReward:    50,
		Trigger:     TriggerLevelClear,
		LevelID:     2,
	},
	{
		Code:        "FUNCTION_SMITH",
		Name:        "Function Smith",
		Description: "Cleared Functions & Modifiers",
		Icon:        "⚒️",
		Rarity:      "rare",
		XPReward:    75,
		Trigger:     TriggerLevelClear,
		LevelID:     3,
	},
	{
		Code:        "STRUCT_ARCHITECT",
		Name:        "Struct Architect",
		Description: "Cleared Structs & Mappings",
		Icon:        "🏗️",
		Rarity:      "rare",
		XPReward:    75,
		Trigger:     TriggerLevelClear,
		LevelID:     4,
	},
	{
		Code:        "CHAIN_MASTER",
		Name:        "Chain Master",
		Description: "Cleared Inheritance & Interfaces",
		Icon:        "⛓️",
		Rarity:      "epic",
		XPReward:    150,
		Trigger:     TriggerLevelClear,
		LevelID:     5,
	},
	{
		Code:        "PERFECTIONIST",
		Name:        "Perfectionist",
		Description: "Three stars on every level",
		Icon:        "🌟",
		Rarity:      "legendary",
		XPReward:    500,
		Trigger:     TriggerAllStars,
	},
	{
		Code:        "SPEED_RUNNER",
		Name:        "Speed Runner",
		Description: "Cleared a level in under two minutes",
		Icon:        "⚡",
		Rarity:      "epic",
		XPReward:    200,
		Trigger:     TriggerBestTime,
		TriggerValue: 120000,
	},
	{
		Code:        "ZEN_CODER",
		Name:        "Zen Coder",
		Description: "Cleared a level without using a single hint",
		Icon:        "🧘",
		Rarity:      "rare",
		XPReward:    150,
		Trigger:     TriggerManual,
	},
}

// AchievementByCode returns the catalog entry for code, or nil.
func AchievementByCode(code string) *AchievementType {
	for i := range AchievementCatalog {
		if AchievementCatalog[i].Code == code {
			return &AchievementCatalog[i]
		}
	}
	return nil
}
