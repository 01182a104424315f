package models

import (
	"time"

	"gorm.io/gorm"
)

// Skins the runner character can wear. The set is fixed; the client renders
// them, we only validate and persist the choice.
const (
	SkinDefault  = "default"
	SkinRobot    = "robot"
	SkinWizard   = "wizard"
	SkinAstronaut = "astronaut"
)

var PlayerSkins = []string{SkinDefault, SkinRobot, SkinWizard, SkinAstronaut}

func ValidSkin(skin string) bool {
	for _, s := range PlayerSkins {
		if s == skin {
			return true
		}
	}
	return false
}

// Toggleable profile preferences.
const (
	PrefSound      = "sound"
	PrefMusic      = "music"
	PrefAnimations = "animations"
)

// PlayerStats is the cumulative, denormalized progress state for one player.
// Level is always derived from TotalXP — every XP mutation recomputes it
// before the row is saved.
type PlayerStats struct {
	TotalXP int64 `json:"total_xp" gorm:"default:0"`
	Level   int   `json:"level" gorm:"default:1"`

	// CompletedLevels holds each level ID at most once, in first-clear order.
	CompletedLevels []int `json:"completed_levels" gorm:"serializer:json;type:jsonb"`

	// StarsEarned keeps the best star count per level; replays only raise it.
	StarsEarned map[int]int `json:"stars_earned" gorm:"serializer:json;type:jsonb"`

	// BestTimes keeps the fastest clear per level in milliseconds; replays
	// only lower it. Absence means no recorded clear.
	BestTimes map[int]int64 `json:"best_times" gorm:"serializer:json;type:jsonb"`

	TotalPlayTimeMs int64 `json:"total_play_time_ms" gorm:"default:0"`
}

// HasCompleted reports whether levelID has ever been cleared.
func (s *PlayerStats) HasCompleted(levelID int) bool {
	for _, id := range s.CompletedLevels {
		if id == levelID {
			return true
		}
	}
	return false
}

// PlayerProfile is the singleton per-user record: identity, skin,
// preferences and the embedded stats block. Created once on first name
// entry, never overwritten by a second initialize.
type PlayerProfile struct {
	ID             string `gorm:"primaryKey;type:uuid" json:"id"`
	ExternalUserID string `gorm:"uniqueIndex;not null" json:"external_user_id"` // from the identity service

	Name string `gorm:"not null" json:"name"`
	Skin string `gorm:"type:varchar(32);default:'default'" json:"skin"`

	PlayerStats `json:"stats" gorm:"embedded"`

	SoundEnabled      bool `gorm:"default:true" json:"sound_enabled"`
	MusicEnabled      bool `gorm:"default:true" json:"music_enabled"`
	AnimationsEnabled bool `gorm:"default:true" json:"animations_enabled"`

	Timestamps
}

// Timestamps adds GORM auto-times
type Timestamps struct {
	CreatedAt time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}
