package services

import (
	"fmt"
	"log"

	"solidity-quest-system/models"
	"solidity-quest-system/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProfileService struct {
	DB *gorm.DB
}

func NewProfileService(db *gorm.DB) *ProfileService {
	return &ProfileService{DB: db}
}

// Initialize creates the player's profile on first name entry. Create-once:
// if a profile already exists it is returned untouched (the original client
// could re-submit the name form; that must never wipe progress). The full
// achievement catalog is seeded locked at the same time.
func (s *ProfileService) Initialize(externalUserID, name string) (*models.PlayerProfile, bool, error) {
	name = utils.NormalizeDisplayName(name)
	if name == "" {
		return nil, false, fmt.Errorf("%w: empty player name", models.ErrValidation)
	}

	var prof *models.PlayerProfile
	created := false
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var existing models.PlayerProfile
		err := tx.Where("external_user_id = ?", externalUserID).First(&existing).Error
		if err == nil {
			prof = &existing
			return nil
		}
		if err != gorm.ErrRecordNotFound {
			return err
		}

		fresh := models.PlayerProfile{
			ID:             uuid.NewString(),
			ExternalUserID: externalUserID,
			Name:           name,
			Skin:           models.SkinDefault,
			PlayerStats: models.PlayerStats{
				Level:       1,
				StarsEarned: map[int]int{},
				BestTimes:   map[int]int64{},
			},
			SoundEnabled:      true,
			MusicEnabled:      true,
			AnimationsEnabled: true,
		}
		if err := tx.Create(&fresh).Error; err != nil {
			return err
		}

		achSvc := NewAchievementService(tx)
		if err := achSvc.SeedForUser(tx, externalUserID); err != nil {
			return err
		}

		prof = &fresh
		created = true
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	if created {
		log.Printf("👤 Profile created: %s (%q)", externalUserID, name)
	}
	return prof, created, nil
}

// Get returns the player's profile, or ErrNotInitialized.
func (s *ProfileService) Get(externalUserID string) (*models.PlayerProfile, error) {
	return profileTx(s.DB, externalUserID)
}

// ChangeSkin switches the runner skin; unknown skins are rejected.
func (s *ProfileService) ChangeSkin(externalUserID, skin string) (*models.PlayerProfile, error) {
	if !models.ValidSkin(skin) {
		return nil, fmt.Errorf("%w: unknown skin %q", models.ErrValidation, skin)
	}
	prof, err := profileTx(s.DB, externalUserID)
	if err != nil {
		return nil, err
	}
	prof.Skin = skin
	if err := s.DB.Save(prof).Error; err != nil {
		return nil, err
	}
	return prof, nil
}

// TogglePreference flips one of the boolean preferences and returns the new
// value.
func (s *ProfileService) TogglePreference(externalUserID, pref string) (bool, error) {
	prof, err := profileTx(s.DB, externalUserID)
	if err != nil {
		return false, err
	}

	var value bool
	switch pref {
	case models.PrefSound:
		prof.SoundEnabled = !prof.SoundEnabled
		value = prof.SoundEnabled
	case models.PrefMusic:
		prof.MusicEnabled = !prof.MusicEnabled
		value = prof.MusicEnabled
	case models.PrefAnimations:
		prof.AnimationsEnabled = !prof.AnimationsEnabled
		value = prof.AnimationsEnabled
	default:
		return false, fmt.Errorf("%w: unknown preference %q", models.ErrValidation, pref)
	}

	if err := s.DB.Save(prof).Error; err != nil {
		return false, err
	}
	return value, nil
}
