package services

import (
	"fmt"
	"log"
	"time"

	"solidity-quest-system/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// staleSessionAge: an active session older than this was abandoned without
// telling us (tab closed, navigation). The sweeper closes it.
const staleSessionAge = 30 * time.Minute

type SessionService struct {
	DB *gorm.DB
}

func NewSessionService(db *gorm.DB) *SessionService {
	return &SessionService{DB: db}
}

// Start opens a new play session on levelID. Requires an initialized
// profile and an unlocked level. Any prior active session is abandoned
// first — at most one active session per player.
func (s *SessionService) Start(externalUserID string, levelID int) (*models.GameSession, error) {
	if !models.ValidLevelID(levelID) {
		return nil, fmt.Errorf("%w: level %d outside catalog [1,%d]", models.ErrValidation, levelID, models.TotalLevels())
	}

	var session *models.GameSession
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if _, err := profileTx(tx, externalUserID); err != nil {
			return err
		}

		rec, err := ensureProgressTx(tx, externalUserID)
		if err != nil {
			return err
		}
		if !rec.CanAccess(levelID) {
			return fmt.Errorf("%w: level %d (highest completed: %d)", models.ErrLevelLocked, levelID, rec.HighestCompleted)
		}

		now := time.Now()
		// Abandon whatever was left running.
		if err := tx.Model(&models.GameSession{}).
			Where("external_user_id = ? AND status = ?", externalUserID, models.SessionActive).
			Updates(map[string]interface{}{"status": models.SessionAbandoned, "ended_at": now}).Error; err != nil {
			return err
		}

		fresh := models.GameSession{
			ID:             uuid.NewString(),
			ExternalUserID: externalUserID,
			LevelID:        levelID,
			StartedAt:      now,
			Status:         models.SessionActive,
		}
		if err := tx.Create(&fresh).Error; err != nil {
			return err
		}
		session = &fresh
		return nil
	})
	if err != nil {
		return nil, err
	}
	return session, nil
}

// activeTx fetches the player's single active session.
func activeTx(tx *gorm.DB, externalUserID string) (*models.GameSession, error) {
	var session models.GameSession
	err := tx.Where("external_user_id = ? AND status = ?", externalUserID, models.SessionActive).
		First(&session).Error
	if err == gorm.ErrRecordNotFound {
		return nil, models.ErrNoActiveSession
	}
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// Active returns the current session, or ErrNoActiveSession.
func (s *SessionService) Active(externalUserID string) (*models.GameSession, error) {
	return activeTx(s.DB, externalUserID)
}

// RecordAttempt bumps the attempt counter on the active session.
func (s *SessionService) RecordAttempt(externalUserID string) (*models.GameSession, error) {
	return s.bump(externalUserID, func(sess *models.GameSession) { sess.Attempts++ })
}

// RecordHint bumps the hint counter on the active session.
func (s *SessionService) RecordHint(externalUserID string) (*models.GameSession, error) {
	return s.bump(externalUserID, func(sess *models.GameSession) { sess.HintsUsed++ })
}

func (s *SessionService) bump(externalUserID string, mutate func(*models.GameSession)) (*models.GameSession, error) {
	var session *models.GameSession
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		sess, err := activeTx(tx, externalUserID)
		if err != nil {
			return err
		}
		mutate(sess)
		if err := tx.Save(sess).Error; err != nil {
			return err
		}
		session = sess
		return nil
	})
	if err != nil {
		return nil, err
	}
	return session, nil
}

// SessionSummary is what End reports back.
type SessionSummary struct {
	SessionID string `json:"session_id"`
	LevelID   int    `json:"level_id"`
	ElapsedMs int64  `json:"elapsed_ms"`
	Attempts  int    `json:"attempts"`
	HintsUsed int    `json:"hints_used"`
	Status    string `json:"status"`
}

// End closes the active session and accrues its wall-clock time into the
// profile's play-time accumulator (success or not — the player was playing
// either way). A second End without a new Start returns ErrNoActiveSession.
// Reward bookkeeping is deliberately NOT here; use CompleteLevel for the
// whole success path.
func (s *SessionService) End(externalUserID string, success bool, codeQuality string) (*SessionSummary, error) {
	if codeQuality != "" && !models.ValidCodeQuality(codeQuality) {
		return nil, fmt.Errorf("%w: unknown code quality %q", models.ErrValidation, codeQuality)
	}

	var summary *SessionSummary
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		sess, err := activeTx(tx, externalUserID)
		if err != nil {
			return err
		}

		now := time.Now()
		elapsed := sess.Elapsed(now)
		sess.EndedAt = &now
		sess.CodeQuality = codeQuality
		if success {
			sess.Status = models.SessionCompleted
		} else {
			sess.Status = models.SessionAbandoned
		}
		if err := tx.Save(sess).Error; err != nil {
			return err
		}

		prof, err := profileTx(tx, externalUserID)
		if err != nil {
			return err
		}
		prof.TotalPlayTimeMs += elapsed.Milliseconds()
		if err := tx.Save(prof).Error; err != nil {
			return err
		}

		summary = &SessionSummary{
			SessionID: sess.ID,
			LevelID:   sess.LevelID,
			ElapsedMs: elapsed.Milliseconds(),
			Attempts:  sess.Attempts,
			HintsUsed: sess.HintsUsed,
			Status:    sess.Status,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return summary, nil
}

// Abandon is the explicit walk-away hook: the session closes with no
// play-time credit.
func (s *SessionService) Abandon(externalUserID string) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		sess, err := activeTx(tx, externalUserID)
		if err != nil {
			return err
		}
		now := time.Now()
		sess.EndedAt = &now
		sess.Status = models.SessionAbandoned
		return tx.Save(sess).Error
	})
}

// SweepStale closes sessions that have been active longer than
// staleSessionAge. Called by the maintenance scheduler.
func (s *SessionService) SweepStale() (int64, error) {
	cutoff := time.Now().Add(-staleSessionAge)
	res := s.DB.Model(&models.GameSession{}).
		Where("status = ? AND started_at < ?", models.SessionActive, cutoff).
		Updates(map[string]interface{}{"status": models.SessionAbandoned, "ended_at": time.Now()})
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected > 0 {
		log.Printf("🧹 Swept %d stale session(s)", res.RowsAffected)
	}
	return res.RowsAffected, nil
}
