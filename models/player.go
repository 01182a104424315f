package models

import "time"

// Player is a local snapshot of identity data needed for leaderboards and
// display. Owned by this service, populated by the sync worker from the
// identity service's user table.
type Player struct {
	ID             string `gorm:"primaryKey;type:uuid" json:"id"`
	ExternalUserID string `gorm:"uniqueIndex;not null" json:"external_user_id"` // identity service UUID

	Username  string  `gorm:"index;not null" json:"username"`
	AvatarURL *string `json:"avatar_url,omitempty"`

	LastSeen *time.Time `json:"last_seen,omitempty"`

	Timestamps
}

// RemotePlayer mirrors the identity service's public profile payload
// (read-only, consumed by the sync worker).
type RemotePlayer struct {
	ExternalID string     `json:"external_id"`
	Username   string     `json:"username"`
	AvatarURL  *string    `json:"avatar_url,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
	DeletedAt  *time.Time `json:"deleted_at,omitempty"`
}
