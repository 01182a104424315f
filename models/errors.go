package models

import "errors"

// Sentinel errors shared by the services. Handlers map these to 4xx
// responses; everything else is a 500.
var (
	// ErrNotInitialized: a stats/session operation arrived before the
	// player ever created a profile.
	ErrNotInitialized = errors.New("player profile not initialized")

	// ErrNoActiveSession: end/attempt/hint without a running session.
	ErrNoActiveSession = errors.New("no active game session")

	// ErrValidation wraps bad numeric or enum input (stars out of [0,3],
	// negative elapsed, unknown level ID, unknown skin...).
	ErrValidation = errors.New("invalid input")

	// ErrLevelLocked: the requested level is past the furthest unlocked one.
	ErrLevelLocked = errors.New("level locked")
)
