package server

import "errors"

// Server-specific errors
var (
	ErrServerClosed         = errors.New("server is closed")
	ErrServerNotRunning     = errors.New("server is not running")
	ErrServerAlreadyRunning = errors.New("server is already running")
	ErrMaxSpectatorsReached = errors.New("maximum spectators reached")
	ErrSpectatorNotFound    = errors.New("spectator not found")
	ErrListenerFailed       = errors.New("failed to create listener")
)
