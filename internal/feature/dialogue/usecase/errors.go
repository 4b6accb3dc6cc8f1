// Package usecase implements the chat dialogue: the per-session state machine,
// the Spanish user-facing texts and the execution of finished requests.
package usecase

import "errors"

// ErrSessionNotFound is returned by a SessionStore when no dialogue is in progress.
var ErrSessionNotFound = errors.New("session not found")
