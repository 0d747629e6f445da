package physics

import (
	"errors"
	"fmt"
)

var (
	// ErrNotConnected indicates an unknown or already released session.
	ErrNotConnected = errors.New("physics: session not connected")

	// ErrNoVisualizer indicates a display mode with no registered visualizer.
	ErrNoVisualizer = errors.New("physics: no visualizer for mode")

	// ErrAssetNotFound indicates an asset missing from every search path.
	ErrAssetNotFound = errors.New("physics: asset not found")

	// ErrUnknownBody indicates a body id that does not exist in the session.
	ErrUnknownBody = errors.New("physics: unknown body")

	// ErrInvalidBody indicates a body spec that cannot be simulated.
	ErrInvalidBody = errors.New("physics: invalid body")

	// ErrWindowClosed is returned by visualizers once the user closed the view.
	ErrWindowClosed = errors.New("physics: visualizer closed")
)

// SessionError wraps an error with the session and operation it came from.
type SessionError struct {
	Session Session
	Op      string
	Wrapped error
}

func (e *SessionError) Error() string {
	return fmt.Sprintf("session %d: %s: %v", e.Session, e.Op, e.Wrapped)
}

func (e *SessionError) Unwrap() error {
	return e.Wrapped
}
