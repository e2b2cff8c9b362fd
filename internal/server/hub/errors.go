package hub

import "errors"

var (
	// ErrDuplicateSession means the user already holds a live connection.
	// The existing session is authoritative; the new attempt is refused.
	// Surfaced distinctly from credential errors so a client can tell
	// "logged in elsewhere" apart from "re-authenticate".
	ErrDuplicateSession = errors.New("duplicate session")

	// ErrQueueUnavailable means the durable queue rejected the write for an
	// offline recipient. The sender must not be acknowledged.
	ErrQueueUnavailable = errors.New("message queue unavailable")

	// ErrReplayIncomplete means one or more queued messages could not be
	// pushed during replay. Unpushed messages stay queued for the next
	// connect; the session itself stays live.
	ErrReplayIncomplete = errors.New("offline replay incomplete")
)
