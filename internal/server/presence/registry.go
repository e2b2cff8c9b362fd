// Package presence tracks which users currently hold a live connection.
//
// The registry is the single authority for "is this user online". It is
// pure process-local state: nothing is persisted, and a restart implicitly
// logs everyone out. Construct one instance at startup and inject it;
// nothing in this package holds global state.
package presence

import (
	"sync"

	"github.com/dmitrijs2005/chatrelay/internal/server/models"
)

// Handle is one live transport session. The registry owns the
// identity-to-handle mapping; the handle itself carries no identity.
type Handle interface {
	// Deliver pushes a message toward the connected client. Best effort:
	// a nil return means the message was accepted into the connection's
	// outbound queue, not that the client received it.
	Deliver(msg *models.Message) error
}

// Registry maps user identity to at most one live handle.
type Registry struct {
	mu      sync.Mutex
	entries map[string]Handle
}

func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]Handle)}
}

// Register inserts the handle for userID if no entry exists. Returns false
// without mutating anything if the user already has a live connection.
// Concurrent calls for the same identity have exactly one winner.
func (r *Registry) Register(userID string, h Handle) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.entries[userID]; ok {
		return false
	}
	r.entries[userID] = h
	return true
}

// Lookup returns the live handle for userID, if any.
func (r *Registry) Lookup(userID string) (Handle, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	h, ok := r.entries[userID]
	return h, ok
}

// Deregister removes the entry for userID. Idempotent.
func (r *Registry) Deregister(userID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, userID)
}

// Len reports how many users are currently online.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}
