// Package hub is the delivery core of the chat server: it decides whether a
// connection may become live (single session per user), routes messages to
// live recipients or to the durable offline queue, and replays queued
// messages when their recipient connects.
package hub

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/chatrelay/internal/logging"
	"github.com/dmitrijs2005/chatrelay/internal/server/auth"
	"github.com/dmitrijs2005/chatrelay/internal/server/presence"
	"github.com/dmitrijs2005/chatrelay/internal/server/repositories/messages"
)

// Gatekeeper authenticates inbound connections and enforces the
// one-live-session-per-user rule against the presence registry.
type Gatekeeper struct {
	verifier auth.Verifier
	registry *presence.Registry
	store    messages.Repository
	logger   logging.Logger
}

func NewGatekeeper(v auth.Verifier, r *presence.Registry, s messages.Repository, l logging.Logger) *Gatekeeper {
	return &Gatekeeper{
		verifier: v,
		registry: r,
		store:    s,
		logger:   l.With("module", "gatekeeper"),
	}
}

// Session is a connection that passed the handshake. Its identity is fixed
// at registration and never changes for the connection's lifetime.
type Session struct {
	UserID string

	handle    presence.Handle
	registry  *presence.Registry
	closeOnce sync.Once
}

// Close removes the session from the presence registry. Idempotent; called
// on transport disconnect. This is the only path that takes a user offline.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		s.registry.Deregister(s.UserID)
	})
}

// Admit runs the handshake for an inbound connection: credential checks,
// registration, then a one-shot offline replay. Any rejection leaves the
// registry untouched, so a refused connection has no state to clean up.
//
// Replay problems never fail an admitted session: the messages that could
// not be pushed remain queued and the error is logged.
func (g *Gatekeeper) Admit(ctx context.Context, authHeader string, h presence.Handle) (*Session, error) {
	token, err := auth.ParseBearer(authHeader)
	if err != nil {
		return nil, err
	}

	userID, err := g.verifier.Verify(token)
	if err != nil {
		return nil, err
	}

	if !g.registry.Register(userID, h) {
		g.logger.Warn(ctx, "connection refused, session already live", "user_id", userID)
		return nil, ErrDuplicateSession
	}

	sess := &Session{UserID: userID, handle: h, registry: g.registry}

	if err := drainQueued(ctx, g.store, userID, h); err != nil {
		g.logger.Warn(ctx, "offline replay did not complete", "user_id", userID, "error", err)
	}

	g.logger.Info(ctx, "session live", "user_id", userID, "online", g.registry.Len())
	return sess, nil
}
