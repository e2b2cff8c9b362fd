package hub

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/chatrelay/internal/logging"
	"github.com/dmitrijs2005/chatrelay/internal/server/models"
	"github.com/dmitrijs2005/chatrelay/internal/server/presence"
	"github.com/dmitrijs2005/chatrelay/internal/server/repositories/messages"
)

// Router decides, per message, between immediate forwarding to a live
// recipient and durable queuing for an offline one.
type Router struct {
	registry *presence.Registry
	store    messages.Repository
	logger   logging.Logger
	now      func() time.Time
}

func NewRouter(r *presence.Registry, s messages.Repository, l logging.Logger) *Router {
	return &Router{
		registry: r,
		store:    s,
		logger:   l.With("module", "router"),
		now:      time.Now,
	}
}

// Send accepts one message from a live session. The sender identity is the
// session's bound identity; whatever the inbound payload claimed about its
// sender is never consulted.
//
// A nil return means the router has taken responsibility for the message
// (pushed to a live recipient or durably queued) and the caller may
// acknowledge the sender. A non-nil return means no acknowledgement: the
// sender observes a timeout and owns the retry.
func (r *Router) Send(ctx context.Context, sess *Session, recipientID, text string) error {
	msg := &models.Message{
		SenderID:    sess.UserID,
		RecipientID: recipientID,
		SentAt:      r.now().UTC(),
		Text:        text,
	}

	if h, ok := r.registry.Lookup(recipientID); ok {
		if err := h.Deliver(msg); err == nil {
			return nil
		}
		// The recipient's connection is on its way out (queue closed or
		// full). Fall through and queue durably rather than drop.
		r.logger.Warn(ctx, "live delivery failed, queuing instead",
			"sender_id", sess.UserID, "recipient_id", recipientID)
	}

	if err := r.store.Append(ctx, &models.QueuedMessage{Message: *msg}); err != nil {
		r.logger.Error(ctx, "failed to queue message",
			"sender_id", sess.UserID, "recipient_id", recipientID, "error", err)
		return fmt.Errorf("%w: %w", ErrQueueUnavailable, err)
	}
	return nil
}
