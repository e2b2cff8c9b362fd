package hub

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/chatrelay/internal/server/presence"
	"github.com/dmitrijs2005/chatrelay/internal/server/repositories/messages"
)

// drainQueued delivers every queued message for userID to its newly live
// handle, oldest first, then purges exactly the rows it managed to push.
//
// A failed push does not abort the batch: later messages are still
// attempted, and only confirmed pushes are purged. Messages appended
// concurrently with the drain are outside the captured id set and survive.
// On any doubt the store keeps the row; a duplicate delivery on the next
// connect is acceptable, a lost message is not.
//
// Runs at most once per registration. It cannot race with itself for one
// user: the single-session rule means a user cannot be registering twice.
func drainQueued(ctx context.Context, store messages.Repository, userID string, h presence.Handle) error {
	queued, err := store.ListOrdered(ctx, userID)
	if err != nil {
		return fmt.Errorf("list queued messages: %w", err)
	}
	if len(queued) == 0 {
		return nil
	}

	pushed := make([]string, 0, len(queued))
	failed := 0
	for _, m := range queued {
		if err := h.Deliver(&m.Message); err != nil {
			failed++
			continue
		}
		pushed = append(pushed, m.ID)
	}

	if len(pushed) > 0 {
		if err := store.DeleteDrained(ctx, userID, pushed); err != nil {
			return fmt.Errorf("purge drained messages: %w", err)
		}
	}

	if failed > 0 {
		return fmt.Errorf("%w: %d of %d pushes failed", ErrReplayIncomplete, failed, len(queued))
	}
	return nil
}
