// Package messages provides persistence for messages addressed to users
// who were offline at send time.
package messages

import (
	"context"

	"github.com/dmitrijs2005/chatrelay/internal/server/models"
)

// Repository is the durable store consumed by the delivery hub. Append and
// ListOrdered/DeleteDrained are its only clients: the router queues here,
// replay drains from here.
type Repository interface {
	// Append persists one message for an offline recipient. Assigns the
	// message an ID if it has none.
	Append(ctx context.Context, msg *models.QueuedMessage) error

	// ListOrdered returns all queued messages for recipientID ordered by
	// sent time ascending (ties broken by ID for a stable order).
	ListOrdered(ctx context.Context, recipientID string) ([]*models.QueuedMessage, error)

	// DeleteDrained removes exactly the identified rows for recipientID.
	// Rows appended after the caller's read are untouched.
	DeleteDrained(ctx context.Context, recipientID string, ids []string) error
}
