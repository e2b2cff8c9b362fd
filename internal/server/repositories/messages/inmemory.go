package messages

import (
	"context"
	"sort"
	"sync"

	"github.com/dmitrijs2005/chatrelay/internal/server/models"
	"github.com/google/uuid"
)

// InMemoryRepository keeps queued messages in process memory. It mirrors
// the ordering and captured-set delete semantics of the Postgres
// implementation and exists for tests and local development.
type InMemoryRepository struct {
	mu    sync.Mutex
	byRcp map[string][]*models.QueuedMessage
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{byRcp: make(map[string][]*models.QueuedMessage)}
}

func (r *InMemoryRepository) Append(ctx context.Context, msg *models.QueuedMessage) error {
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	cp := *msg

	r.mu.Lock()
	defer r.mu.Unlock()
	r.byRcp[msg.RecipientID] = append(r.byRcp[msg.RecipientID], &cp)
	return nil
}

func (r *InMemoryRepository) ListOrdered(ctx context.Context, recipientID string) ([]*models.QueuedMessage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	queued := r.byRcp[recipientID]
	result := make([]*models.QueuedMessage, 0, len(queued))
	for _, m := range queued {
		cp := *m
		result = append(result, &cp)
	}
	sort.SliceStable(result, func(i, j int) bool {
		if result[i].SentAt.Equal(result[j].SentAt) {
			return result[i].ID < result[j].ID
		}
		return result[i].SentAt.Before(result[j].SentAt)
	})
	return result, nil
}

func (r *InMemoryRepository) DeleteDrained(ctx context.Context, recipientID string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	drained := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		drained[id] = struct{}{}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	var kept []*models.QueuedMessage
	for _, m := range r.byRcp[recipientID] {
		if _, ok := drained[m.ID]; !ok {
			kept = append(kept, m)
		}
	}
	if len(kept) == 0 {
		delete(r.byRcp, recipientID)
	} else {
		r.byRcp[recipientID] = kept
	}
	return nil
}
