package hub

import (
	"context"
	"errors"
	"sync"

	"github.com/dmitrijs2005/chatrelay/internal/logging"
	"github.com/dmitrijs2005/chatrelay/internal/server/auth"
	"github.com/dmitrijs2005/chatrelay/internal/server/models"
	"github.com/dmitrijs2005/chatrelay/internal/server/repositories/messages"
)

// ---- test logger ----

type nopLogger struct{}

func (n nopLogger) Debug(context.Context, string, ...any) {}
func (n nopLogger) Info(context.Context, string, ...any)  {}
func (n nopLogger) Warn(context.Context, string, ...any)  {}
func (n nopLogger) Error(context.Context, string, ...any) {}
func (n nopLogger) With(...any) logging.Logger            { return n }

// ---- fakes ----

// fakeHandle records delivered messages and can be told to refuse specific
// payloads or everything.
type fakeHandle struct {
	mu        sync.Mutex
	delivered []*models.Message
	failTexts map[string]struct{}
	failAll   bool
}

func newFakeHandle() *fakeHandle {
	return &fakeHandle{failTexts: make(map[string]struct{})}
}

func (h *fakeHandle) Deliver(m *models.Message) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.failAll {
		return errors.New("connection gone")
	}
	if _, ok := h.failTexts[m.Text]; ok {
		return errors.New("push failed")
	}
	h.delivered = append(h.delivered, m)
	return nil
}

func (h *fakeHandle) texts() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]string, 0, len(h.delivered))
	for _, m := range h.delivered {
		out = append(out, m.Text)
	}
	return out
}

// flakyStore wraps the in-memory repository with switchable failures and
// call counters.
type flakyStore struct {
	inner *messages.InMemoryRepository

	mu         sync.Mutex
	appendErr  error
	listErr    error
	deleteErr  error
	appends    int
	onList     func() // runs before the inner list, for interleaving tests
	deletedIDs []string
}

func newFlakyStore() *flakyStore {
	return &flakyStore{inner: messages.NewInMemoryRepository()}
}

func (s *flakyStore) Append(ctx context.Context, msg *models.QueuedMessage) error {
	s.mu.Lock()
	s.appends++
	err := s.appendErr
	s.mu.Unlock()
	if err != nil {
		return err
	}
	return s.inner.Append(ctx, msg)
}

func (s *flakyStore) ListOrdered(ctx context.Context, recipientID string) ([]*models.QueuedMessage, error) {
	s.mu.Lock()
	err := s.listErr
	hook := s.onList
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	if hook != nil {
		hook()
	}
	return s.inner.ListOrdered(ctx, recipientID)
}

func (s *flakyStore) DeleteDrained(ctx context.Context, recipientID string, ids []string) error {
	s.mu.Lock()
	err := s.deleteErr
	s.deletedIDs = append(s.deletedIDs, ids...)
	s.mu.Unlock()
	if err != nil {
		return err
	}
	return s.inner.DeleteDrained(ctx, recipientID, ids)
}

func (s *flakyStore) appendCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.appends
}

// staticVerifier resolves fixed token -> identity pairs.
type staticVerifier struct {
	users map[string]string
	err   error
}

func (v *staticVerifier) Verify(token string) (string, error) {
	if v.err != nil {
		return "", v.err
	}
	if id, ok := v.users[token]; ok {
		return id, nil
	}
	return "", auth.ErrInvalidCredential
}
