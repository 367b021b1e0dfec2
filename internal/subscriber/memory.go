package subscriber

import (
	"context"
	"sync"

	"github.com/firedintern/meta-fgi/internal/core"
)

// MemoryStore is an in-memory subscription store. It backs local
// development and tests; production deploys use the REST store.
type MemoryStore struct {
	mu        sync.RWMutex
	subs      map[int64]Subscription
	lastAlert *AlertState
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		subs: make(map[int64]Subscription),
	}
}

// Get returns the subscription for chatID.
func (m *MemoryStore) Get(ctx context.Context, chatID int64) (*Subscription, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	sub, ok := m.subs[chatID]
	if !ok {
		return nil, core.ErrSubscriberNotFound
	}
	return &sub, nil
}

// Put stores or overwrites a subscription.
func (m *MemoryStore) Put(ctx context.Context, sub Subscription) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.subs[sub.ChatID] = sub
	return nil
}

// Delete removes a subscription if present.
func (m *MemoryStore) Delete(ctx context.Context, chatID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.subs, chatID)
	return nil
}

// List returns all subscriptions.
func (m *MemoryStore) List(ctx context.Context) ([]Subscription, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]Subscription, 0, len(m.subs))
	for _, sub := range m.subs {
		result = append(result, sub)
	}
	return result, nil
}

// LastAlert returns the stored alert state, nil when none was ever set.
func (m *MemoryStore) LastAlert(ctx context.Context) (*AlertState, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.lastAlert == nil {
		return nil, nil
	}
	state := *m.lastAlert
	return &state, nil
}

// SetLastAlert overwrites the alert state.
func (m *MemoryStore) SetLastAlert(ctx context.Context, state AlertState) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.lastAlert = &state
	return nil
}
