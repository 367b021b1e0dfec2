package subscriber

import (
	"context"
	"time"
)

// Subscription is one Telegram chat registered for extreme-sentiment alerts.
type Subscription struct {
	ChatID       int64     `json:"chatId"`
	SubscribedAt time.Time `json:"subscribedAt"`
}

// AlertState records the last alert that went out, used to suppress a
// repeat broadcast for the same extreme level on the same UTC day.
type AlertState struct {
	Level string `json:"level"`
	Date  string `json:"date"`
}

// Store persists subscriptions and the alert dedup state. Implementations
// must be safe for concurrent use.
type Store interface {
	// Get returns the subscription for chatID, or ErrSubscriberNotFound.
	Get(ctx context.Context, chatID int64) (*Subscription, error)

	// Put stores or overwrites a subscription.
	Put(ctx context.Context, sub Subscription) error

	// Delete removes a subscription. Deleting an absent chatID is not an
	// error; unsubscribe must be idempotent.
	Delete(ctx context.Context, chatID int64) error

	// List returns all subscriptions in unspecified order.
	List(ctx context.Context) ([]Subscription, error)

	// LastAlert returns the most recent alert state, or nil when no alert
	// has ever been sent.
	LastAlert(ctx context.Context) (*AlertState, error)

	// SetLastAlert overwrites the alert state.
	SetLastAlert(ctx context.Context, state AlertState) error
}
