package notifier

import "context"

// Message is one outbound notification.
type Message struct {
	Text      string
	ParseMode string // e.g. "Markdown"; empty sends plain text
}

// Notifier delivers messages to one chat channel.
type Notifier interface {
	// Name returns the unique identifier for this notifier.
	Name() string

	// Send delivers a message to the given chat. A rejected or failed
	// delivery yields core.ErrDeliveryFailed.
	Send(ctx context.Context, chatID int64, msg Message) error
}
