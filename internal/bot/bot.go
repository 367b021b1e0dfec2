package bot

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/firedintern/meta-fgi/internal/notifier"
	"github.com/firedintern/meta-fgi/internal/provider"
	"github.com/firedintern/meta-fgi/internal/subscriber"
)

const dashboardURL = "https://meta-fgi.vercel.app"

// Update is the subset of a Telegram webhook update the bot reacts to.
type Update struct {
	Message *Message `json:"message"`
}

// Message is one inbound chat message.
type Message struct {
	Chat Chat   `json:"chat"`
	Text string `json:"text"`
}

// Chat identifies the conversation a message belongs to.
type Chat struct {
	ID int64 `json:"id"`
}

// Dispatcher routes webhook updates to command handlers. Unknown commands
// and non-command messages are ignored; Telegram retries failed webhooks,
// so the HTTP layer always answers 200 and delivery errors are only logged.
type Dispatcher struct {
	store     subscriber.Store
	sentiment provider.SentimentProvider
	notify    notifier.Notifier
	log       *zap.Logger
	now       func() time.Time
}

// NewDispatcher creates a command dispatcher.
func NewDispatcher(store subscriber.Store, sentiment provider.SentimentProvider,
	notify notifier.Notifier, log *zap.Logger) *Dispatcher {
	if log == nil {
		log = zap.NewNop()
	}
	return &Dispatcher{
		store:     store,
		sentiment: sentiment,
		notify:    notify,
		log:       log,
		now:       time.Now,
	}
}

// HandleUpdate processes one webhook update.
func (d *Dispatcher) HandleUpdate(ctx context.Context, update Update) error {
	if update.Message == nil {
		return nil
	}

	chatID := update.Message.Chat.ID
	command := strings.TrimSpace(update.Message.Text)

	switch command {
	case "/start", "/subscribe":
		return d.subscribe(ctx, chatID)
	case "/stop", "/unsubscribe":
		return d.unsubscribe(ctx, chatID)
	case "/status":
		return d.status(ctx, chatID)
	default:
		d.log.Debug("ignoring message", zap.Int64("chat_id", chatID))
		return nil
	}
}

func (d *Dispatcher) subscribe(ctx context.Context, chatID int64) error {
	sub := subscriber.Subscription{ChatID: chatID, SubscribedAt: d.now().UTC()}
	if err := d.store.Put(ctx, sub); err != nil {
		return fmt.Errorf("storing subscription for chat %d: %w", chatID, err)
	}

	d.log.Info("subscriber added", zap.Int64("chat_id", chatID))

	welcome := "🔔 *FGI Extreme Alerts Activated!*\n\n" +
		"You'll receive notifications when:\n" +
		"• 🔴 Extreme Fear (0-24)\n" +
		"• 🟢 Extreme Greed (80-100)\n\n" +
		"Stay informed about extreme market sentiment!\n\n" +
		"Use /stop to unsubscribe anytime."
	return d.notify.Send(ctx, chatID, notifier.Message{Text: welcome, ParseMode: "Markdown"})
}

func (d *Dispatcher) unsubscribe(ctx context.Context, chatID int64) error {
	if err := d.store.Delete(ctx, chatID); err != nil {
		return fmt.Errorf("deleting subscription for chat %d: %w", chatID, err)
	}

	d.log.Info("subscriber removed", zap.Int64("chat_id", chatID))

	goodbye := "✅ You've been unsubscribed from FGI alerts.\n\n" +
		"Use /start to subscribe again anytime."
	return d.notify.Send(ctx, chatID, notifier.Message{Text: goodbye})
}

func (d *Dispatcher) status(ctx context.Context, chatID int64) error {
	score, label, err := d.sentiment.FetchLatest(ctx)
	if err != nil {
		return fmt.Errorf("fetching current sentiment: %w", err)
	}

	text := fmt.Sprintf("📊 *Current FGI Status*\n\n"+
		"%s *%s*\n"+
		"Score: %d/100\n\n"+
		"Check live: %s",
		scoreEmoji(score), label, score, dashboardURL)
	return d.notify.Send(ctx, chatID, notifier.Message{Text: text, ParseMode: "Markdown"})
}

func scoreEmoji(score int) string {
	switch {
	case score <= 24:
		return "💀"
	case score <= 44:
		return "😨"
	case score <= 59:
		return "😐"
	case score <= 79:
		return "🤑"
	default:
		return "🚀"
	}
}
