package bot

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/firedintern/meta-fgi/internal/core"
	"github.com/firedintern/meta-fgi/internal/notifier"
	"github.com/firedintern/meta-fgi/internal/subscriber"
)

type fakeSentiment struct {
	score int
	label string
	err   error
}

func (f *fakeSentiment) Name() string { return "fake" }

func (f *fakeSentiment) FetchSeries(ctx context.Context, limit int) ([]core.SeriesPoint, error) {
	return nil, nil
}

func (f *fakeSentiment) FetchLabeledSeries(ctx context.Context, limit int) ([]core.LabeledPoint, error) {
	return nil, nil
}

func (f *fakeSentiment) FetchLatest(ctx context.Context) (int, string, error) {
	return f.score, f.label, f.err
}

type recordingNotifier struct {
	messages []notifier.Message
	chats    []int64
}

func (r *recordingNotifier) Name() string { return "recording" }

func (r *recordingNotifier) Send(ctx context.Context, chatID int64, msg notifier.Message) error {
	r.chats = append(r.chats, chatID)
	r.messages = append(r.messages, msg)
	return nil
}

func update(chatID int64, text string) Update {
	return Update{Message: &Message{Chat: Chat{ID: chatID}, Text: text}}
}

func TestHandleUpdate_Subscribe(t *testing.T) {
	for _, command := range []string{"/start", "/subscribe"} {
		t.Run(command, func(t *testing.T) {
			ctx := context.Background()
			store := subscriber.NewMemoryStore()
			notify := &recordingNotifier{}
			d := NewDispatcher(store, &fakeSentiment{}, notify, nil)
			subscribedAt := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
			d.now = func() time.Time { return subscribedAt }

			if err := d.HandleUpdate(ctx, update(42, command)); err != nil {
				t.Fatalf("HandleUpdate() error: %v", err)
			}

			sub, err := store.Get(ctx, 42)
			if err != nil {
				t.Fatalf("subscription not stored: %v", err)
			}
			if !sub.SubscribedAt.Equal(subscribedAt) {
				t.Errorf("SubscribedAt = %v, want %v", sub.SubscribedAt, subscribedAt)
			}

			if len(notify.messages) != 1 {
				t.Fatalf("sent %d messages, want 1", len(notify.messages))
			}
			if !strings.Contains(notify.messages[0].Text, "FGI Extreme Alerts Activated!") {
				t.Errorf("welcome text = %q", notify.messages[0].Text)
			}
		})
	}
}

func TestHandleUpdate_Unsubscribe(t *testing.T) {
	for _, command := range []string{"/stop", "/unsubscribe"} {
		t.Run(command, func(t *testing.T) {
			ctx := context.Background()
			store := subscriber.NewMemoryStore()
			store.Put(ctx, subscriber.Subscription{ChatID: 42, SubscribedAt: time.Now()})
			notify := &recordingNotifier{}
			d := NewDispatcher(store, &fakeSentiment{}, notify, nil)

			if err := d.HandleUpdate(ctx, update(42, command)); err != nil {
				t.Fatalf("HandleUpdate() error: %v", err)
			}

			if _, err := store.Get(ctx, 42); !errors.Is(err, core.ErrSubscriberNotFound) {
				t.Errorf("subscription still present: %v", err)
			}
			if len(notify.messages) != 1 || !strings.Contains(notify.messages[0].Text, "unsubscribed") {
				t.Errorf("confirmation = %+v", notify.messages)
			}
		})
	}
}

func TestHandleUpdate_UnsubscribeNeverSubscribed(t *testing.T) {
	d := NewDispatcher(subscriber.NewMemoryStore(), &fakeSentiment{}, &recordingNotifier{}, nil)
	if err := d.HandleUpdate(context.Background(), update(99, "/stop")); err != nil {
		t.Errorf("unsubscribe of unknown chat failed: %v", err)
	}
}

func TestHandleUpdate_Status(t *testing.T) {
	tests := []struct {
		score     int
		label     string
		wantEmoji string
	}{
		{10, "Extreme Fear", "💀"},
		{30, "Fear", "😨"},
		{50, "Neutral", "😐"},
		{70, "Greed", "🤑"},
		{90, "Extreme Greed", "🚀"},
	}
	for _, tt := range tests {
		notify := &recordingNotifier{}
		d := NewDispatcher(subscriber.NewMemoryStore(),
			&fakeSentiment{score: tt.score, label: tt.label}, notify, nil)

		if err := d.HandleUpdate(context.Background(), update(1, "/status")); err != nil {
			t.Fatalf("score %d: HandleUpdate() error: %v", tt.score, err)
		}
		text := notify.messages[0].Text
		if !strings.Contains(text, tt.wantEmoji) || !strings.Contains(text, tt.label) {
			t.Errorf("score %d: status text = %q", tt.score, text)
		}
	}
}

func TestHandleUpdate_StatusFetchFailure(t *testing.T) {
	sentiment := &fakeSentiment{err: core.WrapError(core.ErrFetchFailed, errors.New("down"))}
	notify := &recordingNotifier{}
	d := NewDispatcher(subscriber.NewMemoryStore(), sentiment, notify, nil)

	if err := d.HandleUpdate(context.Background(), update(1, "/status")); err == nil {
		t.Error("fetch failure not surfaced")
	}
	if len(notify.messages) != 0 {
		t.Errorf("message sent despite fetch failure: %+v", notify.messages)
	}
}

func TestHandleUpdate_Ignored(t *testing.T) {
	store := subscriber.NewMemoryStore()
	notify := &recordingNotifier{}
	d := NewDispatcher(store, &fakeSentiment{}, notify, nil)

	for _, u := range []Update{
		{},
		update(1, "hello there"),
		update(1, "/unknown"),
	} {
		if err := d.HandleUpdate(context.Background(), u); err != nil {
			t.Errorf("ignored update errored: %v", err)
		}
	}
	if len(notify.messages) != 0 {
		t.Errorf("ignored updates produced messages: %+v", notify.messages)
	}
	if subs, _ := store.List(context.Background()); len(subs) != 0 {
		t.Errorf("ignored updates stored subscriptions: %+v", subs)
	}
}
