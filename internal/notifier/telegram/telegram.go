package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/firedintern/meta-fgi/internal/core"
	"github.com/firedintern/meta-fgi/internal/notifier"
)

const defaultBaseURL = "https://api.telegram.org"

// Telegram implements the Notifier interface for the Telegram Bot API.
type Telegram struct {
	botToken string
	baseURL  string
	client   *http.Client
}

// New creates a new Telegram notifier.
func New(botToken string) *Telegram {
	return &Telegram{
		botToken: botToken,
		baseURL:  defaultBaseURL,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// NewWithBaseURL creates a Telegram notifier with a custom API base URL (for testing).
func NewWithBaseURL(botToken, url string) *Telegram {
	t := New(botToken)
	t.baseURL = url
	return t
}

func (t *Telegram) Name() string {
	return "telegram"
}

// Send posts a sendMessage call for the given chat.
func (t *Telegram) Send(ctx context.Context, chatID int64, msg notifier.Message) error {
	url := fmt.Sprintf("%s/bot%s/sendMessage", t.baseURL, t.botToken)

	payload := map[string]any{
		"chat_id": chatID,
		"text":    msg.Text,
	}
	if msg.ParseMode != "" {
		payload["parse_mode"] = msg.ParseMode
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return core.WrapError(core.ErrDeliveryFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(body))
	if err != nil {
		return core.WrapError(core.ErrDeliveryFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return core.WrapError(core.ErrDeliveryFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var result map[string]any
		json.NewDecoder(resp.Body).Decode(&result)
		return core.WrapError(core.ErrDeliveryFailed,
			fmt.Errorf("telegram API error (status %d): %v", resp.StatusCode, result))
	}

	return nil
}
