package telegram

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/firedintern/meta-fgi/internal/core"
	"github.com/firedintern/meta-fgi/internal/notifier"
)

func TestSend(t *testing.T) {
	var gotPath string
	var gotPayload map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		json.NewDecoder(r.Body).Decode(&gotPayload)
		w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	tg := NewWithBaseURL("test-token", server.URL)
	err := tg.Send(context.Background(), 42, notifier.Message{
		Text:      "*Extreme Fear* detected",
		ParseMode: "Markdown",
	})
	if err != nil {
		t.Fatalf("Send() error: %v", err)
	}

	if gotPath != "/bottest-token/sendMessage" {
		t.Errorf("path = %s", gotPath)
	}
	if gotPayload["chat_id"] != float64(42) {
		t.Errorf("chat_id = %v, want 42", gotPayload["chat_id"])
	}
	if gotPayload["text"] != "*Extreme Fear* detected" {
		t.Errorf("text = %v", gotPayload["text"])
	}
	if gotPayload["parse_mode"] != "Markdown" {
		t.Errorf("parse_mode = %v, want Markdown", gotPayload["parse_mode"])
	}
}

func TestSend_PlainTextOmitsParseMode(t *testing.T) {
	var gotPayload map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&gotPayload)
		w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	tg := NewWithBaseURL("test-token", server.URL)
	if err := tg.Send(context.Background(), 1, notifier.Message{Text: "hi"}); err != nil {
		t.Fatalf("Send() error: %v", err)
	}
	if _, present := gotPayload["parse_mode"]; present {
		t.Error("parse_mode sent for a plain-text message")
	}
}

func TestSend_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"ok":false,"description":"bot was blocked by the user"}`))
	}))
	defer server.Close()

	tg := NewWithBaseURL("test-token", server.URL)
	err := tg.Send(context.Background(), 42, notifier.Message{Text: "hello"})
	if !errors.Is(err, core.ErrDeliveryFailed) {
		t.Errorf("err = %v, want ErrDeliveryFailed", err)
	}
}
