package subscriber

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/firedintern/meta-fgi/internal/core"
)

const (
	subscriberKeyPrefix = "subscriber:"
	alertStateKey       = "alert:last"
)

// RESTStore persists subscriptions in an Upstash-style HTTP key-value
// service: GET /get/{key}, POST /set/{key} with the value as body,
// POST /del/{key}, GET /keys/{pattern}. Every response wraps its payload
// in {"result": ...}. Values are JSON-encoded Subscription documents
// under "subscriber:{chatId}" keys.
type RESTStore struct {
	client  *http.Client
	baseURL string
	token   string
}

// NewRESTStore creates a store backed by the KV service at baseURL.
func NewRESTStore(baseURL, token string) *RESTStore {
	return &RESTStore{
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
	}
}

func subscriberKey(chatID int64) string {
	return fmt.Sprintf("%s%d", subscriberKeyPrefix, chatID)
}

// Get returns the subscription for chatID.
func (s *RESTStore) Get(ctx context.Context, chatID int64) (*Subscription, error) {
	raw, err := s.getValue(ctx, subscriberKey(chatID))
	if err != nil {
		return nil, err
	}
	if raw == "" {
		return nil, core.ErrSubscriberNotFound
	}

	var sub Subscription
	if err := json.Unmarshal([]byte(raw), &sub); err != nil {
		return nil, core.WrapError(core.ErrStoreFailed, err)
	}
	return &sub, nil
}

// Put stores or overwrites a subscription.
func (s *RESTStore) Put(ctx context.Context, sub Subscription) error {
	body, err := json.Marshal(sub)
	if err != nil {
		return core.WrapError(core.ErrStoreFailed, err)
	}
	return s.setValue(ctx, subscriberKey(sub.ChatID), body)
}

// Delete removes a subscription. Deleting an absent key succeeds.
func (s *RESTStore) Delete(ctx context.Context, chatID int64) error {
	req, err := s.newRequest(ctx, "POST", "/del/"+url.PathEscape(subscriberKey(chatID)), nil)
	if err != nil {
		return err
	}
	return s.do(req, nil)
}

// List scans the subscriber keyspace and fetches every document.
func (s *RESTStore) List(ctx context.Context) ([]Subscription, error) {
	req, err := s.newRequest(ctx, "GET", "/keys/"+url.PathEscape(subscriberKeyPrefix+"*"), nil)
	if err != nil {
		return nil, err
	}

	var keys []string
	if err := s.do(req, &keys); err != nil {
		return nil, err
	}

	subs := make([]Subscription, 0, len(keys))
	for _, key := range keys {
		raw, err := s.getValue(ctx, key)
		if err != nil {
			return nil, err
		}
		if raw == "" {
			// Deleted between the scan and the fetch.
			continue
		}
		var sub Subscription
		if err := json.Unmarshal([]byte(raw), &sub); err != nil {
			return nil, core.WrapError(core.ErrStoreFailed, err)
		}
		subs = append(subs, sub)
	}
	return subs, nil
}

// LastAlert returns the stored alert state, nil when no alert was ever sent.
func (s *RESTStore) LastAlert(ctx context.Context) (*AlertState, error) {
	raw, err := s.getValue(ctx, alertStateKey)
	if err != nil {
		return nil, err
	}
	if raw == "" {
		return nil, nil
	}

	var state AlertState
	if err := json.Unmarshal([]byte(raw), &state); err != nil {
		return nil, core.WrapError(core.ErrStoreFailed, err)
	}
	return &state, nil
}

// SetLastAlert overwrites the alert state.
func (s *RESTStore) SetLastAlert(ctx context.Context, state AlertState) error {
	body, err := json.Marshal(state)
	if err != nil {
		return core.WrapError(core.ErrStoreFailed, err)
	}
	return s.setValue(ctx, alertStateKey, body)
}

// getValue reads one key; an empty string means the key does not exist.
func (s *RESTStore) getValue(ctx context.Context, key string) (string, error) {
	req, err := s.newRequest(ctx, "GET", "/get/"+url.PathEscape(key), nil)
	if err != nil {
		return "", err
	}

	var value *string
	if err := s.do(req, &value); err != nil {
		return "", err
	}
	if value == nil {
		return "", nil
	}
	return *value, nil
}

func (s *RESTStore) setValue(ctx context.Context, key string, value []byte) error {
	req, err := s.newRequest(ctx, "POST", "/set/"+url.PathEscape(key), bytes.NewReader(value))
	if err != nil {
		return err
	}
	return s.do(req, nil)
}

func (s *RESTStore) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, body)
	if err != nil {
		return nil, core.WrapError(core.ErrStoreFailed, err)
	}
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}
	return req, nil
}

// do issues the request and decodes the {"result": ...} envelope into out
// when out is non-nil.
func (s *RESTStore) do(req *http.Request, out any) error {
	resp, err := s.client.Do(req)
	if err != nil {
		return core.WrapError(core.ErrStoreFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return core.WrapError(core.ErrStoreFailed,
			fmt.Errorf("kv store returned status %d", resp.StatusCode))
	}
	if out == nil {
		return nil
	}

	var envelope struct {
		Result json.RawMessage `json:"result"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return core.WrapError(core.ErrStoreFailed, err)
	}
	if string(envelope.Result) == "null" || len(envelope.Result) == 0 {
		return nil
	}
	if err := json.Unmarshal(envelope.Result, out); err != nil {
		return core.WrapError(core.ErrStoreFailed, err)
	}
	return nil
}
