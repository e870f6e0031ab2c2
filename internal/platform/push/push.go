// Package push delivers mobile push messages to device tokens over an
// FCM-compatible HTTP endpoint. It exposes a Sender interface so services can
// be tested against an in-memory mock.
package push

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"
)

// AndroidHints carries Android-specific delivery options.
type AndroidHints struct {
	Priority  string `json:"priority,omitempty"`
	Sound     string `json:"sound,omitempty"`
	ChannelID string `json:"channel_id,omitempty"`
	// Importance maps to the channel importance on Android 8+.
	Importance string `json:"importance,omitempty"`
	Category   string `json:"category,omitempty"`
}

// APNSHints carries Apple-specific delivery options.
type APNSHints struct {
	Sound    string `json:"sound,omitempty"`
	Badge    int    `json:"badge,omitempty"`
	Category string `json:"category,omitempty"`
}

// Envelope is a fully assembled push message addressed to a single device.
type Envelope struct {
	Token   string            `json:"token"`
	Title   string            `json:"title"`
	Body    string            `json:"body"`
	Data    map[string]string `json:"data,omitempty"`
	Android AndroidHints      `json:"android"`
	APNS    APNSHints         `json:"apns"`
}

// Sender delivers an envelope and returns the provider message id.
type Sender interface {
	Send(ctx context.Context, env *Envelope) (string, error)
}

// ---------------------------------------------------------------------------
// HTTPSender
// ---------------------------------------------------------------------------

// HTTPSender posts envelopes to an FCM-compatible messages endpoint.
type HTTPSender struct {
	endpoint string
	apiKey   string
	client   *http.Client
}

// NewHTTPSender creates a sender targeting the given endpoint. The apiKey is
// sent as a bearer token; pass an empty string for unauthenticated endpoints.
func NewHTTPSender(endpoint, apiKey string, timeout time.Duration) *HTTPSender {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPSender{
		endpoint: endpoint,
		apiKey:   apiKey,
		client:   &http.Client{Timeout: timeout},
	}
}

// wireMessage is the provider-facing request shape.
type wireMessage struct {
	Message struct {
		Token        string            `json:"token"`
		Notification wireNotification  `json:"notification"`
		Data         map[string]string `json:"data,omitempty"`
		Android      wireAndroid       `json:"android"`
		APNS         wireAPNS          `json:"apns"`
	} `json:"message"`
}

type wireNotification struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

type wireAndroid struct {
	Priority     string                  `json:"priority,omitempty"`
	Notification wireAndroidNotification `json:"notification"`
}

type wireAndroidNotification struct {
	Sound      string `json:"sound,omitempty"`
	ChannelID  string `json:"channel_id,omitempty"`
	Importance string `json:"notification_priority,omitempty"`
	Category   string `json:"category,omitempty"`
}

type wireAPNS struct {
	Payload struct {
		APS wireAPS `json:"aps"`
	} `json:"payload"`
}

type wireAPS struct {
	Sound    string `json:"sound,omitempty"`
	Badge    int    `json:"badge,omitempty"`
	Category string `json:"category,omitempty"`
}

type wireReceipt struct {
	Name string `json:"name"`
}

// Send posts the envelope and returns the provider receipt name.
func (s *HTTPSender) Send(ctx context.Context, env *Envelope) (string, error) {
	var msg wireMessage
	msg.Message.Token = env.Token
	msg.Message.Notification = wireNotification{Title: env.Title, Body: env.Body}
	msg.Message.Data = env.Data
	msg.Message.Android = wireAndroid{
		Priority: env.Android.Priority,
		Notification: wireAndroidNotification{
			Sound:      env.Android.Sound,
			ChannelID:  env.Android.ChannelID,
			Importance: env.Android.Importance,
			Category:   env.Android.Category,
		},
	}
	msg.Message.APNS.Payload.APS = wireAPS{
		Sound:    env.APNS.Sound,
		Badge:    env.APNS.Badge,
		Category: env.APNS.Category,
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		return "", fmt.Errorf("marshaling push message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("building push request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if s.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.apiKey)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("POST %s: %w", s.endpoint, err)
	}
	defer resp.Body.Close()

	// Read at most 4KB of response body.
	bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("push endpoint returned status %d: %s", resp.StatusCode, string(bodyBytes))
	}

	var receipt wireReceipt
	if err := json.Unmarshal(bodyBytes, &receipt); err != nil {
		return "", fmt.Errorf("decoding push receipt: %w", err)
	}
	return receipt.Name, nil
}

// ---------------------------------------------------------------------------
// MockSender
// ---------------------------------------------------------------------------

// MockSender records envelopes in memory for tests.
type MockSender struct {
	mu         sync.Mutex
	sent       []Envelope
	ShouldFail bool
	// NextID overrides the generated message id when set.
	NextID string
}

// NewMockSender creates an empty recording sender.
func NewMockSender() *MockSender {
	return &MockSender{}
}

func (m *MockSender) Send(_ context.Context, env *Envelope) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ShouldFail {
		return "", fmt.Errorf("mock send failure")
	}
	m.sent = append(m.sent, *env)
	if m.NextID != "" {
		return m.NextID, nil
	}
	return fmt.Sprintf("mock-message-%d", len(m.sent)), nil
}

// Sent returns a copy of all recorded envelopes.
func (m *MockSender) Sent() []Envelope {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Envelope, len(m.sent))
	copy(out, m.sent)
	return out
}
