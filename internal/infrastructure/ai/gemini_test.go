package ai

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/hospitality/backend/internal/domain/shared"
	"github.com/hospitality/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *GeminiClient {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	c, err := NewGeminiClient(context.Background(), config.AIConfig{
		APIKey:      "test-key",
		Model:       "gemini-2.0-flash",
		Temperature: 0.3,
	}, zap.NewNop(), WithBaseURL(srv.URL+"/"))
	require.NoError(t, err)
	return c
}

func TestNewGeminiClient_RequiresKey(t *testing.T) {
	_, err := NewGeminiClient(context.Background(), config.AIConfig{}, nil)
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestReply(t *testing.T) {
	var body map[string]any
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "gemini-2.0-flash:generateContent"), r.URL.Path)
		raw, _ := io.ReadAll(r.Body)
		assert.NoError(t, json.Unmarshal(raw, &body))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":"  Breakfast is served from 7:00 to 10:30.  "}]},"finishReason":"STOP"}]}`))
	})

	reply, err := c.Reply(context.Background(), "You are the concierge of Seaside Boutique Hotel.", []Turn{
		{FromGuest: true, Text: "Hi"},
		{FromGuest: false, Text: "Hello! How can I help?"},
		{FromGuest: true, Text: "When is breakfast?"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Breakfast is served from 7:00 to 10:30.", reply)

	contents, ok := body["contents"].([]any)
	require.True(t, ok)
	assert.Len(t, contents, 3)
	assert.Equal(t, "model", contents[1].(map[string]any)["role"])
	assert.Contains(t, body, "systemInstruction")
}

func TestReply_ProviderError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"error":{"code":503,"message":"overloaded","status":"UNAVAILABLE"}}`))
	})

	_, err := c.Reply(context.Background(), "", []Turn{{FromGuest: true, Text: "Hi"}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, shared.ErrExternalService))
}

func TestReply_EmptyHistory(t *testing.T) {
	c := newTestClient(t, func(http.ResponseWriter, *http.Request) {
		t.Error("model must not be called")
	})
	_, err := c.Reply(context.Background(), "", nil)
	assert.Error(t, err)
}
