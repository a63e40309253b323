// Package ai wraps the generative model used by the guest concierge.
package ai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/hospitality/backend/internal/domain/shared"
	"github.com/hospitality/backend/internal/infrastructure/config"
	"go.uber.org/zap"
	"google.golang.org/genai"
)

// ProviderGemini names the provider in logs and errors
const ProviderGemini = "gemini"

// ErrNotConfigured is returned when no API key is set
var ErrNotConfigured = errors.New("gemini: API key is not configured")

// Turn is one message of the chat history sent to the model
type Turn struct {
	FromGuest bool
	Text      string
}

// GeminiClient generates concierge replies with the Gemini API
type GeminiClient struct {
	client      *genai.Client
	model       string
	temperature float32
	maxTokens   int32
	timeout     time.Duration
	logger      *zap.Logger
}

// ClientOption configures a GeminiClient
type ClientOption func(*genai.ClientConfig)

// WithBaseURL points the client at another endpoint, used by tests
func WithBaseURL(url string) ClientOption {
	return func(c *genai.ClientConfig) {
		c.HTTPOptions.BaseURL = url
	}
}

// WithHTTPClient overrides the HTTP client
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *genai.ClientConfig) {
		c.HTTPClient = hc
	}
}

// NewGeminiClient creates a client for the configured model
func NewGeminiClient(ctx context.Context, cfg config.AIConfig, logger *zap.Logger, opts ...ClientOption) (*GeminiClient, error) {
	if !cfg.Enabled() {
		return nil, ErrNotConfigured
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	cc := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	for _, opt := range opts {
		opt(cc)
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := cfg.Model
	if model == "" {
		model = "gemini-2.0-flash"
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	maxTokens := cfg.MaxOutputTokens
	if maxTokens <= 0 {
		maxTokens = 512
	}

	return &GeminiClient{
		client:      client,
		model:       model,
		temperature: float32(cfg.Temperature),
		maxTokens:   int32(maxTokens),
		timeout:     timeout,
		logger:      logger,
	}, nil
}

// Model returns the model name
func (c *GeminiClient) Model() string {
	return c.model
}

// Reply asks the model for the next assistant message.
// The history must end with the guest's latest message.
func (c *GeminiClient) Reply(ctx context.Context, systemPrompt string, history []Turn) (string, error) {
	if len(history) == 0 {
		return "", shared.NewValidationError("Conversation history is empty")
	}

	contents := make([]*genai.Content, 0, len(history))
	for _, t := range history {
		var role genai.Role = genai.RoleModel
		if t.FromGuest {
			role = genai.RoleUser
		}
		contents = append(contents, genai.NewContentFromText(t.Text, role))
	}

	gc := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(c.temperature),
		MaxOutputTokens: c.maxTokens,
	}
	if systemPrompt != "" {
		gc.SystemInstruction = genai.NewContentFromText(systemPrompt, genai.RoleUser)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	resp, err := c.client.Models.GenerateContent(ctx, c.model, contents, gc)
	if err != nil {
		c.logger.Warn("Gemini request failed", zap.String("model", c.model), zap.Error(err))
		return "", shared.NewExternalServiceError(ProviderGemini, err.Error())
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", shared.NewExternalServiceError(ProviderGemini, "model returned an empty reply")
	}

	c.logger.Debug("Gemini reply generated",
		zap.String("model", c.model),
		zap.Duration("duration", time.Since(start)),
		zap.Int("turns", len(history)))
	return text, nil
}
