package messaging

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/hospitality/backend/internal/domain/shared"
	"github.com/hospitality/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// ProviderWhatsApp is recorded on messages sent by WhatsAppSender
const ProviderWhatsApp = "whatsapp_cloud"

// WhatsAppSender posts text messages to the WhatsApp Cloud API
type WhatsAppSender struct {
	baseURL string
	phoneID string
	token   string
	client  *http.Client
	logger  *zap.Logger
}

// NewWhatsAppSender creates a sender from the communication settings
func NewWhatsAppSender(cfg config.CommunicationConfig, logger *zap.Logger) (*WhatsAppSender, error) {
	if !cfg.WhatsAppEnabled() {
		return nil, ErrProviderNotConfigured
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	timeout := cfg.SendTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &WhatsAppSender{
		baseURL: strings.TrimRight(cfg.WhatsAppAPIURL, "/"),
		phoneID: cfg.WhatsAppPhoneID,
		token:   cfg.WhatsAppToken,
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
	}, nil
}

// Provider names the delivery provider
func (s *WhatsAppSender) Provider() string {
	return ProviderWhatsApp
}

type waTextRequest struct {
	MessagingProduct string `json:"messaging_product"`
	RecipientType    string `json:"recipient_type"`
	To               string `json:"to"`
	Type             string `json:"type"`
	Text             struct {
		PreviewURL bool   `json:"preview_url"`
		Body       string `json:"body"`
	} `json:"text"`
}

type waResponse struct {
	Messages []struct {
		ID string `json:"id"`
	} `json:"messages"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    int    `json:"code"`
	} `json:"error"`
}

// SendWhatsApp sends a text message and returns the provider message ID.
// The recipient is reduced to digits as the API expects.
func (s *WhatsAppSender) SendWhatsApp(ctx context.Context, to, body string) (string, error) {
	req := waTextRequest{
		MessagingProduct: "whatsapp",
		RecipientType:    "individual",
		To:               digits(to),
		Type:             "text",
	}
	req.Text.Body = body

	payload, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("whatsapp: marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/%s/messages", s.baseURL, s.phoneID)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("whatsapp: build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+s.token)

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return "", shared.NewExternalServiceError(ProviderWhatsApp, "request failed: "+err.Error())
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", shared.NewExternalServiceError(ProviderWhatsApp, "read response: "+err.Error())
	}

	var out waResponse
	if err := json.Unmarshal(raw, &out); err != nil && resp.StatusCode < 300 {
		return "", shared.NewExternalServiceError(ProviderWhatsApp, "invalid response: "+err.Error())
	}

	if resp.StatusCode >= 300 || out.Error != nil {
		msg := http.StatusText(resp.StatusCode)
		if out.Error != nil && out.Error.Message != "" {
			msg = out.Error.Message
		}
		s.logger.Warn("WhatsApp delivery failed",
			zap.Int("status", resp.StatusCode),
			zap.String("error", msg))
		if resp.StatusCode == http.StatusBadRequest {
			return "", shared.NewValidationError("WhatsApp rejected the message: " + msg)
		}
		return "", shared.NewExternalServiceError(ProviderWhatsApp, msg)
	}
	if len(out.Messages) == 0 {
		return "", shared.NewExternalServiceError(ProviderWhatsApp, "response carried no message ID")
	}
	return out.Messages[0].ID, nil
}

func digits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
