// Package messaging delivers outbound email and WhatsApp messages.
package messaging

import (
	"bytes"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"mime"
	"mime/quotedprintable"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hospitality/backend/internal/domain/shared"
	"github.com/hospitality/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// ProviderSMTP is recorded on messages sent by SMTPSender
const ProviderSMTP = "smtp"

// ErrProviderNotConfigured is returned by senders built from empty settings
var ErrProviderNotConfigured = errors.New("provider not configured")

// SMTPSender sends email through a submission server, upgrading to TLS when offered
type SMTPSender struct {
	host     string
	port     int
	username string
	password string
	from     string
	fromName string
	timeout  time.Duration
	logger   *zap.Logger
}

// NewSMTPSender creates a sender from the communication settings
func NewSMTPSender(cfg config.CommunicationConfig, logger *zap.Logger) (*SMTPSender, error) {
	if !cfg.EmailEnabled() {
		return nil, ErrProviderNotConfigured
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	timeout := cfg.SendTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &SMTPSender{
		host:     cfg.SMTPHost,
		port:     cfg.SMTPPort,
		username: cfg.SMTPUsername,
		password: cfg.SMTPPassword,
		from:     cfg.FromAddress,
		fromName: cfg.FromName,
		timeout:  timeout,
		logger:   logger,
	}, nil
}

// Provider names the delivery provider
func (s *SMTPSender) Provider() string {
	return ProviderSMTP
}

// SendEmail delivers one message and returns its Message-ID
func (s *SMTPSender) SendEmail(ctx context.Context, to, subject, body string) (string, error) {
	to = stripCRLF(to)
	msgID := fmt.Sprintf("<%s@%s>", uuid.NewString(), domainOf(s.from))
	msg, err := s.compose(to, subject, body, msgID, time.Now())
	if err != nil {
		return "", err
	}

	addr := net.JoinHostPort(s.host, strconv.Itoa(s.port))
	dialer := net.Dialer{Timeout: s.timeout}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return "", shared.NewExternalServiceError(ProviderSMTP, "failed to connect: "+err.Error())
	}
	deadline := time.Now().Add(s.timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	_ = conn.SetDeadline(deadline)

	c, err := smtp.NewClient(conn, s.host)
	if err != nil {
		conn.Close()
		return "", shared.NewExternalServiceError(ProviderSMTP, "handshake failed: "+err.Error())
	}
	defer c.Close()

	if ok, _ := c.Extension("STARTTLS"); ok {
		if err := c.StartTLS(&tls.Config{ServerName: s.host, MinVersion: tls.VersionTLS12}); err != nil {
			return "", shared.NewExternalServiceError(ProviderSMTP, "STARTTLS failed: "+err.Error())
		}
	}
	if s.username != "" {
		if err := c.Auth(smtp.PlainAuth("", s.username, s.password, s.host)); err != nil {
			return "", shared.NewExternalServiceError(ProviderSMTP, "authentication failed: "+err.Error())
		}
	}

	if err := s.deliver(c, to, msg); err != nil {
		s.logger.Warn("SMTP delivery failed", zap.String("to", to), zap.Error(err))
		return "", shared.NewExternalServiceError(ProviderSMTP, err.Error())
	}
	_ = c.Quit()

	s.logger.Debug("Email sent", zap.String("to", to), zap.String("message_id", msgID))
	return msgID, nil
}

func (s *SMTPSender) deliver(c *smtp.Client, to string, msg []byte) error {
	if err := c.Mail(s.from); err != nil {
		return fmt.Errorf("MAIL FROM: %w", err)
	}
	if err := c.Rcpt(to); err != nil {
		return fmt.Errorf("RCPT TO: %w", err)
	}
	w, err := c.Data()
	if err != nil {
		return fmt.Errorf("DATA: %w", err)
	}
	if _, err := w.Write(msg); err != nil {
		return fmt.Errorf("write body: %w", err)
	}
	return w.Close()
}

func (s *SMTPSender) compose(to, subject, body, msgID string, now time.Time) ([]byte, error) {
	var buf bytes.Buffer
	from := s.from
	if s.fromName != "" {
		from = mime.QEncoding.Encode("utf-8", stripCRLF(s.fromName)) + " <" + s.from + ">"
	}
	contentType := "text/plain; charset=utf-8"
	if looksLikeHTML(body) {
		contentType = "text/html; charset=utf-8"
	}

	headers := [][2]string{
		{"From", from},
		{"To", to},
		{"Subject", mime.QEncoding.Encode("utf-8", stripCRLF(subject))},
		{"Date", now.Format(time.RFC1123Z)},
		{"Message-ID", msgID},
		{"MIME-Version", "1.0"},
		{"Content-Type", contentType},
		{"Content-Transfer-Encoding", "quoted-printable"},
	}
	for _, h := range headers {
		buf.WriteString(h[0] + ": " + h[1] + "\r\n")
	}
	buf.WriteString("\r\n")

	qp := quotedprintable.NewWriter(&buf)
	if _, err := qp.Write([]byte(body)); err != nil {
		return nil, fmt.Errorf("encode body: %w", err)
	}
	if err := qp.Close(); err != nil {
		return nil, fmt.Errorf("encode body: %w", err)
	}
	return buf.Bytes(), nil
}

func looksLikeHTML(body string) bool {
	return strings.Contains(body, "</") || strings.Contains(body, "<br")
}

func stripCRLF(s string) string {
	return strings.NewReplacer("\r", "", "\n", " ").Replace(strings.TrimSpace(s))
}

func domainOf(addr string) string {
	if i := strings.LastIndexByte(addr, '@'); i >= 0 && i < len(addr)-1 {
		return addr[i+1:]
	}
	return "localhost"
}
