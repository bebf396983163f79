// Package email wraps the Resend SDK behind a narrow sender surface so the
// notification layer can be tested without network access.
package email

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/resend/resend-go/v2"

	"github.com/minimalstore/storefront-api/pkg/config"
	"github.com/minimalstore/storefront-api/pkg/logger"
)

var errAPIKeyRequired = errors.New("email api key is required")

// Message is one outbound email.
type Message struct {
	To      string
	Subject string
	HTML    string
}

// Sender delivers a single message.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// Client delivers mail through Resend.
type Client struct {
	api       *resend.Client
	from      string
	storeName string
}

// NewClient builds a Resend-backed sender from config.
func NewClient(ctx context.Context, cfg config.EmailConfig, logg *logger.Logger) (*Client, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, errAPIKeyRequired
	}

	from := strings.TrimSpace(cfg.FromAddress)
	if cfg.StoreName != "" {
		from = fmt.Sprintf("%s <%s>", cfg.StoreName, from)
	}

	if logg != nil {
		logg.Info(ctx, "email client initialized")
	}

	return &Client{
		api:       resend.NewClient(apiKey),
		from:      from,
		storeName: cfg.StoreName,
	}, nil
}

// From returns the formatted sender address.
func (c *Client) From() string {
	if c == nil {
		return ""
	}
	return c.from
}

// Send delivers one message. The caller owns retry/timeout policy via ctx.
func (c *Client) Send(ctx context.Context, msg Message) error {
	if c == nil || c.api == nil {
		return errors.New("email client not initialized")
	}
	if msg.To == "" {
		return errors.New("recipient is required")
	}

	params := &resend.SendEmailRequest{
		From:    c.from,
		To:      []string{msg.To},
		Subject: msg.Subject,
		Html:    msg.HTML,
	}
	if _, err := c.api.Emails.SendWithContext(ctx, params); err != nil {
		return fmt.Errorf("sending email: %w", err)
	}
	return nil
}
