// AngelaMos | 2026
// mailgun.go

package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/mailgun/mailgun-go/v4"

	"github.com/carterperez-dev/storefront/internal/config"
)

const sendTimeout = 10 * time.Second

// Sender delivers one email. html is optional.
type Sender interface {
	Send(ctx context.Context, to, subject, text, html string) error
}

type Mailgun struct {
	client *mailgun.MailgunImpl
	sender string
}

func NewMailgun(cfg config.MailgunConfig) *Mailgun {
	return &Mailgun{
		client: mailgun.NewMailgun(cfg.Domain, cfg.APIKey),
		sender: cfg.Sender,
	}
}

func (m *Mailgun) Send(ctx context.Context, to, subject, text, html string) error {
	msg := m.client.NewMessage(m.sender, subject, text, to)
	if html != "" {
		msg.SetHtml(html)
	}

	ctx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	if _, _, err := m.client.Send(ctx, msg); err != nil {
		return fmt.Errorf("mailgun send to %s: %w", to, err)
	}

	return nil
}
