// AngelaMos | 2026
// notifier.go

package notify

import (
	"context"
	"fmt"
	"html"
	"log/slog"

	"github.com/carterperez-dev/storefront/internal/events"
)

type message struct {
	subject string
	text    string
	html    string
}

// Notifier turns account events into emails. Events without a recipient
// and event types that have no template are acknowledged and skipped.
type Notifier struct {
	sender    Sender
	storeName string
	logger    *slog.Logger
}

func NewNotifier(sender Sender, storeName string, logger *slog.Logger) *Notifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Notifier{sender: sender, storeName: storeName, logger: logger}
}

func (n *Notifier) Handle(ctx context.Context, evt events.Event) error {
	if evt.Email == "" {
		return nil
	}

	msg, ok := n.compose(evt)
	if !ok {
		return nil
	}

	if err := n.sender.Send(ctx, evt.Email, msg.subject, msg.text, msg.html); err != nil {
		return err
	}

	n.logger.InfoContext(ctx, "notification sent",
		"event_type", evt.Type,
		"event_id", evt.ID,
	)

	return nil
}

func (n *Notifier) compose(evt events.Event) (message, bool) {
	name := evt.Name
	if name == "" {
		name = "there"
	}

	var subject, body string
	switch evt.Type {
	case events.AccountCreated:
		subject = fmt.Sprintf("Welcome to %s", n.storeName)
		body = fmt.Sprintf("Hi %s, your %s account is ready. Happy shopping!", name, n.storeName)
	case events.AccountBanned:
		subject = fmt.Sprintf("Your %s account has been suspended", n.storeName)
		body = fmt.Sprintf("Hi %s, your account has been suspended. Reply to this email if you think this is a mistake.", name)
	case events.AccountUnbanned:
		subject = fmt.Sprintf("Your %s account has been restored", n.storeName)
		body = fmt.Sprintf("Hi %s, your account has been restored and you can sign in again.", name)
	default:
		return message{}, false
	}

	return message{
		subject: subject,
		text:    body,
		html:    "<p>" + html.EscapeString(body) + "</p>",
	}, true
}
