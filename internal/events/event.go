// AngelaMos | 2026
// event.go

package events

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

type Type string

const (
	AccountCreated  Type = "account.created"
	AccountBanned   Type = "account.banned"
	AccountUnbanned Type = "account.unbanned"
	ProductDeleted  Type = "product.deleted"
)

// Event is the JSON body of every message on the events exchange. The
// routing key is the event type.
type Event struct {
	ID         string    `json:"id"`
	Type       Type      `json:"type"`
	OccurredAt time.Time `json:"occurredAt"`
	Subject    string    `json:"subject"`
	Email      string    `json:"email,omitempty"`
	Name       string    `json:"name,omitempty"`
}

func New(t Type, subject string) Event {
	return Event{
		ID:         uuid.New().String(),
		Type:       t,
		OccurredAt: time.Now().UTC(),
		Subject:    subject,
	}
}

func (e Event) WithRecipient(email, name string) Event {
	e.Email = email
	e.Name = name
	return e
}

type Publisher interface {
	Publish(ctx context.Context, evt Event) error
	Close() error
}

type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }

func (NopPublisher) Close() error { return nil }

// Emit publishes best-effort; the request that caused the event has
// already committed, so a broker failure is only logged.
func Emit(ctx context.Context, pub Publisher, evt Event) {
	if pub == nil {
		return
	}

	if err := pub.Publish(ctx, evt); err != nil {
		slog.WarnContext(ctx, "event publish failed",
			"event_type", evt.Type,
			"event_id", evt.ID,
			"subject", evt.Subject,
			"error", err,
		)
	}
}
