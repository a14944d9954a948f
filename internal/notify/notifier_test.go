// AngelaMos | 2026
// notifier_test.go

package notify

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/storefront/internal/config"
	"github.com/carterperez-dev/storefront/internal/events"
)

type sentMail struct {
	to, subject, text, html string
}

type fakeSender struct {
	sent []sentMail
	err  error
}

func (f *fakeSender) Send(_ context.Context, to, subject, text, html string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentMail{to, subject, text, html})
	return nil
}

func TestNotifier_Handle(t *testing.T) {
	tests := []struct {
		name        string
		evt         events.Event
		wantSent    bool
		wantSubject string
	}{
		{
			name:        "welcome",
			evt:         events.New(events.AccountCreated, "u1").WithRecipient("f@example.com", "Ford"),
			wantSent:    true,
			wantSubject: "Welcome to Storefront",
		},
		{
			name:        "banned",
			evt:         events.New(events.AccountBanned, "u1").WithRecipient("f@example.com", "Ford"),
			wantSent:    true,
			wantSubject: "Your Storefront account has been suspended",
		},
		{
			name:        "unbanned",
			evt:         events.New(events.AccountUnbanned, "u1").WithRecipient("f@example.com", ""),
			wantSent:    true,
			wantSubject: "Your Storefront account has been restored",
		},
		{
			name: "no recipient",
			evt:  events.New(events.AccountCreated, "u1"),
		},
		{
			name: "no template",
			evt:  events.New(events.ProductDeleted, "p1").WithRecipient("f@example.com", ""),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sender := &fakeSender{}
			n := NewNotifier(sender, "Storefront", nil)

			require.NoError(t, n.Handle(context.Background(), tt.evt))

			if !tt.wantSent {
				assert.Empty(t, sender.sent)
				return
			}
			require.Len(t, sender.sent, 1)
			assert.Equal(t, "f@example.com", sender.sent[0].to)
			assert.Equal(t, tt.wantSubject, sender.sent[0].subject)
			assert.Contains(t, sender.sent[0].html, "<p>")
		})
	}
}

func TestNotifier_EscapesName(t *testing.T) {
	sender := &fakeSender{}
	evt := events.New(events.AccountCreated, "u1").WithRecipient("f@example.com", "<b>Ford</b>")

	require.NoError(t, NewNotifier(sender, "Storefront", nil).Handle(context.Background(), evt))
	require.Len(t, sender.sent, 1)
	assert.Contains(t, sender.sent[0].text, "<b>Ford</b>")
	assert.NotContains(t, sender.sent[0].html, "<b>")
}

func TestNotifier_SendFailureIsReturned(t *testing.T) {
	sender := &fakeSender{err: errors.New("mailgun 502")}
	evt := events.New(events.AccountCreated, "u1").WithRecipient("f@example.com", "Ford")

	err := NewNotifier(sender, "Storefront", nil).Handle(context.Background(), evt)
	assert.ErrorContains(t, err, "mailgun 502")
}

func TestNewMailgun(t *testing.T) {
	m := NewMailgun(config.MailgunConfig{
		Domain: "mg.example.com",
		APIKey: "key-test",
		Sender: "Storefront <no-reply@mg.example.com>",
	})
	require.NotNil(t, m.client)
	assert.Equal(t, "mg.example.com", m.client.Domain())
}

func TestNotifier_LogSender(t *testing.T) {
	n := NewNotifier(LogSender{}, "Storefront", nil)
	evt := events.New(events.AccountCreated, "u1").WithRecipient("f@example.com", "Ford")
	assert.NoError(t, n.Handle(context.Background(), evt))
}
