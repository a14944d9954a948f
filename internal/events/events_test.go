// AngelaMos | 2026
// events_test.go

package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingChannel struct {
	exchange string
	key      string
	msg      amqp.Publishing
	err      error
	closed   bool
}

func (c *recordingChannel) PublishWithContext(
	_ context.Context,
	exchange, key string,
	_, _ bool,
	msg amqp.Publishing,
) error {
	c.exchange, c.key, c.msg = exchange, key, msg
	return c.err
}

func (c *recordingChannel) Close() error {
	c.closed = true
	return nil
}

func TestRabbitPublisherPublish(t *testing.T) {
	ch := &recordingChannel{}
	pub := &RabbitPublisher{ch: ch, exchange: "storefront.events"}

	evt := New(AccountBanned, "u1").WithRecipient("f@example.com", "fprefect")
	require.NoError(t, pub.Publish(context.Background(), evt))

	assert.Equal(t, "storefront.events", ch.exchange)
	assert.Equal(t, "account.banned", ch.key)
	assert.Equal(t, amqp.Persistent, ch.msg.DeliveryMode)
	assert.Equal(t, "application/json", ch.msg.ContentType)
	assert.Equal(t, evt.ID, ch.msg.MessageId)

	var decoded Event
	require.NoError(t, json.Unmarshal(ch.msg.Body, &decoded))
	assert.Equal(t, evt.Type, decoded.Type)
	assert.Equal(t, "f@example.com", decoded.Email)

	require.NoError(t, pub.Close())
	assert.True(t, ch.closed)
}

func TestRabbitPublisherWrapsError(t *testing.T) {
	pub := &RabbitPublisher{ch: &recordingChannel{err: errors.New("channel closed")}}

	err := pub.Publish(context.Background(), New(ProductDeleted, "p1"))
	assert.ErrorContains(t, err, "publish product.deleted")
}

type failingPublisher struct{ calls int }

func (f *failingPublisher) Publish(context.Context, Event) error {
	f.calls++
	return errors.New("broker down")
}

func (f *failingPublisher) Close() error { return nil }

func TestEmitSwallowsFailures(t *testing.T) {
	pub := &failingPublisher{}
	Emit(context.Background(), pub, New(AccountCreated, "u1"))
	assert.Equal(t, 1, pub.calls)

	Emit(context.Background(), nil, New(AccountCreated, "u1"))
	assert.NoError(t, NopPublisher{}.Publish(context.Background(), Event{}))
}
