// Package bus provides the in-process pub/sub channel widget stores publish
// their changes on. It wraps watermill's gochannel so the web layer can fan
// store updates out to connected clients without coupling stores to sockets.
package bus

import (
	"context"
	"encoding/json"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/pkg/errors"
)

// Topics published by widget stores.
const (
	TopicSettingsUpdated = "settings.updated"
	TopicMessagesUpdated = "messages.updated"
	TopicPathsUpdated    = "paths.updated"
)

// Bus is a small in-process pub/sub bus. One Bus serves one widget session;
// closing it terminates all subscriptions.
type Bus struct {
	pubsub *gochannel.GoChannel
}

func New() *Bus {
	return &Bus{
		pubsub: gochannel.NewGoChannel(
			gochannel.Config{OutputChannelBuffer: 64},
			watermill.NopLogger{},
		),
	}
}

// PublishJSON marshals payload and publishes it on topic.
func (b *Bus) PublishJSON(topic string, payload any) error {
	if b == nil || b.pubsub == nil {
		return errors.New("bus is not initialized")
	}
	if topic == "" {
		return errors.New("topic is empty")
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return errors.Wrapf(err, "marshal payload for %s", topic)
	}
	msg := message.NewMessage(watermill.NewUUID(), data)
	if err := b.pubsub.Publish(topic, msg); err != nil {
		return errors.Wrapf(err, "publish %s", topic)
	}
	return nil
}

// Subscribe returns a channel of messages for topic. The channel closes when
// ctx is cancelled or the bus is closed.
func (b *Bus) Subscribe(ctx context.Context, topic string) (<-chan *message.Message, error) {
	if b == nil || b.pubsub == nil {
		return nil, errors.New("bus is not initialized")
	}
	if topic == "" {
		return nil, errors.New("topic is empty")
	}
	return b.pubsub.Subscribe(ctx, topic)
}

func (b *Bus) Close() error {
	if b == nil || b.pubsub == nil {
		return nil
	}
	return b.pubsub.Close()
}
