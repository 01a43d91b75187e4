package sync

import (
	"context"
	"encoding/json"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

const changeTopic = "pack_changes"

// Feed is the in-process change bus between the write path (services) and
// the per-scope synchronizers. Cross-instance delivery rides NATS; the
// bridge republishes remote events onto this feed.
type Feed struct {
	pubSub *gochannel.GoChannel
}

func NewFeed() *Feed {
	return &Feed{
		pubSub: gochannel.NewGoChannel(
			gochannel.Config{},
			watermill.NewStdLogger(false, false),
		),
	}
}

func (f *Feed) Publish(ctx context.Context, change Change) error {
	payload, err := json.Marshal(change)
	if err != nil {
		return err
	}
	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.SetContext(ctx)
	return f.pubSub.Publish(changeTopic, msg)
}

// Subscribe delivers decoded changes until ctx is cancelled. Undecodable
// payloads are acked and dropped; retrying cannot fix them.
func (f *Feed) Subscribe(ctx context.Context) (<-chan Change, error) {
	messages, err := f.pubSub.Subscribe(ctx, changeTopic)
	if err != nil {
		return nil, err
	}

	out := make(chan Change)
	go func() {
		defer close(out)
		for msg := range messages {
			var change Change
			if err := json.Unmarshal(msg.Payload, &change); err != nil {
				msg.Ack()
				continue
			}
			select {
			case out <- change:
				msg.Ack()
			case <-ctx.Done():
				msg.Nack()
				return
			}
		}
	}()
	return out, nil
}

func (f *Feed) Close() error {
	return f.pubSub.Close()
}
