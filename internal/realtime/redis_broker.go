package realtime

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RedisBroker fans events out across server instances via Redis pub/sub.
type RedisBroker struct {
	client *redis.Client
}

func NewRedisBroker(client *redis.Client) *RedisBroker {
	return &RedisBroker{client: client}
}

func channelFor(coupleID uuid.UUID) string {
	return "couple:events:" + coupleID.String()
}

func (b *RedisBroker) Publish(ctx context.Context, ev Event) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return b.client.Publish(ctx, channelFor(ev.CoupleID), payload).Err()
}

func (b *RedisBroker) Subscribe(ctx context.Context, coupleID uuid.UUID) (*Subscription, error) {
	pubsub := b.client.Subscribe(ctx, channelFor(coupleID))
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, err
	}

	out := make(chan Event, 1)
	go func() {
		defer close(out)
		for msg := range pubsub.Channel() {
			var ev Event
			if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
				slog.Error("realtime: dropping undecodable event", "error", err)
				continue
			}
			select {
			case out <- ev:
			default: // coalesce, consumer re-fetches full state anyway
			}
		}
	}()

	return &Subscription{
		C: out,
		cancel: func() {
			_ = pubsub.Close()
		},
	}, nil
}
