package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	goredis "github.com/redis/go-redis/v9"

	types "github.com/yungbote/stylepath-backend/internal/domain"
	"github.com/yungbote/stylepath-backend/internal/platform/logger"
)

// EventBus publishes engine events on a redis pub/sub channel.
type EventBus struct {
	log     *logger.Logger
	rdb     goredis.UniversalClient
	channel string
}

func NewEventBus(rdb goredis.UniversalClient, channel string, log *logger.Logger) *EventBus {
	channel = strings.TrimSpace(channel)
	if channel == "" {
		channel = "stylepath.events"
	}
	return &EventBus{log: log.With("service", "RedisEventBus"), rdb: rdb, channel: channel}
}

func (b *EventBus) Channel() string { return b.channel }

func (b *EventBus) Publish(ctx context.Context, ev types.Event) error {
	if b == nil || b.rdb == nil {
		return fmt.Errorf("redis event bus not initialized")
	}
	raw, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return b.rdb.Publish(ctx, b.channel, raw).Err()
}

// Subscribe forwards decoded events to onEvent until ctx is cancelled.
func (b *EventBus) Subscribe(ctx context.Context, onEvent func(types.Event)) error {
	if b == nil || b.rdb == nil {
		return fmt.Errorf("redis event bus not initialized")
	}
	sub := b.rdb.Subscribe(ctx, b.channel)
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return fmt.Errorf("redis subscribe: %w", err)
	}
	go func() {
		defer sub.Close()
		ch := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				var ev types.Event
				if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
					b.log.Warn("dropping malformed event", "error", err)
					continue
				}
				onEvent(ev)
			}
		}
	}()
	return nil
}
