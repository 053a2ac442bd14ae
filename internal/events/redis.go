package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// ChannelPrefix namespaces the change channels: matcher:changes:<kind>
const ChannelPrefix = "matcher:changes:"

// Channel returns the Redis channel for a kind
func Channel(kind Kind) string {
	return ChannelPrefix + string(kind)
}

// RedisFeed is a ChangeFeed and Publisher backed by Redis pub/sub
type RedisFeed struct {
	rdb *redis.Client
	log zerolog.Logger
}

var (
	_ ChangeFeed = (*RedisFeed)(nil)
	_ Publisher  = (*RedisFeed)(nil)
)

// NewRedisFeed creates a feed on an existing client
func NewRedisFeed(rdb *redis.Client, log zerolog.Logger) *RedisFeed {
	return &RedisFeed{rdb: rdb, log: log.With().Str("component", "events").Logger()}
}

// Publish sends ev on its kind's channel
func (f *RedisFeed) Publish(ctx context.Context, ev ChangeEvent) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal change event: %w", err)
	}
	if err := f.rdb.Publish(ctx, Channel(ev.Kind), payload).Err(); err != nil {
		return fmt.Errorf("publish %s: %w", Channel(ev.Kind), err)
	}
	return nil
}

// Subscribe listens on the kind's channel until ctx is done.
// Malformed payloads are logged and skipped.
func (f *RedisFeed) Subscribe(ctx context.Context, kind Kind, fn func(ChangeEvent)) error {
	ps := f.rdb.Subscribe(ctx, Channel(kind))
	if _, err := ps.Receive(ctx); err != nil {
		_ = ps.Close()
		return fmt.Errorf("subscribe %s: %w", Channel(kind), err)
	}

	go func() {
		defer ps.Close()
		ch := ps.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				var ev ChangeEvent
				if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
					f.log.Warn().Err(err).Str("channel", msg.Channel).Msg("dropping malformed change event")
					continue
				}
				if ev.Kind == "" {
					ev.Kind = kind
				}
				fn(ev)
			}
		}
	}()
	return nil
}

// RedisNotifier publishes application moves on EVENT_APPLICATION_MOVED.
// Failures are logged as warnings and never returned.
type RedisNotifier struct {
	rdb *redis.Client
	log zerolog.Logger
}

var _ Notifier = (*RedisNotifier)(nil)

// NewRedisNotifier creates a notifier on an existing client
func NewRedisNotifier(rdb *redis.Client, log zerolog.Logger) *RedisNotifier {
	return &RedisNotifier{rdb: rdb, log: log.With().Str("component", "notifier").Logger()}
}

// ApplicationMoved publishes ev
func (n *RedisNotifier) ApplicationMoved(ctx context.Context, ev ApplicationMoved) {
	ev.Type = EventApplicationMoved
	payload, err := json.Marshal(ev)
	if err != nil {
		n.log.Warn().Err(err).Msg("marshal application event failed")
		return
	}
	if err := n.rdb.Publish(ctx, EventApplicationMoved, payload).Err(); err != nil {
		n.log.Warn().Err(err).Str("application_id", ev.ApplicationID.String()).Msg("publish " + EventApplicationMoved + " failed")
	}
}
