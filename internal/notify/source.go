package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/s21platform/notify-service/internal/config"
)

const (
	channelChatUpdated        = "chat_updated"
	channelChatMessageCreated = "chat_message_created"

	listenerMinReconnectInterval = 10 * time.Second
	listenerMaxReconnectInterval = time.Minute
)

// RawNotification is one change notification as received from Postgres,
// in arrival order.
type RawNotification struct {
	Channel string
	Payload string
}

// Source holds the persistent LISTEN subscription to the two chat
// notification channels.
type Source struct {
	listener *pq.Listener
	broken   chan error
}

func NewSource(cfg *config.Config) (*Source, error) {
	conStr := fmt.Sprintf("user=%s password=%s dbname=%s host=%s port=%s sslmode=disable",
		cfg.Postgres.User, cfg.Postgres.Password, cfg.Postgres.Database, cfg.Postgres.Host, cfg.Postgres.Port)

	s := &Source{
		broken: make(chan error, 1),
	}
	s.listener = pq.NewListener(conStr, listenerMinReconnectInterval, listenerMaxReconnectInterval, s.handleListenerEvent)

	for _, channel := range []string{channelChatUpdated, channelChatMessageCreated} {
		if err := s.listener.Listen(channel); err != nil {
			_ = s.listener.Close()
			return nil, fmt.Errorf("failed to listen on %s: %v", channel, err)
		}
	}

	return s, nil
}

func (s *Source) Close() {
	_ = s.listener.Close()
}

func (s *Source) handleListenerEvent(event pq.ListenerEventType, err error) {
	switch event {
	case pq.ListenerEventDisconnected, pq.ListenerEventConnectionAttemptFailed:
		select {
		case s.broken <- err:
		default:
		}
	default:
	}
}

// Run delivers notifications to handle in arrival order until ctx is done.
// A lost connection ends the loop with an error: notifications emitted while
// the subscription is down are gone for good, so restarting the process is
// the only honest recovery.
func (s *Source) Run(ctx context.Context, handle func(RawNotification)) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-s.broken:
			return fmt.Errorf("notification connection lost: %v", err)
		case n := <-s.listener.Notify:
			if n == nil {
				// pq pushes a nil entry after an internal reconnect
				continue
			}
			handle(RawNotification{Channel: n.Channel, Payload: n.Extra})
		}
	}
}
