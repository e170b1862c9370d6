package stock

import (
	"context"

	"github.com/beanflow/cafe-pos-backend/pkg/logger"
	"github.com/beanflow/cafe-pos-backend/pkg/redis"
)

// Subscriber listens on the inventory update channel and refreshes the
// snapshot whenever inventory management publishes a change. The push
// subscription replaces any polling of the inventory collaborator.
type Subscriber struct {
	client   *redis.Client
	snapshot *Snapshot
	log      *logger.Logger
	channel  string
}

// NewSubscriber wires the snapshot to the inventory update channel.
func NewSubscriber(client *redis.Client, snapshot *Snapshot, log *logger.Logger, channel string) *Subscriber {
	return &Subscriber{client: client, snapshot: snapshot, log: log, channel: channel}
}

// Run blocks consuming update notifications until the context is
// cancelled. Refresh failures are logged and the subscription keeps
// going; the snapshot simply stays at its last good state.
func (s *Subscriber) Run(ctx context.Context) error {
	sub := s.client.Subscribe(ctx, s.channel)
	defer sub.Close()

	ctx = s.log.WithField(ctx, "channel", s.channel)
	s.log.Info(ctx, "inventory subscription started")

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			s.log.Info(ctx, "inventory subscription stopped")
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				s.log.Warn(ctx, "inventory subscription channel closed")
				return nil
			}
			if err := s.snapshot.Refresh(ctx); err != nil {
				s.log.Error(s.log.WithField(ctx, "payload", msg.Payload), "refresh stock snapshot", err)
				continue
			}
			s.log.Info(ctx, "stock snapshot refreshed")
		}
	}
}
