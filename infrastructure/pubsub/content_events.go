package pubsub

import (
	"context"
	"errors"

	"cloud.google.com/go/pubsub"
	"github.com/sirupsen/logrus"

	"hootsuite-publisher/domain/model"
	"hootsuite-publisher/domain/repository"
)

// EventHandler processes one content event.
type EventHandler func(ctx context.Context, event model.ContentEvent) error

// ContentEventSubscriber feeds content events from a Pub/Sub subscription
// into the publisher.
type ContentEventSubscriber struct {
	client         *pubsub.Client
	subscriptionID string
	handler        EventHandler
	log            logrus.FieldLogger
}

func NewContentEventSubscriber(client *pubsub.Client, subscriptionID string, handler EventHandler, log logrus.FieldLogger) *ContentEventSubscriber {
	return &ContentEventSubscriber{client: client, subscriptionID: subscriptionID, handler: handler, log: log}
}

// Run blocks until ctx is cancelled or the subscription fails.
func (s *ContentEventSubscriber) Run(ctx context.Context) error {
	sub := s.client.Subscription(s.subscriptionID)
	s.log.WithField("subID", s.subscriptionID).Info("PubSub starting...")

	err := sub.Receive(ctx, func(ctx context.Context, msg *pubsub.Message) {
		if s.process(ctx, msg.ID, msg.Data) {
			msg.Ack()
			return
		}
		msg.Nack()
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// process reports whether the message should be acknowledged.
func (s *ContentEventSubscriber) process(ctx context.Context, id string, data []byte) bool {
	log := s.log.WithField("message_id", id)

	event, err := model.ParseContentEvent(data)
	if err != nil {
		log.WithField("error", err).Error("Dropping malformed content event")
		return true
	}

	err = s.handler(ctx, event)
	switch {
	case err == nil:
		log.WithField("content_id", event.ContentID).Info("Content event handled")
		return true
	case errors.Is(err, repository.ErrContentNotFound), errors.Is(err, repository.ErrPostNotFound):
		log.WithField("content_id", event.ContentID).Warn("Content event for unknown content")
		return true
	default:
		log.WithField("content_id", event.ContentID).WithField("error", err).Error("Error while handling content event")
		return false
	}
}
