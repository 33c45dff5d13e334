package servicebus

import (
	"context"
	"errors"

	"github.com/Azure/azure-sdk-for-go/sdk/messaging/azservicebus"
	"github.com/sirupsen/logrus"

	"hootsuite-publisher/domain/model"
	"hootsuite-publisher/domain/repository"
)

const defaultBatchSize = 10

// EventHandler processes one content event.
type EventHandler func(ctx context.Context, event model.ContentEvent) error

type messageReceiver interface {
	ReceiveMessages(ctx context.Context, maxMessages int, options *azservicebus.ReceiveMessagesOptions) ([]*azservicebus.ReceivedMessage, error)
	CompleteMessage(ctx context.Context, message *azservicebus.ReceivedMessage, options *azservicebus.CompleteMessageOptions) error
	AbandonMessage(ctx context.Context, message *azservicebus.ReceivedMessage, options *azservicebus.AbandonMessageOptions) error
	Close(ctx context.Context) error
}

// ContentEventReceiver feeds content events from a Service Bus queue into
// the publisher.
type ContentEventReceiver struct {
	newReceiver func() (messageReceiver, error)
	queue       string
	handler     EventHandler
	log         logrus.FieldLogger
	batchSize   int
}

func NewContentEventReceiver(client *azservicebus.Client, queue string, handler EventHandler, log logrus.FieldLogger) *ContentEventReceiver {
	return &ContentEventReceiver{
		newReceiver: func() (messageReceiver, error) {
			receiver, err := client.NewReceiverForQueue(queue, nil)
			if err != nil {
				return nil, err
			}
			return receiver, nil
		},
		queue:     queue,
		handler:   handler,
		log:       log,
		batchSize: defaultBatchSize,
	}
}

// Run receives until ctx is cancelled.
func (r *ContentEventReceiver) Run(ctx context.Context) error {
	receiver, err := r.newReceiver()
	if err != nil {
		r.log.WithField("error", err).Error("Error while making new receiver service bus.")
		return err
	}
	defer func() {
		if err := receiver.Close(context.Background()); err != nil {
			r.log.WithField("error", err).Error("Error while closing receiver.")
		}
	}()

	r.log.WithField("queue", r.queue).Info("Service Bus receiver starting...")
	for {
		messages, err := receiver.ReceiveMessages(ctx, r.batchSize, nil)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		for _, message := range messages {
			r.settle(ctx, receiver, message)
		}
	}
}

func (r *ContentEventReceiver) settle(ctx context.Context, receiver messageReceiver, message *azservicebus.ReceivedMessage) {
	log := r.log.WithField("message_id", message.MessageID)

	var err error
	if r.process(ctx, log, message.Body) {
		err = receiver.CompleteMessage(ctx, message, nil)
	} else {
		err = receiver.AbandonMessage(ctx, message, nil)
	}
	if err != nil {
		log.WithField("error", err).Error("Error while settling message.")
	}
}

// process reports whether the message should be completed.
func (r *ContentEventReceiver) process(ctx context.Context, log logrus.FieldLogger, body []byte) bool {
	event, err := model.ParseContentEvent(body)
	if err != nil {
		log.WithField("error", err).Error("Dropping malformed content event")
		return true
	}

	err = r.handler(ctx, event)
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
