package queue

import (
	"context"
	"encoding/json"
	"errors"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/xavierca1/lead-intake/internal/entity"
	"github.com/xavierca1/lead-intake/internal/infra/http/middleware"
	"github.com/xavierca1/lead-intake/internal/infra/logger"
)

// Handler writes one lead job to the lead store.
type Handler func(ctx context.Context, sub entity.Submission) error

// Consumer is satisfied by *amqp.Channel.
type Consumer interface {
	Consume(queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp.Table) (<-chan amqp.Delivery, error)
}

type Worker struct {
	Channel Consumer
	Handle  Handler
}

func NewWorker(ch Consumer, handle Handler) *Worker {
	return &Worker{Channel: ch, Handle: handle}
}

// Start consumes queueName until ctx is done or the channel closes. Jobs are
// acked manually; failures are nacked without requeue into the DLQ.
func (w *Worker) Start(ctx context.Context, queueName string) error {
	msgs, err := w.Channel.Consume(queueName, "", false, false, false, false, nil)
	if err != nil {
		return err
	}

	log := logger.Named("lead-worker")
	log.Info().Str("queue", queueName).Msg("worker waiting for lead jobs")

	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-msgs:
			if !ok {
				return errors.New("delivery channel closed")
			}
			w.process(ctx, d)
		}
	}
}

func (w *Worker) process(ctx context.Context, d amqp.Delivery) {
	log := logger.Named("lead-worker").With().Str("message_id", d.MessageId).Logger()

	var sub entity.Submission
	if err := json.Unmarshal(d.Body, &sub); err != nil {
		log.Error().Err(err).Msg("malformed lead job")
		middleware.RecordIntegrationError("lead_store")
		d.Nack(false, false)
		return
	}

	if err := w.Handle(ctx, sub); err != nil {
		log.Error().Err(err).Str("email", sub.Email).Msg("lead store write failed, dead-lettered")
		middleware.RecordIntegrationError("lead_store")
		d.Nack(false, false)
		return
	}

	log.Debug().Str("submission_id", sub.ID).Msg("lead job done")
	d.Ack(false)
}
