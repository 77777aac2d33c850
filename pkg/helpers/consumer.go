package helpers

import (
	"context"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-realty-backend/pkg/metrics"
)

// MessageHandler processes one delivery body.
type MessageHandler func(ctx context.Context, body []byte) error

// ConsumeLoop runs handle for every delivery until ctx is done or msgs closes.
// Successes are acked. Failures for which permanent reports true are dropped; other
// failures are requeued once and dropped if they fail again on redelivery.
func ConsumeLoop(ctx context.Context, queue string, msgs <-chan amqp.Delivery, handle MessageHandler,
	permanent func(error) bool, timeout time.Duration, logger *logrus.Logger) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-msgs:
			if !ok {
				return
			}
			c, cancel := context.WithTimeout(ctx, timeout)
			err := handle(c, msg.Body)
			cancel()
			metrics.RecordConsume(queue, err)

			if err == nil {
				_ = msg.Ack(false)
				continue
			}
			requeue := !msg.Redelivered && (permanent == nil || !permanent(err))
			logger.WithError(err).WithFields(logrus.Fields{
				"queue":       queue,
				"message_id":  msg.MessageId,
				"redelivered": msg.Redelivered,
				"requeue":     requeue,
			}).Warn("message handling failed")
			_ = msg.Nack(false, requeue)
		}
	}
}
