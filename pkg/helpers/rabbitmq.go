package helpers

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// RabbitPublisher wraps an AMQP channel and publishes to durable queues.
type RabbitPublisher struct {
	conn *amqp.Connection
	ch   *amqp.Channel
}

// NewRabbitPublisher dials url and declares every queue it will publish to.
func NewRabbitPublisher(url string, queues ...string) (*RabbitPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	for _, q := range queues {
		if err := declareQueue(ch, q); err != nil {
			_ = ch.Close()
			_ = conn.Close()
			return nil, err
		}
	}
	return &RabbitPublisher{conn: conn, ch: ch}, nil
}

func declareQueue(ch *amqp.Channel, queue string) error {
	_, err := ch.QueueDeclare(
		queue,
		true,  // durable
		false, // autoDelete
		false, // exclusive
		false, // noWait
		nil,
	)
	return err
}

func (p *RabbitPublisher) Close() {
	if p == nil {
		return
	}
	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil {
		_ = p.conn.Close()
	}
}

// PublishJSON publishes a JSON-encoded message to queue via the default exchange.
func (p *RabbitPublisher) PublishJSON(ctx context.Context, queue string, body any) error {
	b, err := json.Marshal(body)
	if err != nil {
		return err
	}
	return p.ch.PublishWithContext(ctx,
		"",    // default exchange
		queue, // routing key = queue
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now().UTC(),
			Body:         b,
		},
	)
}

// RabbitConsumer holds the connection behind a delivery stream.
type RabbitConsumer struct {
	conn *amqp.Connection
	ch   *amqp.Channel
}

// NewRabbitConsumer declares queue and starts a manual-ack consumer with the given prefetch.
func NewRabbitConsumer(url, queue string, prefetch int) (*RabbitConsumer, <-chan amqp.Delivery, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, nil, err
	}
	c := &RabbitConsumer{conn: conn, ch: ch}
	if err := ch.Qos(prefetch, 0, false); err != nil {
		c.Close()
		return nil, nil, err
	}
	if err := declareQueue(ch, queue); err != nil {
		c.Close()
		return nil, nil, err
	}
	msgs, err := ch.Consume(queue, "", false, false, false, false, nil)
	if err != nil {
		c.Close()
		return nil, nil, err
	}
	return c, msgs, nil
}

func (c *RabbitConsumer) Close() {
	if c == nil {
		return
	}
	_ = c.ch.Close()
	_ = c.conn.Close()
}
