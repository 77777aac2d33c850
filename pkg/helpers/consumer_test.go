package helpers

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
)

type ackRecorder struct {
	mu      sync.Mutex
	acked   []uint64
	nacked  map[uint64]bool
	rejects int
}

func (a *ackRecorder) Ack(tag uint64, _ bool) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.acked = append(a.acked, tag)
	return nil
}

func (a *ackRecorder) Nack(tag uint64, _ bool, requeue bool) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.nacked[tag] = requeue
	return nil
}

func (a *ackRecorder) Reject(uint64, bool) error {
	a.rejects++
	return nil
}

var errPermanent = errors.New("permanent")

func TestConsumeLoop(t *testing.T) {
	rec := &ackRecorder{nacked: map[uint64]bool{}}
	msgs := make(chan amqp.Delivery, 4)
	msgs <- amqp.Delivery{Acknowledger: rec, DeliveryTag: 1, Body: []byte("ok")}
	msgs <- amqp.Delivery{Acknowledger: rec, DeliveryTag: 2, Body: []byte("bad")}
	msgs <- amqp.Delivery{Acknowledger: rec, DeliveryTag: 3, Body: []byte("flaky")}
	msgs <- amqp.Delivery{Acknowledger: rec, DeliveryTag: 4, Body: []byte("flaky"), Redelivered: true}
	close(msgs)

	handle := func(_ context.Context, body []byte) error {
		switch string(body) {
		case "bad":
			return errPermanent
		case "flaky":
			return errors.New("connection reset")
		}
		return nil
	}
	ConsumeLoop(context.Background(), "emails", msgs, handle,
		func(err error) bool { return errors.Is(err, errPermanent) }, time.Second, NewNopLogger())

	assert.Equal(t, []uint64{1}, rec.acked)
	assert.Equal(t, map[uint64]bool{2: false, 3: true, 4: false}, rec.nacked)
	assert.Zero(t, rec.rejects)
}

func TestConsumeLoopStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		ConsumeLoop(ctx, "q", make(chan amqp.Delivery), nil, nil, time.Second, NewNopLogger())
		close(done)
	}()
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("ConsumeLoop did not return after cancel")
	}
}
