package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/streadway/amqp"

	"github.com/unclebandit/campaign-studio/internal/logx"
)

// AMQPQueue publishes and consumes posting jobs through RabbitMQ. Each topic
// is a durable queue on the default exchange.
type AMQPQueue struct {
	conn *amqp.Connection
	ch   *amqp.Channel

	mu       sync.Mutex
	declared map[string]bool
	wg       sync.WaitGroup
}

func DialAMQP(url string) (*AMQPQueue, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open a channel: %w", err)
	}
	return &AMQPQueue{conn: conn, ch: ch, declared: make(map[string]bool)}, nil
}

func (q *AMQPQueue) declare(topic string) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.declared[topic] {
		return nil
	}
	_, err := q.ch.QueueDeclare(
		topic,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to declare queue %s: %w", topic, err)
	}
	q.declared[topic] = true
	return nil
}

func (q *AMQPQueue) Publish(ctx context.Context, topic string, job PostingJob) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := q.declare(topic); err != nil {
		return err
	}
	body, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return q.ch.Publish(
		"",
		topic,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         body,
		},
	)
}

// Subscribe starts consuming topic in the background. A failed job is
// requeued once; a job that fails again after redelivery is dropped.
func (q *AMQPQueue) Subscribe(topic string, handler Handler) error {
	if err := q.declare(topic); err != nil {
		return err
	}
	msgs, err := q.ch.Consume(
		topic,
		"",
		false, // autoAck = false for reliability
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	q.wg.Add(1)
	go func() {
		defer q.wg.Done()
		for d := range msgs {
			handleDelivery(d, handler)
		}
	}()
	return nil
}

// Acknowledger is the part of amqp.Delivery the consumer loop touches.
type Acknowledger interface {
	Ack(multiple bool) error
	Nack(multiple, requeue bool) error
}

type delivery struct {
	ack         Acknowledger
	body        []byte
	redelivered bool
}

func handleDelivery(d amqp.Delivery, handler Handler) {
	settle(delivery{ack: d, body: d.Body, redelivered: d.Redelivered}, handler)
}

func settle(d delivery, handler Handler) {
	var job PostingJob
	if err := json.Unmarshal(d.body, &job); err != nil {
		logx.L().Warnw("posting_job_malformed", "error", err)
		_ = d.ack.Ack(false)
		return
	}

	if err := handler(context.Background(), job); err != nil {
		requeue := !d.redelivered
		logx.L().Errorw("posting_job_failed", "campaign_id", job.CampaignID, "requeue", requeue, "error", err)
		_ = d.ack.Nack(false, requeue)
		return
	}
	_ = d.ack.Ack(false)
}

// Close stops consumption and waits for the consumer loop to drain.
func (q *AMQPQueue) Close() error {
	chErr := q.ch.Close()
	connErr := q.conn.Close()
	q.wg.Wait()
	if chErr != nil {
		return chErr
	}
	return connErr
}

var (
	_ Queue = (*InMemoryQueue)(nil)
	_ Queue = (*AMQPQueue)(nil)
)
