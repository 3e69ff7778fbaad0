// Package queue is the durable task queue behind the asynchronous
// pipelines. It is a thin wrapper over NATS JetStream configured as a
// work-queue stream: publishers enqueue JSON jobs, durable queue-group
// consumers take them with at-least-once delivery, so every handler must
// tolerate duplicate execution.
package queue

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/nats-io/nats.go"
)

// Subjects for the job types the workers consume.
const (
	SubjectNotifyDeliver = "jobs.notify.deliver"
	SubjectEmailSend     = "jobs.email.send"
)

// StreamName is the single work-queue stream all jobs go through.
const StreamName = "JOBS"

// Enqueuer is the narrow producer contract services depend on; tests swap
// in an in-memory implementation.
type Enqueuer interface {
	Enqueue(subject string, payload interface{}) error
}

// Client wraps a NATS connection plus its JetStream context.
type Client struct {
	conn *nats.Conn
	js   nats.JetStreamContext
}

// Config holds connection settings for the queue client.
type Config struct {
	URL           string
	ClientID      string
	MaxReconnects int
	ReconnectWait time.Duration
}

// NewClient connects to NATS and prepares a JetStream context.
func NewClient(config Config) (*Client, error) {
	opts := []nats.Option{
		nats.Name(config.ClientID),
		nats.MaxReconnects(config.MaxReconnects),
		nats.ReconnectWait(config.ReconnectWait),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			if err != nil {
				log.Printf("NATS disconnected: %v", err)
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Printf("NATS reconnected to %s", nc.ConnectedUrl())
		}),
	}

	nc, err := nats.Connect(config.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	js, err := nc.JetStream()
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("failed to create JetStream context: %w", err)
	}

	return &Client{conn: nc, js: js}, nil
}

// Close tears down the connection.
func (c *Client) Close() {
	if c.conn != nil {
		c.conn.Close()
	}
}

// EnsureStream creates the work-queue stream if it does not exist yet.
func (c *Client) EnsureStream(subjects []string) error {
	_, err := c.js.AddStream(&nats.StreamConfig{
		Name:      StreamName,
		Subjects:  subjects,
		Storage:   nats.FileStorage,
		Retention: nats.WorkQueuePolicy,
		MaxAge:    7 * 24 * time.Hour,
	})
	if err != nil {
		return fmt.Errorf("failed to create stream %s: %w", StreamName, err)
	}
	return nil
}

// Enqueue publishes a JSON job. Callers fire and forget; delivery outcome
// never reaches the request path.
func (c *Client) Enqueue(subject string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal job payload: %w", err)
	}
	if _, err := c.js.Publish(subject, data); err != nil {
		return fmt.Errorf("failed to publish job: %w", err)
	}
	return nil
}

// SubscribeDurable attaches a durable queue-group consumer with manual
// acks, capped redeliveries and an ack window.
func (c *Client) SubscribeDurable(subject, durableName, queueGroup string, handler nats.MsgHandler) (*nats.Subscription, error) {
	sub, err := c.js.QueueSubscribe(
		subject,
		queueGroup,
		handler,
		nats.Durable(durableName),
		nats.ManualAck(),
		nats.AckExplicit(),
		nats.MaxDeliver(3),
		nats.AckWait(30*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create durable subscription to %s: %w", subject, err)
	}
	return sub, nil
}

// DecodeJob unmarshals a job message into v.
func DecodeJob(msg *nats.Msg, v interface{}) error {
	return json.Unmarshal(msg.Data, v)
}
