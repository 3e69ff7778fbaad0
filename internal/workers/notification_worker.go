// Package workers hosts the background consumers and periodic jobs that
// run alongside the HTTP server in the same process.
package workers

import (
	"context"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"github.com/socialite-app/backend/internal/services"
	"github.com/socialite-app/backend/pkg/queue"
)

// NotificationWorker consumes notification jobs off the queue and runs the
// delivery step. Delivery is idempotent, so the at-least-once semantics of
// the stream are safe to lean on.
type NotificationWorker struct {
	client        *queue.Client
	notifications *services.NotificationService
	logger        *zap.Logger
	sub           *nats.Subscription
}

// NewNotificationWorker creates the worker without starting it.
func NewNotificationWorker(client *queue.Client, notifications *services.NotificationService, logger *zap.Logger) *NotificationWorker {
	return &NotificationWorker{client: client, notifications: notifications, logger: logger}
}

// Start attaches the durable subscription. Multiple instances share the
// queue group, so jobs are load balanced across replicas.
func (w *NotificationWorker) Start() error {
	sub, err := w.client.SubscribeDurable(
		queue.SubjectNotifyDeliver,
		"notify-deliver",
		"notification-workers",
		w.handle,
	)
	if err != nil {
		return err
	}
	w.sub = sub
	w.logger.Info("notification worker started", zap.String("subject", queue.SubjectNotifyDeliver))
	return nil
}

func (w *NotificationWorker) handle(msg *nats.Msg) {
	var job services.NotificationJob
	if err := queue.DecodeJob(msg, &job); err != nil {
		w.logger.Error("failed to decode notification job", zap.Error(err))
		// Malformed payloads will never decode; drop instead of redelivering.
		_ = msg.Ack()
		return
	}

	if err := w.notifications.Deliver(context.Background(), job); err != nil {
		w.logger.Error("failed to deliver notification",
			zap.String("job_id", job.ID.String()),
			zap.Error(err),
		)
		_ = msg.Nak()
		return
	}
	_ = msg.Ack()
}

// Stop drains the subscription.
func (w *NotificationWorker) Stop() {
	if w.sub != nil {
		_ = w.sub.Drain()
	}
}
