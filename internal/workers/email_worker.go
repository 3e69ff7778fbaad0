package workers

import (
	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"github.com/socialite-app/backend/internal/services"
	"github.com/socialite-app/backend/pkg/mailer"
	"github.com/socialite-app/backend/pkg/queue"
)

// EmailWorker consumes email jobs and hands them to the SMTP mailer. A job
// is acked even when some recipients fail; SMTP errors are rarely fixed by
// redelivering the same message, and the rate limiter upstream prevents the
// sender from retrying into a flood.
type EmailWorker struct {
	client *queue.Client
	mailer mailer.Mailer
	logger *zap.Logger
	sub    *nats.Subscription
}

// NewEmailWorker creates the worker without starting it.
func NewEmailWorker(client *queue.Client, m mailer.Mailer, logger *zap.Logger) *EmailWorker {
	return &EmailWorker{client: client, mailer: m, logger: logger}
}

// Start attaches the durable subscription.
func (w *EmailWorker) Start() error {
	sub, err := w.client.SubscribeDurable(
		queue.SubjectEmailSend,
		"email-send",
		"email-workers",
		w.handle,
	)
	if err != nil {
		return err
	}
	w.sub = sub
	w.logger.Info("email worker started", zap.String("subject", queue.SubjectEmailSend))
	return nil
}

func (w *EmailWorker) handle(msg *nats.Msg) {
	var job services.EmailJob
	if err := queue.DecodeJob(msg, &job); err != nil {
		w.logger.Error("failed to decode email job", zap.Error(err))
		_ = msg.Ack()
		return
	}

	for _, recipient := range job.Recipients {
		if err := w.mailer.Send(recipient, job.Subject, job.PlainBody, job.HTMLBody); err != nil {
			w.logger.Error("failed to send email",
				zap.String("recipient", recipient),
				zap.String("subject", job.Subject),
				zap.Error(err),
			)
			continue
		}
		w.logger.Info("email sent", zap.String("recipient", recipient), zap.String("subject", job.Subject))
	}
	_ = msg.Ack()
}

// Stop drains the subscription.
func (w *EmailWorker) Stop() {
	if w.sub != nil {
		_ = w.sub.Drain()
	}
}
