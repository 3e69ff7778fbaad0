package services

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/socialite-app/backend/internal/apperrors"
	"github.com/socialite-app/backend/internal/models"
	"github.com/socialite-app/backend/internal/repositories"
	"github.com/socialite-app/backend/pkg/pubsub"
	"github.com/socialite-app/backend/pkg/queue"
)

// NotificationJob is the payload an event producer enqueues. The id is
// minted by the producer so a redelivered job inserts the same row, keeping
// the handler idempotent under at-least-once delivery.
type NotificationJob struct {
	ID               uuid.UUID `json:"id"`
	UserID           uuid.UUID `json:"user_id"`
	Message          string    `json:"message"`
	NotificationType string    `json:"notification_type"`
}

// NotificationService is both ends of the fan-out pipeline: Notify is the
// producer side called at the point of mutation, Deliver is executed by the
// queue worker.
type NotificationService struct {
	repo     repositories.NotificationRepository
	enqueuer queue.Enqueuer
	bus      pubsub.Bus
	logger   *zap.Logger
}

// NewNotificationService wires the pipeline's dependencies.
func NewNotificationService(
	repo repositories.NotificationRepository,
	enqueuer queue.Enqueuer,
	bus pubsub.Bus,
	logger *zap.Logger,
) *NotificationService {
	return &NotificationService{repo: repo, enqueuer: enqueuer, bus: bus, logger: logger}
}

// Notify enqueues a notification job for the recipient. Fire-and-forget:
// the caller's request never waits on, or learns about, delivery. Enqueue
// failures are logged and swallowed.
func (s *NotificationService) Notify(recipientID uuid.UUID, message, notificationType string) {
	job := NotificationJob{
		ID:               uuid.New(),
		UserID:           recipientID,
		Message:          message,
		NotificationType: notificationType,
	}
	if err := s.enqueuer.Enqueue(queue.SubjectNotifyDeliver, job); err != nil {
		s.logger.Error("failed to enqueue notification job",
			zap.String("recipient_id", recipientID.String()),
			zap.Error(err))
	}
}

// Deliver persists the notification row and pushes it on the live bus.
// The row is the durable half; the publish is best-effort and its failure
// only gets logged.
func (s *NotificationService) Deliver(ctx context.Context, job NotificationJob) error {
	notification := &models.Notification{
		ID:               job.ID,
		UserID:           job.UserID,
		Message:          job.Message,
		NotificationType: job.NotificationType,
	}
	if err := s.repo.CreateIfAbsent(notification); err != nil {
		return err
	}

	payload, err := json.Marshal(notification)
	if err != nil {
		s.logger.Error("failed to marshal notification for push", zap.Error(err))
		return nil
	}
	channel := pubsub.ChannelFor(job.UserID.String())
	if err := s.bus.Publish(ctx, channel, payload); err != nil {
		s.logger.Warn("live push failed, stored row remains the fallback",
			zap.String("channel", channel),
			zap.Error(err))
	}
	return nil
}

// List returns the recipient's notifications, unread first, newest first.
func (s *NotificationService) List(recipientID uuid.UUID, offset, limit int) ([]models.Notification, int64, error) {
	return s.repo.ListByRecipient(recipientID, offset, limit)
}

// ListUnread returns the recipient's unread notifications, newest first.
func (s *NotificationService) ListUnread(recipientID uuid.UUID) ([]models.Notification, error) {
	return s.repo.ListUnread(recipientID)
}

// UnreadCount returns how many unread notifications the recipient has.
func (s *NotificationService) UnreadCount(recipientID uuid.UUID) (int64, error) {
	return s.repo.UnreadCount(recipientID)
}

// MarkRead marks one of the recipient's notifications as read.
func (s *NotificationService) MarkRead(id, recipientID uuid.UUID) error {
	if err := s.repo.MarkRead(id, recipientID); err != nil {
		if repositories.IsNotFound(err) {
			return apperrors.NotFound("notification not found")
		}
		return apperrors.Internal(err)
	}
	return nil
}

// MarkAllRead marks every unread notification of the recipient as read.
func (s *NotificationService) MarkAllRead(recipientID uuid.UUID) error {
	if err := s.repo.MarkAllRead(recipientID); err != nil {
		return apperrors.Internal(err)
	}
	return nil
}
