package repositories

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/socialite-app/backend/internal/models"
)

// NotificationRepository defines the interface for notification operations.
// Rows are only ever written by the delivery worker; the public surface can
// read and mark read.
type NotificationRepository interface {
	// CreateIfAbsent inserts the row unless its id already exists. The
	// delivery queue is at-least-once, so redelivered jobs hit the conflict
	// path and become no-ops.
	CreateIfAbsent(notification *models.Notification) error
	ListByRecipient(recipientID uuid.UUID, offset, limit int) ([]models.Notification, int64, error)
	ListUnread(recipientID uuid.UUID) ([]models.Notification, error)
	UnreadCount(recipientID uuid.UUID) (int64, error)
	MarkRead(id, recipientID uuid.UUID) error
	MarkAllRead(recipientID uuid.UUID) error
}

type notificationRepository struct {
	db *gorm.DB
}

// NewNotificationRepository creates a GORM-backed NotificationRepository.
func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) CreateIfAbsent(notification *models.Notification) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoNothing: true,
	}).Create(notification).Error
}

func (r *notificationRepository) ListByRecipient(recipientID uuid.UUID, offset, limit int) ([]models.Notification, int64, error) {
	var notifications []models.Notification
	var total int64

	if err := r.db.Model(&models.Notification{}).
		Where("user_id = ?", recipientID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.db.Where("user_id = ?", recipientID).
		Order("is_read ASC, created_at DESC").
		Offset(offset).Limit(limit).
		Find(&notifications).Error
	return notifications, total, err
}

func (r *notificationRepository) ListUnread(recipientID uuid.UUID) ([]models.Notification, error) {
	var notifications []models.Notification
	err := r.db.Where("user_id = ? AND is_read = ?", recipientID, false).
		Order("created_at DESC").
		Find(&notifications).Error
	return notifications, err
}

func (r *notificationRepository) UnreadCount(recipientID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", recipientID, false).
		Count(&count).Error
	return count, err
}

func (r *notificationRepository) MarkRead(id, recipientID uuid.UUID) error {
	res := r.db.Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", id, recipientID).
		Update("is_read", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *notificationRepository) MarkAllRead(recipientID uuid.UUID) error {
	return r.db.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", recipientID, false).
		Update("is_read", true).Error
}
