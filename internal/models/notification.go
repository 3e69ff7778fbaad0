package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Notification types produced by the fan-out pipeline.
const (
	NotificationLike          = "Like Notification"
	NotificationComment       = "Comment Notification"
	NotificationFollow        = "Follow Notification"
	NotificationFollowRequest = "Follow Request"
)

// Notification is the durable record behind the live push. It is only ever
// created by the delivery worker; the public surface can list it and mark
// it read, nothing else.
type Notification struct {
	ID               uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	UserID           uuid.UUID `json:"user_id" gorm:"type:uuid;index"`
	User             *User     `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Message          string    `json:"message"`
	NotificationType string    `json:"notification_type" gorm:"size:50;index"`
	IsRead           bool      `json:"is_read" gorm:"default:false;index"`
	CreatedAt        time.Time `json:"created_at" gorm:"index"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return nil
}
