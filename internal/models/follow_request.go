package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// FollowRequest is the pending gate in front of a private profile. Both
// flags false means pending; approval and rejection are terminal and
// mutually exclusive.
type FollowRequest struct {
	ID         uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	SenderID   uuid.UUID `json:"sender_id" gorm:"type:uuid;index;uniqueIndex:idx_sender_receiver"`
	ReceiverID uuid.UUID `json:"receiver_id" gorm:"type:uuid;index;uniqueIndex:idx_sender_receiver"`
	Sender     *User     `json:"sender,omitempty" gorm:"foreignKey:SenderID;constraint:OnDelete:CASCADE"`
	Receiver   *User     `json:"-" gorm:"foreignKey:ReceiverID;constraint:OnDelete:CASCADE"`
	IsApproved bool      `json:"is_approved" gorm:"default:false"`
	IsRejected bool      `json:"is_rejected" gorm:"default:false"`
	CreatedAt  time.Time `json:"created_at"`
}

func (fr *FollowRequest) BeforeCreate(tx *gorm.DB) error {
	if fr.ID == uuid.Nil {
		fr.ID = uuid.New()
	}
	return nil
}

// IsPending reports whether the request has not been resolved yet.
func (fr *FollowRequest) IsPending() bool {
	return !fr.IsApproved && !fr.IsRejected
}

// ResolveFollowRequestBody defines the request body for approving or
// rejecting a follow request.
type ResolveFollowRequestBody struct {
	IsApproved *bool `json:"is_approved,omitempty"`
	IsRejected *bool `json:"is_rejected,omitempty"`
}
