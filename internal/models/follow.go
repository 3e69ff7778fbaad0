package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Follow represents an approved follower -> following edge. The pair is
// unique and self-follows are rejected before we ever get here.
type Follow struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	FollowerID  uuid.UUID `json:"follower_id" gorm:"type:uuid;index;uniqueIndex:idx_follower_following"`
	FollowingID uuid.UUID `json:"following_id" gorm:"type:uuid;index;uniqueIndex:idx_follower_following"`
	Follower    *User     `json:"follower,omitempty" gorm:"foreignKey:FollowerID;constraint:OnDelete:CASCADE"`
	Following   *User     `json:"following,omitempty" gorm:"foreignKey:FollowingID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time `json:"created_at"`
}

func (f *Follow) BeforeCreate(tx *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}

// CreateFollowRequestBody defines the request body for following a user.
type CreateFollowRequestBody struct {
	FollowingID uuid.UUID `json:"following_id" validate:"required"`
}
