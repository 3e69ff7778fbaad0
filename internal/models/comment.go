package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Comment represents a comment on a post. ParentID, when set, points at
// another comment on the same post; the same-post rule is enforced by the
// comment service, not by a storage constraint.
type Comment struct {
	ID        uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	PostID    uuid.UUID  `json:"post_id" gorm:"type:uuid;index"`
	UserID    uuid.UUID  `json:"user_id" gorm:"type:uuid;index"`
	ParentID  *uuid.UUID `json:"parent_id,omitempty" gorm:"type:uuid;index"`
	Post      *Post      `json:"-" gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE"`
	User      *User      `json:"user,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Content   string     `json:"content"`
	CreatedAt time.Time  `json:"created_at" gorm:"index"`
	UpdatedAt time.Time  `json:"updated_at"`

	// Children is populated by the tree builder, never persisted.
	Children []*Comment `json:"children,omitempty" gorm:"-"`
}

func (c *Comment) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// CreateCommentRequest defines the request body for creating a comment.
type CreateCommentRequest struct {
	PostID   uuid.UUID  `json:"post_id" validate:"required"`
	ParentID *uuid.UUID `json:"parent_id,omitempty"`
	Content  string     `json:"content" validate:"required,min=1,max=2200"`
}

// UpdateCommentRequest defines the request body for editing a comment.
type UpdateCommentRequest struct {
	Content string `json:"content" validate:"required,min=1,max=2200"`
}
