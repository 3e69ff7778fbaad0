package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Like represents a like on a post, unique per (post, user).
type Like struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	PostID    uuid.UUID `json:"post_id" gorm:"type:uuid;index;uniqueIndex:idx_post_user_like"`
	UserID    uuid.UUID `json:"user_id" gorm:"type:uuid;index;uniqueIndex:idx_post_user_like"`
	Post      *Post     `json:"-" gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE"`
	User      *User     `json:"user,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time `json:"created_at"`
}

func (l *Like) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

// StoryLike represents a like on a story, unique per (story, user).
type StoryLike struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	StoryID   uuid.UUID `json:"story_id" gorm:"type:uuid;index;uniqueIndex:idx_story_user_like"`
	UserID    uuid.UUID `json:"user_id" gorm:"type:uuid;index;uniqueIndex:idx_story_user_like"`
	Story     *Story    `json:"-" gorm:"foreignKey:StoryID;constraint:OnDelete:CASCADE"`
	User      *User     `json:"user,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time `json:"created_at"`
}

func (l *StoryLike) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

// CreateLikeRequest defines the request body for liking a post.
type CreateLikeRequest struct {
	PostID uuid.UUID `json:"post_id" validate:"required"`
}

// CreateStoryLikeRequest defines the request body for liking a story.
type CreateStoryLikeRequest struct {
	StoryID uuid.UUID `json:"story_id" validate:"required"`
}
