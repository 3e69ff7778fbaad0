package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StoryTTL is how long a story stays live. expires_at is fixed at creation
// and never updated afterwards.
const StoryTTL = 24 * time.Hour

// Story is an ephemeral post. is_expired is flipped by the periodic sweeper;
// read paths trust the flag instead of comparing expires_at against the
// clock, so sweeper latency is an accepted staleness window.
type Story struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Caption   string    `json:"caption"`
	Image     string    `json:"image"`
	AuthorID  uuid.UUID `json:"author_id" gorm:"type:uuid;index"`
	Author    *User     `json:"author,omitempty" gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE"`
	Hashtags  []Hashtag `json:"hashtags,omitempty" gorm:"many2many:story_hashtags"`
	IsDeleted bool      `json:"-" gorm:"default:false;index"`
	IsExpired bool      `json:"is_expired" gorm:"default:false;index"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at" gorm:"index"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (s *Story) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// CreateStoryRequest defines the multipart form fields for creating a story.
type CreateStoryRequest struct {
	Caption string `form:"caption" validate:"required,min=1,max=2200"`
}

// UpdateStoryRequest defines the multipart form fields for updating a story.
type UpdateStoryRequest struct {
	Caption string `form:"caption" validate:"required,min=1,max=2200"`
}
