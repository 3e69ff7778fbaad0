package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Hashtag is created on demand from `#word` tokens in captions and shared
// between posts and stories.
type Hashtag struct {
	ID   uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Name string    `json:"name" gorm:"uniqueIndex;size:150"`
}

func (h *Hashtag) BeforeCreate(tx *gorm.DB) error {
	if h.ID == uuid.Nil {
		h.ID = uuid.New()
	}
	return nil
}

// Post represents a social media post. Deletion is always soft: is_deleted
// rows stay in the table but are excluded from every default query.
type Post struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Caption   string    `json:"caption"`
	Image     string    `json:"image"`
	AuthorID  uuid.UUID `json:"author_id" gorm:"type:uuid;index"`
	Author    *User     `json:"author,omitempty" gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE"`
	Hashtags  []Hashtag `json:"hashtags,omitempty" gorm:"many2many:post_hashtags"`
	IsDeleted bool      `json:"-" gorm:"default:false;index"`
	CreatedAt time.Time `json:"created_at" gorm:"index"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (p *Post) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// CreatePostRequest defines the multipart form fields for creating a post.
// The image file itself is read from the form separately.
type CreatePostRequest struct {
	Caption string `form:"caption" validate:"required,min=1,max=2200"`
}

// UpdatePostRequest defines the multipart form fields for updating a post.
// An absent image keeps the existing one.
type UpdatePostRequest struct {
	Caption string `form:"caption" validate:"required,min=1,max=2200"`
}
