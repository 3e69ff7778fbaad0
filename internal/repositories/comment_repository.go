package repositories

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/socialite-app/backend/internal/models"
)

// CommentRepository defines the interface for comment data operations
type CommentRepository interface {
	Create(comment *models.Comment) error
	GetByID(id uuid.UUID) (*models.Comment, error)
	Update(comment *models.Comment) error
	ListByPost(postID uuid.UUID) ([]models.Comment, error)
	ListByUser(userID uuid.UUID) ([]models.Comment, error)
}

type commentRepository struct {
	db *gorm.DB
}

// NewCommentRepository creates a GORM-backed CommentRepository.
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(comment *models.Comment) error {
	return r.db.Create(comment).Error
}

func (r *commentRepository) GetByID(id uuid.UUID) (*models.Comment, error) {
	var comment models.Comment
	if err := r.db.Preload("User").First(&comment, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

func (r *commentRepository) Update(comment *models.Comment) error {
	return r.db.Save(comment).Error
}

func (r *commentRepository) ListByPost(postID uuid.UUID) ([]models.Comment, error) {
	var comments []models.Comment
	err := r.db.Preload("User").Where("post_id = ?", postID).
		Order("created_at DESC").Find(&comments).Error
	return comments, err
}

func (r *commentRepository) ListByUser(userID uuid.UUID) ([]models.Comment, error) {
	var comments []models.Comment
	err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC").Find(&comments).Error
	return comments, err
}
