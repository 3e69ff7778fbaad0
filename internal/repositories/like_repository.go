package repositories

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/socialite-app/backend/internal/models"
)

// LikeRepository defines the interface for post like operations.
type LikeRepository interface {
	Create(like *models.Like) error
	Delete(postID, userID uuid.UUID) error
	ListByPost(postID uuid.UUID) ([]models.Like, error)
	ListByUser(userID uuid.UUID) ([]models.Like, error)
}

type likeRepository struct {
	db *gorm.DB
}

// NewLikeRepository creates a GORM-backed LikeRepository.
func NewLikeRepository(db *gorm.DB) LikeRepository {
	return &likeRepository{db: db}
}

func (r *likeRepository) Create(like *models.Like) error {
	return r.db.Create(like).Error
}

func (r *likeRepository) Delete(postID, userID uuid.UUID) error {
	res := r.db.Where("post_id = ? AND user_id = ?", postID, userID).Delete(&models.Like{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *likeRepository) ListByPost(postID uuid.UUID) ([]models.Like, error) {
	var likes []models.Like
	err := r.db.Preload("User").Where("post_id = ?", postID).
		Order("created_at DESC").Find(&likes).Error
	return likes, err
}

func (r *likeRepository) ListByUser(userID uuid.UUID) ([]models.Like, error) {
	var likes []models.Like
	err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC").Find(&likes).Error
	return likes, err
}

// StoryLikeRepository defines the interface for story like operations.
type StoryLikeRepository interface {
	Create(like *models.StoryLike) error
	Delete(storyID, userID uuid.UUID) error
	ListByStory(storyID uuid.UUID) ([]models.StoryLike, error)
	ListByUser(userID uuid.UUID) ([]models.StoryLike, error)
}

type storyLikeRepository struct {
	db *gorm.DB
}

// NewStoryLikeRepository creates a GORM-backed StoryLikeRepository.
func NewStoryLikeRepository(db *gorm.DB) StoryLikeRepository {
	return &storyLikeRepository{db: db}
}

func (r *storyLikeRepository) Create(like *models.StoryLike) error {
	return r.db.Create(like).Error
}

func (r *storyLikeRepository) Delete(storyID, userID uuid.UUID) error {
	res := r.db.Where("story_id = ? AND user_id = ?", storyID, userID).Delete(&models.StoryLike{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *storyLikeRepository) ListByStory(storyID uuid.UUID) ([]models.StoryLike, error) {
	var likes []models.StoryLike
	err := r.db.Preload("User").Where("story_id = ?", storyID).
		Order("created_at DESC").Find(&likes).Error
	return likes, err
}

func (r *storyLikeRepository) ListByUser(userID uuid.UUID) ([]models.StoryLike, error) {
	var likes []models.StoryLike
	err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC").Find(&likes).Error
	return likes, err
}
