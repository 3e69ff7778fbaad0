package repositories

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/socialite-app/backend/internal/models"
	"github.com/socialite-app/backend/internal/visibility"
)

// PostRepository defines the interface for post data operations. Soft
// deleted rows never come back from any of the read methods.
type PostRepository interface {
	Create(post *models.Post) error
	GetByID(id uuid.UUID) (*models.Post, error)
	Update(post *models.Post) error
	SoftDelete(id uuid.UUID) error
	List(viewer visibility.Viewer, hashtag string, offset, limit int) ([]models.Post, error)
	ReplaceHashtags(post *models.Post, tags []models.Hashtag) error
}

type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a GORM-backed PostRepository.
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(post *models.Post) error {
	return r.db.Create(post).Error
}

func (r *postRepository) GetByID(id uuid.UUID) (*models.Post, error) {
	var post models.Post
	err := r.db.Preload("Author").Preload("Hashtags").
		Where("is_deleted = ?", false).
		First(&post, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) Update(post *models.Post) error {
	return r.db.Save(post).Error
}

func (r *postRepository) SoftDelete(id uuid.UUID) error {
	res := r.db.Model(&models.Post{}).
		Where("id = ? AND is_deleted = ?", id, false).
		Update("is_deleted", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *postRepository) List(viewer visibility.Viewer, hashtag string, offset, limit int) ([]models.Post, error) {
	var posts []models.Post
	q := r.db.Model(&models.Post{}).
		Preload("Author").Preload("Hashtags").
		Where("is_deleted = ?", false).
		Scopes(visibility.AuthorScope(r.db, viewer))

	if hashtag != "" {
		tagged := r.db.Session(&gorm.Session{NewDB: true}).
			Table("post_hashtags").
			Select("post_hashtags.post_id").
			Joins("JOIN hashtags ON hashtags.id = post_hashtags.hashtag_id").
			Where("LOWER(hashtags.name) = LOWER(?)", hashtag)
		q = q.Where("posts.id IN (?)", tagged)
	}

	err := q.Order("created_at DESC").Offset(offset).Limit(limit).Find(&posts).Error
	return posts, err
}

func (r *postRepository) ReplaceHashtags(post *models.Post, tags []models.Hashtag) error {
	return r.db.Model(post).Association("Hashtags").Replace(tags)
}
