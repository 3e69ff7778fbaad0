package repositories

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/socialite-app/backend/internal/models"
	"github.com/socialite-app/backend/internal/visibility"
)

// StoryRepository defines the interface for story data operations. Listing
// excludes soft-deleted and expired rows; expiry is read from the persisted
// flag, never computed against the clock here.
type StoryRepository interface {
	Create(story *models.Story) error
	GetByID(id uuid.UUID) (*models.Story, error)
	Update(story *models.Story) error
	SoftDelete(id uuid.UUID) error
	List(viewer visibility.Viewer, hashtag string, offset, limit int) ([]models.Story, error)
	ListExpiredByAuthor(authorID uuid.UUID) ([]models.Story, error)
	ReplaceHashtags(story *models.Story, tags []models.Hashtag) error

	// MarkExpired flips is_expired on every live story whose deadline has
	// passed and returns how many rows changed. Re-running is a no-op.
	MarkExpired(now time.Time) (int64, error)
}

type storyRepository struct {
	db *gorm.DB
}

// NewStoryRepository creates a GORM-backed StoryRepository.
func NewStoryRepository(db *gorm.DB) StoryRepository {
	return &storyRepository{db: db}
}

func (r *storyRepository) Create(story *models.Story) error {
	return r.db.Create(story).Error
}

func (r *storyRepository) GetByID(id uuid.UUID) (*models.Story, error) {
	var story models.Story
	err := r.db.Preload("Author").Preload("Hashtags").
		Where("is_deleted = ?", false).
		First(&story, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &story, nil
}

func (r *storyRepository) Update(story *models.Story) error {
	return r.db.Save(story).Error
}

func (r *storyRepository) SoftDelete(id uuid.UUID) error {
	res := r.db.Model(&models.Story{}).
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

func (r *storyRepository) List(viewer visibility.Viewer, hashtag string, offset, limit int) ([]models.Story, error) {
	var stories []models.Story
	q := r.db.Model(&models.Story{}).
		Preload("Author").Preload("Hashtags").
		Where("is_deleted = ? AND is_expired = ?", false, false).
		Scopes(visibility.AuthorScope(r.db, viewer))

	if hashtag != "" {
		tagged := r.db.Session(&gorm.Session{NewDB: true}).
			Table("story_hashtags").
			Select("story_hashtags.story_id").
			Joins("JOIN hashtags ON hashtags.id = story_hashtags.hashtag_id").
			Where("LOWER(hashtags.name) = LOWER(?)", hashtag)
		q = q.Where("stories.id IN (?)", tagged)
	}

	err := q.Order("created_at DESC").Offset(offset).Limit(limit).Find(&stories).Error
	return stories, err
}

func (r *storyRepository) ListExpiredByAuthor(authorID uuid.UUID) ([]models.Story, error) {
	var stories []models.Story
	err := r.db.Where("author_id = ? AND is_expired = ? AND is_deleted = ?", authorID, true, false).
		Order("created_at DESC").
		Find(&stories).Error
	return stories, err
}

func (r *storyRepository) ReplaceHashtags(story *models.Story, tags []models.Hashtag) error {
	return r.db.Model(story).Association("Hashtags").Replace(tags)
}

func (r *storyRepository) MarkExpired(now time.Time) (int64, error) {
	res := r.db.Model(&models.Story{}).
		Where("expires_at <= ? AND is_expired = ? AND is_deleted = ?", now, false, false).
		Update("is_expired", true)
	return res.RowsAffected, res.Error
}
