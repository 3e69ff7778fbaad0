package repositories

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/socialite-app/backend/internal/models"
)

// HashtagRepository creates hashtags on demand and resolves existing ones.
type HashtagRepository interface {
	GetOrCreate(names []string) ([]models.Hashtag, error)
}

type hashtagRepository struct {
	db *gorm.DB
}

// NewHashtagRepository creates a GORM-backed HashtagRepository.
func NewHashtagRepository(db *gorm.DB) HashtagRepository {
	return &hashtagRepository{db: db}
}

// GetOrCreate inserts any missing names and returns the full row set.
// Concurrent callers racing on the same name are settled by the unique
// index; DoNothing makes the insert idempotent.
func (r *hashtagRepository) GetOrCreate(names []string) ([]models.Hashtag, error) {
	if len(names) == 0 {
		return nil, nil
	}

	rows := make([]models.Hashtag, 0, len(names))
	for _, name := range names {
		rows = append(rows, models.Hashtag{Name: name})
	}
	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoNothing: true,
	}).Create(&rows).Error
	if err != nil {
		return nil, err
	}

	var tags []models.Hashtag
	if err := r.db.Where("name IN ?", names).Find(&tags).Error; err != nil {
		return nil, err
	}
	return tags, nil
}
