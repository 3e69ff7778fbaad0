package repositories

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/socialite-app/backend/internal/models"
)

// FollowRepository defines the interface for follow data operations
type FollowRepository interface {
	// GetOrCreate makes follow creation idempotent: approving a request
	// twice must not produce a second edge. The bool reports whether a new
	// row was inserted.
	GetOrCreate(followerID, followingID uuid.UUID) (*models.Follow, bool, error)
	Delete(followerID, followingID uuid.UUID) error
	IsFollowing(followerID, followingID uuid.UUID) (bool, error)
	ListFollowers(userID uuid.UUID) ([]models.Follow, error)
	ListFollowing(userID uuid.UUID) ([]models.Follow, error)
	CountFollowers(userID uuid.UUID) (int64, error)
	CountFollowing(userID uuid.UUID) (int64, error)
}

type followRepository struct {
	db *gorm.DB
}

// NewFollowRepository creates a GORM-backed FollowRepository.
func NewFollowRepository(db *gorm.DB) FollowRepository {
	return &followRepository{db: db}
}

func (r *followRepository) GetOrCreate(followerID, followingID uuid.UUID) (*models.Follow, bool, error) {
	follow := &models.Follow{FollowerID: followerID, FollowingID: followingID}
	res := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "follower_id"}, {Name: "following_id"}},
		DoNothing: true,
	}).Create(follow)
	if res.Error != nil {
		return nil, false, res.Error
	}
	if res.RowsAffected > 0 {
		return follow, true, nil
	}

	var existing models.Follow
	err := r.db.First(&existing, "follower_id = ? AND following_id = ?", followerID, followingID).Error
	if err != nil {
		return nil, false, err
	}
	return &existing, false, nil
}

func (r *followRepository) Delete(followerID, followingID uuid.UUID) error {
	res := r.db.Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Delete(&models.Follow{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *followRepository) IsFollowing(followerID, followingID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.Model(&models.Follow{}).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Count(&count).Error
	return count > 0, err
}

func (r *followRepository) ListFollowers(userID uuid.UUID) ([]models.Follow, error) {
	var follows []models.Follow
	err := r.db.Preload("Follower").Where("following_id = ?", userID).
		Order("created_at DESC").Find(&follows).Error
	return follows, err
}

func (r *followRepository) ListFollowing(userID uuid.UUID) ([]models.Follow, error) {
	var follows []models.Follow
	err := r.db.Preload("Following").Where("follower_id = ?", userID).
		Order("created_at DESC").Find(&follows).Error
	return follows, err
}

func (r *followRepository) CountFollowers(userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.Model(&models.Follow{}).Where("following_id = ?", userID).Count(&count).Error
	return count, err
}

func (r *followRepository) CountFollowing(userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.Model(&models.Follow{}).Where("follower_id = ?", userID).Count(&count).Error
	return count, err
}
