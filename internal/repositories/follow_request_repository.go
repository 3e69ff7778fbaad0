package repositories

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/socialite-app/backend/internal/models"
)

// FollowRequestRepository defines the interface for follow request data
// operations.
type FollowRequestRepository interface {
	Create(request *models.FollowRequest) error
	GetByID(id uuid.UUID) (*models.FollowRequest, error)
	Exists(senderID, receiverID uuid.UUID) (bool, error)
	Update(request *models.FollowRequest) error
	ListByReceiver(receiverID uuid.UUID) ([]models.FollowRequest, error)
}

type followRequestRepository struct {
	db *gorm.DB
}

// NewFollowRequestRepository creates a GORM-backed FollowRequestRepository.
func NewFollowRequestRepository(db *gorm.DB) FollowRequestRepository {
	return &followRequestRepository{db: db}
}

func (r *followRequestRepository) Create(request *models.FollowRequest) error {
	return r.db.Create(request).Error
}

func (r *followRequestRepository) GetByID(id uuid.UUID) (*models.FollowRequest, error) {
	var request models.FollowRequest
	if err := r.db.Preload("Sender").First(&request, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &request, nil
}

func (r *followRequestRepository) Exists(senderID, receiverID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.Model(&models.FollowRequest{}).
		Where("sender_id = ? AND receiver_id = ?", senderID, receiverID).
		Count(&count).Error
	return count > 0, err
}

func (r *followRequestRepository) Update(request *models.FollowRequest) error {
	return r.db.Save(request).Error
}

func (r *followRequestRepository) ListByReceiver(receiverID uuid.UUID) ([]models.FollowRequest, error) {
	var requests []models.FollowRequest
	err := r.db.Preload("Sender").
		Where("receiver_id = ? AND is_approved = ? AND is_rejected = ?", receiverID, false, false).
		Order("created_at DESC").
		Find(&requests).Error
	return requests, err
}
