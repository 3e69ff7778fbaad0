package services

import (
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/socialite-app/backend/internal/apperrors"
	"github.com/socialite-app/backend/internal/models"
	"github.com/socialite-app/backend/internal/repositories"
)

// FollowService manages the follow graph. Following a public account takes
// effect immediately; following a private one parks a request that the
// target must approve before the edge exists.
type FollowService struct {
	follows       repositories.FollowRepository
	requests      repositories.FollowRequestRepository
	users         repositories.UserRepository
	notifications *NotificationService
	logger        *zap.Logger
}

// NewFollowService wires the follow store.
func NewFollowService(
	follows repositories.FollowRepository,
	requests repositories.FollowRequestRepository,
	users repositories.UserRepository,
	notifications *NotificationService,
	logger *zap.Logger,
) *FollowService {
	return &FollowService{
		follows:       follows,
		requests:      requests,
		users:         users,
		notifications: notifications,
		logger:        logger,
	}
}

// Follow makes the caller follow the target, or files a follow request when
// the target is private. The RequestSent error kind signals the pending
// path to the handler layer.
func (s *FollowService) Follow(viewer *models.User, targetID uuid.UUID) (*models.Follow, error) {
	if viewer.ID == targetID {
		return nil, apperrors.Validation("you cannot follow yourself")
	}

	target, err := s.users.GetByID(targetID)
	if err != nil {
		if repositories.IsNotFound(err) {
			return nil, apperrors.NotFound("user not found")
		}
		return nil, apperrors.Internal(err)
	}

	following, err := s.follows.IsFollowing(viewer.ID, target.ID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if following {
		return nil, apperrors.Duplicate("you are already following this user")
	}

	if target.IsPrivate() {
		exists, err := s.requests.Exists(viewer.ID, target.ID)
		if err != nil {
			return nil, apperrors.Internal(err)
		}
		if exists {
			return nil, apperrors.Duplicate("follow request already sent")
		}
		request := &models.FollowRequest{SenderID: viewer.ID, ReceiverID: target.ID}
		if err := s.requests.Create(request); err != nil {
			if repositories.IsDuplicate(err) {
				return nil, apperrors.Duplicate("follow request already sent")
			}
			return nil, apperrors.Internal(err)
		}
		s.notifications.Notify(target.ID, fmt.Sprintf("%s has requested to follow you", viewer.Username), models.NotificationFollowRequest)
		return nil, apperrors.FollowRequestSent()
	}

	follow, created, err := s.follows.GetOrCreate(viewer.ID, target.ID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if !created {
		return nil, apperrors.Duplicate("you are already following this user")
	}
	s.notifications.Notify(target.ID, fmt.Sprintf("%s has started following you", viewer.Username), models.NotificationFollow)
	return follow, nil
}

// Unfollow removes the caller's follow edge to the target.
func (s *FollowService) Unfollow(viewer *models.User, targetID uuid.UUID) error {
	if err := s.follows.Delete(viewer.ID, targetID); err != nil {
		if repositories.IsNotFound(err) {
			return apperrors.NotFound("you are not following this user")
		}
		return apperrors.Internal(err)
	}
	return nil
}

// ListFollowers returns the accounts following the given user.
func (s *FollowService) ListFollowers(userID uuid.UUID) ([]models.Follow, error) {
	followers, err := s.follows.ListFollowers(userID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return followers, nil
}

// ListFollowing returns the accounts the given user follows.
func (s *FollowService) ListFollowing(userID uuid.UUID) ([]models.Follow, error) {
	following, err := s.follows.ListFollowing(userID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return following, nil
}

// ListRequests returns the caller's pending incoming follow requests.
func (s *FollowService) ListRequests(viewer *models.User) ([]models.FollowRequest, error) {
	requests, err := s.requests.ListByReceiver(viewer.ID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return requests, nil
}

// ResolveRequest approves or rejects a follow request. Only the receiver
// may approve; the sender may withdraw by rejecting. Both resolutions are
// terminal: once a flag is set the other can never be.
func (s *FollowService) ResolveRequest(viewer *models.User, requestID uuid.UUID, body *models.ResolveFollowRequestBody) (*models.FollowRequest, error) {
	if body.IsApproved == nil && body.IsRejected == nil {
		return nil, apperrors.Validation("either is_approved or is_rejected must be provided")
	}

	request, err := s.requests.GetByID(requestID)
	if err != nil {
		if repositories.IsNotFound(err) {
			return nil, apperrors.NotFound("follow request not found")
		}
		return nil, apperrors.Internal(err)
	}
	if viewer.ID != request.ReceiverID && viewer.ID != request.SenderID {
		return nil, apperrors.PermissionDenied()
	}

	approve := body.IsApproved != nil && *body.IsApproved
	reject := body.IsRejected != nil && *body.IsRejected
	if approve && reject {
		return nil, apperrors.Validation("a request cannot be both approved and rejected")
	}

	switch {
	case approve:
		if viewer.ID != request.ReceiverID {
			return nil, apperrors.PermissionDenied()
		}
		if request.IsRejected {
			return nil, apperrors.Validation("this request has already been rejected")
		}
		request.IsApproved = true
		if err := s.requests.Update(request); err != nil {
			return nil, apperrors.Internal(err)
		}
		_, created, err := s.follows.GetOrCreate(request.SenderID, request.ReceiverID)
		if err != nil {
			return nil, apperrors.Internal(err)
		}
		if created {
			s.notifications.Notify(request.SenderID, fmt.Sprintf("%s accepted your follow request", viewer.Username), models.NotificationFollow)
		}
	case reject:
		if request.IsApproved {
			return nil, apperrors.Validation("this request has already been approved")
		}
		request.IsRejected = true
		if err := s.requests.Update(request); err != nil {
			return nil, apperrors.Internal(err)
		}
	default:
		return nil, apperrors.Validation("either is_approved or is_rejected must be true")
	}

	return request, nil
}
