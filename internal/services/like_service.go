package services

import (
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/socialite-app/backend/internal/apperrors"
	"github.com/socialite-app/backend/internal/models"
	"github.com/socialite-app/backend/internal/repositories"
)

// LikeService records likes on posts and stories and fans out the author
// notifications. A like is unique per (content, user); repeats are rejected
// rather than toggled.
type LikeService struct {
	likes         repositories.LikeRepository
	storyLikes    repositories.StoryLikeRepository
	content       *ContentService
	notifications *NotificationService
	logger        *zap.Logger
}

// NewLikeService wires the like store.
func NewLikeService(
	likes repositories.LikeRepository,
	storyLikes repositories.StoryLikeRepository,
	content *ContentService,
	notifications *NotificationService,
	logger *zap.Logger,
) *LikeService {
	return &LikeService{
		likes:         likes,
		storyLikes:    storyLikes,
		content:       content,
		notifications: notifications,
		logger:        logger,
	}
}

// LikePost records a like on a visible post and notifies its author.
func (s *LikeService) LikePost(viewer *models.User, postID uuid.UUID) (*models.Like, error) {
	post, err := s.content.GetPost(viewer, postID)
	if err != nil {
		return nil, err
	}

	like := &models.Like{PostID: post.ID, UserID: viewer.ID}
	if err := s.likes.Create(like); err != nil {
		if repositories.IsDuplicate(err) {
			return nil, apperrors.Duplicate("you have already liked this post")
		}
		return nil, apperrors.Internal(err)
	}

	if post.AuthorID != viewer.ID {
		s.notifications.Notify(post.AuthorID, fmt.Sprintf("%s liked your post", viewer.Username), models.NotificationLike)
	}
	return like, nil
}

// UnlikePost removes the caller's like from a post.
func (s *LikeService) UnlikePost(viewer *models.User, postID uuid.UUID) error {
	if _, err := s.content.GetPost(viewer, postID); err != nil {
		return err
	}
	if err := s.likes.Delete(postID, viewer.ID); err != nil {
		if repositories.IsNotFound(err) {
			return apperrors.NotFound("like not found")
		}
		return apperrors.Internal(err)
	}
	return nil
}

// ListPostLikes lists the likes on a post. If the post is not visible to the
// viewer the answer is an empty list, not an error.
func (s *LikeService) ListPostLikes(viewer *models.User, postID uuid.UUID) ([]models.Like, error) {
	if _, err := s.content.GetPost(viewer, postID); err != nil {
		if apperrors.IsKind(err, apperrors.KindNotFound) {
			return []models.Like{}, nil
		}
		return nil, err
	}
	likes, err := s.likes.ListByPost(postID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return likes, nil
}

// ListOwnPostLikes lists every post like placed by the caller.
func (s *LikeService) ListOwnPostLikes(viewer *models.User) ([]models.Like, error) {
	likes, err := s.likes.ListByUser(viewer.ID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return likes, nil
}

// LikeStory records a like on a visible story and notifies its author.
func (s *LikeService) LikeStory(viewer *models.User, storyID uuid.UUID) (*models.StoryLike, error) {
	story, err := s.content.GetStory(viewer, storyID)
	if err != nil {
		return nil, err
	}

	like := &models.StoryLike{StoryID: story.ID, UserID: viewer.ID}
	if err := s.storyLikes.Create(like); err != nil {
		if repositories.IsDuplicate(err) {
			return nil, apperrors.Duplicate("you have already liked this story")
		}
		return nil, apperrors.Internal(err)
	}

	if story.AuthorID != viewer.ID {
		s.notifications.Notify(story.AuthorID, fmt.Sprintf("%s liked your story", viewer.Username), models.NotificationLike)
	}
	return like, nil
}

// UnlikeStory removes the caller's like from a story.
func (s *LikeService) UnlikeStory(viewer *models.User, storyID uuid.UUID) error {
	if _, err := s.content.GetStory(viewer, storyID); err != nil {
		return err
	}
	if err := s.storyLikes.Delete(storyID, viewer.ID); err != nil {
		if repositories.IsNotFound(err) {
			return apperrors.NotFound("like not found")
		}
		return apperrors.Internal(err)
	}
	return nil
}

// ListStoryLikes lists the likes on a story, or an empty list when the
// story is not visible to the viewer.
func (s *LikeService) ListStoryLikes(viewer *models.User, storyID uuid.UUID) ([]models.StoryLike, error) {
	if _, err := s.content.GetStory(viewer, storyID); err != nil {
		if apperrors.IsKind(err, apperrors.KindNotFound) {
			return []models.StoryLike{}, nil
		}
		return nil, err
	}
	likes, err := s.storyLikes.ListByStory(storyID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return likes, nil
}

// ListOwnStoryLikes lists every story like placed by the caller.
func (s *LikeService) ListOwnStoryLikes(viewer *models.User) ([]models.StoryLike, error) {
	likes, err := s.storyLikes.ListByUser(viewer.ID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return likes, nil
}
