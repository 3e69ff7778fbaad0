package services

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/socialite-app/backend/internal/apperrors"
	"github.com/socialite-app/backend/internal/models"
	"github.com/socialite-app/backend/internal/repositories"
)

// CommentService manages threaded comments on posts. Comments can be
// edited by their author but never deleted; a thread keeps its shape.
type CommentService struct {
	comments      repositories.CommentRepository
	content       *ContentService
	notifications *NotificationService
	logger        *zap.Logger
}

// NewCommentService wires the comment store.
func NewCommentService(
	comments repositories.CommentRepository,
	content *ContentService,
	notifications *NotificationService,
	logger *zap.Logger,
) *CommentService {
	return &CommentService{
		comments:      comments,
		content:       content,
		notifications: notifications,
		logger:        logger,
	}
}

// CreateComment adds a comment (or reply) to a visible post and notifies
// the post's author. A reply's parent must be a comment on the same post.
func (s *CommentService) CreateComment(viewer *models.User, req *models.CreateCommentRequest) (*models.Comment, error) {
	if strings.TrimSpace(req.Content) == "" {
		return nil, apperrors.Validation("content is required")
	}

	post, err := s.content.GetPost(viewer, req.PostID)
	if err != nil {
		return nil, err
	}

	if req.ParentID != nil {
		parent, err := s.comments.GetByID(*req.ParentID)
		if err != nil {
			if repositories.IsNotFound(err) {
				return nil, apperrors.Validation("parent comment not found")
			}
			return nil, apperrors.Internal(err)
		}
		if parent.PostID != post.ID {
			return nil, apperrors.Validation("parent comment belongs to a different post")
		}
	}

	comment := &models.Comment{
		PostID:   post.ID,
		UserID:   viewer.ID,
		ParentID: req.ParentID,
		Content:  req.Content,
	}
	if err := s.comments.Create(comment); err != nil {
		return nil, apperrors.Internal(err)
	}

	if post.AuthorID != viewer.ID {
		s.notifications.Notify(post.AuthorID, fmt.Sprintf("%s commented in your post", viewer.Username), models.NotificationComment)
	}
	return comment, nil
}

// UpdateComment replaces the content of the caller's own comment.
func (s *CommentService) UpdateComment(viewer *models.User, id uuid.UUID, req *models.UpdateCommentRequest) (*models.Comment, error) {
	if strings.TrimSpace(req.Content) == "" {
		return nil, apperrors.Validation("content is required")
	}

	comment, err := s.comments.GetByID(id)
	if err != nil {
		if repositories.IsNotFound(err) {
			return nil, apperrors.NotFound("comment not found")
		}
		return nil, apperrors.Internal(err)
	}
	if comment.UserID != viewer.ID {
		return nil, apperrors.PermissionDenied()
	}

	comment.Content = req.Content
	if err := s.comments.Update(comment); err != nil {
		return nil, apperrors.Internal(err)
	}
	return comment, nil
}

// ListComments returns the comment tree of a post, or an empty tree when
// the post is not visible to the viewer.
func (s *CommentService) ListComments(viewer *models.User, postID uuid.UUID) ([]*models.Comment, error) {
	if _, err := s.content.GetPost(viewer, postID); err != nil {
		if apperrors.IsKind(err, apperrors.KindNotFound) {
			return []*models.Comment{}, nil
		}
		return nil, err
	}
	comments, err := s.comments.ListByPost(postID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return BuildCommentTree(comments), nil
}

// ListOwnComments returns the caller's comments across all posts as a
// flat list.
func (s *CommentService) ListOwnComments(viewer *models.User) ([]models.Comment, error) {
	comments, err := s.comments.ListByUser(viewer.ID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return comments, nil
}
