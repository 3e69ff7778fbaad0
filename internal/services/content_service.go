package services

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/socialite-app/backend/internal/apperrors"
	"github.com/socialite-app/backend/internal/models"
	"github.com/socialite-app/backend/internal/repositories"
	"github.com/socialite-app/backend/internal/visibility"
	"github.com/socialite-app/backend/pkg/filestore"
)

// Upload is an incoming media file pulled off a multipart form.
type Upload struct {
	Filename    string
	ContentType string
	Reader      io.Reader
}

// ContentService owns posts and stories: creation with mandatory image and
// hashtag extraction, caption updates that fully replace the tag set, soft
// deletes, and visibility-filtered reads.
type ContentService struct {
	posts    repositories.PostRepository
	stories  repositories.StoryRepository
	hashtags repositories.HashtagRepository
	follows  repositories.FollowRepository
	files    filestore.FileStore
	storyTTL time.Duration
	logger   *zap.Logger
}

// NewContentService wires the content store.
func NewContentService(
	posts repositories.PostRepository,
	stories repositories.StoryRepository,
	hashtags repositories.HashtagRepository,
	follows repositories.FollowRepository,
	files filestore.FileStore,
	storyTTL time.Duration,
	logger *zap.Logger,
) *ContentService {
	return &ContentService{
		posts:    posts,
		stories:  stories,
		hashtags: hashtags,
		follows:  follows,
		files:    files,
		storyTTL: storyTTL,
		logger:   logger,
	}
}

func (s *ContentService) viewerFor(user *models.User) visibility.Viewer {
	if user == nil {
		return visibility.Anonymous
	}
	return visibility.Viewer{ID: user.ID, Authenticated: true}
}

func (s *ContentService) canView(viewer *models.User, owner *models.User) (bool, error) {
	isFollowing := false
	if viewer != nil && owner != nil && viewer.ID != owner.ID {
		var err error
		isFollowing, err = s.follows.IsFollowing(viewer.ID, owner.ID)
		if err != nil {
			return false, apperrors.Internal(err)
		}
	}
	return visibility.CanView(s.viewerFor(viewer), owner, isFollowing), nil
}

func (s *ContentService) storeImage(ctx context.Context, image *Upload) (string, error) {
	url, err := s.files.Save(ctx, image.Filename, image.ContentType, image.Reader)
	if err != nil {
		return "", apperrors.Internal(err)
	}
	return url, nil
}

func (s *ContentService) resolveTags(caption string) ([]models.Hashtag, error) {
	tags, err := s.hashtags.GetOrCreate(ExtractHashtags(caption))
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return tags, nil
}

// CreatePost creates a post. The image is required; captions are stored
// lower-cased and their hashtags indexed.
func (s *ContentService) CreatePost(ctx context.Context, author *models.User, caption string, image *Upload) (*models.Post, error) {
	if strings.TrimSpace(caption) == "" {
		return nil, apperrors.Validation("caption is required")
	}
	if image == nil {
		return nil, apperrors.Validation("image is required for creating a post")
	}

	url, err := s.storeImage(ctx, image)
	if err != nil {
		return nil, err
	}

	post := &models.Post{
		Caption:  caption,
		Image:    url,
		AuthorID: author.ID,
	}
	if err := s.posts.Create(post); err != nil {
		return nil, apperrors.Internal(err)
	}

	tags, err := s.resolveTags(post.Caption)
	if err != nil {
		return nil, err
	}
	if err := s.posts.ReplaceHashtags(post, tags); err != nil {
		return nil, apperrors.Internal(err)
	}
	post.Hashtags = tags
	return post, nil
}

// UpdatePost replaces the caption (and optionally the image) of the
// caller's own post. The hashtag association set is cleared and rebuilt
// from the new caption, never diffed.
func (s *ContentService) UpdatePost(ctx context.Context, viewer *models.User, id uuid.UUID, caption string, image *Upload) (*models.Post, error) {
	post, err := s.getVisiblePost(viewer, id)
	if err != nil {
		return nil, err
	}
	if post.AuthorID != viewer.ID {
		return nil, apperrors.PermissionDenied()
	}
	if strings.TrimSpace(caption) == "" {
		return nil, apperrors.Validation("caption is required")
	}

	post.Caption = caption
	if image != nil {
		url, err := s.storeImage(ctx, image)
		if err != nil {
			return nil, err
		}
		post.Image = url
	}
	if err := s.posts.Update(post); err != nil {
		return nil, apperrors.Internal(err)
	}

	tags, err := s.resolveTags(post.Caption)
	if err != nil {
		return nil, err
	}
	if err := s.posts.ReplaceHashtags(post, tags); err != nil {
		return nil, apperrors.Internal(err)
	}
	post.Hashtags = tags
	return post, nil
}

// DeletePost soft-deletes the caller's own post. The row and its comments
// and likes stay in the store; default queries stop returning them.
func (s *ContentService) DeletePost(viewer *models.User, id uuid.UUID) error {
	post, err := s.getVisiblePost(viewer, id)
	if err != nil {
		return err
	}
	if post.AuthorID != viewer.ID {
		return apperrors.PermissionDenied()
	}
	if err := s.posts.SoftDelete(id); err != nil {
		if repositories.IsNotFound(err) {
			return apperrors.NotFound("post not found")
		}
		return apperrors.Internal(err)
	}
	return nil
}

// GetPost returns a single post if the viewer may see it. An invisible
// private post answers exactly like a missing one.
func (s *ContentService) GetPost(viewer *models.User, id uuid.UUID) (*models.Post, error) {
	return s.getVisiblePost(viewer, id)
}

func (s *ContentService) getVisiblePost(viewer *models.User, id uuid.UUID) (*models.Post, error) {
	post, err := s.posts.GetByID(id)
	if err != nil {
		if repositories.IsNotFound(err) {
			return nil, apperrors.NotFound("post not found")
		}
		return nil, apperrors.Internal(err)
	}
	ok, err := s.canView(viewer, post.Author)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperrors.NotFound("post not found")
	}
	return post, nil
}

// ListPosts returns the visibility-filtered feed, optionally narrowed to a
// hashtag (matched case-insensitively).
func (s *ContentService) ListPosts(viewer *models.User, hashtag string, offset, limit int) ([]models.Post, error) {
	posts, err := s.posts.List(s.viewerFor(viewer), hashtag, offset, limit)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return posts, nil
}

// CreateStory creates a story with a fixed expiry deadline. expires_at is
// immutable from here on.
func (s *ContentService) CreateStory(ctx context.Context, author *models.User, caption string, image *Upload) (*models.Story, error) {
	if strings.TrimSpace(caption) == "" {
		return nil, apperrors.Validation("caption is required")
	}
	if image == nil {
		return nil, apperrors.Validation("image is required for creating a story")
	}

	url, err := s.storeImage(ctx, image)
	if err != nil {
		return nil, err
	}

	story := &models.Story{
		Caption:   caption,
		Image:     url,
		AuthorID:  author.ID,
		ExpiresAt: time.Now().Add(s.storyTTL),
	}
	if err := s.stories.Create(story); err != nil {
		return nil, apperrors.Internal(err)
	}

	tags, err := s.resolveTags(story.Caption)
	if err != nil {
		return nil, err
	}
	if err := s.stories.ReplaceHashtags(story, tags); err != nil {
		return nil, apperrors.Internal(err)
	}
	story.Hashtags = tags
	return story, nil
}

// UpdateStory replaces the caption (and optionally the image) of the
// caller's own story. The expiry deadline is never touched.
func (s *ContentService) UpdateStory(ctx context.Context, viewer *models.User, id uuid.UUID, caption string, image *Upload) (*models.Story, error) {
	story, err := s.getVisibleStory(viewer, id)
	if err != nil {
		return nil, err
	}
	if story.AuthorID != viewer.ID {
		return nil, apperrors.PermissionDenied()
	}
	if strings.TrimSpace(caption) == "" {
		return nil, apperrors.Validation("caption is required")
	}

	story.Caption = caption
	if image != nil {
		url, err := s.storeImage(ctx, image)
		if err != nil {
			return nil, err
		}
		story.Image = url
	}
	if err := s.stories.Update(story); err != nil {
		return nil, apperrors.Internal(err)
	}

	tags, err := s.resolveTags(story.Caption)
	if err != nil {
		return nil, err
	}
	if err := s.stories.ReplaceHashtags(story, tags); err != nil {
		return nil, apperrors.Internal(err)
	}
	story.Hashtags = tags
	return story, nil
}

// DeleteStory soft-deletes the caller's own story.
func (s *ContentService) DeleteStory(viewer *models.User, id uuid.UUID) error {
	story, err := s.getVisibleStory(viewer, id)
	if err != nil {
		return err
	}
	if story.AuthorID != viewer.ID {
		return apperrors.PermissionDenied()
	}
	if err := s.stories.SoftDelete(id); err != nil {
		if repositories.IsNotFound(err) {
			return apperrors.NotFound("story not found")
		}
		return apperrors.Internal(err)
	}
	return nil
}

// GetStory returns a single story if the viewer may see it. Expired
// stories remain readable by their author only.
func (s *ContentService) GetStory(viewer *models.User, id uuid.UUID) (*models.Story, error) {
	return s.getVisibleStory(viewer, id)
}

func (s *ContentService) getVisibleStory(viewer *models.User, id uuid.UUID) (*models.Story, error) {
	story, err := s.stories.GetByID(id)
	if err != nil {
		if repositories.IsNotFound(err) {
			return nil, apperrors.NotFound("story not found")
		}
		return nil, apperrors.Internal(err)
	}
	if story.IsExpired && (viewer == nil || viewer.ID != story.AuthorID) {
		return nil, apperrors.NotFound("story not found")
	}
	ok, err := s.canView(viewer, story.Author)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperrors.NotFound("story not found")
	}
	return story, nil
}

// ListStories returns the visibility-filtered, unexpired story feed.
func (s *ContentService) ListStories(viewer *models.User, hashtag string, offset, limit int) ([]models.Story, error) {
	stories, err := s.stories.List(s.viewerFor(viewer), hashtag, offset, limit)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return stories, nil
}

// ListExpiredStories returns the caller's own expired stories.
func (s *ContentService) ListExpiredStories(viewer *models.User) ([]models.Story, error) {
	stories, err := s.stories.ListExpiredByAuthor(viewer.ID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return stories, nil
}
