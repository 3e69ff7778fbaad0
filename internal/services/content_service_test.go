package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/socialite-app/backend/internal/apperrors"
	"github.com/socialite-app/backend/internal/models"
)

func TestCreatePostRequiresImage(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice", models.PrivacyPublic)

	_, err := env.content.CreatePost(context.Background(), alice, "no picture", nil)
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
}

func TestCreatePostExtractsHashtags(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice", models.PrivacyPublic)

	post := env.createPost(t, alice, "Morning round #golf #Travel #golf")

	require.Len(t, post.Hashtags, 2)
	names := []string{post.Hashtags[0].Name, post.Hashtags[1].Name}
	assert.ElementsMatch(t, []string{"golf", "travel"}, names)
	// The caption keeps its case; only the extracted tags fold.
	assert.Equal(t, "Morning round #golf #Travel #golf", post.Caption)
	assert.NotEmpty(t, post.Image)
}

func TestCaptionCaseSurvivesCreateAndUpdate(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice", models.PrivacyPublic)

	post := env.createPost(t, alice, "Hello #World")
	assert.Equal(t, "Hello #World", post.Caption)
	require.Len(t, post.Hashtags, 1)
	assert.Equal(t, "world", post.Hashtags[0].Name)

	updated, err := env.content.UpdatePost(context.Background(), alice, post.ID, "Goodbye #World", nil)
	require.NoError(t, err)
	assert.Equal(t, "Goodbye #World", updated.Caption)

	story := env.createStory(t, alice, "Snow Day #Ski")
	assert.Equal(t, "Snow Day #Ski", story.Caption)
	require.Len(t, story.Hashtags, 1)
	assert.Equal(t, "ski", story.Hashtags[0].Name)
}

func TestUpdatePostReplacesHashtagSet(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice", models.PrivacyPublic)

	post := env.createPost(t, alice, "day one #golf")
	updated, err := env.content.UpdatePost(context.Background(), alice, post.ID, "day two #travel", nil)
	require.NoError(t, err)

	require.Len(t, updated.Hashtags, 1)
	assert.Equal(t, "travel", updated.Hashtags[0].Name)
	// The image survives a caption-only update.
	assert.Equal(t, post.Image, updated.Image)
}

func TestUpdatePostByNonOwner(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice", models.PrivacyPublic)
	bob := env.createUser(t, "bob", models.PrivacyPublic)

	post := env.createPost(t, alice, "mine")
	_, err := env.content.UpdatePost(context.Background(), bob, post.ID, "stolen", nil)
	assert.True(t, apperrors.IsKind(err, apperrors.KindPermission))
}

func TestSoftDeleteHidesPostButKeepsDependents(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice", models.PrivacyPublic)
	bob := env.createUser(t, "bob", models.PrivacyPublic)

	post := env.createPost(t, alice, "short lived")
	_, err := env.likeSvc.LikePost(bob, post.ID)
	require.NoError(t, err)
	_, err = env.commentSvc.CreateComment(bob, &models.CreateCommentRequest{PostID: post.ID, Content: "nice"})
	require.NoError(t, err)

	require.NoError(t, env.content.DeletePost(alice, post.ID))

	_, err = env.content.GetPost(alice, post.ID)
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))

	posts, err := env.content.ListPosts(alice, "", 0, 10)
	require.NoError(t, err)
	assert.Empty(t, posts)

	// Dependent rows survive the soft delete.
	var likeCount, commentCount int64
	require.NoError(t, env.db.Model(&models.Like{}).Where("post_id = ?", post.ID).Count(&likeCount).Error)
	require.NoError(t, env.db.Model(&models.Comment{}).Where("post_id = ?", post.ID).Count(&commentCount).Error)
	assert.EqualValues(t, 1, likeCount)
	assert.EqualValues(t, 1, commentCount)
}

func TestPrivateContentVisibility(t *testing.T) {
	env := newTestEnv(t)
	vera := env.createUser(t, "vera", models.PrivacyPrivate)
	alice := env.createUser(t, "alice", models.PrivacyPublic)

	post := env.createPost(t, vera, "secret garden")

	// A stranger sees neither the post nor the listing entry; the single
	// get is indistinguishable from a miss.
	_, err := env.content.GetPost(alice, post.ID)
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))

	posts, err := env.content.ListPosts(alice, "", 0, 10)
	require.NoError(t, err)
	assert.Empty(t, posts)

	// Anonymous viewers are strangers too.
	posts, err = env.content.ListPosts(nil, "", 0, 10)
	require.NoError(t, err)
	assert.Empty(t, posts)

	// The owner always sees their own content.
	got, err := env.content.GetPost(vera, post.ID)
	require.NoError(t, err)
	assert.Equal(t, post.ID, got.ID)

	// Request, approve, and the same queries start answering.
	_, err = env.followSvc.Follow(alice, vera.ID)
	require.True(t, apperrors.IsKind(err, apperrors.KindRequestSent))
	requests, err := env.followSvc.ListRequests(vera)
	require.NoError(t, err)
	require.Len(t, requests, 1)
	_, err = env.followSvc.ResolveRequest(vera, requests[0].ID, &models.ResolveFollowRequestBody{IsApproved: boolPtr(true)})
	require.NoError(t, err)

	got, err = env.content.GetPost(alice, post.ID)
	require.NoError(t, err)
	assert.Equal(t, post.ID, got.ID)

	posts, err = env.content.ListPosts(alice, "", 0, 10)
	require.NoError(t, err)
	assert.Len(t, posts, 1)
}

func TestListPostsHashtagFilter(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice", models.PrivacyPublic)

	env.createPost(t, alice, "course day #golf")
	env.createPost(t, alice, "airport #travel")

	posts, err := env.content.ListPosts(alice, "golf", 0, 10)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Contains(t, posts[0].Caption, "#golf")

	// Filter matching is case-insensitive.
	posts, err = env.content.ListPosts(alice, "GOLF", 0, 10)
	require.NoError(t, err)
	assert.Len(t, posts, 1)

	posts, err = env.content.ListPosts(alice, "skiing", 0, 10)
	require.NoError(t, err)
	assert.Empty(t, posts)
}

func TestStoryExpiryDeadline(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice", models.PrivacyPublic)

	story := env.createStory(t, alice, "daily update")
	assert.False(t, story.IsExpired)
	assert.False(t, story.ExpiresAt.IsZero())

	// Updating the caption never moves the deadline.
	updated, err := env.content.UpdateStory(context.Background(), alice, story.ID, "edited update", nil)
	require.NoError(t, err)
	assert.Equal(t, story.ExpiresAt.UTC(), updated.ExpiresAt.UTC())
}

func TestExpiredStoryOnlyVisibleToAuthor(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice", models.PrivacyPublic)
	bob := env.createUser(t, "bob", models.PrivacyPublic)

	story := env.createStory(t, alice, "fleeting")
	require.NoError(t, env.db.Model(&models.Story{}).Where("id = ?", story.ID).Update("is_expired", true).Error)

	_, err := env.content.GetStory(bob, story.ID)
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))

	got, err := env.content.GetStory(alice, story.ID)
	require.NoError(t, err)
	assert.True(t, got.IsExpired)

	// Expired stories drop out of the feed for everyone, the author included.
	stories, err := env.content.ListStories(alice, "", 0, 10)
	require.NoError(t, err)
	assert.Empty(t, stories)

	expired, err := env.content.ListExpiredStories(alice)
	require.NoError(t, err)
	require.Len(t, expired, 1)
	assert.Equal(t, story.ID, expired[0].ID)

	expired, err = env.content.ListExpiredStories(bob)
	require.NoError(t, err)
	assert.Empty(t, expired)
}
