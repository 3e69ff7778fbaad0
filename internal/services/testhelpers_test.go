package services

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/socialite-app/backend/internal/models"
	"github.com/socialite-app/backend/internal/repositories"
	"github.com/socialite-app/backend/pkg/filestore"
)

// fakeEnqueuer records enqueued jobs instead of publishing them.
type fakeEnqueuer struct {
	mu   sync.Mutex
	jobs []fakeJob
}

type fakeJob struct {
	subject string
	payload []byte
}

func (f *fakeEnqueuer) Enqueue(subject string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.jobs = append(f.jobs, fakeJob{subject: subject, payload: data})
	return nil
}

func (f *fakeEnqueuer) jobsFor(subject string) []fakeJob {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []fakeJob
	for _, j := range f.jobs {
		if j.subject == subject {
			out = append(out, j)
		}
	}
	return out
}

// recordingBus captures live-push publishes.
type recordingBus struct {
	mu       sync.Mutex
	messages map[string][][]byte
}

func newRecordingBus() *recordingBus {
	return &recordingBus{messages: map[string][][]byte{}}
}

func (b *recordingBus) Publish(ctx context.Context, channel string, payload []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.messages[channel] = append(b.messages[channel], payload)
	return nil
}

func (b *recordingBus) Subscribe(ctx context.Context, channel string) (<-chan []byte, func(), error) {
	out := make(chan []byte)
	close(out)
	return out, func() {}, nil
}

func (b *recordingBus) published(channel string) [][]byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.messages[channel]
}

type testEnv struct {
	db *gorm.DB

	users             repositories.UserRepository
	posts             repositories.PostRepository
	stories           repositories.StoryRepository
	hashtags          repositories.HashtagRepository
	likes             repositories.LikeRepository
	storyLikes        repositories.StoryLikeRepository
	comments          repositories.CommentRepository
	follows           repositories.FollowRepository
	followRequests    repositories.FollowRequestRepository
	notificationsRepo repositories.NotificationRepository

	enqueuer *fakeEnqueuer
	bus      *recordingBus

	notifications *NotificationService
	content       *ContentService
	likeSvc       *LikeService
	commentSvc    *CommentService
	followSvc     *FollowService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	sqldb, err := db.DB()
	require.NoError(t, err)
	// A pool over :memory: would open independent empty databases.
	sqldb.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Follow{},
		&models.FollowRequest{},
		&models.Hashtag{},
		&models.Post{},
		&models.Story{},
		&models.Like{},
		&models.StoryLike{},
		&models.Comment{},
		&models.Notification{},
	))

	env := &testEnv{
		db:                db,
		users:             repositories.NewUserRepository(db),
		posts:             repositories.NewPostRepository(db),
		stories:           repositories.NewStoryRepository(db),
		hashtags:          repositories.NewHashtagRepository(db),
		likes:             repositories.NewLikeRepository(db),
		storyLikes:        repositories.NewStoryLikeRepository(db),
		comments:          repositories.NewCommentRepository(db),
		follows:           repositories.NewFollowRepository(db),
		followRequests:    repositories.NewFollowRequestRepository(db),
		notificationsRepo: repositories.NewNotificationRepository(db),
		enqueuer:          &fakeEnqueuer{},
		bus:               newRecordingBus(),
	}

	logger := zap.NewNop()
	files := filestore.NewLocalFileStore(t.TempDir(), "http://localhost:8080/media", "media")

	env.notifications = NewNotificationService(env.notificationsRepo, env.enqueuer, env.bus, logger)
	env.content = NewContentService(env.posts, env.stories, env.hashtags, env.follows, files, models.StoryTTL, logger)
	env.likeSvc = NewLikeService(env.likes, env.storyLikes, env.content, env.notifications, logger)
	env.commentSvc = NewCommentService(env.comments, env.content, env.notifications, logger)
	env.followSvc = NewFollowService(env.follows, env.followRequests, env.users, env.notifications, logger)

	return env
}

func (env *testEnv) createUser(t *testing.T, username, privacy string) *models.User {
	t.Helper()
	user := &models.User{
		Username:      username,
		Email:         username + "@example.com",
		Password:      "irrelevant",
		PrivacyChoice: privacy,
		IsActive:      true,
	}
	require.NoError(t, env.users.Create(user))
	return user
}

func (env *testEnv) createPost(t *testing.T, author *models.User, caption string) *models.Post {
	t.Helper()
	post, err := env.content.CreatePost(context.Background(), author, caption, testUpload())
	require.NoError(t, err)
	return post
}

func (env *testEnv) createStory(t *testing.T, author *models.User, caption string) *models.Story {
	t.Helper()
	story, err := env.content.CreateStory(context.Background(), author, caption, testUpload())
	require.NoError(t, err)
	return story
}

func testUpload() *Upload {
	return &Upload{
		Filename:    "photo.jpg",
		ContentType: "image/jpeg",
		Reader:      strings.NewReader("not really a jpeg"),
	}
}

// deliverAll drains the fake queue through the delivery step, simulating a
// worker cycle.
func (env *testEnv) deliverAll(t *testing.T) {
	t.Helper()
	for _, j := range env.enqueuer.jobsFor("jobs.notify.deliver") {
		var job NotificationJob
		require.NoError(t, json.Unmarshal(j.payload, &job))
		require.NoError(t, env.notifications.Deliver(context.Background(), job))
	}
}
