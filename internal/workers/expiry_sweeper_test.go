package workers

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/socialite-app/backend/internal/models"
	"github.com/socialite-app/backend/internal/repositories"
)

func newSweeperEnv(t *testing.T) (*gorm.DB, repositories.StoryRepository) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	sqldb, err := db.DB()
	require.NoError(t, err)
	sqldb.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Hashtag{}, &models.Story{}))
	return db, repositories.NewStoryRepository(db)
}

func seedStory(t *testing.T, db *gorm.DB, authorID uuid.UUID, expiresAt time.Time) *models.Story {
	t.Helper()
	story := &models.Story{
		Caption:   "caption",
		Image:     "http://example.com/x.jpg",
		AuthorID:  authorID,
		ExpiresAt: expiresAt,
	}
	require.NoError(t, db.Create(story).Error)
	return story
}

func TestSweepFlipsOverdueStories(t *testing.T) {
	db, stories := newSweeperEnv(t)
	author := uuid.New()

	overdue := seedStory(t, db, author, time.Now().Add(-time.Hour))
	fresh := seedStory(t, db, author, time.Now().Add(time.Hour))

	sweeper := NewStorySweeper(stories, time.Minute, zap.NewNop())
	sweeper.Sweep()

	var got models.Story
	require.NoError(t, db.First(&got, "id = ?", overdue.ID).Error)
	assert.True(t, got.IsExpired)

	var gotFresh models.Story
	require.NoError(t, db.First(&gotFresh, "id = ?", fresh.ID).Error)
	assert.False(t, gotFresh.IsExpired)
}

func TestSweepIsIdempotent(t *testing.T) {
	db, stories := newSweeperEnv(t)
	author := uuid.New()
	seedStory(t, db, author, time.Now().Add(-time.Hour))

	count, err := stories.MarkExpired(time.Now())
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)

	// A second pass finds nothing left to flip.
	count, err = stories.MarkExpired(time.Now())
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestSweepSkipsDeletedStories(t *testing.T) {
	db, stories := newSweeperEnv(t)
	author := uuid.New()
	story := seedStory(t, db, author, time.Now().Add(-time.Hour))
	require.NoError(t, db.Model(story).Update("is_deleted", true).Error)

	count, err := stories.MarkExpired(time.Now())
	require.NoError(t, err)
	assert.Zero(t, count)
}
