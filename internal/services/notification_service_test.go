package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/socialite-app/backend/internal/apperrors"
	"github.com/socialite-app/backend/internal/models"
	"github.com/socialite-app/backend/pkg/pubsub"
)

func TestNotifyEnqueuesAndDeliverPersists(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice", models.PrivacyPublic)

	env.notifications.Notify(alice.ID, "bob liked your post", models.NotificationLike)
	require.Len(t, env.enqueuer.jobsFor("jobs.notify.deliver"), 1)

	env.deliverAll(t)

	list, total, err := env.notifications.List(alice.ID, 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, list, 1)
	assert.Equal(t, "bob liked your post", list[0].Message)
	assert.Equal(t, models.NotificationLike, list[0].NotificationType)
	assert.False(t, list[0].IsRead)

	// Delivery pushed to the recipient's live channel.
	assert.Len(t, env.bus.published(pubsub.ChannelFor(alice.ID.String())), 1)
}

func TestDeliverIsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice", models.PrivacyPublic)

	job := NotificationJob{
		ID:               uuid.New(),
		UserID:           alice.ID,
		Message:          "redelivered",
		NotificationType: models.NotificationFollow,
	}

	// The queue is at-least-once; the same job can arrive repeatedly.
	for i := 0; i < 3; i++ {
		require.NoError(t, env.notifications.Deliver(context.Background(), job))
	}

	_, total, err := env.notifications.List(alice.ID, 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
}

func TestNotificationListOrder(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice", models.PrivacyPublic)

	first := NotificationJob{ID: uuid.New(), UserID: alice.ID, Message: "first", NotificationType: models.NotificationLike}
	second := NotificationJob{ID: uuid.New(), UserID: alice.ID, Message: "second", NotificationType: models.NotificationLike}
	require.NoError(t, env.notifications.Deliver(context.Background(), first))
	require.NoError(t, env.notifications.Deliver(context.Background(), second))

	require.NoError(t, env.notifications.MarkRead(first.ID, alice.ID))

	// Unread come first regardless of age.
	list, _, err := env.notifications.List(alice.ID, 0, 10)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "second", list[0].Message)
	assert.Equal(t, "first", list[1].Message)

	count, err := env.notifications.UnreadCount(alice.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestMarkReadScopedToRecipient(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice", models.PrivacyPublic)
	bob := env.createUser(t, "bob", models.PrivacyPublic)

	job := NotificationJob{ID: uuid.New(), UserID: alice.ID, Message: "private", NotificationType: models.NotificationLike}
	require.NoError(t, env.notifications.Deliver(context.Background(), job))

	// Someone else cannot mark it read.
	err := env.notifications.MarkRead(job.ID, bob.ID)
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))

	require.NoError(t, env.notifications.MarkRead(job.ID, alice.ID))

	count, err := env.notifications.UnreadCount(alice.ID)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestMarkAllRead(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice", models.PrivacyPublic)

	for i := 0; i < 3; i++ {
		job := NotificationJob{ID: uuid.New(), UserID: alice.ID, Message: "bulk", NotificationType: models.NotificationComment}
		require.NoError(t, env.notifications.Deliver(context.Background(), job))
	}

	require.NoError(t, env.notifications.MarkAllRead(alice.ID))

	count, err := env.notifications.UnreadCount(alice.ID)
	require.NoError(t, err)
	assert.Zero(t, count)

	unread, err := env.notifications.ListUnread(alice.ID)
	require.NoError(t, err)
	assert.Empty(t, unread)
}
