package services

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/socialite-app/backend/internal/apperrors"
)

func newEmailTestService(t *testing.T, limit int, window time.Duration) (*EmailService, *miniredis.Miniredis, *fakeEnqueuer) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	enqueuer := &fakeEnqueuer{}
	svc, err := NewEmailService(rdb, enqueuer, limit, window, zap.NewNop())
	require.NoError(t, err)
	return svc, mr, enqueuer
}

func TestSendRendersAndEnqueues(t *testing.T) {
	svc, _, enqueuer := newEmailTestService(t, 3, time.Minute)

	err := svc.Send(context.Background(), EmailWelcome, EmailContext{
		Username:  "alice",
		ActionURL: "https://app.example.com/verify-email?token=abc",
	}, "alice@example.com")
	require.NoError(t, err)

	jobs := enqueuer.jobsFor("jobs.email.send")
	require.Len(t, jobs, 1)

	var job EmailJob
	require.NoError(t, json.Unmarshal(jobs[0].payload, &job))
	assert.Equal(t, "Welcome to Socialite", job.Subject)
	assert.Equal(t, []string{"alice@example.com"}, job.Recipients)
	assert.Contains(t, job.PlainBody, "alice")
	assert.Contains(t, job.PlainBody, "https://app.example.com/verify-email?token=abc")
	assert.Contains(t, job.HTMLBody, "<a href=\"https://app.example.com/verify-email?token=abc\">")
}

func TestSendUnknownType(t *testing.T) {
	svc, _, _ := newEmailTestService(t, 3, time.Minute)

	err := svc.Send(context.Background(), "marketing_blast", EmailContext{}, "alice@example.com")
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
}

func TestSendNoRecipients(t *testing.T) {
	svc, _, _ := newEmailTestService(t, 3, time.Minute)

	err := svc.Send(context.Background(), EmailWelcome, EmailContext{})
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
}

func TestRateLimitBlocksFourthSend(t *testing.T) {
	svc, _, enqueuer := newEmailTestService(t, 3, time.Minute)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, svc.Send(ctx, EmailPasswordReset, EmailContext{Username: "alice"}, "alice@example.com"))
	}

	err := svc.Send(ctx, EmailPasswordReset, EmailContext{Username: "alice"}, "alice@example.com")
	assert.True(t, apperrors.IsKind(err, apperrors.KindRateLimited))
	assert.Len(t, enqueuer.jobsFor("jobs.email.send"), 3)
}

func TestRateLimitIsPerRecipientAndType(t *testing.T) {
	svc, _, _ := newEmailTestService(t, 1, time.Minute)
	ctx := context.Background()

	require.NoError(t, svc.Send(ctx, EmailPasswordReset, EmailContext{}, "alice@example.com"))

	// Same recipient, same type: blocked.
	err := svc.Send(ctx, EmailPasswordReset, EmailContext{}, "alice@example.com")
	assert.True(t, apperrors.IsKind(err, apperrors.KindRateLimited))

	// Same recipient, different type: its own counter.
	require.NoError(t, svc.Send(ctx, EmailWelcome, EmailContext{}, "alice@example.com"))

	// Different recipient, same type: its own counter.
	require.NoError(t, svc.Send(ctx, EmailPasswordReset, EmailContext{}, "bob@example.com"))
}

func TestRateLimitWindowElapses(t *testing.T) {
	svc, mr, _ := newEmailTestService(t, 1, time.Minute)
	ctx := context.Background()

	require.NoError(t, svc.Send(ctx, EmailPasswordReset, EmailContext{}, "alice@example.com"))
	err := svc.Send(ctx, EmailPasswordReset, EmailContext{}, "alice@example.com")
	assert.True(t, apperrors.IsKind(err, apperrors.KindRateLimited))

	mr.FastForward(time.Minute + time.Second)

	require.NoError(t, svc.Send(ctx, EmailPasswordReset, EmailContext{}, "alice@example.com"))
}
