package services

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/socialite-app/backend/internal/apperrors"
	"github.com/socialite-app/backend/internal/models"
)

func newUserTestService(t *testing.T, env *testEnv) (*UserService, *fakeEnqueuer) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	enqueuer := &fakeEnqueuer{}
	emails, err := NewEmailService(rdb, enqueuer, 10, time.Minute, zap.NewNop())
	require.NoError(t, err)
	tokens := NewTokenService("test-secret")

	return NewUserService(env.users, env.follows, emails, tokens, "https://app.example.com", zap.NewNop()), enqueuer
}

func TestRegisterAndVerify(t *testing.T) {
	env := newTestEnv(t)
	svc, enqueuer := newUserTestService(t, env)
	ctx := context.Background()

	user, err := svc.Register(ctx, &models.RegisterUserRequest{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "hunter2hunter2",
	})
	require.NoError(t, err)
	assert.False(t, user.IsActive)
	assert.False(t, user.EmailVerified)
	assert.Equal(t, models.PrivacyPublic, user.PrivacyChoice)
	assert.NotEqual(t, "hunter2hunter2", user.Password)
	assert.True(t, CheckPassword(user, "hunter2hunter2"))

	// The welcome email carries the verification link.
	jobs := enqueuer.jobsFor("jobs.email.send")
	require.Len(t, jobs, 1)
	var job EmailJob
	require.NoError(t, json.Unmarshal(jobs[0].payload, &job))
	assert.Contains(t, job.PlainBody, "https://app.example.com/verify-email?token=")

	token := extractToken(t, job.PlainBody, "https://app.example.com/verify-email?token=")
	verified, err := svc.VerifyEmail(&models.VerifyEmailRequest{Token: token})
	require.NoError(t, err)
	assert.True(t, verified.EmailVerified)
	assert.True(t, verified.IsActive)
}

func TestRegisterDuplicate(t *testing.T) {
	env := newTestEnv(t)
	svc, _ := newUserTestService(t, env)
	ctx := context.Background()

	req := &models.RegisterUserRequest{Username: "alice", Email: "alice@example.com", Password: "hunter2hunter2"}
	_, err := svc.Register(ctx, req)
	require.NoError(t, err)

	_, err = svc.Register(ctx, req)
	assert.True(t, apperrors.IsKind(err, apperrors.KindDuplicate))
}

func TestPasswordResetFlow(t *testing.T) {
	env := newTestEnv(t)
	svc, enqueuer := newUserTestService(t, env)
	ctx := context.Background()

	user, err := svc.Register(ctx, &models.RegisterUserRequest{
		Username: "alice", Email: "alice@example.com", Password: "originalpassword",
	})
	require.NoError(t, err)

	require.NoError(t, svc.RequestPasswordReset(ctx, "alice@example.com"))

	jobs := enqueuer.jobsFor("jobs.email.send")
	require.Len(t, jobs, 2) // welcome + reset
	var job EmailJob
	require.NoError(t, json.Unmarshal(jobs[1].payload, &job))
	token := extractToken(t, job.PlainBody, "https://app.example.com/reset-password?token=")

	require.NoError(t, svc.ConfirmPasswordReset(ctx, &models.PasswordResetConfirmRequest{
		Token:    token,
		Password: "replacementpass",
	}))

	reloaded, err := env.users.GetByID(user.ID)
	require.NoError(t, err)
	assert.True(t, CheckPassword(reloaded, "replacementpass"))
	assert.False(t, CheckPassword(reloaded, "originalpassword"))

	// The change notice went out.
	assert.Len(t, enqueuer.jobsFor("jobs.email.send"), 3)
}

func TestPasswordResetUnknownEmail(t *testing.T) {
	env := newTestEnv(t)
	svc, enqueuer := newUserTestService(t, env)

	err := svc.RequestPasswordReset(context.Background(), "nobody@example.com")
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
	assert.Empty(t, enqueuer.jobsFor("jobs.email.send"))
}

func TestResendVerification(t *testing.T) {
	env := newTestEnv(t)
	svc, enqueuer := newUserTestService(t, env)
	ctx := context.Background()

	_, err := svc.Register(ctx, &models.RegisterUserRequest{
		Username: "alice", Email: "alice@example.com", Password: "hunter2hunter2",
	})
	require.NoError(t, err)

	require.NoError(t, svc.ResendVerification(ctx, "alice@example.com"))

	// The resent link still activates the account.
	jobs := enqueuer.jobsFor("jobs.email.send")
	require.Len(t, jobs, 2) // welcome + resend
	var job EmailJob
	require.NoError(t, json.Unmarshal(jobs[1].payload, &job))
	token := extractToken(t, job.PlainBody, "https://app.example.com/verify-email?token=")
	verified, err := svc.VerifyEmail(&models.VerifyEmailRequest{Token: token})
	require.NoError(t, err)
	assert.True(t, verified.IsActive)

	err = svc.ResendVerification(ctx, "alice@example.com")
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))

	err = svc.ResendVerification(ctx, "nobody@example.com")
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
}

func TestUpdateEmailDropsVerification(t *testing.T) {
	env := newTestEnv(t)
	svc, enqueuer := newUserTestService(t, env)
	ctx := context.Background()

	user, err := svc.Register(ctx, &models.RegisterUserRequest{
		Username: "alice", Email: "alice@example.com", Password: "hunter2hunter2",
	})
	require.NoError(t, err)
	user.EmailVerified = true
	require.NoError(t, env.users.Update(user))

	updated, err := svc.UpdateEmail(ctx, user, &models.UpdateEmailRequest{Email: "new@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "new@example.com", updated.Email)
	assert.False(t, updated.EmailVerified)

	// welcome + verification for the new address
	assert.Len(t, enqueuer.jobsFor("jobs.email.send"), 2)
}

func TestProfileCounts(t *testing.T) {
	env := newTestEnv(t)
	svc, _ := newUserTestService(t, env)

	alice := env.createUser(t, "alice", models.PrivacyPublic)
	bob := env.createUser(t, "bob", models.PrivacyPublic)
	_, err := env.followSvc.Follow(bob, alice.ID)
	require.NoError(t, err)

	profile, err := svc.GetProfile(alice.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, profile.FollowerCount)
	assert.EqualValues(t, 0, profile.FollowingCount)
}

func extractToken(t *testing.T, body, prefix string) string {
	t.Helper()
	idx := strings.Index(body, prefix)
	require.GreaterOrEqual(t, idx, 0, "token link not found in email body")
	token := body[idx+len(prefix):]
	if end := strings.IndexAny(token, " \r\n"); end >= 0 {
		token = token[:end]
	}
	return token
}
