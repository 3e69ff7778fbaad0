package services

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	htmltemplate "html/template"
	texttemplate "text/template"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/socialite-app/backend/internal/apperrors"
	"github.com/socialite-app/backend/pkg/queue"
)

//go:embed templates/emails/*.tmpl
var emailTemplates embed.FS

// Email types understood by the template set.
const (
	EmailWelcome         = "welcome"
	EmailPasswordReset   = "password_reset"
	EmailPasswordChanged = "password_changed"
	EmailVerification    = "email_verification"
)

var emailSubjects = map[string]string{
	EmailWelcome:         "Welcome to Socialite",
	EmailPasswordReset:   "Reset your password",
	EmailPasswordChanged: "Your password was changed",
	EmailVerification:    "Verify your email address",
}

// EmailContext carries the values the templates interpolate.
type EmailContext struct {
	Username  string
	ActionURL string
}

// EmailJob is the payload handed to the email worker over the queue.
type EmailJob struct {
	Subject    string   `json:"subject"`
	PlainBody  string   `json:"plain_body"`
	HTMLBody   string   `json:"html_body"`
	Recipients []string `json:"recipients"`
}

// EmailService renders transactional emails and enqueues them for
// asynchronous sending. Sends are rate limited per recipient and type so a
// misbehaving client cannot flood a mailbox.
type EmailService struct {
	rdb       *redis.Client
	enqueuer  queue.Enqueuer
	limit     int
	window    time.Duration
	htmlTmpls *htmltemplate.Template
	textTmpls *texttemplate.Template
	logger    *zap.Logger
}

// NewEmailService parses the embedded template set once at startup.
func NewEmailService(rdb *redis.Client, enqueuer queue.Enqueuer, limit int, window time.Duration, logger *zap.Logger) (*EmailService, error) {
	htmlTmpls, err := htmltemplate.ParseFS(emailTemplates, "templates/emails/*.html.tmpl")
	if err != nil {
		return nil, fmt.Errorf("failed to parse html email templates: %w", err)
	}
	textTmpls, err := texttemplate.ParseFS(emailTemplates, "templates/emails/*.txt.tmpl")
	if err != nil {
		return nil, fmt.Errorf("failed to parse text email templates: %w", err)
	}
	return &EmailService{
		rdb:       rdb,
		enqueuer:  enqueuer,
		limit:     limit,
		window:    window,
		htmlTmpls: htmlTmpls,
		textTmpls: textTmpls,
		logger:    logger,
	}, nil
}

func rateLimitKey(recipient, emailType string) string {
	return fmt.Sprintf("email_rate:%s%s", recipient, emailType)
}

// allow counts the send against the recipient's window and reports whether
// it may proceed. The window starts on the first send.
func (s *EmailService) allow(ctx context.Context, recipient, emailType string) (bool, error) {
	key := rateLimitKey(recipient, emailType)
	count, err := s.rdb.Incr(ctx, key).Result()
	if err != nil {
		return false, err
	}
	if count == 1 {
		if err := s.rdb.Expire(ctx, key, s.window).Err(); err != nil {
			return false, err
		}
	}
	return count <= int64(s.limit), nil
}

// Send renders the named email type and enqueues it for the email worker.
// Rate limiting is keyed on the first recipient; a burst past the limit
// fails with a RateLimited error until the window lapses.
func (s *EmailService) Send(ctx context.Context, emailType string, emailCtx EmailContext, recipients ...string) error {
	if len(recipients) == 0 {
		return apperrors.Validation("at least one recipient is required")
	}
	subject, ok := emailSubjects[emailType]
	if !ok {
		return apperrors.Validation(fmt.Sprintf("unknown email type %q", emailType))
	}

	allowed, err := s.allow(ctx, recipients[0], emailType)
	if err != nil {
		return apperrors.Internal(err)
	}
	if !allowed {
		return apperrors.RateLimited("rate limit exceeded, please try again later")
	}

	var html bytes.Buffer
	if err := s.htmlTmpls.ExecuteTemplate(&html, emailType+".html.tmpl", emailCtx); err != nil {
		return apperrors.Internal(err)
	}
	var plain bytes.Buffer
	if err := s.textTmpls.ExecuteTemplate(&plain, emailType+".txt.tmpl", emailCtx); err != nil {
		return apperrors.Internal(err)
	}

	job := EmailJob{
		Subject:    subject,
		PlainBody:  plain.String(),
		HTMLBody:   html.String(),
		Recipients: recipients,
	}
	if err := s.enqueuer.Enqueue(queue.SubjectEmailSend, job); err != nil {
		return apperrors.Internal(err)
	}
	return nil
}

// SendAsync enqueues without surfacing the outcome to the caller. Used on
// paths where the email is a side effect of an already committed action.
func (s *EmailService) SendAsync(ctx context.Context, emailType string, emailCtx EmailContext, recipients ...string) {
	if err := s.Send(ctx, emailType, emailCtx, recipients...); err != nil {
		s.logger.Warn("failed to enqueue email",
			zap.String("type", emailType),
			zap.Error(err),
		)
	}
}
