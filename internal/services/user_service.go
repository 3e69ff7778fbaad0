package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/socialite-app/backend/internal/apperrors"
	"github.com/socialite-app/backend/internal/models"
	"github.com/socialite-app/backend/internal/repositories"
)

// UserService owns the account lifecycle: registration, profile and
// credential updates, and the emailed verification and reset flows. Token
// verification for request auth lives in the middleware; this service only
// mints the single-purpose tokens that ride inside emails.
type UserService struct {
	users       repositories.UserRepository
	follows     repositories.FollowRepository
	emails      *EmailService
	tokens      *TokenService
	frontendURL string
	logger      *zap.Logger
}

// NewUserService wires the account store.
func NewUserService(
	users repositories.UserRepository,
	follows repositories.FollowRepository,
	emails *EmailService,
	tokens *TokenService,
	frontendURL string,
	logger *zap.Logger,
) *UserService {
	return &UserService{
		users:       users,
		follows:     follows,
		emails:      emails,
		tokens:      tokens,
		frontendURL: frontendURL,
		logger:      logger,
	}
}

func hashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

func (s *UserService) verificationURL(token string) string {
	return fmt.Sprintf("%s/verify-email?token=%s", s.frontendURL, token)
}

func (s *UserService) resetURL(token string) string {
	return fmt.Sprintf("%s/reset-password?token=%s", s.frontendURL, token)
}

// Profile is a user plus their follow-graph counts.
type Profile struct {
	models.User
	FollowerCount  int64 `json:"follower_count"`
	FollowingCount int64 `json:"following_count"`
}

func (s *UserService) profileOf(user *models.User) (*Profile, error) {
	followers, err := s.follows.CountFollowers(user.ID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	following, err := s.follows.CountFollowing(user.ID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return &Profile{User: *user, FollowerCount: followers, FollowingCount: following}, nil
}

// Register creates an account. The account stays inactive until the emailed
// verification link is followed.
func (s *UserService) Register(ctx context.Context, req *models.RegisterUserRequest) (*models.User, error) {
	hashed, err := hashPassword(req.Password)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	privacy := req.PrivacyChoice
	if privacy == "" {
		privacy = models.PrivacyPublic
	}

	user := &models.User{
		Username:      req.Username,
		Email:         req.Email,
		FullName:      req.FullName,
		Password:      hashed,
		PrivacyChoice: privacy,
	}
	if err := s.users.Create(user); err != nil {
		if repositories.IsDuplicate(err) {
			return nil, apperrors.Duplicate("a user with this username or email already exists")
		}
		return nil, apperrors.Internal(err)
	}

	token, err := s.tokens.Issue(user.ID, TokenPurposeEmailVerification)
	if err != nil {
		s.logger.Error("failed to issue verification token", zap.Error(err))
		return user, nil
	}
	s.emails.SendAsync(ctx, EmailWelcome, EmailContext{
		Username:  user.Username,
		ActionURL: s.verificationURL(token),
	}, user.Email)
	return user, nil
}

// GetProfile returns an account with its follow counts.
func (s *UserService) GetProfile(userID uuid.UUID) (*Profile, error) {
	user, err := s.users.GetByID(userID)
	if err != nil {
		if repositories.IsNotFound(err) {
			return nil, apperrors.NotFound("user not found")
		}
		return nil, apperrors.Internal(err)
	}
	return s.profileOf(user)
}

// GetUser returns another user's profile. Profiles themselves are always
// visible; privacy gates content, not existence.
func (s *UserService) GetUser(id uuid.UUID) (*Profile, error) {
	return s.GetProfile(id)
}

// UpdateProfile applies a partial profile update to the caller's account.
func (s *UserService) UpdateProfile(viewer *models.User, req *models.UpdateProfileRequest) (*models.User, error) {
	if req.Username != "" {
		viewer.Username = req.Username
	}
	if req.FullName != "" {
		viewer.FullName = req.FullName
	}
	if req.Bio != "" {
		viewer.Bio = req.Bio
	}
	if req.PrivacyChoice != "" {
		viewer.PrivacyChoice = req.PrivacyChoice
	}
	if err := s.users.Update(viewer); err != nil {
		if repositories.IsDuplicate(err) {
			return nil, apperrors.Duplicate("this username is already taken")
		}
		return nil, apperrors.Internal(err)
	}
	return viewer, nil
}

// UpdatePassword replaces the caller's password and mails a notice.
func (s *UserService) UpdatePassword(ctx context.Context, viewer *models.User, req *models.UpdatePasswordRequest) error {
	hashed, err := hashPassword(req.Password)
	if err != nil {
		return apperrors.Internal(err)
	}
	viewer.Password = hashed
	if err := s.users.Update(viewer); err != nil {
		return apperrors.Internal(err)
	}
	s.emails.SendAsync(ctx, EmailPasswordChanged, EmailContext{Username: viewer.Username}, viewer.Email)
	return nil
}

// UpdateEmail changes the caller's address. The account drops back to
// unverified until the new address confirms the emailed link.
func (s *UserService) UpdateEmail(ctx context.Context, viewer *models.User, req *models.UpdateEmailRequest) (*models.User, error) {
	viewer.Email = req.Email
	viewer.EmailVerified = false
	if err := s.users.Update(viewer); err != nil {
		if repositories.IsDuplicate(err) {
			return nil, apperrors.Duplicate("a user with this email already exists")
		}
		return nil, apperrors.Internal(err)
	}

	token, err := s.tokens.Issue(viewer.ID, TokenPurposeEmailVerification)
	if err != nil {
		s.logger.Error("failed to issue verification token", zap.Error(err))
		return viewer, nil
	}
	s.emails.SendAsync(ctx, EmailVerification, EmailContext{
		Username:  viewer.Username,
		ActionURL: s.verificationURL(token),
	}, viewer.Email)
	return viewer, nil
}

// RequestPasswordReset mails a reset link to the given address.
func (s *UserService) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := s.users.GetByEmail(email)
	if err != nil {
		if repositories.IsNotFound(err) {
			return apperrors.NotFound("no user with this email")
		}
		return apperrors.Internal(err)
	}

	token, err := s.tokens.Issue(user.ID, TokenPurposePasswordReset)
	if err != nil {
		return apperrors.Internal(err)
	}
	return s.emails.Send(ctx, EmailPasswordReset, EmailContext{
		Username:  user.Username,
		ActionURL: s.resetURL(token),
	}, user.Email)
}

// ResendVerification mails a fresh verification link so that a lost or
// rate-limited welcome email does not strand the account. Goes through the
// rate-limited pipeline, so repeated requests surface RateLimited.
func (s *UserService) ResendVerification(ctx context.Context, email string) error {
	user, err := s.users.GetByEmail(email)
	if err != nil {
		if repositories.IsNotFound(err) {
			return apperrors.NotFound("no user with this email")
		}
		return apperrors.Internal(err)
	}
	if user.EmailVerified {
		return apperrors.Validation("email is already verified")
	}

	token, err := s.tokens.Issue(user.ID, TokenPurposeEmailVerification)
	if err != nil {
		return apperrors.Internal(err)
	}
	return s.emails.Send(ctx, EmailVerification, EmailContext{
		Username:  user.Username,
		ActionURL: s.verificationURL(token),
	}, user.Email)
}

// ConfirmPasswordReset consumes an emailed reset token and installs the new
// password.
func (s *UserService) ConfirmPasswordReset(ctx context.Context, req *models.PasswordResetConfirmRequest) error {
	userID, err := s.tokens.Verify(req.Token, TokenPurposePasswordReset)
	if err != nil {
		return err
	}
	user, err := s.users.GetByID(userID)
	if err != nil {
		if repositories.IsNotFound(err) {
			return apperrors.Validation("invalid or expired token")
		}
		return apperrors.Internal(err)
	}

	hashed, err := hashPassword(req.Password)
	if err != nil {
		return apperrors.Internal(err)
	}
	user.Password = hashed
	if err := s.users.Update(user); err != nil {
		return apperrors.Internal(err)
	}
	s.emails.SendAsync(ctx, EmailPasswordChanged, EmailContext{Username: user.Username}, user.Email)
	return nil
}

// VerifyEmail consumes an emailed verification token and activates the
// account.
func (s *UserService) VerifyEmail(req *models.VerifyEmailRequest) (*models.User, error) {
	userID, err := s.tokens.Verify(req.Token, TokenPurposeEmailVerification)
	if err != nil {
		return nil, err
	}
	user, err := s.users.GetByID(userID)
	if err != nil {
		if repositories.IsNotFound(err) {
			return nil, apperrors.Validation("invalid or expired token")
		}
		return nil, apperrors.Internal(err)
	}

	user.EmailVerified = true
	user.IsActive = true
	if err := s.users.Update(user); err != nil {
		return nil, apperrors.Internal(err)
	}
	return user, nil
}

// CheckPassword compares a plaintext password against the stored hash.
func CheckPassword(user *models.User, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) == nil
}

// Search finds users by username or full name.
func (s *UserService) Search(query string, limit int) ([]models.UserCompact, error) {
	users, err := s.users.Search(query, limit)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	compact := make([]models.UserCompact, 0, len(users))
	for _, u := range users {
		compact = append(compact, u.ToCompact())
	}
	return compact, nil
}
