package models

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Privacy settings a user can choose for their profile.
const (
	PrivacyPublic  = "public"
	PrivacyPrivate = "private"
)

// User represents an account. Private users gate their content behind an
// approved follow relationship.
type User struct {
	ID             uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Username       string    `json:"username" gorm:"uniqueIndex;size:150"`
	Email          string    `json:"email" gorm:"uniqueIndex;size:254"`
	FullName       string    `json:"full_name,omitempty" gorm:"size:255;index"`
	Bio            string    `json:"bio,omitempty"`
	ProfilePicture string    `json:"profile_picture,omitempty"`
	Password       string    `json:"-"`
	PrivacyChoice  string    `json:"privacy_choice" gorm:"size:10;default:'public'"`
	EmailVerified  bool      `json:"email_verified" gorm:"default:false"`
	IsActive       bool      `json:"is_active" gorm:"default:false"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// IsPrivate reports whether the user's content requires an approved follow.
func (u *User) IsPrivate() bool {
	return u.PrivacyChoice == PrivacyPrivate
}

// ToCompact returns the minimal representation embedded in other payloads.
func (u *User) ToCompact() UserCompact {
	return UserCompact{ID: u.ID, Username: u.Username, ProfilePicture: u.ProfilePicture}
}

// UserCompact is the nested author/actor shape used in list payloads.
type UserCompact struct {
	ID             uuid.UUID `json:"id"`
	Username       string    `json:"username"`
	ProfilePicture string    `json:"profile_picture,omitempty"`
}

// RegisterUserRequest defines the request body for account registration.
type RegisterUserRequest struct {
	Username      string `json:"username" validate:"required,min=2,max=150"`
	Email         string `json:"email" validate:"required,email"`
	FullName      string `json:"full_name,omitempty" validate:"omitempty,max=255"`
	Password      string `json:"password" validate:"required,min=8"`
	PrivacyChoice string `json:"privacy_choice,omitempty" validate:"omitempty,oneof=public private"`
}

// UpdateProfileRequest defines the request body for profile updates.
type UpdateProfileRequest struct {
	Username      string `json:"username,omitempty" validate:"omitempty,min=2,max=150"`
	FullName      string `json:"full_name,omitempty" validate:"omitempty,max=255"`
	Bio           string `json:"bio,omitempty" validate:"omitempty,max=1000"`
	PrivacyChoice string `json:"privacy_choice,omitempty" validate:"omitempty,oneof=public private"`
}

// UpdatePasswordRequest defines the request body for password changes.
type UpdatePasswordRequest struct {
	Password string `json:"password" validate:"required,min=8"`
}

// UpdateEmailRequest defines the request body for email changes.
type UpdateEmailRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// PasswordResetRequest asks for a reset link to be mailed out.
type PasswordResetRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// PasswordResetConfirmRequest carries the emailed token plus the new password.
type PasswordResetConfirmRequest struct {
	Token    string `json:"token" validate:"required"`
	Password string `json:"password" validate:"required,min=8"`
}

// ResendVerificationRequest asks for the verification link to be mailed again.
type ResendVerificationRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// VerifyEmailRequest carries the emailed verification token.
type VerifyEmailRequest struct {
	Token string `json:"token" validate:"required"`
}

// JwtCustomClaims are custom claims extending standard jwt.RegisteredClaims
type JwtCustomClaims struct {
	UserID uuid.UUID `json:"user_id"`
	Email  string    `json:"email"`
	jwt.RegisteredClaims
}
