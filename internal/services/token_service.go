package services

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	"github.com/socialite-app/backend/internal/apperrors"
)

// Purposes for single-use account tokens.
const (
	TokenPurposePasswordReset     = "password_reset"
	TokenPurposeEmailVerification = "email_verification"
)

var tokenTTLs = map[string]time.Duration{
	TokenPurposePasswordReset:     time.Hour,
	TokenPurposeEmailVerification: 24 * time.Hour,
}

type purposeClaims struct {
	UserID  uuid.UUID `json:"user_id"`
	Purpose string    `json:"purpose"`
	jwt.RegisteredClaims
}

// TokenService mints and verifies the short-lived HMAC tokens embedded in
// account emails. A token is bound to one purpose; a verification token can
// never reset a password.
type TokenService struct {
	secret []byte
}

// NewTokenService creates a TokenService signing with the given secret.
func NewTokenService(secret string) *TokenService {
	return &TokenService{secret: []byte(secret)}
}

// Issue mints a token for the user scoped to the given purpose.
func (s *TokenService) Issue(userID uuid.UUID, purpose string) (string, error) {
	ttl, ok := tokenTTLs[purpose]
	if !ok {
		return "", apperrors.Validation("unknown token purpose")
	}
	claims := purposeClaims{
		UserID:  userID,
		Purpose: purpose,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", apperrors.Internal(err)
	}
	return signed, nil
}

// Verify checks the token signature, expiry and purpose and returns the
// user it was issued to.
func (s *TokenService) Verify(tokenString, purpose string) (uuid.UUID, error) {
	claims := &purposeClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return s.secret, nil
	})
	if err != nil {
		return uuid.Nil, apperrors.Wrap(apperrors.Validation("invalid or expired token"), err)
	}
	if !token.Valid {
		return uuid.Nil, apperrors.Validation("invalid or expired token")
	}
	if claims.Purpose != purpose {
		return uuid.Nil, apperrors.Validation("invalid or expired token")
	}
	return claims.UserID, nil
}
