// Package middleware carries the request-auth middleware. Token issuance
// lives with the identity provider; this layer only verifies.
package middleware

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"

	"github.com/socialite-app/backend/internal/models"
	"github.com/socialite-app/backend/internal/repositories"
)

// ContextUserKey is where the authenticated *models.User is stored on the
// Echo context. Optional-auth routes may find it absent.
const ContextUserKey = "user"

func parseToken(c echo.Context, secret string) (*models.JwtCustomClaims, error) {
	authHeader := c.Request().Header.Get("Authorization")
	if authHeader == "" {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing Authorization header")
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "invalid Authorization header format")
	}

	claims := &models.JwtCustomClaims{}
	token, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, echo.NewHTTPError(http.StatusUnauthorized, "unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	}
	return claims, nil
}

func loadUser(users repositories.UserRepository, claims *models.JwtCustomClaims) (*models.User, error) {
	user, err := users.GetByID(claims.UserID)
	if err != nil {
		if repositories.IsNotFound(err) {
			return nil, echo.NewHTTPError(http.StatusUnauthorized, "account no longer exists")
		}
		return nil, echo.NewHTTPError(http.StatusInternalServerError, "failed to load user")
	}
	if !user.IsActive {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "account is not active")
	}
	return user, nil
}

// JWTAuth verifies the bearer token and loads the account onto the context.
// Requests without a valid token are rejected.
func JWTAuth(secret string, users repositories.UserRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, err := parseToken(c, secret)
			if err != nil {
				return err
			}
			user, err := loadUser(users, claims)
			if err != nil {
				return err
			}
			c.Set(ContextUserKey, user)
			return next(c)
		}
	}
}

// OptionalJWTAuth loads the account when a valid token is present and lets
// anonymous requests through. List endpoints use it so public content stays
// readable without an account.
func OptionalJWTAuth(secret string, users repositories.UserRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if c.Request().Header.Get("Authorization") == "" {
				return next(c)
			}
			claims, err := parseToken(c, secret)
			if err != nil {
				return err
			}
			user, err := loadUser(users, claims)
			if err != nil {
				return err
			}
			c.Set(ContextUserKey, user)
			return next(c)
		}
	}
}

// UserFrom extracts the authenticated user from the context, or nil for an
// anonymous request.
func UserFrom(c echo.Context) *models.User {
	user, _ := c.Get(ContextUserKey).(*models.User)
	return user
}
