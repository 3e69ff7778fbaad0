package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/socialite-app/backend/internal/middleware"
	"github.com/socialite-app/backend/internal/models"
	"github.com/socialite-app/backend/internal/services"
)

// UserHandler handles HTTP requests for accounts and profiles.
type UserHandler struct {
	users *services.UserService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(users *services.UserService) *UserHandler {
	return &UserHandler{users: users}
}

// RegisterAccountRoutes registers the unauthenticated account flows.
func (h *UserHandler) RegisterAccountRoutes(g *echo.Group) {
	g.POST("/register", h.Register)
	g.POST("/password-reset", h.RequestPasswordReset)
	g.POST("/password-reset/confirm", h.ConfirmPasswordReset)
	g.POST("/verify-email", h.VerifyEmail)
	g.POST("/verify-email/resend", h.ResendVerification)
}

// RegisterProfileRoutes registers the authenticated profile routes.
func (h *UserHandler) RegisterProfileRoutes(g *echo.Group) {
	g.GET("/profile", h.GetProfile)
	g.PUT("/profile", h.UpdateProfile)
	g.PUT("/profile/password", h.UpdatePassword)
	g.PUT("/profile/email", h.UpdateEmail)
	g.GET("/users/:id", h.GetUser)
	g.GET("/users/search", h.SearchUsers)
}

// Register creates an account and kicks off the verification email.
func (h *UserHandler) Register(c echo.Context) error {
	var req models.RegisterUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.users.Register(c.Request().Context(), &req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, user)
}

// GetProfile returns the caller's own account with follow counts.
func (h *UserHandler) GetProfile(c echo.Context) error {
	profile, err := h.users.GetProfile(middleware.UserFrom(c).ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, profile)
}

// GetUser returns another user's profile.
func (h *UserHandler) GetUser(c echo.Context) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	user, err := h.users.GetUser(id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// UpdateProfile applies a partial update to the caller's profile.
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	var req models.UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.users.UpdateProfile(middleware.UserFrom(c), &req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// UpdatePassword replaces the caller's password.
func (h *UserHandler) UpdatePassword(c echo.Context) error {
	var req models.UpdatePasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if err := h.users.UpdatePassword(c.Request().Context(), middleware.UserFrom(c), &req); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// UpdateEmail changes the caller's email address.
func (h *UserHandler) UpdateEmail(c echo.Context) error {
	var req models.UpdateEmailRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.users.UpdateEmail(c.Request().Context(), middleware.UserFrom(c), &req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// RequestPasswordReset mails a reset link to a registered address.
func (h *UserHandler) RequestPasswordReset(c echo.Context) error {
	var req models.PasswordResetRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if err := h.users.RequestPasswordReset(c.Request().Context(), req.Email); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "a reset link has been sent"})
}

// ResendVerification mails a fresh verification link to an address that has
// not confirmed yet.
func (h *UserHandler) ResendVerification(c echo.Context) error {
	var req models.ResendVerificationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if err := h.users.ResendVerification(c.Request().Context(), req.Email); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "a verification link has been sent"})
}

// ConfirmPasswordReset installs a new password from an emailed token.
func (h *UserHandler) ConfirmPasswordReset(c echo.Context) error {
	var req models.PasswordResetConfirmRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if err := h.users.ConfirmPasswordReset(c.Request().Context(), &req); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "password updated"})
}

// VerifyEmail consumes an emailed verification token.
func (h *UserHandler) VerifyEmail(c echo.Context) error {
	var req models.VerifyEmailRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.users.VerifyEmail(&req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// SearchUsers searches users by ?q=.
func (h *UserHandler) SearchUsers(c echo.Context) error {
	query := c.QueryParam("q")
	if query == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "search query 'q' is required")
	}
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if limit < 1 || limit > maxPageSize {
		limit = defaultPageSize
	}

	users, err := h.users.Search(query, limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, users)
}
