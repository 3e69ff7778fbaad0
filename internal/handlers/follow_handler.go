package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/socialite-app/backend/internal/apperrors"
	"github.com/socialite-app/backend/internal/middleware"
	"github.com/socialite-app/backend/internal/models"
	"github.com/socialite-app/backend/internal/services"
)

// FollowHandler handles HTTP requests for the follow graph.
type FollowHandler struct {
	follows *services.FollowService
}

// NewFollowHandler creates a new FollowHandler.
func NewFollowHandler(follows *services.FollowService) *FollowHandler {
	return &FollowHandler{follows: follows}
}

// RegisterRoutes registers follow routes.
func (h *FollowHandler) RegisterRoutes(protected *echo.Group) {
	protected.POST("/follows", h.Follow)
	protected.DELETE("/follows/:id", h.Unfollow)
	protected.GET("/users/:id/followers", h.ListFollowers)
	protected.GET("/users/:id/following", h.ListFollowing)
	protected.GET("/follow-requests", h.ListRequests)
	protected.PUT("/follow-requests/:id", h.ResolveRequest)
}

// Follow follows a public user immediately or files a request against a
// private one. The pending path answers 202 with no follow row.
func (h *FollowHandler) Follow(c echo.Context) error {
	var req models.CreateFollowRequestBody
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	follow, err := h.follows.Follow(middleware.UserFrom(c), req.FollowingID)
	if err != nil {
		if apperrors.IsKind(err, apperrors.KindRequestSent) {
			return c.JSON(http.StatusAccepted, map[string]string{"message": "follow request sent"})
		}
		return err
	}
	return c.JSON(http.StatusCreated, follow)
}

// Unfollow removes the caller's follow edge. The path parameter is the
// followed user's ID.
func (h *FollowHandler) Unfollow(c echo.Context) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.follows.Unfollow(middleware.UserFrom(c), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// ListFollowers lists the accounts following a user.
func (h *FollowHandler) ListFollowers(c echo.Context) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	followers, err := h.follows.ListFollowers(id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, followers)
}

// ListFollowing lists the accounts a user follows.
func (h *FollowHandler) ListFollowing(c echo.Context) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	following, err := h.follows.ListFollowing(id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, following)
}

// ListRequests lists the caller's pending incoming follow requests.
func (h *FollowHandler) ListRequests(c echo.Context) error {
	requests, err := h.follows.ListRequests(middleware.UserFrom(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, requests)
}

// ResolveRequest approves or rejects a follow request.
func (h *FollowHandler) ResolveRequest(c echo.Context) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}

	var body models.ResolveFollowRequestBody
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request payload")
	}

	request, err := h.follows.ResolveRequest(middleware.UserFrom(c), id, &body)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, request)
}
