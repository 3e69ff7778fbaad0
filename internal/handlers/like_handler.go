package handlers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/socialite-app/backend/internal/middleware"
	"github.com/socialite-app/backend/internal/models"
	"github.com/socialite-app/backend/internal/services"
)

// LikeHandler handles HTTP requests for post and story likes.
type LikeHandler struct {
	likes *services.LikeService
}

// NewLikeHandler creates a new LikeHandler.
func NewLikeHandler(likes *services.LikeService) *LikeHandler {
	return &LikeHandler{likes: likes}
}

// RegisterRoutes registers like routes.
func (h *LikeHandler) RegisterRoutes(protected *echo.Group) {
	protected.POST("/likes", h.LikePost)
	protected.DELETE("/posts/:id/like", h.UnlikePost)
	protected.GET("/likes", h.ListPostLikes)
	protected.POST("/story-likes", h.LikeStory)
	protected.DELETE("/stories/:id/like", h.UnlikeStory)
	protected.GET("/story-likes", h.ListStoryLikes)
}

// LikePost records a like on a post.
func (h *LikeHandler) LikePost(c echo.Context) error {
	var req models.CreateLikeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	like, err := h.likes.LikePost(middleware.UserFrom(c), req.PostID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, like)
}

// UnlikePost removes the caller's like from a post.
func (h *LikeHandler) UnlikePost(c echo.Context) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.likes.UnlikePost(middleware.UserFrom(c), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// ListPostLikes lists likes on ?post_id=, or the caller's own likes when
// the parameter is absent.
func (h *LikeHandler) ListPostLikes(c echo.Context) error {
	viewer := middleware.UserFrom(c)
	if raw := c.QueryParam("post_id"); raw != "" {
		postID, err := uuid.Parse(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid post_id")
		}
		likes, err := h.likes.ListPostLikes(viewer, postID)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, likes)
	}
	likes, err := h.likes.ListOwnPostLikes(viewer)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, likes)
}

// LikeStory records a like on a story.
func (h *LikeHandler) LikeStory(c echo.Context) error {
	var req models.CreateStoryLikeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	like, err := h.likes.LikeStory(middleware.UserFrom(c), req.StoryID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, like)
}

// UnlikeStory removes the caller's like from a story.
func (h *LikeHandler) UnlikeStory(c echo.Context) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.likes.UnlikeStory(middleware.UserFrom(c), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// ListStoryLikes lists likes on ?story_id=, or the caller's own story
// likes when the parameter is absent.
func (h *LikeHandler) ListStoryLikes(c echo.Context) error {
	viewer := middleware.UserFrom(c)
	if raw := c.QueryParam("story_id"); raw != "" {
		storyID, err := uuid.Parse(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid story_id")
		}
		likes, err := h.likes.ListStoryLikes(viewer, storyID)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, likes)
	}
	likes, err := h.likes.ListOwnStoryLikes(viewer)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, likes)
}
