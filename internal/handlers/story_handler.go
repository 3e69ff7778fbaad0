package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/socialite-app/backend/internal/middleware"
	"github.com/socialite-app/backend/internal/models"
	"github.com/socialite-app/backend/internal/services"
)

// StoryHandler handles HTTP requests related to stories.
type StoryHandler struct {
	content *services.ContentService
}

// NewStoryHandler creates a new StoryHandler.
func NewStoryHandler(content *services.ContentService) *StoryHandler {
	return &StoryHandler{content: content}
}

// RegisterRoutes registers story routes.
func (h *StoryHandler) RegisterRoutes(public, protected *echo.Group) {
	public.GET("/stories", h.ListStories)
	public.GET("/stories/:id", h.GetStory)
	protected.GET("/stories/expired", h.ListExpiredStories)
	protected.POST("/stories", h.CreateStory)
	protected.PUT("/stories/:id", h.UpdateStory)
	protected.DELETE("/stories/:id", h.DeleteStory)
}

// CreateStory creates a story from a multipart form with caption and image.
func (h *StoryHandler) CreateStory(c echo.Context) error {
	viewer := middleware.UserFrom(c)

	var req models.CreateStoryRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	image, closeFn, err := formUpload(c, "image")
	if err != nil {
		return err
	}
	defer closeFn()

	story, err := h.content.CreateStory(c.Request().Context(), viewer, req.Caption, image)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, story)
}

// GetStory retrieves a story by ID.
func (h *StoryHandler) GetStory(c echo.Context) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	story, err := h.content.GetStory(middleware.UserFrom(c), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, story)
}

// ListStories retrieves unexpired stories, optionally filtered by ?hashtag=.
func (h *StoryHandler) ListStories(c echo.Context) error {
	offset, limit := pagination(c)
	stories, err := h.content.ListStories(middleware.UserFrom(c), c.QueryParam("hashtag"), offset, limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, stories)
}

// ListExpiredStories retrieves the caller's own expired stories.
func (h *StoryHandler) ListExpiredStories(c echo.Context) error {
	stories, err := h.content.ListExpiredStories(middleware.UserFrom(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, stories)
}

// UpdateStory updates the caption and optionally the image of a story.
func (h *StoryHandler) UpdateStory(c echo.Context) error {
	viewer := middleware.UserFrom(c)
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}

	var req models.UpdateStoryRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	image, closeFn, err := formUpload(c, "image")
	if err != nil {
		return err
	}
	defer closeFn()

	story, err := h.content.UpdateStory(c.Request().Context(), viewer, id, req.Caption, image)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, story)
}

// DeleteStory soft-deletes a story.
func (h *StoryHandler) DeleteStory(c echo.Context) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.content.DeleteStory(middleware.UserFrom(c), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
