package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/socialite-app/backend/internal/middleware"
	"github.com/socialite-app/backend/internal/models"
	"github.com/socialite-app/backend/internal/services"
)

// PostHandler handles HTTP requests related to posts.
type PostHandler struct {
	content *services.ContentService
}

// NewPostHandler creates a new PostHandler.
func NewPostHandler(content *services.ContentService) *PostHandler {
	return &PostHandler{content: content}
}

// RegisterRoutes registers post routes. Reads take optional auth so public
// posts stay reachable anonymously; writes require it.
func (h *PostHandler) RegisterRoutes(public, protected *echo.Group) {
	public.GET("/posts", h.ListPosts)
	public.GET("/posts/:id", h.GetPost)
	protected.POST("/posts", h.CreatePost)
	protected.PUT("/posts/:id", h.UpdatePost)
	protected.DELETE("/posts/:id", h.DeletePost)
}

// CreatePost creates a post from a multipart form with caption and image.
func (h *PostHandler) CreatePost(c echo.Context) error {
	viewer := middleware.UserFrom(c)

	var req models.CreatePostRequest
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

	post, err := h.content.CreatePost(c.Request().Context(), viewer, req.Caption, image)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, post)
}

// GetPost retrieves a post by ID.
func (h *PostHandler) GetPost(c echo.Context) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	post, err := h.content.GetPost(middleware.UserFrom(c), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, post)
}

// ListPosts retrieves the feed, optionally filtered by ?hashtag=.
func (h *PostHandler) ListPosts(c echo.Context) error {
	offset, limit := pagination(c)
	posts, err := h.content.ListPosts(middleware.UserFrom(c), c.QueryParam("hashtag"), offset, limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, posts)
}

// UpdatePost updates the caption and optionally the image of a post.
func (h *PostHandler) UpdatePost(c echo.Context) error {
	viewer := middleware.UserFrom(c)
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}

	var req models.UpdatePostRequest
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

	post, err := h.content.UpdatePost(c.Request().Context(), viewer, id, req.Caption, image)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, post)
}

// DeletePost soft-deletes a post.
func (h *PostHandler) DeletePost(c echo.Context) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.content.DeletePost(middleware.UserFrom(c), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
