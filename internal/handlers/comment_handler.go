package handlers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/socialite-app/backend/internal/apperrors"
	"github.com/socialite-app/backend/internal/middleware"
	"github.com/socialite-app/backend/internal/models"
	"github.com/socialite-app/backend/internal/services"
)

// CommentHandler handles HTTP requests related to comments.
type CommentHandler struct {
	comments *services.CommentService
}

// NewCommentHandler creates a new CommentHandler.
func NewCommentHandler(comments *services.CommentService) *CommentHandler {
	return &CommentHandler{comments: comments}
}

// RegisterRoutes registers comment routes. DELETE is registered to answer
// explicitly: comments cannot be removed, threads keep their shape.
func (h *CommentHandler) RegisterRoutes(protected *echo.Group) {
	protected.POST("/comments", h.CreateComment)
	protected.GET("/comments", h.ListComments)
	protected.PUT("/comments/:id", h.UpdateComment)
	protected.DELETE("/comments/:id", h.DeleteComment)
}

// CreateComment adds a comment or reply to a post.
func (h *CommentHandler) CreateComment(c echo.Context) error {
	var req models.CreateCommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	comment, err := h.comments.CreateComment(middleware.UserFrom(c), &req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, comment)
}

// ListComments returns the comment tree of ?post_id=, or the caller's own
// comments as a flat list when the parameter is absent.
func (h *CommentHandler) ListComments(c echo.Context) error {
	viewer := middleware.UserFrom(c)
	if raw := c.QueryParam("post_id"); raw != "" {
		postID, err := uuid.Parse(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid post_id")
		}
		tree, err := h.comments.ListComments(viewer, postID)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, tree)
	}
	comments, err := h.comments.ListOwnComments(viewer)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, comments)
}

// UpdateComment edits the content of the caller's own comment.
func (h *CommentHandler) UpdateComment(c echo.Context) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}

	var req models.UpdateCommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	comment, err := h.comments.UpdateComment(middleware.UserFrom(c), id, &req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, comment)
}

// DeleteComment always refuses.
func (h *CommentHandler) DeleteComment(c echo.Context) error {
	return apperrors.Unsupported("comments cannot be deleted")
}
