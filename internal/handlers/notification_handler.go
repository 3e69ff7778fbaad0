package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/socialite-app/backend/internal/apperrors"
	"github.com/socialite-app/backend/internal/middleware"
	"github.com/socialite-app/backend/internal/services"
)

// NotificationHandler handles HTTP requests for the notification inbox.
type NotificationHandler struct {
	notifications *services.NotificationService
}

// NewNotificationHandler creates a new NotificationHandler.
func NewNotificationHandler(notifications *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{notifications: notifications}
}

// RegisterRoutes registers notification routes. POST and DELETE answer
// explicitly: notifications are created only by the delivery pipeline and
// are never removed, only marked read.
func (h *NotificationHandler) RegisterRoutes(protected *echo.Group) {
	protected.GET("/notifications", h.List)
	protected.GET("/notifications/unread-count", h.UnreadCount)
	protected.PUT("/notifications/:id/read", h.MarkRead)
	protected.PUT("/notifications/read-all", h.MarkAllRead)
	protected.POST("/notifications", h.Refuse)
	protected.DELETE("/notifications/:id", h.Refuse)
}

// List returns the caller's notifications, unread first, newest first.
func (h *NotificationHandler) List(c echo.Context) error {
	offset, limit := pagination(c)
	notifications, total, err := h.notifications.List(middleware.UserFrom(c).ID, offset, limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"total":   total,
		"results": notifications,
	})
}

// UnreadCount returns how many notifications are unread.
func (h *NotificationHandler) UnreadCount(c echo.Context) error {
	count, err := h.notifications.UnreadCount(middleware.UserFrom(c).ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]int64{"unread_count": count})
}

// MarkRead marks one of the caller's notifications as read.
func (h *NotificationHandler) MarkRead(c echo.Context) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.notifications.MarkRead(id, middleware.UserFrom(c).ID); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// MarkAllRead marks every unread notification of the caller as read.
func (h *NotificationHandler) MarkAllRead(c echo.Context) error {
	if err := h.notifications.MarkAllRead(middleware.UserFrom(c).ID); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Refuse always refuses.
func (h *NotificationHandler) Refuse(c echo.Context) error {
	return apperrors.Unsupported("notifications are read-only")
}
