package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/socialite-app/backend/internal/middleware"
	"github.com/socialite-app/backend/internal/services"
	"github.com/socialite-app/backend/pkg/pubsub"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Browser clients connect cross-origin from the frontend host; auth is
	// the bearer token, not the origin.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// WebsocketHandler streams notifications to a connected client. On connect
// it sends the current unread batch, then relays live pushes from the bus
// until the client goes away.
type WebsocketHandler struct {
	notifications *services.NotificationService
	bus           pubsub.Bus
	logger        *zap.Logger
}

// NewWebsocketHandler creates a new WebsocketHandler.
func NewWebsocketHandler(notifications *services.NotificationService, bus pubsub.Bus, logger *zap.Logger) *WebsocketHandler {
	return &WebsocketHandler{notifications: notifications, bus: bus, logger: logger}
}

// RegisterRoutes registers the websocket endpoint.
func (h *WebsocketHandler) RegisterRoutes(protected *echo.Group) {
	protected.GET("/ws/notifications", h.Stream)
}

// Stream upgrades the connection and pushes notifications until the peer
// disconnects.
func (h *WebsocketHandler) Stream(c echo.Context) error {
	viewer := middleware.UserFrom(c)

	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}
	defer conn.Close()

	ctx := c.Request().Context()

	unread, err := h.notifications.ListUnread(viewer.ID)
	if err != nil {
		h.logger.Error("failed to load unread notifications", zap.Error(err))
		return nil
	}
	for _, n := range unread {
		payload, err := json.Marshal(n)
		if err != nil {
			continue
		}
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			return nil
		}
	}

	messages, cancel, err := h.bus.Subscribe(ctx, pubsub.ChannelFor(viewer.ID.String()))
	if err != nil {
		h.logger.Error("failed to subscribe to notification channel", zap.Error(err))
		return nil
	}
	defer cancel()

	// Reader goroutine detects the peer closing; we never expect inbound
	// frames otherwise.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-closed:
			return nil
		case <-ctx.Done():
			return nil
		case payload, ok := <-messages:
			if !ok {
				return nil
			}
			if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return nil
			}
		}
	}
}
