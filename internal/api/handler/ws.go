package handler

import (
	"net/http"

	"collabdocs/backend/internal/dochub"
	"collabdocs/backend/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// ServeWebSocket upgrades the HTTP connection and registers it with the hub.
// The connection itself is unauthenticated; credentials are checked per-room
// when the client sends a join event.
func (h *Handler) ServeWebSocket(c *gin.Context) {
	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     h.checkOrigin,
	}
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to upgrade connection"})
		return
	}

	wsConnections.Inc()

	client := &dochub.WebSocketClient{
		ConnID:  uuid.New().String(),
		Conn:    conn,
		Hub:     h.Hub,
		Send:    make(chan models.ServerEvent, 256),
		OnClose: wsConnections.Dec,
	}

	h.Hub.RegisterCh <- client
	client.Run()
}

// checkOrigin admits non-browser clients, which send no Origin header, and
// the configured frontend origin.
func (h *Handler) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	return origin == "" || origin == h.AllowedOrigin
}
