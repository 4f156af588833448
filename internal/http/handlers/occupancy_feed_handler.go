package handlers

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"parkdeck/internal/ws"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:   1024,
	WriteBufferSize:  1024,
	HandshakeTimeout: 10 * time.Second,
	// Dashboard clients are same-origin or trusted internal tools.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// NewOccupancyFeedHandler returns GET /ws/occupancy: upgrades the
// connection and streams check-in/check-out events until the client
// disconnects.
func NewOccupancyFeedHandler(hub *ws.Hub, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logger.Warn("websocket upgrade failed", zap.Error(err))
			return
		}

		hub.Add(conn)
		logger.Debug("occupancy feed client connected", zap.String("remote", conn.RemoteAddr().String()))

		// Clients only listen; the read loop exists to notice the close.
		go func() {
			defer func() {
				hub.Remove(conn)
				conn.Close()
			}()
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()
	}
}
