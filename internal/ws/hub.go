package ws

import (
	"context"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Event is one occupancy change pushed to dashboard clients.
type Event struct {
	Type           string    `json:"event"`
	SessionID      int64     `json:"session_id"`
	SpotIdentifier string    `json:"spot_identifier"`
	LicensePlate   string    `json:"license_plate"`
	Timestamp      time.Time `json:"timestamp"`
}

// Event types.
const (
	EventCheckIn  = "check_in"
	EventCheckOut = "check_out"
)

// Hub fans occupancy events out to connected websocket clients. Clients
// that fail a write are dropped.
type Hub struct {
	mu           sync.Mutex
	conns        map[*websocket.Conn]struct{}
	pingInterval time.Duration
	logger       *zap.Logger
}

// NewHub builds the hub.
func NewHub(pingInterval time.Duration, logger *zap.Logger) *Hub {
	if pingInterval <= 0 {
		pingInterval = 30 * time.Second
	}
	return &Hub{
		conns:        make(map[*websocket.Conn]struct{}),
		pingInterval: pingInterval,
		logger:       logger,
	}
}

// Add registers a client connection.
func (h *Hub) Add(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.conns[conn] = struct{}{}
}

// Remove drops a client connection.
func (h *Hub) Remove(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.conns, conn)
}

// Broadcast sends the event to every client, dropping any that error.
func (h *Hub) Broadcast(event Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.conns {
		if err := conn.WriteJSON(event); err != nil {
			h.logger.Warn("dropping occupancy feed client", zap.Error(err))
			conn.Close()
			delete(h.conns, conn)
		}
	}
}

// Run pings clients on an interval so dead connections are reaped. It
// blocks until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	ticker := time.NewTicker(h.pingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return
		case <-ticker.C:
			h.ping()
		}
	}
}

func (h *Hub) ping() {
	h.mu.Lock()
	defer h.mu.Unlock()
	deadline := time.Now().Add(5 * time.Second)
	for conn := range h.conns {
		if err := conn.WriteControl(websocket.PingMessage, nil, deadline); err != nil {
			conn.Close()
			delete(h.conns, conn)
		}
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.conns {
		conn.Close()
		delete(h.conns, conn)
	}
}
