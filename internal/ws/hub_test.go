package ws

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

func dialHub(t *testing.T, hub *Hub) *websocket.Conn {
	t.Helper()

	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade: %v", err)
			return
		}
		hub.Add(conn)
	}))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	client, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { client.Close() })
	return client
}

func TestHubBroadcast(t *testing.T) {
	hub := NewHub(time.Minute, zap.NewNop())
	client := dialHub(t, hub)

	sent := Event{
		Type:           EventCheckIn,
		SessionID:      1,
		SpotIdentifier: "F1-A-01",
		LicensePlate:   "ABC-123",
		Timestamp:      time.Date(2025, time.March, 10, 9, 0, 0, 0, time.UTC),
	}
	hub.Broadcast(sent)

	client.SetReadDeadline(time.Now().Add(2 * time.Second))
	var got Event
	if err := client.ReadJSON(&got); err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}

	if got.Type != EventCheckIn {
		t.Errorf("event = %q, want %q", got.Type, EventCheckIn)
	}
	if got.SpotIdentifier != "F1-A-01" || got.LicensePlate != "ABC-123" {
		t.Errorf("payload mismatch: %+v", got)
	}
	if !got.Timestamp.Equal(sent.Timestamp) {
		t.Errorf("timestamp = %v, want %v", got.Timestamp, sent.Timestamp)
	}
}

func TestHubDropsClosedClients(t *testing.T) {
	hub := NewHub(time.Minute, zap.NewNop())
	client := dialHub(t, hub)

	client.Close()

	// The write failure may take a broadcast or two to surface through
	// the closed TCP connection; the hub must shed the client rather
	// than error out.
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		hub.Broadcast(Event{Type: EventCheckOut, SessionID: 1})
		hub.mu.Lock()
		n := len(hub.conns)
		hub.mu.Unlock()
		if n == 0 {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Error("hub never dropped the closed connection")
}
