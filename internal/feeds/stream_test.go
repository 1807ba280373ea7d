package feeds

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/fmedinajr1-ui/parlaysimulator-sub005/internal/models"
)

// TestLineStreamDispatch tests that malformed records are dropped and
// valid ones reach handlers
func TestLineStreamDispatch(t *testing.T) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	stream := NewLineStream("ws://unused", "", "nba", NewAdapter(), DefaultReconnectConfig(), logger)

	var got []models.PropLine
	stream.AddHandler(func(lines []models.PropLine) error {
		got = lines
		return nil
	})

	msg := streamMessage{
		Op: "lines",
		Data: []Record{
			{"source": "draftkings", "player": "Nikola Jokic", "stat": "points", "side": "over", "line": 26.5, "date": "2025-01-15"},
			{"source": "draftkings", "player": "No Side Given", "stat": "points", "line": 22.5, "date": "2025-01-15"},
		},
	}

	if err := stream.dispatch(msg); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("Expected 1 accepted line, got %d", len(got))
	}
	if got[0].Sport != "nba" {
		t.Errorf("Expected sport defaulted to nba, got %s", got[0].Sport)
	}
}

// TestLineStreamIgnoresHeartbeats tests that non-line messages are no-ops
func TestLineStreamIgnoresHeartbeats(t *testing.T) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	stream := NewLineStream("ws://unused", "", "nba", NewAdapter(), DefaultReconnectConfig(), logger)

	called := false
	stream.AddHandler(func(lines []models.PropLine) error {
		called = true
		return nil
	})

	if err := stream.dispatch(streamMessage{Op: "heartbeat"}); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if called {
		t.Error("Expected handler not to run for heartbeat")
	}
}

// TestLineStreamReceive tests an end-to-end subscribe and receive cycle
func TestLineStreamReceive(t *testing.T) {
	upgrader := websocket.Upgrader{}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("Upgrade failed: %v", err)
			return
		}
		defer conn.Close()

		// Expect the subscribe message first
		var sub map[string]any
		if err := conn.ReadJSON(&sub); err != nil {
			t.Errorf("Failed to read subscribe: %v", err)
			return
		}
		if sub["op"] != "subscribe" || sub["sport"] != "nba" {
			t.Errorf("Unexpected subscribe message: %v", sub)
		}

		conn.WriteJSON(map[string]any{
			"op": "lines",
			"data": []map[string]any{
				{"source": "draftkings", "player": "Nikola Jokic", "stat": "points", "side": "over", "line": 26.5, "date": "2025-01-15"},
			},
		})

		// Hold the connection open until the client goes away
		conn.ReadMessage()
	}))
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http")

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	stream := NewLineStream(wsURL, "key", "nba", NewAdapter(), ReconnectConfig{
		MaxRetries:        1,
		InitialBackoff:    10 * time.Millisecond,
		MaxBackoff:        20 * time.Millisecond,
		BackoffMultiplier: 1.5,
	}, logger)

	received := make(chan int, 1)
	stream.AddHandler(func(lines []models.PropLine) error {
		received <- len(lines)
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- stream.Run(ctx) }()

	select {
	case n := <-received:
		if n != 1 {
			t.Errorf("Expected 1 line, got %d", n)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("Timed out waiting for line update")
	}

	cancel()
	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("Stream did not shut down on context cancel")
	}
}
