package feeds

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/fmedinajr1-ui/parlaysimulator-sub005/internal/models"
)

// LineStream maintains a WebSocket subscription to the line supplier's
// push feed and hands normalized prop lines to registered handlers.
type LineStream struct {
	url     string
	apiKey  string
	sport   string
	adapter *Adapter

	mu              sync.RWMutex
	conn            *websocket.Conn
	isConnected     bool
	handlers        []LineHandler
	lastMessageTime time.Time

	reconnectConfig ReconnectConfig
	logger          *logrus.Logger
}

// ReconnectConfig controls reconnection behavior
type ReconnectConfig struct {
	MaxRetries        int
	InitialBackoff    time.Duration
	MaxBackoff        time.Duration
	BackoffMultiplier float64
}

// DefaultReconnectConfig returns default reconnection configuration
func DefaultReconnectConfig() ReconnectConfig {
	return ReconnectConfig{
		MaxRetries:        10,
		InitialBackoff:    1 * time.Second,
		MaxBackoff:        30 * time.Second,
		BackoffMultiplier: 1.5,
	}
}

// LineHandler is called with each batch of normalized line updates.
type LineHandler func(lines []models.PropLine) error

// streamMessage represents one message from the push feed
type streamMessage struct {
	Op   string   `json:"op"`
	Data []Record `json:"data,omitempty"`
}

// NewLineStream creates a new line stream subscriber
func NewLineStream(url, apiKey, sport string, adapter *Adapter, reconnect ReconnectConfig, logger *logrus.Logger) *LineStream {
	if reconnect.MaxRetries == 0 {
		reconnect = DefaultReconnectConfig()
	}
	return &LineStream{
		url:             url,
		apiKey:          apiKey,
		sport:           sport,
		adapter:         adapter,
		handlers:        make([]LineHandler, 0),
		reconnectConfig: reconnect,
		logger:          logger,
	}
}

// AddHandler registers a line update handler
func (s *LineStream) AddHandler(handler LineHandler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handlers = append(s.handlers, handler)
}

// Run connects and consumes the stream until the context is canceled,
// reconnecting with exponential backoff on connection loss.
func (s *LineStream) Run(ctx context.Context) error {
	backoff := s.reconnectConfig.InitialBackoff
	attempts := 0

	for {
		err := s.connect(ctx)
		if err == nil {
			attempts = 0
			backoff = s.reconnectConfig.InitialBackoff
			err = s.readLoop(ctx)
		}

		if ctx.Err() != nil {
			return ctx.Err()
		}

		attempts++
		if attempts > s.reconnectConfig.MaxRetries {
			return fmt.Errorf("line stream gave up after %d reconnect attempts: %w", attempts-1, err)
		}

		StreamReconnectsTotal.Inc()
		s.logger.WithFields(logrus.Fields{
			"attempt": attempts,
			"backoff": backoff.String(),
			"error":   err.Error(),
		}).Warn("Line stream disconnected, reconnecting")

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}

		backoff = time.Duration(float64(backoff) * s.reconnectConfig.BackoffMultiplier)
		if backoff > s.reconnectConfig.MaxBackoff {
			backoff = s.reconnectConfig.MaxBackoff
		}
	}
}

// connect establishes the WebSocket connection and subscribes
func (s *LineStream) connect(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isConnected {
		return fmt.Errorf("already connected")
	}

	s.logger.WithField("url", s.url).Info("Connecting to line stream")

	dialer := websocket.Dialer{
		HandshakeTimeout: 10 * time.Second,
	}

	conn, _, err := dialer.DialContext(ctx, s.url, nil)
	if err != nil {
		return fmt.Errorf("failed to connect to line stream: %w", err)
	}

	sub := map[string]interface{}{
		"op":      "subscribe",
		"apiKey":  s.apiKey,
		"sport":   s.sport,
		"markets": []string{"player_props"},
	}
	if err := conn.WriteJSON(sub); err != nil {
		conn.Close()
		return fmt.Errorf("failed to subscribe: %w", err)
	}

	s.conn = conn
	s.isConnected = true
	s.lastMessageTime = time.Now()

	s.logger.Info("Connected to line stream")
	return nil
}

// readLoop reads messages until the connection drops or the context is
// canceled. A watcher closes the socket on cancel so the blocking read
// returns.
func (s *LineStream) readLoop(ctx context.Context) error {
	defer s.closeConn()

	s.mu.RLock()
	conn := s.conn
	s.mu.RUnlock()
	if conn == nil {
		return fmt.Errorf("not connected")
	}

	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			s.closeConn()
		case <-stop:
		}
	}()

	for {
		var msg streamMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("stream read failed: %w", err)
		}

		s.mu.Lock()
		s.lastMessageTime = time.Now()
		s.mu.Unlock()

		if err := s.dispatch(msg); err != nil {
			s.logger.WithError(err).Warn("Line stream handler error")
		}
	}
}

// dispatch normalizes a line batch and invokes registered handlers
func (s *LineStream) dispatch(msg streamMessage) error {
	if msg.Op != "lines" || len(msg.Data) == 0 {
		return nil
	}

	lines := make([]models.PropLine, 0, len(msg.Data))
	for _, rec := range msg.Data {
		line, err := s.adapter.PropLine(rec)
		if err != nil {
			StreamLinesTotal.WithLabelValues("malformed").Inc()
			s.logger.WithError(err).Debug("Skipping malformed stream record")
			continue
		}
		if line.Sport == "" {
			line.Sport = s.sport
		}
		lines = append(lines, *line)
		StreamLinesTotal.WithLabelValues("accepted").Inc()
	}

	if len(lines) == 0 {
		return nil
	}

	s.mu.RLock()
	handlers := s.handlers
	s.mu.RUnlock()

	for _, handler := range handlers {
		if err := handler(lines); err != nil {
			return err
		}
	}
	return nil
}

// IsConnected returns whether the stream is connected
func (s *LineStream) IsConnected() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isConnected
}

// LastMessageTime returns the time of the last received message
func (s *LineStream) LastMessageTime() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastMessageTime
}

func (s *LineStream) closeConn() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conn == nil {
		return
	}
	s.isConnected = false
	s.conn.Close()
	s.conn = nil
}

// Close tears down the connection
func (s *LineStream) Close() error {
	s.closeConn()
	return nil
}
