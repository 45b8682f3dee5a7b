package progress

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/Shaik-Faizan-Ahmed/genai-media-verifier/internal/logging"
)

// WebsocketChannel consumes progress frames over a websocket. The frame
// contract matches the SSE backend: JSON objects with a "message" field,
// anything else dropped. Used against backends that expose their push stream
// as a ws:// endpoint instead of text/event-stream.
type WebsocketChannel struct {
	cfg    Config
	logger logging.Logger

	closeOnce sync.Once
	cancel    context.CancelFunc

	connMu sync.Mutex
	conn   *websocket.Conn
}

// NewWebsocketChannel creates a channel dialing cfg.StreamURL.
func NewWebsocketChannel(cfg Config, logger logging.Logger) *WebsocketChannel {
	return &WebsocketChannel{
		cfg:    cfg,
		logger: logging.OrNop(logger).With(logging.Field{Key: "component", Value: "progress-ws"}),
	}
}

// Open dials the stream and starts the read loop. As with the SSE backend,
// connection failures end the stream silently rather than failing Open.
func (c *WebsocketChannel) Open(ctx context.Context) (<-chan Event, error) {
	streamCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel

	events := make(chan Event, 16)

	go func() {
		defer close(events)

		conn, _, err := websocket.DefaultDialer.DialContext(streamCtx, c.cfg.StreamURL, nil)
		if err != nil {
			c.logger.Warn("dialing progress websocket", logging.Field{Key: "error", Value: err.Error()})
			return
		}
		c.connMu.Lock()
		c.conn = conn
		c.connMu.Unlock()
		defer conn.Close()

		// Unblock ReadMessage when the channel is closed mid-stream.
		go func() {
			<-streamCtx.Done()
			conn.Close()
		}()

		c.logger.Debug("progress websocket open", logging.Field{Key: "url", Value: c.cfg.StreamURL})

		seq := 0
		for {
			_, payload, err := conn.ReadMessage()
			if err != nil {
				if streamCtx.Err() == nil {
					c.logger.Warn("progress websocket closed", logging.Field{Key: "error", Value: err.Error()})
				}
				return
			}

			var f frame
			if err := json.Unmarshal(payload, &f); err != nil {
				c.logger.Debug("dropping malformed frame", logging.Field{Key: "error", Value: err.Error()})
				continue
			}
			if f.Message == "" {
				continue
			}

			ev := Event{
				SessionID:  c.cfg.SessionID,
				Seq:        seq,
				RawMessage: f.Message,
			}
			seq++

			select {
			case events <- ev:
			case <-streamCtx.Done():
				return
			}
		}
	}()

	return events, nil
}

// Close tears down the connection and stops delivery. Idempotent.
func (c *WebsocketChannel) Close() error {
	c.closeOnce.Do(func() {
		if c.cancel != nil {
			c.cancel()
		}
		c.connMu.Lock()
		if c.conn != nil {
			c.conn.Close()
		}
		c.connMu.Unlock()
		c.logger.Debug("websocket channel closed")
	})
	return nil
}
