package progress

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"sync"

	"github.com/Shaik-Faizan-Ahmed/genai-media-verifier/internal/logging"
)

// frame is the wire payload of one server-push progress frame. Unrecognized
// fields are ignored; a frame without a message is dropped.
type frame struct {
	Message string `json:"message"`
}

// SSEChannel consumes a text/event-stream progress endpoint. Transport
// errors and malformed frames are logged and swallowed: the stream ends, the
// session does not.
type SSEChannel struct {
	cfg    Config
	logger logging.Logger
	client *http.Client

	closeOnce sync.Once
	cancel    context.CancelFunc
}

// NewSSEChannel creates a channel reading cfg.StreamURL.
func NewSSEChannel(cfg Config, logger logging.Logger) *SSEChannel {
	return &SSEChannel{
		cfg:    cfg,
		logger: logging.OrNop(logger).With(logging.Field{Key: "component", Value: "progress-sse"}),
		// No overall timeout: the stream stays open for the whole
		// analysis. Cancellation comes from the context.
		client: &http.Client{Timeout: 0},
	}
}

// Open starts the stream. The returned channel is closed when the stream
// ends for any reason. Open itself never fails: connection errors surface
// only as an immediately-closed event channel.
func (c *SSEChannel) Open(ctx context.Context) (<-chan Event, error) {
	streamCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel

	events := make(chan Event, 16)

	go func() {
		defer close(events)

		req, err := http.NewRequestWithContext(streamCtx, http.MethodGet, c.cfg.StreamURL, nil)
		if err != nil {
			c.logger.Warn("building stream request", logging.Field{Key: "error", Value: err.Error()})
			return
		}
		req.Header.Set("Accept", "text/event-stream")

		resp, err := c.client.Do(req)
		if err != nil {
			c.logger.Warn("opening progress stream", logging.Field{Key: "error", Value: err.Error()})
			return
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			c.logger.Warn("progress stream refused", logging.Field{Key: "status", Value: resp.StatusCode})
			return
		}

		c.logger.Debug("progress stream open", logging.Field{Key: "url", Value: c.cfg.StreamURL})

		seq := 0
		scanner := bufio.NewScanner(resp.Body)
		for scanner.Scan() {
			payload, ok := strings.CutPrefix(scanner.Text(), "data:")
			if !ok {
				continue // comment, event name or frame separator
			}

			var f frame
			if err := json.Unmarshal([]byte(strings.TrimSpace(payload)), &f); err != nil {
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
		if err := scanner.Err(); err != nil && streamCtx.Err() == nil {
			// The stream dropped mid-session. Not a session failure.
			c.logger.Warn("progress stream closed", logging.Field{Key: "error", Value: err.Error()})
		}
	}()

	return events, nil
}

// Close tears down the stream. Idempotent.
func (c *SSEChannel) Close() error {
	c.closeOnce.Do(func() {
		if c.cancel != nil {
			c.cancel()
		}
		c.logger.Debug("sse channel closed")
	})
	return nil
}
