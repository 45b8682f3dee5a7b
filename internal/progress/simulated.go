package progress

import (
	"context"
	"sync"
	"time"

	"github.com/Shaik-Faizan-Ahmed/genai-media-verifier/internal/analysis"
	"github.com/Shaik-Faizan-Ahmed/genai-media-verifier/internal/logging"
)

// step is one entry of the simulated sequence: a synthetic message plus a
// hand-assigned percentage.
type step struct {
	message    string
	percentage int
}

// The quick path gets no server push, so the channel replays a fixed
// sequence on a timer to keep feedback moving while the single synchronous
// request is in flight. Only the second step depends on the media kind.
var imageSteps = []step{
	{"Uploading file...", 5},
	{"Processing image...", 20},
	{"Analyzing neural patterns...", 40},
	{"Checking frequency domain...", 55},
	{"Scanning facial landmarks...", 70},
	{"Examining metadata...", 85},
	{"Generating report...", 95},
}

var videoSteps = []step{
	{"Uploading file...", 5},
	{"Extracting frames...", 20},
	{"Analyzing neural patterns...", 40},
	{"Checking frequency domain...", 55},
	{"Scanning facial landmarks...", 70},
	{"Examining metadata...", 85},
	{"Generating report...", 95},
}

// SimulatedChannel emits the predetermined sequence for cfg.MediaKind at a
// fixed interval, then stops. It stands in for a live stream on the quick
// path.
type SimulatedChannel struct {
	cfg    Config
	logger logging.Logger

	closeOnce sync.Once
	cancel    context.CancelFunc
}

// NewSimulatedChannel creates a simulated channel. cfg.Interval of 0 selects
// DefaultInterval; tests shrink it.
func NewSimulatedChannel(cfg Config, logger logging.Logger) *SimulatedChannel {
	return &SimulatedChannel{
		cfg:    cfg,
		logger: logging.OrNop(logger).With(logging.Field{Key: "component", Value: "progress-sim"}),
	}
}

// Open starts the timer sequence. The returned channel closes after the last
// step or on Close, whichever comes first.
func (c *SimulatedChannel) Open(ctx context.Context) (<-chan Event, error) {
	seqCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel

	interval := c.cfg.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}

	steps := imageSteps
	if c.cfg.MediaKind == analysis.MediaVideo {
		steps = videoSteps
	}

	events := make(chan Event, len(steps))

	go func() {
		defer close(events)

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for i, s := range steps {
			select {
			case <-ticker.C:
			case <-seqCtx.Done():
				return
			}

			pct := s.percentage
			ev := Event{
				SessionID:  c.cfg.SessionID,
				Seq:        i,
				RawMessage: s.message,
				Percentage: &pct,
			}
			select {
			case events <- ev:
			case <-seqCtx.Done():
				return
			}
		}
		c.logger.Debug("simulated sequence exhausted")
	}()

	return events, nil
}

// Close stops the sequence. Idempotent.
func (c *SimulatedChannel) Close() error {
	c.closeOnce.Do(func() {
		if c.cancel != nil {
			c.cancel()
		}
		c.logger.Debug("simulated channel closed")
	})
	return nil
}
