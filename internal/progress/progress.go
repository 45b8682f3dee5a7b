// Package progress provides the progress channels for an analysis session:
// live server-push streams (SSE or websocket) for the comprehensive path and
// a timed simulated sequence for the quick path. Exactly one channel is
// active per session; the orchestrator owns its lifecycle.
package progress

import (
	"context"
	"time"

	"github.com/Shaik-Faizan-Ahmed/genai-media-verifier/internal/analysis"
)

// Event is one progress notification. Events are fire-and-forget telemetry:
// they never carry a terminal signal, completion is always driven by the
// submission response.
type Event struct {
	// SessionID identifies the session the producing channel was opened
	// for. The orchestrator drops events from stale sessions.
	SessionID string

	// Seq is the ordinal position of the event within its channel,
	// starting at 0.
	Seq int

	// RawMessage is the free-text progress line from the backend (or the
	// synthetic message for simulated channels).
	RawMessage string

	// Percentage is set only by the simulated channel, whose sequence
	// carries hand-assigned percentages. Live events leave it nil and the
	// consumer classifies the message instead.
	Percentage *int
}

// Channel is a cancellable source of progress events. Open starts delivery
// and returns a receive-only channel that is closed when the source is
// exhausted, fails, or is closed. Close is idempotent and safe to call on an
// already-closed channel; after Close no further events are delivered.
//
// A Channel never reports a session failure: transport errors end the event
// stream silently. The authoritative success/failure signal for the session
// is the submission response, not the stream.
type Channel interface {
	Open(ctx context.Context) (<-chan Event, error)
	Close() error
}

// Config carries the construction parameters for a progress channel backend.
type Config struct {
	// Backend names the registered backend ("sse", "websocket",
	// "simulated"). Empty selects "sse".
	Backend string

	// SessionID stamps every event produced by the channel.
	SessionID string

	// StreamURL is the server-push stream endpoint. Live backends only.
	StreamURL string

	// MediaKind selects the simulated message sequence. Simulated backend
	// only.
	MediaKind analysis.MediaKind

	// Interval is the simulated emission cadence; 0 means the default.
	Interval time.Duration
}

// DefaultInterval is the cadence of the simulated sequence.
const DefaultInterval = 1500 * time.Millisecond
