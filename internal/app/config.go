package app

import (
	"time"

	"github.com/Shaik-Faizan-Ahmed/genai-media-verifier/internal/client"
)

// Config contains the runtime configuration for the analysis orchestrator
// and the components it wires together.
type Config struct {
	// Client configures the submission client (base URL, timeout).
	Client client.Config

	// LiveBackend names the progress backend used for deep mode: "sse"
	// (default) or "websocket".
	LiveBackend string

	// SimulatedInterval overrides the quick-path message cadence; 0 keeps
	// the default. Tests shrink this.
	SimulatedInterval time.Duration

	// HistoryPath is the sqlite file for the completed-analysis history.
	// Empty disables persistence.
	HistoryPath string
}

// DefaultConfig returns a Config populated with sensible development defaults.
func DefaultConfig() *Config {
	return &Config{
		Client:      client.DefaultConfig(),
		LiveBackend: "sse",
	}
}
