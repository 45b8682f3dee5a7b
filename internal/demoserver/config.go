package demoserver

import "time"

// Config controls the demo analysis server.
type Config struct {
	// ListenAddr is the HTTP listen address, e.g. ":8000".
	ListenAddr string

	// StageDelay is the pause between streamed pipeline messages on the
	// comprehensive path. Tests shrink it to keep runs fast.
	StageDelay time.Duration

	// Seed makes the synthetic scoring deterministic. 0 means derive
	// scores from the uploaded file name only.
	Seed int64
}

// DefaultConfig returns development defaults matching the real backend's
// listen port.
func DefaultConfig() Config {
	return Config{
		ListenAddr: ":8000",
		StageDelay: 400 * time.Millisecond,
	}
}
