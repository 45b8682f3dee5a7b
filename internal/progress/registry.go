package progress

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/Shaik-Faizan-Ahmed/genai-media-verifier/internal/logging"
)

// BackendConstructor constructs a Channel given the config and logger.
type BackendConstructor func(cfg Config, logger logging.Logger) (Channel, error)

var (
	mu       sync.RWMutex
	registry = map[string]BackendConstructor{}
)

// Register registers a named backend constructor. Name is lower-cased
// internally. Registering the same name again overwrites the previous
// constructor.
func Register(name string, ctor BackendConstructor) {
	if name == "" || ctor == nil {
		return
	}
	mu.Lock()
	defer mu.Unlock()
	registry[strings.ToLower(name)] = ctor
}

// New constructs the configured Channel backend. It returns an error if the
// named backend has not been registered.
func New(cfg Config, logger logging.Logger) (Channel, error) {
	backend := strings.ToLower(strings.TrimSpace(cfg.Backend))
	if backend == "" {
		backend = "sse"
	}

	mu.RLock()
	ctor, ok := registry[backend]
	mu.RUnlock()
	if !ok || ctor == nil {
		return nil, fmt.Errorf("progress backend %q not registered: available backends=%v", backend, ListBackends())
	}

	ch, err := ctor(cfg, logging.OrNop(logger))
	if err != nil {
		return nil, fmt.Errorf("failed to construct progress backend %q: %w", backend, err)
	}
	if ch == nil {
		return nil, errors.New("progress backend constructor returned nil")
	}
	return ch, nil
}

// ListBackends returns the list of registered backend names.
func ListBackends() []string {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]string, 0, len(registry))
	for k := range registry {
		out = append(out, k)
	}
	return out
}

// RegisterDefaultBackends registers the sse, websocket and simulated
// backends. Call this from init() or early in main() to make backends
// available to New.
func RegisterDefaultBackends() {
	Register("sse", func(cfg Config, logger logging.Logger) (Channel, error) {
		return NewSSEChannel(cfg, logger), nil
	})
	Register("websocket", func(cfg Config, logger logging.Logger) (Channel, error) {
		return NewWebsocketChannel(cfg, logger), nil
	})
	Register("simulated", func(cfg Config, logger logging.Logger) (Channel, error) {
		return NewSimulatedChannel(cfg, logger), nil
	})
}
