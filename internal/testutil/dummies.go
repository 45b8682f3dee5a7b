// Package testutil provides small stub implementations shared by tests.
package testutil

import (
	"sync"

	"github.com/Shaik-Faizan-Ahmed/genai-media-verifier/internal/logging"
)

// LogEntry is one captured log call.
type LogEntry struct {
	Level  string
	Msg    string
	Fields []logging.Field
}

// DummyLogger implements logging.Logger and records every call. Safe for
// concurrent use.
type DummyLogger struct {
	mu      sync.Mutex
	entries []LogEntry
}

func (d *DummyLogger) record(level, msg string, fields []logging.Field) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.entries = append(d.entries, LogEntry{Level: level, Msg: msg, Fields: fields})
}

func (d *DummyLogger) Debug(msg string, fields ...logging.Field) { d.record("debug", msg, fields) }
func (d *DummyLogger) Info(msg string, fields ...logging.Field)  { d.record("info", msg, fields) }
func (d *DummyLogger) Warn(msg string, fields ...logging.Field)  { d.record("warn", msg, fields) }
func (d *DummyLogger) Error(msg string, fields ...logging.Field) { d.record("error", msg, fields) }

func (d *DummyLogger) With(fields ...logging.Field) logging.Logger { return d }

// Entries returns a copy of everything logged so far.
func (d *DummyLogger) Entries() []LogEntry {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]LogEntry, len(d.entries))
	copy(out, d.entries)
	return out
}

// HasMessage reports whether any captured entry has the given message.
func (d *DummyLogger) HasMessage(msg string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, e := range d.entries {
		if e.Msg == msg {
			return true
		}
	}
	return false
}
