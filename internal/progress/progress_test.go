package progress

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/Shaik-Faizan-Ahmed/genai-media-verifier/internal/analysis"
	"github.com/Shaik-Faizan-Ahmed/genai-media-verifier/internal/logging"
)

func collect(t *testing.T, events <-chan Event, timeout time.Duration) []Event {
	t.Helper()
	var out []Event
	deadline := time.After(timeout)
	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return out
			}
			out = append(out, ev)
		case <-deadline:
			t.Fatalf("timed out waiting for events, got %d so far", len(out))
		}
	}
}

// ─── Registry ──────────────────────────────────────────────────────────

func TestNew_UnknownBackend(t *testing.T) {
	RegisterDefaultBackends()

	_, err := New(Config{Backend: "carrier-pigeon"}, logging.NopLogger{})
	if err == nil {
		t.Fatal("expected error for unregistered backend")
	}
	if !strings.Contains(err.Error(), "carrier-pigeon") {
		t.Errorf("error should name the backend, got %v", err)
	}
}

func TestNew_DefaultBackends(t *testing.T) {
	RegisterDefaultBackends()

	for _, name := range []string{"sse", "websocket", "simulated", "SSE", " Simulated "} {
		ch, err := New(Config{Backend: name}, nil)
		if err != nil {
			t.Errorf("backend %q: %v", name, err)
			continue
		}
		if ch == nil {
			t.Errorf("backend %q: nil channel", name)
		}
	}
}

func TestNew_EmptyBackendSelectsSSE(t *testing.T) {
	RegisterDefaultBackends()

	ch, err := New(Config{}, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, ok := ch.(*SSEChannel); !ok {
		t.Errorf("expected *SSEChannel, got %T", ch)
	}
}

// ─── Simulated channel ─────────────────────────────────────────────────

func TestSimulated_EmitsFullSequence(t *testing.T) {
	t.Parallel()

	ch := NewSimulatedChannel(Config{
		SessionID: "s1",
		MediaKind: analysis.MediaVideo,
		Interval:  2 * time.Millisecond,
	}, nil)
	events, err := ch.Open(context.Background())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	got := collect(t, events, 2*time.Second)
	if len(got) != 7 {
		t.Fatalf("expected 7 events, got %d", len(got))
	}
	if got[1].RawMessage != "Extracting frames..." {
		t.Errorf("video sequence should extract frames, got %q", got[1].RawMessage)
	}
	for i, ev := range got {
		if ev.Seq != i {
			t.Errorf("event %d: seq %d", i, ev.Seq)
		}
		if ev.SessionID != "s1" {
			t.Errorf("event %d: session %q", i, ev.SessionID)
		}
		if ev.Percentage == nil {
			t.Errorf("event %d: simulated events must carry a percentage", i)
		}
	}
	// Hand-assigned percentages are strictly increasing.
	for i := 1; i < len(got); i++ {
		if *got[i].Percentage <= *got[i-1].Percentage {
			t.Errorf("percentage regressed at %d: %d -> %d", i, *got[i-1].Percentage, *got[i].Percentage)
		}
	}
}

func TestSimulated_ImageSequence(t *testing.T) {
	t.Parallel()

	ch := NewSimulatedChannel(Config{
		MediaKind: analysis.MediaImage,
		Interval:  2 * time.Millisecond,
	}, nil)
	events, _ := ch.Open(context.Background())

	got := collect(t, events, 2*time.Second)
	if len(got) != 7 {
		t.Fatalf("expected 7 events, got %d", len(got))
	}
	if got[1].RawMessage != "Processing image..." {
		t.Errorf("image sequence should process the image, got %q", got[1].RawMessage)
	}
}

func TestSimulated_CloseStopsEmission(t *testing.T) {
	t.Parallel()

	ch := NewSimulatedChannel(Config{
		MediaKind: analysis.MediaImage,
		Interval:  20 * time.Millisecond,
	}, nil)
	events, _ := ch.Open(context.Background())

	// Take one event, then close.
	select {
	case <-events:
	case <-time.After(2 * time.Second):
		t.Fatal("no first event")
	}
	if err := ch.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	got := collect(t, events, 2*time.Second)
	if len(got) >= 6 {
		t.Errorf("close should stop the sequence early, got %d more events", len(got))
	}

	// Close is idempotent.
	if err := ch.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}
	if err := ch.Close(); err != nil {
		t.Errorf("third Close: %v", err)
	}
}

// ─── SSE channel ───────────────────────────────────────────────────────

func sseTestServer(t *testing.T, frames []string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		fl, ok := w.(http.Flusher)
		if !ok {
			t.Error("response writer is not a flusher")
			return
		}
		for _, f := range frames {
			fmt.Fprintf(w, "data: %s\n\n", f)
			fl.Flush()
		}
	}))
}

func TestSSE_DeliversFrames(t *testing.T) {
	t.Parallel()

	srv := sseTestServer(t, []string{
		`{"message":"LAYER 1: Analyzing video metadata..."}`,
		`{"message":"LAYER 2A: Extracting key frames from video..."}`,
		`{"message":"Processed 10/50 frames"}`,
	})
	defer srv.Close()

	ch := NewSSEChannel(Config{SessionID: "sess", StreamURL: srv.URL}, nil)
	events, err := ch.Open(context.Background())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer ch.Close()

	got := collect(t, events, 2*time.Second)
	if len(got) != 3 {
		t.Fatalf("expected 3 events, got %d", len(got))
	}
	if got[2].RawMessage != "Processed 10/50 frames" {
		t.Errorf("unexpected third message: %q", got[2].RawMessage)
	}
	for i, ev := range got {
		if ev.Seq != i || ev.SessionID != "sess" {
			t.Errorf("event %d: seq=%d session=%q", i, ev.Seq, ev.SessionID)
		}
		if ev.Percentage != nil {
			t.Errorf("event %d: live events carry no percentage", i)
		}
	}
}

func TestSSE_DropsMalformedFrames(t *testing.T) {
	t.Parallel()

	srv := sseTestServer(t, []string{
		`{"message":"good one"}`,
		`{not json`,
		`{"other_field":"no message key"}`,
		`{"message":"good two","extra":42}`,
	})
	defer srv.Close()

	ch := NewSSEChannel(Config{StreamURL: srv.URL}, nil)
	events, _ := ch.Open(context.Background())
	defer ch.Close()

	got := collect(t, events, 2*time.Second)
	if len(got) != 2 {
		t.Fatalf("expected 2 surviving events, got %d", len(got))
	}
	if got[0].RawMessage != "good one" || got[1].RawMessage != "good two" {
		t.Errorf("unexpected messages: %q, %q", got[0].RawMessage, got[1].RawMessage)
	}
}

func TestSSE_ConnectionRefusedEndsStreamSilently(t *testing.T) {
	t.Parallel()

	// Nothing listens here; Open must still succeed and the event channel
	// must simply close.
	ch := NewSSEChannel(Config{StreamURL: "http://127.0.0.1:1/analyze/progress"}, nil)
	events, err := ch.Open(context.Background())
	if err != nil {
		t.Fatalf("Open must not fail on connection errors: %v", err)
	}
	got := collect(t, events, 2*time.Second)
	if len(got) != 0 {
		t.Errorf("expected no events, got %d", len(got))
	}
}

func TestSSE_NonOKStatusEndsStream(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no stream for you", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	ch := NewSSEChannel(Config{StreamURL: srv.URL}, nil)
	events, _ := ch.Open(context.Background())
	if got := collect(t, events, 2*time.Second); len(got) != 0 {
		t.Errorf("expected no events, got %d", len(got))
	}
}

// ─── Websocket channel ─────────────────────────────────────────────────

func wsTestServer(t *testing.T, payloads []string) *httptest.Server {
	t.Helper()
	upgrader := websocket.Upgrader{}
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade: %v", err)
			return
		}
		defer conn.Close()
		for _, p := range payloads {
			if err := conn.WriteMessage(websocket.TextMessage, []byte(p)); err != nil {
				return
			}
		}
		// Normal close so the client read loop ends cleanly.
		_ = conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	}))
}

func TestWebsocket_DeliversFrames(t *testing.T) {
	t.Parallel()

	srv := wsTestServer(t, []string{
		`{"message":"one"}`,
		`not json at all`,
		`{"message":"two"}`,
	})
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	ch := NewWebsocketChannel(Config{SessionID: "w", StreamURL: url}, nil)
	events, err := ch.Open(context.Background())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer ch.Close()

	got := collect(t, events, 2*time.Second)
	if len(got) != 2 {
		t.Fatalf("expected 2 events, got %d", len(got))
	}
	if got[0].RawMessage != "one" || got[1].RawMessage != "two" {
		t.Errorf("unexpected messages: %+v", got)
	}
}

func TestWebsocket_CloseIdempotent(t *testing.T) {
	t.Parallel()

	srv := wsTestServer(t, nil)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	ch := NewWebsocketChannel(Config{StreamURL: url}, nil)
	events, _ := ch.Open(context.Background())

	for i := 0; i < 3; i++ {
		if err := ch.Close(); err != nil {
			t.Errorf("Close %d: %v", i, err)
		}
	}
	collect(t, events, 2*time.Second) // channel must close
}
