package app

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Shaik-Faizan-Ahmed/genai-media-verifier/internal/analysis"
	"github.com/Shaik-Faizan-Ahmed/genai-media-verifier/internal/demoserver"
	"github.com/Shaik-Faizan-Ahmed/genai-media-verifier/internal/testutil"
)

// newDemoBackend runs the full demo server so deep-mode sessions exercise a
// real streaming pipeline end to end.
func newDemoBackend(t *testing.T) *httptest.Server {
	t.Helper()
	cfg := demoserver.DefaultConfig()
	cfg.StageDelay = 25 * time.Millisecond
	srv := httptest.NewServer(demoserver.New(cfg, &testutil.DummyLogger{}))
	t.Cleanup(srv.Close)
	return srv
}

func runDeepVideoSession(t *testing.T, liveBackend string) {
	t.Helper()
	srv := newDemoBackend(t)

	cfg := DefaultConfig()
	cfg.Client.BaseURL = srv.URL
	cfg.LiveBackend = liveBackend
	o := NewOrchestrator(cfg, nil, nil, &testutil.DummyLogger{})
	t.Cleanup(o.Reset)

	if err := o.Select(testFile("clip.mp4", "video/mp4", 4*1024*1024)); err != nil {
		t.Fatalf("Select: %v", err)
	}
	events, err := o.Start(context.Background(), analysis.ModeDeep)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	got := drain(t, events)

	if gotState := o.State(); gotState != StateComplete {
		t.Fatalf("expected complete, got %s", gotState)
	}
	if o.Result() == nil {
		t.Fatal("expected a result")
	}
	if _, pct := o.Stage(); pct != 100 {
		t.Errorf("expected 100%%, got %d", pct)
	}

	// The live stream delivered pipeline messages while the submission was
	// in flight. The subscription may miss the first frame or two, but the
	// bulk of the fourteen-stage video pipeline must land in the log.
	log := o.ProgressLog()
	if len(log) < 5 {
		t.Fatalf("expected streamed pipeline messages in the log, got %d: %v", len(log), log)
	}
	for i, ev := range log {
		if ev.Seq != i {
			t.Errorf("log entry %d has seq %d", i, ev.Seq)
		}
	}
	var sawLayer bool
	for _, ev := range log {
		if strings.Contains(ev.RawMessage, "LAYER") {
			sawLayer = true
			break
		}
	}
	if !sawLayer {
		t.Errorf("expected raw pipeline messages preserved verbatim, log: %v", log)
	}

	// Progress events carry classified stage labels, not raw backend text.
	var sawClassified bool
	for _, ev := range got {
		if ev.Type != EventProgress {
			continue
		}
		switch ev.Stage {
		case "Analyzing audio", "Checking physics consistency", "Analyzing scene boundaries":
			sawClassified = true
		}
	}
	if !sawClassified {
		t.Errorf("expected classified mid-pipeline stages among events: %+v", got)
	}

	last := got[len(got)-1]
	if last.Type != EventState || last.State != StateComplete {
		t.Errorf("unexpected final event: %+v", last)
	}
}

// ─── Scenario B: deep video over a live stream ─────────────────────────

func TestDeepVideoSession_SSE(t *testing.T) {
	t.Parallel()
	runDeepVideoSession(t, "sse")
}

func TestDeepVideoSession_Websocket(t *testing.T) {
	t.Parallel()
	runDeepVideoSession(t, "websocket")
}

// A dead progress endpoint degrades the session but never fails it.
func TestDeepSession_SurvivesDeadProgressStream(t *testing.T) {
	t.Parallel()
	srv := quickBackend(t, 20*time.Millisecond)
	cfg := DefaultConfig()
	cfg.Client.BaseURL = srv.URL
	cfg.LiveBackend = "sse"
	o := NewOrchestrator(cfg, nil, nil, &testutil.DummyLogger{})
	t.Cleanup(o.Reset)

	if err := o.Select(testFile("clip.mov", "video/quicktime", 1024)); err != nil {
		t.Fatalf("Select: %v", err)
	}
	events, err := o.Start(context.Background(), analysis.ModeDeep)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	drain(t, events)

	if got := o.State(); got != StateComplete {
		t.Errorf("expected complete despite missing stream, got %s", got)
	}
}
