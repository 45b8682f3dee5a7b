package demoserver

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Shaik-Faizan-Ahmed/genai-media-verifier/internal/analysis"
	"github.com/Shaik-Faizan-Ahmed/genai-media-verifier/internal/progress"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(New(Config{StageDelay: 2 * time.Millisecond}, nil))
	t.Cleanup(srv.Close)
	return srv
}

func upload(t *testing.T, url, filename string) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	part.Write([]byte("not really media"))
	w.Close()

	resp, err := http.Post(url, w.FormDataContentType(), &buf)
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	return resp
}

func TestQuickImageAnalysis(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t)

	resp := upload(t, srv.URL+"/analyze/image", "photo.jpg")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		t.Fatalf("status %d: %s", resp.StatusCode, body)
	}

	var result analysis.Result
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if result.FinalScore == nil {
		t.Fatal("expected final_score")
	}
	if result.AnalysisType != "quick" {
		t.Errorf("analysis_type %q", result.AnalysisType)
	}
	if result.AnalysisBreakdown == nil {
		t.Error("image result should carry analysis_breakdown")
	}
	if result.LayerSummaries != nil {
		t.Error("image result should not carry layer_summaries")
	}
}

func TestDeterministicScoring(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t)

	score := func() float64 {
		resp := upload(t, srv.URL+"/analyze/image", "same.jpg")
		defer resp.Body.Close()
		var result analysis.Result
		if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
			t.Fatalf("decode: %v", err)
		}
		return *result.FinalScore
	}

	if a, b := score(), score(); a != b {
		t.Errorf("same file produced different scores: %v vs %v", a, b)
	}
}

func TestMissingFileFieldRejected(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t)

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	w.WriteField("not_file", "oops")
	w.Close()

	resp, err := http.Post(srv.URL+"/analyze/video", w.FormDataContentType(), &buf)
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", resp.StatusCode)
	}
}

func TestComprehensiveStreamsProgressOverSSE(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t)

	// Subscribe with the real SSE channel before submitting.
	ch := progress.NewSSEChannel(progress.Config{
		SessionID: "t",
		StreamURL: srv.URL + "/analyze/progress",
	}, nil)
	events, err := ch.Open(context.Background())
	if err != nil {
		t.Fatalf("open sse: %v", err)
	}
	defer ch.Close()

	// Give the subscription a moment to register.
	time.Sleep(50 * time.Millisecond)

	resp := upload(t, srv.URL+"/analyze/video/comprehensive", "clip.mp4")
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d", resp.StatusCode)
	}

	var result analysis.Result
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if result.LayerSummaries == nil {
		t.Error("video result should carry layer_summaries")
	}

	// All fourteen pipeline messages should have been pushed.
	var got []string
	timeout := time.After(5 * time.Second)
	for len(got) < 14 {
		select {
		case ev, ok := <-events:
			if !ok {
				t.Fatalf("stream closed after %d messages", len(got))
			}
			got = append(got, ev.RawMessage)
		case <-timeout:
			t.Fatalf("timed out after %d messages: %v", len(got), got)
		}
	}
	if got[0] != "LAYER 1: Analyzing video metadata..." {
		t.Errorf("unexpected first message %q", got[0])
	}
	if got[len(got)-1] != "Analysis complete!" {
		t.Errorf("unexpected last message %q", got[len(got)-1])
	}
}
