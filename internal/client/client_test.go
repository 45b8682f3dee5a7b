package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Shaik-Faizan-Ahmed/genai-media-verifier/internal/analysis"
)

func TestEndpointPath(t *testing.T) {
	t.Parallel()

	cases := []struct {
		kind analysis.MediaKind
		mode analysis.Mode
		want string
	}{
		{analysis.MediaImage, analysis.ModeQuick, "/analyze/image"},
		{analysis.MediaImage, analysis.ModeDeep, "/analyze/image/comprehensive"},
		{analysis.MediaVideo, analysis.ModeQuick, "/analyze/video"},
		{analysis.MediaVideo, analysis.ModeDeep, "/analyze/video/comprehensive"},
	}
	for _, c := range cases {
		if got := EndpointPath(c.kind, c.mode); got != c.want {
			t.Errorf("EndpointPath(%s, %s) = %q, want %q", c.kind, c.mode, got, c.want)
		}
	}
}

func TestProgressWebsocketURL(t *testing.T) {
	t.Parallel()

	c := New(Config{BaseURL: "http://example.com:8000"}, nil, nil)
	if got := c.ProgressWebsocketURL(); got != "ws://example.com:8000/ws/analyze/progress" {
		t.Errorf("unexpected ws url: %q", got)
	}

	c = New(Config{BaseURL: "https://example.com"}, nil, nil)
	if got := c.ProgressWebsocketURL(); got != "wss://example.com/ws/analyze/progress" {
		t.Errorf("unexpected wss url: %q", got)
	}
}

func TestSubmit_UploadsMultipartAndDecodesReport(t *testing.T) {
	t.Parallel()

	var gotPath, gotField, gotFilename, gotContent string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
			http.Error(w, "bad form", http.StatusBadRequest)
			return
		}
		for field := range r.MultipartForm.File {
			gotField = field
		}
		f, hdr, err := r.FormFile("file")
		if err != nil {
			t.Errorf("form file: %v", err)
			http.Error(w, "no file", http.StatusBadRequest)
			return
		}
		defer f.Close()
		gotFilename = hdr.Filename
		buf := make([]byte, hdr.Size)
		f.Read(buf)
		gotContent = string(buf)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"final_score":0.82,"risk_level":"High","confidence":0.9,"report":"likely synthetic"}`))
	}))
	defer srv.Close()

	c := New(Config{BaseURL: srv.URL}, nil, nil)
	req := analysis.Request{
		File:      analysis.FileInfo{Name: "clip.mp4", Size: 9, MIMEType: "video/mp4"},
		Mode:      analysis.ModeDeep,
		MediaKind: analysis.MediaVideo,
	}
	result, err := c.Submit(context.Background(), req, strings.NewReader("fake mp4!"))
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	if gotPath != "/analyze/video/comprehensive" {
		t.Errorf("hit %q", gotPath)
	}
	if gotField != "file" {
		t.Errorf("multipart field %q, want \"file\"", gotField)
	}
	if gotFilename != "clip.mp4" || gotContent != "fake mp4!" {
		t.Errorf("upload mismatch: filename=%q content=%q", gotFilename, gotContent)
	}
	if result.FinalScore == nil || *result.FinalScore != 0.82 {
		t.Errorf("final_score not decoded: %+v", result.FinalScore)
	}
	if result.RiskLevel != "High" {
		t.Errorf("risk_level %q", result.RiskLevel)
	}
}

func TestSubmit_NonOKStatusIsError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model crashed", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := New(Config{BaseURL: srv.URL}, nil, nil)
	req := analysis.Request{
		File:      analysis.FileInfo{Name: "pic.jpg", MIMEType: "image/jpeg"},
		Mode:      analysis.ModeQuick,
		MediaKind: analysis.MediaImage,
	}
	_, err := c.Submit(context.Background(), req, strings.NewReader("x"))
	if err == nil {
		t.Fatal("expected error for 500 response")
	}
	if !strings.Contains(err.Error(), "500") {
		t.Errorf("error should carry the status, got %v", err)
	}
}

func TestSubmit_MalformedReportIsError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"final_score": not json`))
	}))
	defer srv.Close()

	c := New(Config{BaseURL: srv.URL}, nil, nil)
	req := analysis.Request{
		File:      analysis.FileInfo{Name: "pic.jpg", MIMEType: "image/jpeg"},
		Mode:      analysis.ModeQuick,
		MediaKind: analysis.MediaImage,
	}
	if _, err := c.Submit(context.Background(), req, strings.NewReader("x")); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestSubmit_ContextCancellation(t *testing.T) {
	t.Parallel()

	blocked := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-blocked
	}))
	defer srv.Close()
	defer close(blocked)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := New(Config{BaseURL: srv.URL}, nil, nil)
	req := analysis.Request{
		File:      analysis.FileInfo{Name: "pic.jpg", MIMEType: "image/jpeg"},
		Mode:      analysis.ModeQuick,
		MediaKind: analysis.MediaImage,
	}
	if _, err := c.Submit(ctx, req, strings.NewReader("x")); err == nil {
		t.Fatal("expected error from cancelled context")
	}
}
