// Package demoserver is a synthetic analysis backend implementing the same
// HTTP surface as the real detection service: the four /analyze submission
// endpoints plus the SSE and websocket progress streams. It fabricates
// plausible forensic reports so the client, CLI and end-to-end tests can run
// without the model pipeline.
package demoserver

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/gorilla/websocket"

	"github.com/Shaik-Faizan-Ahmed/genai-media-verifier/internal/analysis"
	"github.com/Shaik-Faizan-Ahmed/genai-media-verifier/internal/logging"
)

// DemoServer serves synthetic analysis results and progress streams.
type DemoServer struct {
	cfg      Config
	logger   logging.Logger
	router   chi.Router
	upgrader websocket.Upgrader

	subsMu sync.Mutex
	subs   map[chan string]struct{}
}

// New creates a DemoServer.
func New(cfg Config, logger logging.Logger) *DemoServer {
	s := &DemoServer{
		cfg:    cfg,
		logger: logging.OrNop(logger).With(logging.Field{Key: "component", Value: "demoserver"}),
		subs:   make(map[chan string]struct{}),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}

	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
		MaxAge:         86400,
	}))

	r.Get("/", s.handleHome)
	r.Post("/analyze/image", s.handleAnalyze(analysis.MediaImage, analysis.ModeQuick))
	r.Post("/analyze/image/comprehensive", s.handleAnalyze(analysis.MediaImage, analysis.ModeDeep))
	r.Post("/analyze/video", s.handleAnalyze(analysis.MediaVideo, analysis.ModeQuick))
	r.Post("/analyze/video/comprehensive", s.handleAnalyze(analysis.MediaVideo, analysis.ModeDeep))
	r.Get("/analyze/progress", s.handleProgressSSE)
	r.Get("/ws/analyze/progress", s.handleProgressWS)

	s.router = r
	return s
}

// ServeHTTP implements http.Handler.
func (s *DemoServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.logger.Info("http_request",
		logging.Field{Key: "method", Value: r.Method},
		logging.Field{Key: "path", Value: r.URL.Path})
	s.router.ServeHTTP(w, r)
}

// HTTPServer creates an *http.Server ready to ListenAndServe.
func (s *DemoServer) HTTPServer() *http.Server {
	return &http.Server{
		Addr:         s.cfg.ListenAddr,
		Handler:      s,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 0, // allow streaming
	}
}

func (s *DemoServer) handleHome(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "API running"})
}

// handleAnalyze serves a submission endpoint. Quick mode responds at once;
// deep mode first walks the pipeline, pushing each stage message to every
// progress subscriber.
func (s *DemoServer) handleAnalyze(kind analysis.MediaKind, mode analysis.Mode) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(64 << 20); err != nil {
			writeError(w, http.StatusBadRequest, "invalid multipart form")
			return
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			writeError(w, http.StatusBadRequest, "missing file field")
			return
		}
		file.Close()

		s.logger.Info("analysis request",
			logging.Field{Key: "file", Value: header.Filename},
			logging.Field{Key: "kind", Value: string(kind)},
			logging.Field{Key: "mode", Value: string(mode)})

		if mode == analysis.ModeDeep {
			s.streamPipeline(r.Context(), kind)
		}

		result := s.buildResult(header.Filename, kind, mode)
		writeJSON(w, http.StatusOK, result)
	}
}

// streamPipeline broadcasts the staged progress messages with the
// configured delay, stopping early if the submission is abandoned.
func (s *DemoServer) streamPipeline(ctx context.Context, kind analysis.MediaKind) {
	for _, msg := range pipelineMessages(kind) {
		select {
		case <-ctx.Done():
			return
		case <-time.After(s.cfg.StageDelay):
		}
		s.broadcast(msg)
	}
}

// pipelineMessages mirrors the real backend's progress vocabulary per media
// kind.
func pipelineMessages(kind analysis.MediaKind) []string {
	if kind == analysis.MediaVideo {
		return []string{
			"LAYER 1: Analyzing video metadata...",
			"LAYER 2A: Extracting key frames from video...",
			"Processed 10/50 frames",
			"Processed 25/50 frames",
			"Processed 50/50 frames",
			"Analyzing temporal consistency...",
			"Running 3D video model analysis...",
			"LAYER 2B: Analyzing audio stream...",
			"LAYER 2C: Analyzing physiological signals...",
			"LAYER 2D: Checking physics consistency...",
			"LAYER 3: Analyzing scene boundaries...",
			"LAYER 3: Analyzing compression artifacts...",
			"Combining all analysis results...",
			"Analysis complete!",
		}
	}
	return []string{
		"LAYER 1: Metadata check",
		"Analyzing neural patterns...",
		"Checking frequency domain...",
		"Scanning facial landmarks...",
		"Examining compression artifacts...",
		"Combining all analysis results...",
		"Analysis complete!",
	}
}

// ─── Progress fan-out ──────────────────────────────────────────────────

func (s *DemoServer) subscribe() chan string {
	ch := make(chan string, 32)
	s.subsMu.Lock()
	s.subs[ch] = struct{}{}
	s.subsMu.Unlock()
	return ch
}

func (s *DemoServer) unsubscribe(ch chan string) {
	s.subsMu.Lock()
	delete(s.subs, ch)
	s.subsMu.Unlock()
}

func (s *DemoServer) broadcast(msg string) {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()
	for ch := range s.subs {
		// Non-blocking send; drop if a subscriber lags.
		select {
		case ch <- msg:
		default:
		}
	}
}

// handleProgressSSE is the text/event-stream progress endpoint.
func (s *DemoServer) handleProgressSSE(w http.ResponseWriter, r *http.Request) {
	fl, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	fl.Flush()

	sub := s.subscribe()
	defer s.unsubscribe(sub)

	for {
		select {
		case <-r.Context().Done():
			return
		case msg := <-sub:
			payload, err := json.Marshal(map[string]string{"message": msg})
			if err != nil {
				continue
			}
			fmt.Fprintf(w, "data: %s\n\n", payload)
			fl.Flush()
		}
	}
}

// handleProgressWS is the websocket progress endpoint; same frame contract
// as the SSE stream.
func (s *DemoServer) handleProgressWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("upgrading to websocket", logging.Field{Key: "error", Value: err.Error()})
		return
	}
	defer conn.Close()

	sub := s.subscribe()
	defer s.unsubscribe(sub)

	for {
		select {
		case <-r.Context().Done():
			return
		case msg := <-sub:
			if err := conn.WriteJSON(map[string]string{"message": msg}); err != nil {
				return
			}
		}
	}
}

// ─── JSON helpers ──────────────────────────────────────────────────────

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
