// Package client is the HTTP submission client for the analysis service.
// It owns endpoint selection, the multipart upload, and decoding of the
// report JSON. It does not own retries: a failed submission is
// surfaced once and the caller decides what to do.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"github.com/Shaik-Faizan-Ahmed/genai-media-verifier/internal/analysis"
	"github.com/Shaik-Faizan-Ahmed/genai-media-verifier/internal/logging"
)

// Config holds the submission client settings.
type Config struct {
	// BaseURL is the analysis service origin, e.g. "http://localhost:8000".
	BaseURL string

	// Timeout bounds one submission round trip, upload included. Zero
	// means DefaultTimeout. Comprehensive analyses can run for minutes.
	Timeout time.Duration
}

// DefaultTimeout is generous: the comprehensive path holds the request open
// for the whole pipeline.
const DefaultTimeout = 10 * time.Minute

// DefaultConfig returns a Config with development defaults.
func DefaultConfig() Config {
	return Config{
		BaseURL: "http://localhost:8000",
		Timeout: DefaultTimeout,
	}
}

// Client submits media files for analysis.
type Client struct {
	cfg    Config
	http   *http.Client
	logger logging.Logger
}

// New creates a Client. httpClient may be nil, in which case a default with
// the configured timeout is used.
func New(cfg Config, logger logging.Logger, httpClient *http.Client) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultConfig().BaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	return &Client{
		cfg:    cfg,
		http:   httpClient,
		logger: logging.OrNop(logger).With(logging.Field{Key: "component", Value: "client"}),
	}
}

// EndpointPath returns the submission path for a media kind and mode.
func EndpointPath(kind analysis.MediaKind, mode analysis.Mode) string {
	path := "/analyze/image"
	if kind == analysis.MediaVideo {
		path = "/analyze/video"
	}
	if mode == analysis.ModeDeep {
		path += "/comprehensive"
	}
	return path
}

// ProgressURL is the SSE progress stream endpoint for this client's backend.
func (c *Client) ProgressURL() string {
	return c.cfg.BaseURL + "/analyze/progress"
}

// ProgressWebsocketURL is the websocket progress stream endpoint.
func (c *Client) ProgressWebsocketURL() string {
	url := c.cfg.BaseURL + "/ws/analyze/progress"
	if strings.HasPrefix(url, "https") {
		return "wss" + strings.TrimPrefix(url, "https")
	}
	return "ws" + strings.TrimPrefix(url, "http")
}

// Submit uploads the file as multipart/form-data to the endpoint selected by
// the request's media kind and mode, and decodes the forensic report. Any
// non-2xx status, transport failure or undecodable body is an error.
func (c *Client) Submit(ctx context.Context, req analysis.Request, content io.Reader) (*analysis.Result, error) {
	url := c.cfg.BaseURL + EndpointPath(req.MediaKind, req.Mode)

	body, contentType, err := multipartBody(req.File, content)
	if err != nil {
		return nil, fmt.Errorf("build upload body: %w", err)
	}

	c.logger.Info("submitting file",
		logging.Field{Key: "url", Value: url},
		logging.Field{Key: "file", Value: req.File.Name},
		logging.Field{Key: "size", Value: req.File.Size})

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", contentType)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		c.logger.Warn("submission failed",
			logging.Field{Key: "url", Value: url},
			logging.Field{Key: "error", Value: err.Error()})
		return nil, fmt.Errorf("submit: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Warn("submission rejected",
			logging.Field{Key: "url", Value: url},
			logging.Field{Key: "status", Value: resp.StatusCode})
		return nil, fmt.Errorf("analysis failed: server returned %s", resp.Status)
	}

	var result analysis.Result
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode report: %w", err)
	}

	c.logger.Info("report received",
		logging.Field{Key: "risk_level", Value: result.RiskLevel})
	return &result, nil
}

// multipartBody builds the upload body with the file under the "file" field,
// matching what the backend's form parser expects.
func multipartBody(info analysis.FileInfo, content io.Reader) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, info.Name))
	if info.MIMEType != "" {
		header.Set("Content-Type", info.MIMEType)
	}

	part, err := w.CreatePart(header)
	if err != nil {
		return nil, "", err
	}
	if _, err := io.Copy(part, content); err != nil {
		return nil, "", err
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}
