// Package app holds the analysis session state machine. One Orchestrator
// owns one session at a time: the selected file, the lifecycle state, the
// progress log and the final report. All external event sources (the
// submission response and the active progress channel) funnel into it, and
// everything they mutate is guarded by a single lock, so observers always
// see a consistent session.
package app

import (
	"context"
	"errors"
	"io"
	"sync"

	"github.com/google/uuid"

	"github.com/Shaik-Faizan-Ahmed/genai-media-verifier/internal/analysis"
	"github.com/Shaik-Faizan-Ahmed/genai-media-verifier/internal/client"
	"github.com/Shaik-Faizan-Ahmed/genai-media-verifier/internal/history"
	"github.com/Shaik-Faizan-Ahmed/genai-media-verifier/internal/logging"
	"github.com/Shaik-Faizan-Ahmed/genai-media-verifier/internal/progress"
	"github.com/Shaik-Faizan-Ahmed/genai-media-verifier/internal/stage"
	"github.com/Shaik-Faizan-Ahmed/genai-media-verifier/internal/validate"
)

// State is the lifecycle state of the current analysis session.
type State string

const (
	StateIdle       State = "idle"
	StateUploading  State = "uploading"
	StateProcessing State = "processing"
	StateComplete   State = "complete"
	StateError      State = "error"
)

// Terminal reports whether s is a resting state requiring a reset to leave.
func (s State) Terminal() bool {
	return s == StateComplete || s == StateError
}

// SessionEventType distinguishes observer notifications.
type SessionEventType string

const (
	EventState    SessionEventType = "state"
	EventProgress SessionEventType = "progress"
)

// SessionEvent is one observer notification. State events fire on every
// transition; progress events fire per classified progress message.
type SessionEvent struct {
	SessionID string           `json:"session_id"`
	Type      SessionEventType `json:"type"`

	State State  `json:"state,omitempty"`
	Error string `json:"error,omitempty"`

	Stage      string `json:"stage,omitempty"`
	Percentage int    `json:"percentage"`
	Message    string `json:"message,omitempty"`
}

// ProgressEvent is one entry of the session's progress log. Entries are
// append-only and strictly in arrival order.
type ProgressEvent struct {
	Seq        int    `json:"seq"`
	RawMessage string `json:"raw_message"`
}

// MediaFile is a selected file plus a way to open its content at submission
// time. Open is called once per Start.
type MediaFile struct {
	Info analysis.FileInfo
	Open func() (io.ReadCloser, error)
}

// State machine violations.
var (
	ErrNoFile   = errors.New("no file selected")
	ErrNotIdle  = errors.New("session already in progress")
	ErrBadMode  = errors.New("unknown analysis mode")
	ErrBadMedia = errors.New("cannot derive media kind from MIME type")
)

// Orchestrator is the analysis session state machine.
type Orchestrator struct {
	cfg    *Config
	client *client.Client
	store  *history.Store // nil disables persistence
	logger logging.Logger

	mu         sync.Mutex
	state      State
	file       *MediaFile
	request    *analysis.Request
	sessionID  string
	cancel     context.CancelFunc
	channel    progress.Channel
	log        []ProgressEvent
	stageLabel string
	percentage int
	result     *analysis.Result
	errMsg     string
	events     chan SessionEvent
}

// NewOrchestrator ties together config, submission client, optional history
// store and logger. Pass already-constructed parts; nil cfg selects defaults.
func NewOrchestrator(cfg *Config, cli *client.Client, store *history.Store, logger logging.Logger) *Orchestrator {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if cli == nil {
		cli = client.New(cfg.Client, logger, nil)
	}
	return &Orchestrator{
		cfg:    cfg,
		client: cli,
		store:  store,
		logger: logging.OrNop(logger).With(logging.Field{Key: "component", Value: "orchestrator"}),
		state:  StateIdle,
	}
}

// State returns the current lifecycle state.
func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// Select stores the file for the next session after validating it. Only
// legal while idle; selecting a new file replaces the previous one and
// clears any lingering validation error.
func (o *Orchestrator) Select(file MediaFile) error {
	if err := validate.File(file.Info); err != nil {
		return err
	}
	if _, ok := analysis.KindForMIME(file.Info.MIMEType); !ok {
		return ErrBadMedia
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	if o.state != StateIdle {
		return ErrNotIdle
	}
	o.file = &file
	o.errMsg = ""
	o.logger.Info("file selected",
		logging.Field{Key: "file", Value: file.Info.Name},
		logging.Field{Key: "size", Value: file.Info.Size})
	return nil
}

// Start begins an analysis session in the given mode. It requires a
// previously selected file and an idle orchestrator. The returned channel
// carries observer events for this session and is closed when the session
// reaches a terminal state or is reset.
func (o *Orchestrator) Start(ctx context.Context, mode analysis.Mode) (<-chan SessionEvent, error) {
	if !mode.Valid() {
		return nil, ErrBadMode
	}

	o.mu.Lock()
	if o.state != StateIdle {
		o.mu.Unlock()
		return nil, ErrNotIdle
	}
	if o.file == nil {
		o.mu.Unlock()
		return nil, ErrNoFile
	}

	kind, _ := analysis.KindForMIME(o.file.Info.MIMEType)
	req := analysis.Request{File: o.file.Info, Mode: mode, MediaKind: kind}
	o.request = &req

	sessionID := uuid.New().String()
	o.sessionID = sessionID

	sessCtx, cancel := context.WithCancel(ctx)
	o.cancel = cancel

	// Every transition into Uploading starts from a clean log, seeded
	// with the initial upload message.
	o.state = StateUploading
	o.log = []ProgressEvent{{Seq: 0, RawMessage: "Uploading file..."}}
	o.stageLabel = "Uploading file..."
	o.percentage = 5
	o.result = nil
	o.errMsg = ""
	o.events = make(chan SessionEvent, 32)
	events := o.events
	file := o.file
	o.emitLocked(SessionEvent{SessionID: sessionID, Type: EventState, State: StateUploading, Percentage: 5})
	o.mu.Unlock()

	o.logger.Info("session started",
		logging.Field{Key: "session_id", Value: sessionID},
		logging.Field{Key: "mode", Value: string(mode)},
		logging.Field{Key: "media_kind", Value: string(kind)})

	// The progress channel opens before the submission is dispatched so
	// deep mode catches the earliest pipeline messages.
	ch, err := progress.New(o.channelConfig(sessionID, req), o.logger)
	if err != nil {
		// No stream is a degraded session, not a failed one.
		o.logger.Warn("progress channel unavailable",
			logging.Field{Key: "error", Value: err.Error()})
	} else {
		evs, openErr := ch.Open(sessCtx)
		if openErr != nil {
			o.logger.Warn("opening progress channel",
				logging.Field{Key: "error", Value: openErr.Error()})
		} else if !o.adoptChannel(sessionID, ch) {
			// The session ended while the stream was opening.
			_ = ch.Close()
		} else {
			go func() {
				for ev := range evs {
					o.applyProgress(ev)
				}
			}()
		}
	}

	// The move to Processing is synchronous with dispatch, not with any
	// server acknowledgment.
	o.mu.Lock()
	if o.sessionID == sessionID && o.state == StateUploading {
		o.state = StateProcessing
		o.emitLocked(SessionEvent{SessionID: sessionID, Type: EventState, State: StateProcessing, Percentage: 5})
	}
	o.mu.Unlock()

	go o.submit(sessCtx, sessionID, req, file)

	return events, nil
}

// submit runs the submission round trip and settles the session. Completion
// is driven solely by this response; the progress channel never terminates a
// session.
func (o *Orchestrator) submit(ctx context.Context, sessionID string, req analysis.Request, file *MediaFile) {
	content, err := file.Open()
	if err != nil {
		o.fail(sessionID, "could not read selected file: "+err.Error())
		return
	}
	defer content.Close()

	result, err := o.client.Submit(ctx, req, content)
	if err != nil {
		if ctx.Err() != nil {
			// Cancelled or reset: the session is already gone, and a
			// late failure must not resurrect it.
			return
		}
		o.fail(sessionID, err.Error())
		return
	}
	o.complete(sessionID, result)
}

// adoptChannel installs ch as the session's active progress channel. It
// refuses channels belonging to a session that ended while the stream was
// opening, so a reset can never leave a stale handle installed.
func (o *Orchestrator) adoptChannel(sessionID string, ch progress.Channel) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.sessionID != sessionID {
		return false
	}
	o.channel = ch
	return true
}

// channelConfig picks the progress backend for the session: the configured
// live backend for deep mode, the simulated sequence for quick mode.
func (o *Orchestrator) channelConfig(sessionID string, req analysis.Request) progress.Config {
	if req.Mode == analysis.ModeDeep {
		backend := o.cfg.LiveBackend
		if backend == "" {
			backend = "sse"
		}
		url := o.client.ProgressURL()
		if backend == "websocket" {
			url = o.client.ProgressWebsocketURL()
		}
		return progress.Config{
			Backend:   backend,
			SessionID: sessionID,
			StreamURL: url,
		}
	}
	return progress.Config{
		Backend:   "simulated",
		SessionID: sessionID,
		MediaKind: req.MediaKind,
		Interval:  o.cfg.SimulatedInterval,
	}
}

// applyProgress folds one progress event into the session. Events from a
// stale session, or arriving outside Uploading/Processing, are dropped.
func (o *Orchestrator) applyProgress(ev progress.Event) {
	o.mu.Lock()
	if ev.SessionID != o.sessionID || (o.state != StateUploading && o.state != StateProcessing) {
		o.mu.Unlock()
		return
	}

	o.log = append(o.log, ProgressEvent{Seq: len(o.log), RawMessage: ev.RawMessage})

	var mapped stage.Mapping
	if ev.Percentage != nil {
		// Simulated events carry hand-assigned percentages.
		mapped = stage.Mapping{Label: ev.RawMessage, Percentage: *ev.Percentage}
	} else {
		mapped = stage.Classify(ev.RawMessage, o.percentage)
	}
	// Clamp to non-decreasing: out-of-order pipeline messages never walk
	// the display backwards.
	if mapped.Percentage < o.percentage {
		mapped.Percentage = o.percentage
	}
	o.stageLabel = mapped.Label
	o.percentage = mapped.Percentage
	o.emitLocked(SessionEvent{
		SessionID:  o.sessionID,
		Type:       EventProgress,
		Stage:      mapped.Label,
		Percentage: mapped.Percentage,
		Message:    ev.RawMessage,
	})
	o.mu.Unlock()
}

// complete settles the session successfully.
func (o *Orchestrator) complete(sessionID string, result *analysis.Result) {
	o.mu.Lock()
	if sessionID != o.sessionID {
		o.mu.Unlock()
		return
	}
	o.state = StateComplete
	o.result = result
	o.percentage = 100
	o.stageLabel = "Analysis complete"
	o.closeChannelLocked()
	req := o.request
	o.emitLocked(SessionEvent{SessionID: sessionID, Type: EventState, State: StateComplete, Percentage: 100})
	o.closeEventsLocked()
	o.mu.Unlock()

	o.logger.Info("session complete",
		logging.Field{Key: "session_id", Value: sessionID},
		logging.Field{Key: "risk_level", Value: result.RiskLevel})

	if o.store != nil && req != nil {
		// Best-effort audit trail; a write failure never fails the session.
		if err := o.store.Save(history.Entry{
			SessionID:  sessionID,
			FileName:   req.File.Name,
			MediaKind:  string(req.MediaKind),
			Mode:       string(req.Mode),
			FinalScore: result.FinalScore,
			RiskLevel:  result.RiskLevel,
			Confidence: result.Confidence,
			Result:     result,
		}); err != nil {
			o.logger.Warn("saving history entry",
				logging.Field{Key: "error", Value: err.Error()})
		}
	}
}

// fail settles the session in the Error state with a user-facing message.
func (o *Orchestrator) fail(sessionID, msg string) {
	o.mu.Lock()
	if sessionID != o.sessionID {
		o.mu.Unlock()
		return
	}
	o.state = StateError
	o.errMsg = msg
	o.percentage = 0
	o.stageLabel = ""
	o.closeChannelLocked()
	o.emitLocked(SessionEvent{SessionID: sessionID, Type: EventState, State: StateError, Error: msg})
	o.closeEventsLocked()
	o.mu.Unlock()

	o.logger.Warn("session failed",
		logging.Field{Key: "session_id", Value: sessionID},
		logging.Field{Key: "error", Value: msg})
}

// Cancel aborts a running session and returns to Idle. It is the
// user-triggered twin of Reset and shares its semantics, including
// cancelling the in-flight submission at the transport level.
func (o *Orchestrator) Cancel() {
	o.Reset()
}

// Reset returns the orchestrator to Idle from any state, clearing the file,
// result, error and progress log and closing any open channel. Idempotent.
func (o *Orchestrator) Reset() {
	o.mu.Lock()
	if o.cancel != nil {
		o.cancel()
		o.cancel = nil
	}
	o.closeChannelLocked()
	o.closeEventsLocked()
	o.state = StateIdle
	o.sessionID = ""
	o.file = nil
	o.request = nil
	o.log = nil
	o.stageLabel = ""
	o.percentage = 0
	o.result = nil
	o.errMsg = ""
	o.mu.Unlock()

	o.logger.Debug("session reset")
}

// closeChannelLocked closes the active progress channel exactly once.
// Callers hold o.mu.
func (o *Orchestrator) closeChannelLocked() {
	if o.channel != nil {
		_ = o.channel.Close()
		o.channel = nil
	}
	if o.cancel != nil && o.state.Terminal() {
		// Terminal states keep the result but stop the stream context.
		o.cancel()
		o.cancel = nil
	}
}

// emitLocked is a non-blocking send; events are dropped if the observer
// lags. Callers hold o.mu, which also orders every send before the close.
func (o *Orchestrator) emitLocked(ev SessionEvent) {
	if o.events == nil {
		return
	}
	select {
	case o.events <- ev:
	default:
	}
}

// closeEventsLocked closes the observer channel exactly once. Callers hold o.mu.
func (o *Orchestrator) closeEventsLocked() {
	if o.events != nil {
		close(o.events)
		o.events = nil
	}
}

// Result returns the final report, or nil before completion.
func (o *Orchestrator) Result() *analysis.Result {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.result
}

// ErrorMessage returns the user-facing failure message, or "".
func (o *Orchestrator) ErrorMessage() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.errMsg
}

// Stage returns the current stage label and percentage.
func (o *Orchestrator) Stage() (string, int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.stageLabel, o.percentage
}

// ProgressLog returns a copy of the session's progress log in arrival order.
func (o *Orchestrator) ProgressLog() []ProgressEvent {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]ProgressEvent, len(o.log))
	copy(out, o.log)
	return out
}
