// Package cli parses command-line arguments and the optional YAML config
// file into the runtime configuration of the verifier.
package cli

import (
	"flag"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/Shaik-Faizan-Ahmed/genai-media-verifier/internal/analysis"
	"github.com/Shaik-Faizan-Ahmed/genai-media-verifier/internal/app"
)

// Args are the command-line arguments for a single verifier run.
type Args struct {
	// FilePath is the media file to analyze (required).
	FilePath string

	// Mode selects the analysis depth: quick or deep.
	Mode analysis.Mode

	// ConfigPath is an optional YAML config file; flags override it.
	ConfigPath string

	// ServerURL overrides the analysis server base URL.
	ServerURL string

	// Backend overrides the live progress backend for deep mode.
	Backend string

	// HistoryPath overrides the sqlite history file. "none" disables it.
	HistoryPath string

	// Timeout overrides the submission timeout; 0 means "use config default".
	Timeout time.Duration

	// History lists recent analyses instead of running one.
	History bool

	// RawArgs is the original args slice (useful for debugging/tests).
	RawArgs []string
}

// ParseArgs parses a slice of args and returns Args. Use in tests by passing
// arbitrary slices. The function is deterministic and does not read os.Args.
func ParseArgs(args []string) (*Args, error) {
	fs := flag.NewFlagSet("verifier", flag.ContinueOnError)
	var (
		file    = fs.String("file", "", "Media file to analyze (required unless -history)")
		mode    = fs.String("mode", "quick", "Analysis mode: quick|deep")
		cfgPath = fs.String("config", "", "YAML config file")
		server  = fs.String("server", "", "Analysis server base URL")
		backend = fs.String("backend", "", "Deep-mode progress backend: sse|websocket")
		histDB  = fs.String("history-db", "", "Sqlite history file (\"none\" disables)")
		timeout = fs.Duration("timeout", 0, "Submission timeout (0=use default)")
		history = fs.Bool("history", false, "List recent analyses and exit")
	)

	// Ensure Parse doesn't write to stdout/stderr in tests
	fs.SetOutput(io.Discard)

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	m := analysis.Mode(strings.TrimSpace(*mode))
	if !m.Valid() {
		return nil, fmt.Errorf("unknown -mode %q (want quick or deep)", *mode)
	}
	if !*history && strings.TrimSpace(*file) == "" {
		return nil, fmt.Errorf("missing required -file argument")
	}

	return &Args{
		FilePath:    *file,
		Mode:        m,
		ConfigPath:  *cfgPath,
		ServerURL:   *server,
		Backend:     *backend,
		HistoryPath: *histDB,
		Timeout:     *timeout,
		History:     *history,
		RawArgs:     args,
	}, nil
}

// BuildConfig resolves the effective app configuration: defaults, then the
// YAML file if one was given, then flag overrides.
func BuildConfig(args *Args) (*app.Config, error) {
	cfg := app.DefaultConfig()

	if args.ConfigPath != "" {
		fileCfg, err := Load(args.ConfigPath)
		if err != nil {
			return nil, fmt.Errorf("loading config %s: %w", args.ConfigPath, err)
		}
		if err := fileCfg.apply(cfg); err != nil {
			return nil, fmt.Errorf("config %s: %w", args.ConfigPath, err)
		}
	}

	if args.ServerURL != "" {
		cfg.Client.BaseURL = args.ServerURL
	}
	if args.Backend != "" {
		cfg.LiveBackend = args.Backend
	}
	if args.Timeout > 0 {
		cfg.Client.Timeout = args.Timeout
	}
	switch args.HistoryPath {
	case "":
	case "none":
		cfg.HistoryPath = ""
	default:
		cfg.HistoryPath = args.HistoryPath
	}
	return cfg, nil
}
