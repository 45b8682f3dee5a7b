// Command verifier submits a media file to the analysis server and follows
// the session to completion, printing live progress and the final report.
// Usage: verifier -file clip.mp4 [-mode deep] [-config verifier.yaml]
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/Shaik-Faizan-Ahmed/genai-media-verifier/internal/analysis"
	"github.com/Shaik-Faizan-Ahmed/genai-media-verifier/internal/app"
	"github.com/Shaik-Faizan-Ahmed/genai-media-verifier/internal/cli"
	"github.com/Shaik-Faizan-Ahmed/genai-media-verifier/internal/history"
	"github.com/Shaik-Faizan-Ahmed/genai-media-verifier/internal/logging"
	"github.com/Shaik-Faizan-Ahmed/genai-media-verifier/internal/progress"
	"github.com/Shaik-Faizan-Ahmed/genai-media-verifier/internal/report"
)

func main() {
	args, err := cli.ParseArgs(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "verifier: %v\n", err)
		fmt.Fprintln(os.Stderr, "usage: verifier -file <media> [-mode quick|deep] [-server URL] [-backend sse|websocket] [-config FILE] [-history]")
		os.Exit(2)
	}
	cfg, err := cli.BuildConfig(args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "verifier: %v\n", err)
		os.Exit(2)
	}

	logger := logging.NewWriterLogger("verifier", os.Stderr)
	progress.RegisterDefaultBackends()

	if args.History {
		os.Exit(listHistory(cfg, logger))
	}
	os.Exit(run(args, cfg, logger))
}

func run(args *cli.Args, cfg *app.Config, logger logging.Logger) int {
	info, err := os.Stat(args.FilePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "verifier: %v\n", err)
		return 1
	}
	file := app.MediaFile{
		Info: analysis.FileInfo{
			Name:     filepath.Base(args.FilePath),
			Size:     info.Size(),
			MIMEType: analysis.MIMEForPath(args.FilePath),
		},
		Open: func() (io.ReadCloser, error) {
			return os.Open(args.FilePath)
		},
	}

	var store *history.Store
	if cfg.HistoryPath != "" {
		store, err = history.Open(cfg.HistoryPath, logger)
		if err != nil {
			logger.Warn("history disabled", logging.Field{Key: "error", Value: err.Error()})
		} else {
			defer store.Close()
		}
	}

	o := app.NewOrchestrator(cfg, nil, store, logger)
	if err := o.Select(file); err != nil {
		fmt.Fprintf(os.Stderr, "verifier: %s: %v\n", args.FilePath, err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	events, err := o.Start(ctx, args.Mode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "verifier: %v\n", err)
		return 1
	}

	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return finish(o)
			}
			switch ev.Type {
			case app.EventProgress:
				fmt.Printf("[%3d%%] %s\n", ev.Percentage, ev.Stage)
			case app.EventState:
				fmt.Printf("---- %s\n", ev.State)
			}
		case <-ctx.Done():
			o.Cancel()
			fmt.Fprintln(os.Stderr, "verifier: cancelled")
			return 130
		}
	}
}

// finish prints the outcome once the session has settled.
func finish(o *app.Orchestrator) int {
	switch o.State() {
	case app.StateComplete:
		fmt.Println()
		fmt.Print(report.Render(o.Result(), o.ProgressLog()))
		return 0
	case app.StateError:
		fmt.Fprintf(os.Stderr, "verifier: analysis failed: %s\n", o.ErrorMessage())
		return 1
	default:
		fmt.Fprintln(os.Stderr, "verifier: session ended without a result")
		return 1
	}
}

func listHistory(cfg *app.Config, logger logging.Logger) int {
	if cfg.HistoryPath == "" {
		fmt.Fprintln(os.Stderr, "verifier: no history database configured (set history.path or -history-db)")
		return 2
	}
	store, err := history.Open(cfg.HistoryPath, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "verifier: %v\n", err)
		return 1
	}
	defer store.Close()

	entries, err := store.List(context.Background(), 20)
	if err != nil {
		fmt.Fprintf(os.Stderr, "verifier: %v\n", err)
		return 1
	}
	if len(entries) == 0 {
		fmt.Println("no completed analyses yet")
		return 0
	}
	for _, e := range entries {
		score := "-"
		if e.FinalScore != nil {
			score = fmt.Sprintf("%.2f", *e.FinalScore)
		}
		fmt.Printf("%s  %-6s %-5s %-6s %-8s %s\n",
			e.CreatedAt.Local().Format("2006-01-02 15:04"),
			e.MediaKind, e.Mode, score, e.RiskLevel, e.FileName)
	}
	return 0
}
