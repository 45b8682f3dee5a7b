// Command demoserver starts the synthetic analysis backend for developing
// and demonstrating the verifier without the real detection pipeline.
// Usage: go run ./cmd/demoserver [-addr :8000] [-delay 400ms]
package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/Shaik-Faizan-Ahmed/genai-media-verifier/internal/demoserver"
	"github.com/Shaik-Faizan-Ahmed/genai-media-verifier/internal/logging"
)

func main() {
	cfg := demoserver.DefaultConfig()
	addr := flag.String("addr", cfg.ListenAddr, "Listen address")
	delay := flag.Duration("delay", cfg.StageDelay, "Delay between streamed pipeline stages")
	seed := flag.Int64("seed", cfg.Seed, "Report randomness seed (0=per-file)")
	flag.Parse()
	cfg.ListenAddr = *addr
	cfg.StageDelay = *delay
	cfg.Seed = *seed

	fmt.Println("===========================================")
	fmt.Println("   Media Verifier Demo Server")
	fmt.Println("===========================================")
	fmt.Println()
	fmt.Println("Serves the analysis API with fabricated forensic")
	fmt.Println("reports and staged progress streams:")
	fmt.Println()
	fmt.Println("  POST /analyze/image[/comprehensive]")
	fmt.Println("  POST /analyze/video[/comprehensive]")
	fmt.Println("  GET  /analyze/progress       (SSE)")
	fmt.Println("  GET  /ws/analyze/progress    (websocket)")
	fmt.Println()
	fmt.Printf("Listening on %s\n", cfg.ListenAddr)

	srv := demoserver.New(cfg, logging.NewStdoutLogger("demoserver"))
	if err := srv.HTTPServer().ListenAndServe(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
