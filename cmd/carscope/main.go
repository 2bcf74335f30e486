package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/use-agent/carscope/api"
	"github.com/use-agent/carscope/config"
	"github.com/use-agent/carscope/extractor"
	"github.com/use-agent/carscope/llm"
	"github.com/use-agent/carscope/narrator"
	"github.com/use-agent/carscope/scraper"
	"github.com/use-agent/carscope/service"
)

// browserAdapter bridges the concrete session factory to the page
// capability the extractor consumes.
type browserAdapter struct {
	sc *scraper.Scraper
}

func (b browserAdapter) NewPage(ctx context.Context) (extractor.Page, error) {
	return b.sc.NewPage(ctx)
}

func main() {
	// ── 1. Load configuration ───────────────────────────────────────
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()
	cfg := config.Load()

	// ── 2. Initialise structured logging ────────────────────────────
	initLogger(cfg.Log)
	slog.Info("carscope starting",
		"host", cfg.Server.Host,
		"port", cfg.Server.Port,
		"mode", cfg.Server.Mode,
		"maxSessions", cfg.Browser.MaxSessions,
	)

	if cfg.LLM.APIKey == "" {
		slog.Error("OPENAI_API_KEY is required for narration")
		os.Exit(1)
	}

	// ── 3. Wire the evaluation pipeline ─────────────────────────────
	// No browser is launched here; sessions are created per request.
	sc := scraper.NewScraper(cfg.Browser, cfg.Extractor.BlockedResourceTypes)
	ext := extractor.New(browserAdapter{sc: sc}, cfg.Extractor)

	llmClient := llm.NewClient(&http.Client{Timeout: 60 * time.Second}, cfg.LLM)
	nar := narrator.New(llmClient)

	eval := service.New(ext, nar)

	// ── 4. Setup router ─────────────────────────────────────────────
	startTime := time.Now()
	router := api.NewRouter(eval, sc, cfg, startTime)

	// ── 5. Start HTTP server ────────────────────────────────────────
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		slog.Info("HTTP server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("HTTP server error", "error", err)
			os.Exit(1)
		}
	}()

	// ── 6. Graceful shutdown ────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig.String())

	// Give in-flight evaluations 10 seconds to complete; a browser
	// round trip is slower than a plain request drain.
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("HTTP server forced shutdown", "error", err)
	} else {
		slog.Info("HTTP server drained gracefully")
	}

	slog.Info("carscope stopped")
}

// initLogger configures slog based on the LogConfig.
func initLogger(cfg config.LogConfig) {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if cfg.Format == "text" {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	slog.SetDefault(slog.New(handler))
}
