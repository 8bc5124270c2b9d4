// ABOUTME: Entry point for the TikTok clock
// ABOUTME: Parses CLI flags and config, then runs the TUI or the headless loop
package main

import (
	"context"
	"flag"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/harperreed/tiktok-clock/internal/app"
	"github.com/harperreed/tiktok-clock/internal/config"
	"github.com/harperreed/tiktok-clock/internal/timesource"
	"github.com/harperreed/tiktok-clock/internal/ui"
	"github.com/harperreed/tiktok-clock/internal/version"
)

var (
	configFile = flag.String("config", "", "Optional YAML config file")
	provider   = flag.String("provider", "", "Time provider: worldtimeapi, unixtime or ntp")
	timeout    = flag.Duration("timeout", 0, "Per-request timeout (default 3s)")
	fps        = flag.Int("fps", 0, "Frames per second (default 30)")
	logFile    = flag.String("log-file", "", "Log file path (default tiktok-clock.log)")
	noTUI      = flag.Bool("no-tui", false, "Disable TUI, log the readout instead")
)

func main() {
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	applyFlags(cfg)
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid flags: %v", err)
	}

	p, err := cfg.SelectedProvider()
	if err != nil {
		log.Fatalf("Invalid provider: %v", err)
	}

	// Set up logging
	f, err := os.OpenFile(cfg.LogFile, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		log.Fatalf("error opening log file: %v", err)
	}
	defer func() { _ = f.Close() }()

	if cfg.NoTUI {
		log.SetOutput(io.MultiWriter(os.Stdout, f))
	} else {
		// TUI owns the terminal; log only to file
		log.SetOutput(f)
	}

	log.Printf("Starting %s (provider %s, timeout %v, %d fps)",
		version.Banner(), p, cfg.Timeout, cfg.FPS)

	fetcher := timesource.NewFetcher(cfg.Fetcher())

	if !cfg.NoTUI {
		if err := ui.Run(ui.Config{
			Source:   fetcher,
			Provider: p,
			Frame:    cfg.FrameInterval(),
		}); err != nil {
			log.Fatalf("TUI error: %v", err)
		}
		log.Printf("Clock stopped")
		return
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	runner := app.New(app.Config{
		Source:   fetcher,
		Provider: p,
		Frame:    cfg.FrameInterval(),
	})
	if err := runner.Run(ctx); err != nil && ctx.Err() == nil {
		log.Fatalf("Clock error: %v", err)
	}

	lat := runner.Latency()
	if lat.Count > 0 {
		log.Printf("Fetch latency: p50 %v, p95 %v over %d requests",
			lat.P50.Round(time.Millisecond), lat.P95.Round(time.Millisecond), lat.Count)
	}
}

// applyFlags overrides config values with flags given on the command line
func applyFlags(cfg *config.Config) {
	flag.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "provider":
			cfg.Provider = *provider
		case "timeout":
			cfg.Timeout = *timeout
		case "fps":
			cfg.FPS = *fps
		case "log-file":
			cfg.LogFile = *logFile
		case "no-tui":
			cfg.NoTUI = *noTUI
		}
	})
}
