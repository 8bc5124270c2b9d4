// ABOUTME: Headless clock runner
// ABOUTME: Drives the clock from a ticker and applies fetch results on one loop
package app

import (
	"context"
	"log"
	"time"

	"github.com/harperreed/tiktok-clock/internal/face"
	"github.com/harperreed/tiktok-clock/internal/sync"
	"github.com/harperreed/tiktok-clock/internal/timesource"
	"github.com/jonboulle/clockwork"
)

// Config holds runner configuration
type Config struct {
	Source   timesource.Source
	Provider timesource.Provider
	Frame    time.Duration

	// Clock supplies frame ticks; defaults to the real clock
	Clock clockwork.Clock

	// OnFrame is called after every frame. Defaults to logging the digital
	// readout whenever it changes.
	OnFrame func(face.Face)
}

// Runner owns a sync.Clock and is the only goroutine that touches it
type Runner struct {
	config  Config
	clock   *sync.Clock
	latency *timesource.Latency
	results chan timesource.Result
}

// New creates a runner
func New(config Config) *Runner {
	if config.Frame <= 0 {
		config.Frame = time.Second / 30
	}
	if config.Clock == nil {
		config.Clock = clockwork.NewRealClock()
	}
	if config.OnFrame == nil {
		config.OnFrame = logReadout()
	}

	return &Runner{
		config:  config,
		clock:   sync.NewClock(),
		latency: timesource.NewLatency(32),
		results: make(chan timesource.Result, 4),
	}
}

// Run advances the clock until ctx is cancelled. Fetch results are folded
// in between frames, in the order they arrive.
func (r *Runner) Run(ctx context.Context) error {
	ticker := r.config.Clock.NewTicker(r.config.Frame)
	defer ticker.Stop()

	r.config.OnFrame(r.clock.Start())
	r.requestSync(ctx)

	last := r.config.Clock.Now()
	for {
		select {
		case now := <-ticker.Chan():
			f, resync := r.clock.Advance(now.Sub(last))
			last = now
			if resync {
				r.requestSync(ctx)
			}
			r.config.OnFrame(f)

		case res := <-r.results:
			r.latency.Record(res)
			r.clock.ApplySync(res)

		case <-ctx.Done():
			stats := r.clock.Stats()
			log.Printf("Clock stopped: %d syncs, %d failures, %d fetches abandoned",
				stats.Syncs, stats.Failures, stats.InFlight)
			return ctx.Err()
		}
	}
}

// requestSync starts a fetch without waiting for it
func (r *Runner) requestSync(ctx context.Context) {
	r.clock.BeginSync()

	go func() {
		res := r.config.Source.Fetch(ctx, r.config.Provider)
		select {
		case r.results <- res:
		case <-ctx.Done():
		}
	}()
}

// Stats returns the clock's sync statistics. Only safe once Run has returned.
func (r *Runner) Stats() sync.Stats {
	return r.clock.Stats()
}

// Latency returns fetch latency percentiles. Only safe once Run has returned.
func (r *Runner) Latency() timesource.LatencySummary {
	return r.latency.Summary()
}

func logReadout() func(face.Face) {
	var prev string
	return func(f face.Face) {
		if f.Digital == prev {
			return
		}
		prev = f.Digital
		log.Printf("%s  [h %.1f° m %.1f° s %.1f°]", f.Digital, f.Hour, f.Minute, f.Second)
	}
}
