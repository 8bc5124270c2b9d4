// ABOUTME: Probe app that queries time providers once
// ABOUTME: Prints the converted clock time and latency for each provider
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/harperreed/tiktok-clock/internal/face"
	"github.com/harperreed/tiktok-clock/internal/timesource"
	"github.com/harperreed/tiktok-clock/internal/version"
)

var (
	providerName = flag.String("provider", "all", "Provider to query: worldtimeapi, unixtime, ntp or all")
	timeout      = flag.Duration("timeout", timesource.DefaultTimeout, "Per-request timeout")
	utcOffset    = flag.Duration("utc-offset", timesource.DefaultUTCOffset, "Offset applied to the Unix epoch")
	verbose      = flag.Bool("v", false, "Log each request")
)

func main() {
	flag.Parse()

	log.SetFlags(log.Ltime | log.Lmicroseconds)
	if !*verbose {
		log.SetOutput(io.Discard)
	}

	providers := timesource.Providers()
	if *providerName != "all" {
		p, err := timesource.ParseProvider(*providerName)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(2)
		}
		providers = []timesource.Provider{p}
	}

	fmt.Printf("=== %s: provider probe ===\n", version.Banner())

	fetcher := timesource.NewFetcher(timesource.Config{
		Timeout:   *timeout,
		UTCOffset: *utcOffset,
	})
	latency := timesource.NewLatency(len(providers))

	failed := 0
	for _, p := range providers {
		res := fetcher.Fetch(context.Background(), p)
		latency.Record(res)

		if !res.OK() {
			failed++
			fmt.Printf("%-13s FAILED after %v: %v\n", p, res.Latency.Round(time.Millisecond), res.Err)
			continue
		}

		f := face.For(res.Time)
		fmt.Printf("%-13s %s  %s  (%v)  hands h=%.1f° m=%.1f° s=%.1f°\n",
			p, res.Time.Format("2006-01-02"), f.Digital, res.Latency.Round(time.Millisecond),
			f.Hour, f.Minute, f.Second)
	}

	s := latency.Summary()
	fmt.Printf("\n%d/%d providers answered; p50 %v, max %v\n",
		len(providers)-failed, len(providers), s.P50.Round(time.Millisecond), s.Max.Round(time.Millisecond))

	if failed == len(providers) {
		os.Exit(1)
	}
}
