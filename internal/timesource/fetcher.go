// ABOUTME: Fetches authoritative time from a provider
// ABOUTME: One request per call, fixed timeout, no retries
package timesource

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/beevik/ntp"
	"github.com/google/uuid"
	"github.com/harperreed/tiktok-clock/internal/version"
)

// DefaultTimeout bounds every request
const DefaultTimeout = 3 * time.Second

// maxBody caps how much of a response we read
const maxBody = 64 << 10

// ErrBadStatus is returned for any non-200 HTTP answer
var ErrBadStatus = errors.New("unexpected HTTP status")

// Config holds fetcher configuration
type Config struct {
	Timeout time.Duration

	// UTCOffset shifts the Unix epoch. Zero is a valid offset and means plain
	// UTC, so it is never defaulted; pass DefaultUTCOffset for the +3h epoch.
	UTCOffset       time.Duration
	WorldTimeAPIURL string
	UnixTimeURL     string
	NTPHost         string
}

// Result is the outcome of one fetch. Err is nil on success.
type Result struct {
	ID       string
	Provider Provider
	Time     time.Time
	Latency  time.Duration
	Err      error
}

// OK reports whether the fetch produced a usable time
func (r Result) OK() bool {
	return r.Err == nil
}

// Source is anything that can look up the current time
type Source interface {
	Fetch(ctx context.Context, p Provider) Result
}

// Fetcher issues time lookups
type Fetcher struct {
	config Config
	epoch  time.Time
	client *http.Client

	// queryNTP is swapped out in tests
	queryNTP func(host string, opts ntp.QueryOptions) (*ntp.Response, error)
}

// NewFetcher creates a fetcher, filling unset timeout, URLs and NTP host with
// defaults. UTCOffset is used as given.
func NewFetcher(config Config) *Fetcher {
	if config.Timeout <= 0 {
		config.Timeout = DefaultTimeout
	}
	if config.WorldTimeAPIURL == "" {
		config.WorldTimeAPIURL = DefaultWorldTimeAPIURL
	}
	if config.UnixTimeURL == "" {
		config.UnixTimeURL = DefaultUnixTimeURL
	}
	if config.NTPHost == "" {
		config.NTPHost = DefaultNTPHost
	}

	return &Fetcher{
		config:   config,
		epoch:    Epoch(config.UTCOffset),
		client:   &http.Client{Timeout: config.Timeout},
		queryNTP: ntp.QueryWithOptions,
	}
}

// Fetch asks the provider for the current time.
// Failures are reported in Result.Err, never by panicking.
func (f *Fetcher) Fetch(ctx context.Context, p Provider) Result {
	res := Result{
		ID:       uuid.New().String(),
		Provider: p,
	}

	log.Printf("Time sync %s: requesting %s", res.ID, p)
	start := time.Now()

	var seconds float64
	var err error
	switch p {
	case WorldTimeAPI:
		seconds, err = f.fetchWorldTimeAPI(ctx)
	case UnixTime:
		seconds, err = f.fetchUnixTime(ctx)
	case NTP:
		seconds, err = f.fetchNTP(ctx)
	default:
		err = fmt.Errorf("%w: %s", ErrUnknownProvider, p)
	}
	res.Latency = time.Since(start)

	if err != nil {
		res.Err = err
		log.Printf("Time sync %s error: %v", res.ID, err)
		return res
	}

	res.Time = FromUnix(f.epoch, seconds)
	log.Printf("Time sync %s: %s in %v", res.ID, res.Time.Format(time.RFC3339), res.Latency)
	return res
}

func (f *Fetcher) fetchWorldTimeAPI(ctx context.Context) (float64, error) {
	body, err := f.get(ctx, f.config.WorldTimeAPIURL)
	if err != nil {
		return 0, err
	}
	resp, err := ParseWorldTimeAPI(body)
	if err != nil {
		return 0, err
	}
	return resp.Unixtime, nil
}

func (f *Fetcher) fetchUnixTime(ctx context.Context) (float64, error) {
	body, err := f.get(ctx, f.config.UnixTimeURL)
	if err != nil {
		return 0, err
	}
	resp, err := ParseUnixTime(body)
	if err != nil {
		return 0, err
	}
	return resp.UnixTimeStamp, nil
}

func (f *Fetcher) fetchNTP(ctx context.Context) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	resp, err := f.queryNTP(f.config.NTPHost, ntp.QueryOptions{Timeout: f.config.Timeout})
	if err != nil {
		return 0, fmt.Errorf("ntp query %s failed: %w", f.config.NTPHost, err)
	}
	if err := resp.Validate(); err != nil {
		return 0, fmt.Errorf("ntp response from %s invalid: %w", f.config.NTPHost, err)
	}

	return float64(resp.Time.UnixNano()) / float64(time.Second), nil
}

// get performs a GET and returns the body of a 200 response
func (f *Fetcher) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("User-Agent", version.UserAgent())
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: HTTP %d", ErrBadStatus, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, fmt.Errorf("failed to read body: %w", err)
	}
	return body, nil
}
