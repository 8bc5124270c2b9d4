// ABOUTME: Sliding window of fetch latencies
// ABOUTME: Wraps tachymeter to report percentiles for the debug panel
package timesource

import (
	"time"

	"github.com/jamiealquiza/tachymeter"
)

// LatencySummary is a snapshot of recent fetch latencies
type LatencySummary struct {
	Count int
	P50   time.Duration
	P95   time.Duration
	Max   time.Duration
}

// Latency records how long fetches take
type Latency struct {
	tach  *tachymeter.Tachymeter
	count int
}

// NewLatency keeps the last window samples
func NewLatency(window int) *Latency {
	if window <= 0 {
		window = 32
	}
	return &Latency{tach: tachymeter.New(&tachymeter.Config{Size: window})}
}

// Record adds a completed fetch. Results without a latency are ignored.
func (l *Latency) Record(r Result) {
	if r.Latency <= 0 {
		return
	}
	l.tach.AddTime(r.Latency)
	l.count++
}

// Summary calculates the current percentiles
func (l *Latency) Summary() LatencySummary {
	if l.count == 0 {
		return LatencySummary{}
	}

	m := l.tach.Calc()
	return LatencySummary{
		Count: l.count,
		P50:   m.Time.P50,
		P95:   m.Time.P95,
		Max:   m.Time.Max,
	}
}
