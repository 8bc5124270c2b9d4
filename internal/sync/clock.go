// ABOUTME: Locally advanced clock with periodic network resync
// ABOUTME: Owns ClockTime; advanced per frame, replaced on successful sync
package sync

import (
	"log"
	"time"

	"github.com/harperreed/tiktok-clock/internal/face"
	"github.com/harperreed/tiktok-clock/internal/timesource"
)

// State is where the clock is in its sync lifecycle
type State int

const (
	StateAwaitingFirstSync State = iota
	StateSynced
	StateResyncing
)

func (s State) String() string {
	switch s {
	case StateAwaitingFirstSync:
		return "awaiting first sync"
	case StateSynced:
		return "synced"
	case StateResyncing:
		return "resyncing"
	default:
		return "unknown"
	}
}

// Clock holds the displayed time. It is not safe for concurrent use: a single
// update loop owns it and feeds it both frame deltas and fetch results.
type Clock struct {
	now   time.Time
	state State

	// atMark is true while the hour hand sits on 12
	atMark bool

	inFlight  int
	syncs     int
	failures  int
	lastSync  time.Time
	lastError error
}

// Stats is a snapshot for status displays
type Stats struct {
	State     State
	InFlight  int
	Syncs     int
	Failures  int
	LastSync  time.Time
	LastError error
}

// NewClock creates a clock at the zero time, waiting for its first sync
func NewClock() *Clock {
	return &Clock{state: StateAwaitingFirstSync}
}

// Start renders the initial face. The caller must issue the startup fetch
// (and call BeginSync) alongside it.
func (c *Clock) Start() face.Face {
	f := face.For(c.now)
	c.atMark = face.AtTwelve(f.Hour)
	return f
}

// Advance moves the clock forward by dt and returns the new face. resync is
// true when the hour hand has just arrived at 12; the caller should fetch.
// Negative deltas are treated as zero.
func (c *Clock) Advance(dt time.Duration) (f face.Face, resync bool) {
	if dt > 0 {
		c.now = c.now.Add(dt)
	}

	f = face.For(c.now)
	mark := face.AtTwelve(f.Hour)
	resync = mark && !c.atMark
	c.atMark = mark

	if resync {
		log.Printf("Hour hand at 12 (%s), requesting resync", f.Digital)
	}
	return f, resync
}

// BeginSync records that a fetch has been issued. Fetches are not
// deduplicated; several may be in flight at once.
func (c *Clock) BeginSync() {
	c.inFlight++
	if c.state == StateSynced {
		c.state = StateResyncing
	}
}

// ApplySync folds a fetch result into the clock. A successful result
// replaces the time outright; a failed one is logged and otherwise ignored.
func (c *Clock) ApplySync(r timesource.Result) {
	if c.inFlight > 0 {
		c.inFlight--
	}

	if !r.OK() {
		c.failures++
		c.lastError = r.Err
		log.Printf("Time sync %s via %s failed, keeping local time: %v", r.ID, r.Provider, r.Err)
		if c.state == StateResyncing && c.inFlight == 0 {
			c.state = StateSynced
		}
		return
	}

	prev := c.now
	first := c.syncs == 0
	c.now = r.Time
	c.atMark = face.AtTwelve(face.HourAngle(c.now))
	c.syncs++
	c.lastSync = time.Now()
	c.lastError = nil

	if c.inFlight == 0 {
		c.state = StateSynced
	} else {
		c.state = StateResyncing
	}

	if first {
		log.Printf("Time sync %s via %s applied: %s", r.ID, r.Provider, c.now.Format(time.RFC3339))
		return
	}
	log.Printf("Time sync %s via %s applied: %s (jump %v)",
		r.ID, r.Provider, face.Digital(c.now), c.now.Sub(prev))
}

// Now returns the current clock time
func (c *Clock) Now() time.Time {
	return c.now
}

// Face returns the face for the current time without advancing
func (c *Clock) Face() face.Face {
	return face.For(c.now)
}

// State returns the sync state
func (c *Clock) State() State {
	return c.state
}

// Stats returns sync statistics
func (c *Clock) Stats() Stats {
	return Stats{
		State:     c.state,
		InFlight:  c.inFlight,
		Syncs:     c.syncs,
		Failures:  c.failures,
		LastSync:  c.lastSync,
		LastError: c.lastError,
	}
}
