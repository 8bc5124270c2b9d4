// ABOUTME: Alarm time entry with per-digit masking
// ABOUTME: Clamps each typed digit into a plausible HH:MM:SS range
package alarm

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Layout is the alarm display format
const Layout = "15:04:05"

// digitCount is HHMMSS
const digitCount = 6

// ErrIncomplete is returned when fewer than six digits have been entered
var ErrIncomplete = errors.New("alarm time incomplete")

// maxDigit returns the largest digit allowed at position i given the digits
// already accepted before it.
func maxDigit(i int, prev []byte) byte {
	switch i {
	case 0:
		return '2'
	case 1:
		if prev[0] == '2' {
			return '3'
		}
		return '9'
	case 2, 4:
		return '5'
	default:
		return '9'
	}
}

// Mask rewrites raw input into HH:MM:SS form. Non-digits are dropped, at most
// six digits are kept, and each digit is clamped to the largest value its
// position allows. Partial input stays partial: "9" becomes "2", "123"
// becomes "12:3".
func Mask(raw string) string {
	digits := make([]byte, 0, digitCount)
	for i := 0; i < len(raw) && len(digits) < digitCount; i++ {
		ch := raw[i]
		if ch < '0' || ch > '9' {
			continue
		}
		if limit := maxDigit(len(digits), digits); ch > limit {
			ch = limit
		}
		digits = append(digits, ch)
	}

	var b strings.Builder
	for i, d := range digits {
		if i == 2 || i == 4 {
			b.WriteByte(':')
		}
		b.WriteByte(d)
	}
	return b.String()
}

// Alarm is the user's alarm setting. It is displayed but never fired.
type Alarm struct {
	value string
	set   bool
}

// Set masks raw and stores it. Incomplete input is rejected and leaves the
// previous alarm in place.
func (a *Alarm) Set(raw string) error {
	masked := Mask(raw)
	if _, err := parse(masked); err != nil {
		return err
	}
	a.value = masked
	a.set = true
	return nil
}

// Clear removes the alarm
func (a *Alarm) Clear() {
	a.value = ""
	a.set = false
}

// IsSet reports whether an alarm has been set
func (a Alarm) IsSet() bool {
	return a.set
}

// String returns the masked alarm time, or "" when unset
func (a Alarm) String() string {
	return a.value
}

// TimeOfDay returns the alarm as an offset from midnight
func (a Alarm) TimeOfDay() (time.Duration, bool) {
	if !a.set {
		return 0, false
	}
	d, err := parse(a.value)
	return d, err == nil
}

func parse(masked string) (time.Duration, error) {
	if len(masked) != len(Layout) {
		return 0, fmt.Errorf("%w: %q", ErrIncomplete, masked)
	}
	t, err := time.Parse(Layout, masked)
	if err != nil {
		return 0, fmt.Errorf("invalid alarm time %q: %w", masked, err)
	}
	h, m, s := t.Clock()
	return time.Duration(h)*time.Hour + time.Duration(m)*time.Minute + time.Duration(s)*time.Second, nil
}
