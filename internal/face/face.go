// ABOUTME: Maps a clock time to hand angles and a digital readout
// ABOUTME: Angles are degrees of rotation, negative is clockwise from 12
package face

import (
	"math"
	"time"
)

// DigitalLayout is the zero-padded 24-hour readout format
const DigitalLayout = "15:04:05"

// Face is everything needed to draw the clock for one frame
type Face struct {
	Hour    float64
	Minute  float64
	Second  float64
	Digital string
}

// For computes the face for t
func For(t time.Time) Face {
	return Face{
		Hour:    HourAngle(t),
		Minute:  MinuteAngle(t),
		Second:  SecondAngle(t),
		Digital: Digital(t),
	}
}

// SecondAngle returns the second-hand rotation, 6 degrees per second
func SecondAngle(t time.Time) float64 {
	return -float64(t.Second()) * 360 / 60
}

// MinuteAngle returns the minute-hand rotation.
// Seconds do not move the minute hand; it jumps once per minute.
func MinuteAngle(t time.Time) float64 {
	return -float64(t.Minute()*60) * 360 / 60 / 60
}

// HourAngle returns the hour-hand rotation.
// Hours above 12 are folded back by 12; 0 and 12 are left as-is, so noon
// yields -360 rather than 0.
func HourAngle(t time.Time) float64 {
	hours := float64(t.Hour())
	if hours > 12 {
		hours -= 12
	}
	hours += float64(t.Minute()) / 60
	return -hours / 12 * 360
}

// Digital returns the HH:MM:SS readout
func Digital(t time.Time) string {
	return t.Format(DigitalLayout)
}

// AtTwelve reports whether a hand angle points exactly at the 12 mark
func AtTwelve(angle float64) bool {
	return math.Mod(angle, 360) == 0
}
