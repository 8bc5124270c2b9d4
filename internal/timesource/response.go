// ABOUTME: Provider response shapes and the epoch-seconds conversion
// ABOUTME: Field names are matched exactly, not case-folded
package timesource

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math"
	"time"
)

// DefaultUTCOffset is the fixed shift applied to every Unix timestamp
const DefaultUTCOffset = 3 * time.Hour

// MaxUnixSeconds is the largest timestamp magnitude that fits a time.Duration
const MaxUnixSeconds = float64(math.MaxInt64 / int64(time.Second))

// ErrMalformedResponse wraps every body that does not match the provider shape
var ErrMalformedResponse = errors.New("malformed time response")

// WorldTimeAPIResponse is the subset of worldtimeapi.org we read
type WorldTimeAPIResponse struct {
	Datetime string  `json:"datetime"`
	Unixtime float64 `json:"unixtime"`
}

// UnixTimeResponse is the linx UnixTime shape
type UnixTimeResponse struct {
	UnixTimeStamp float64 `json:"UnixTimeStamp"`
}

// Epoch returns 1970-01-01 shifted by offset
func Epoch(offset time.Duration) time.Time {
	return time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC).Add(offset)
}

// FromUnix converts seconds since the epoch into an absolute time.
// seconds must be within ±MaxUnixSeconds; the parsers reject anything outside.
func FromUnix(epoch time.Time, seconds float64) time.Time {
	return epoch.Add(time.Duration(seconds * float64(time.Second)))
}

// ParseWorldTimeAPI decodes a worldtimeapi body
func ParseWorldTimeAPI(body []byte) (WorldTimeAPIResponse, error) {
	var resp WorldTimeAPIResponse

	fields, err := decodeFields(body)
	if err != nil {
		return resp, err
	}
	if resp.Unixtime, err = numberField(fields, "unixtime"); err != nil {
		return resp, err
	}
	if raw, ok := fields["datetime"]; ok {
		// datetime is informational only; a non-string value leaves it empty
		if err := json.Unmarshal(raw, &resp.Datetime); err != nil {
			log.Printf("Ignoring unreadable worldtimeapi datetime %s: %v", raw, err)
		}
	}
	return resp, nil
}

// ParseUnixTime decodes a UnixTime body
func ParseUnixTime(body []byte) (UnixTimeResponse, error) {
	var resp UnixTimeResponse

	fields, err := decodeFields(body)
	if err != nil {
		return resp, err
	}
	resp.UnixTimeStamp, err = numberField(fields, "UnixTimeStamp")
	return resp, err
}

// encoding/json folds case when filling structs, so keys are looked up by hand
func decodeFields(body []byte) (map[string]json.RawMessage, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if fields == nil {
		return nil, fmt.Errorf("%w: empty body", ErrMalformedResponse)
	}
	return fields, nil
}

func numberField(fields map[string]json.RawMessage, key string) (float64, error) {
	raw, ok := fields[key]
	if !ok || string(raw) == "null" {
		return 0, fmt.Errorf("%w: missing field %q", ErrMalformedResponse, key)
	}

	var v float64
	if err := json.Unmarshal(raw, &v); err != nil {
		return 0, fmt.Errorf("%w: field %q: %v", ErrMalformedResponse, key, err)
	}
	if math.IsNaN(v) || math.Abs(v) > MaxUnixSeconds {
		return 0, fmt.Errorf("%w: field %q out of range: %v", ErrMalformedResponse, key, v)
	}
	return v, nil
}
