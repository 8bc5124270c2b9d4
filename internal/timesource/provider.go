// ABOUTME: Time provider selector and default endpoints
// ABOUTME: WorldTimeAPI and UnixTime over HTTP, NTP over UDP
package timesource

import (
	"errors"
	"fmt"
	"strings"
)

// Provider selects which time service to ask
type Provider int

const (
	WorldTimeAPI Provider = iota
	UnixTime
	NTP
)

const (
	// DefaultWorldTimeAPIURL answers with {datetime, unixtime}
	DefaultWorldTimeAPIURL = "http://worldtimeapi.org/api/ip"

	// DefaultUnixTimeURL answers with {UnixTimeStamp}
	DefaultUnixTimeURL = "https://showcase.api.linx.twenty57.net/UnixTime/tounixtimestamp?datetime=now"

	// DefaultNTPHost is queried by the NTP provider
	DefaultNTPHost = "pool.ntp.org"
)

// ErrUnknownProvider is returned for an unrecognised provider name
var ErrUnknownProvider = errors.New("unknown time provider")

// Providers lists every provider in selector order
func Providers() []Provider {
	return []Provider{WorldTimeAPI, UnixTime, NTP}
}

func (p Provider) String() string {
	switch p {
	case WorldTimeAPI:
		return "worldtimeapi"
	case UnixTime:
		return "unixtime"
	case NTP:
		return "ntp"
	default:
		return fmt.Sprintf("provider(%d)", int(p))
	}
}

// ParseProvider maps a config/flag name to a Provider
func ParseProvider(name string) (Provider, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "worldtimeapi", "worldtime":
		return WorldTimeAPI, nil
	case "unixtime":
		return UnixTime, nil
	case "ntp":
		return NTP, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownProvider, name)
}
