// ABOUTME: Version and identification constants
// ABOUTME: Reported in the TUI header, the startup log and by clock-probe
package version

const (
	// Version is the release version of tiktok-clock
	Version = "0.3.0"

	// Product is the human-readable product name
	Product = "TikTok Clock"

	// Manufacturer identifies who ships the binary
	Manufacturer = "harperreed"
)

// Banner names the product, version and who ships it
func Banner() string {
	return Product + " " + Version + " by " + Manufacturer
}

// UserAgent is sent with every HTTP time lookup
func UserAgent() string {
	return "tiktok-clock/" + Version
}
