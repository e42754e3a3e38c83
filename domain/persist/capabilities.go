package persist

import (
	"regexp"

	"github.com/soocke/arcap-go/domain/media"
)

// Capabilities describes what the host can do with a finished artifact.
type Capabilities struct {
	// Share is true when a native share primitive exists at all.
	Share bool
	// ShareTypes restricts sharing to these MIME types; empty accepts any.
	ShareTypes []string
	// ConstrainedMobile marks platforms that cannot trigger a download or
	// share sheet without an on-screen interaction.
	ConstrainedMobile bool
	// Download is true when a programmatic save can be triggered.
	Download bool
}

// CanShareType reports whether a file of the given MIME type may be shared.
func (c Capabilities) CanShareType(mime string) bool {
	return c.Share && media.MatchesType(mime, c.ShareTypes)
}

// Detector produces the capability descriptor for the current host.
type Detector interface {
	Detect() Capabilities
}

// StaticDetector always reports the same descriptor.
type StaticDetector Capabilities

func (d StaticDetector) Detect() Capabilities { return Capabilities(d) }

var mobileUA = regexp.MustCompile(`iPad|iPhone|iPod`)

// UserAgentDetector derives the descriptor from a browser-style platform
// fingerprint. Base supplies the share/download flags.
type UserAgentDetector struct {
	UserAgent      string
	Platform       string
	MaxTouchPoints int
	Base           Capabilities
}

func (d UserAgentDetector) Detect() Capabilities {
	c := d.Base
	c.ConstrainedMobile = IsConstrainedMobile(d.UserAgent, d.Platform, d.MaxTouchPoints)
	return c
}

// IsConstrainedMobile matches iOS devices, including iPads that report a
// desktop Mac platform but expose multi-touch.
func IsConstrainedMobile(userAgent, platform string, maxTouchPoints int) bool {
	if mobileUA.MatchString(userAgent) {
		return true
	}
	return platform == "MacIntel" && maxTouchPoints > 1
}
