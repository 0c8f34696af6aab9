package results

import (
	"errors"
	"strings"

	"github.com/blang/semver/v4"
)

const (
	// FormatVersion is written to every saved document.
	FormatVersion = "1.0.0"
	// supportedVersions is the range of document versions Load accepts.
	// Documents without a version predate versioning and are accepted too.
	supportedVersions = ">=1.0.0 <2.0.0"
)

// ErrUnsupportedVersion is returned when a baseline document was written
// by an incompatible version of the format.
var ErrUnsupportedVersion = errors.New("unsupported baseline format version")

// versionRequired reports whether version satisfies requirement. Either
// may carry a leading "v". An empty requirement is always satisfied.
func versionRequired(requirement, version string) bool {
	if requirement == "" {
		return true
	}
	v, err := semver.ParseTolerant(version)
	if err != nil {
		return false
	}
	r, err := semver.ParseRange(strings.ReplaceAll(requirement, "v", ""))
	if err != nil {
		return false
	}
	return r(v)
}
