package sdk

import (
	"regexp"
	"strings"
)

// Release channels recognised by the catalog.
const (
	ChannelStable = "stable"
	ChannelBeta   = "beta"
	ChannelDev    = "dev"
)

var (
	betaSuffixRe = regexp.MustCompile(`-\d+\.\d+\.pre`)
	devSuffixRe  = regexp.MustCompile(`-\d+\.\d+\.\d+`)
)

// KnownChannel reports whether ch is one of the recognised channels.
func KnownChannel(ch string) bool {
	return ch == ChannelStable || ch == ChannelBeta || ch == ChannelDev
}

// InferChannel classifies a version string whose channel was not stated
// explicitly. Modern beta builds end in "-N.N.pre"; historical dev builds
// carry a "dev" marker, a bare ".pre" segment, or an extra numeric triple.
func InferChannel(version string) string {
	lower := strings.ToLower(version)
	switch {
	case strings.Contains(lower, "beta"), betaSuffixRe.MatchString(version):
		return ChannelBeta
	case strings.Contains(lower, "dev"),
		strings.Contains(version, ".pre"),
		devSuffixRe.MatchString(version):
		return ChannelDev
	default:
		return ChannelStable
	}
}

// NormalizeChannel returns ch when it is a recognised channel, otherwise
// falls back to inference from the version string.
func NormalizeChannel(ch, version string) string {
	if KnownChannel(ch) {
		return ch
	}
	return InferChannel(version)
}
