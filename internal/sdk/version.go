package sdk

import (
	"regexp"
	"strconv"
)

var semverRe = regexp.MustCompile(`^v?(\d+)\.(\d+)\.(\d+)`)

// semver is the leading numeric triple of a version string. Anything
// unparseable sorts as 0.0.0.
type semver [3]int

func parseSemver(s string) semver {
	m := semverRe.FindStringSubmatch(s)
	if m == nil {
		return semver{}
	}
	var v semver
	for i := 0; i < 3; i++ {
		n, err := strconv.Atoi(m[i+1])
		if err != nil {
			return semver{}
		}
		v[i] = n
	}
	return v
}

// compare returns -1, 0 or 1 ordering v against o.
func (v semver) compare(o semver) int {
	for i := 0; i < 3; i++ {
		switch {
		case v[i] < o[i]:
			return -1
		case v[i] > o[i]:
			return 1
		}
	}
	return 0
}
