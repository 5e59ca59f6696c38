package bump

import (
	"strings"

	"github.com/hashicorp/go-version"

	"github.com/benmed00/prmeta/pkg/models"
)

// Classify compares two version strings and returns the change magnitude.
//
// Plain numbers (action pins such as "4") differ as Major or are equal as
// Patch. Dotted versions compare their first three components: a different
// first component is Major, a different second one is Minor, anything else
// is Patch. Versions that cannot be read yield Unknown.
func Classify(oldVer, newVer string) models.Magnitude {
	if isDigits(oldVer) && isDigits(newVer) {
		if trimZeros(oldVer) != trimZeros(newVer) {
			return models.MagnitudeMajor
		}
		return models.MagnitudePatch
	}

	o, ok := segments(oldVer)
	if !ok {
		return models.MagnitudeUnknown
	}
	n, ok := segments(newVer)
	if !ok {
		return models.MagnitudeUnknown
	}

	switch {
	case o[0] != n[0]:
		return models.MagnitudeMajor
	case len(o) > 1 && len(n) > 1 && o[1] != n[1]:
		return models.MagnitudeMinor
	default:
		return models.MagnitudePatch
	}
}

// segments returns the numeric value of up to the first three dotted
// components of v. Only the components actually present are returned.
func segments(v string) ([]int64, bool) {
	v = strings.TrimPrefix(strings.TrimSpace(v), "v")
	parts := strings.Split(v, ".")
	if len(parts) > 3 {
		parts = parts[:3]
	}
	for _, p := range parts {
		if !isDigits(p) {
			return nil, false
		}
	}

	parsed, err := version.NewVersion(strings.Join(parts, "."))
	if err != nil {
		return nil, false
	}
	segs := parsed.Segments64()
	if len(segs) < len(parts) {
		return nil, false
	}
	return segs[:len(parts)], true
}

// trimZeros normalizes a digit string so equal numbers of any size compare
// equal as strings.
func trimZeros(s string) string {
	if t := strings.TrimLeft(s, "0"); t != "" {
		return t
	}
	return "0"
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
