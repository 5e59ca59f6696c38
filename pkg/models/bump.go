package models

// Magnitude is the classified size of a version change.
type Magnitude int

const (
	MagnitudeUnknown Magnitude = iota
	MagnitudePatch
	MagnitudeMinor
	MagnitudeMajor
)

func (m Magnitude) String() string {
	switch m {
	case MagnitudeMajor:
		return "Major"
	case MagnitudeMinor:
		return "Minor"
	case MagnitudePatch:
		return "Patch"
	default:
		return "Unknown"
	}
}

// IsBreaking reports whether the change may contain breaking changes.
func (m Magnitude) IsBreaking() bool {
	return m == MagnitudeMajor
}

// DependencyBump describes a dependency version change parsed from a PR title.
type DependencyBump struct {
	// Package may name a compound pair, e.g. "bcryptjs and @types/bcryptjs".
	Package    string `json:"package" yaml:"package"`
	OldVersion string `json:"old_version" yaml:"old_version"`
	NewVersion string `json:"new_version" yaml:"new_version"`

	// Compound is set for the two-package form whose versions are not read from the title.
	Compound bool `json:"compound,omitempty" yaml:"compound,omitempty"`
}
