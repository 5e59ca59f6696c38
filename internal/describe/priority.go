package describe

import (
	"strings"

	"github.com/benmed00/prmeta/pkg/models"
)

// Packages that deserve a closer look even on minor or patch bumps.
var highAttentionPackages = []string{"date-fns", "@types/node", "bcryptjs", "tailwind-merge"}

// ReviewPriority is the priority written into a dependency description.
//
// It only looks at the package and the magnitude, so it can disagree with
// the label priority, which only looks at the title and PR number.
func ReviewPriority(pkg string, magnitude models.Magnitude) string {
	if magnitude == models.MagnitudeMajor {
		return models.PriorityHigh
	}
	for _, p := range highAttentionPackages {
		if strings.Contains(pkg, p) {
			return models.PriorityMedium
		}
	}
	if magnitude == models.MagnitudeMinor {
		return models.PriorityMedium
	}
	return models.PriorityLow
}
