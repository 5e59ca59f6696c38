package updater

import (
	"strings"

	"github.com/benmed00/prmeta/internal/bump"
	"github.com/benmed00/prmeta/pkg/models"
)

// Options controls what a run touches and writes.
type Options struct {
	// Numbers restricts the run to these PRs. Empty means every open PR.
	Numbers []int
	Filter  Filter

	// Milestone is a milestone title resolved once per run through the
	// store. MilestoneNumber, when set, is used as is.
	Milestone       string
	MilestoneNumber int
	Assignee        string
	ProjectID       string

	// SkipUnrecognized leaves the description of PRs that have neither an
	// override nor a parsable bump title untouched.
	SkipUnrecognized bool

	// DryRun computes every axis and writes nothing.
	DryRun bool

	// Disabled axes are reported as skipped.
	Disabled []models.Axis
}

func (o Options) enabled(axis models.Axis) bool {
	for _, a := range o.Disabled {
		if a == axis {
			return false
		}
	}
	return true
}

// Filter selects which PRs a run processes.
type Filter struct {
	// OnlyDependencies keeps PRs whose title mentions a bump.
	OnlyDependencies bool
	// ExcludeActions drops GitHub Actions bumps, i.e. packages under actions/.
	ExcludeActions bool
}

// Match reports whether the filter keeps pr.
func (f Filter) Match(pr models.PullRequestRef) bool {
	if f.OnlyDependencies && !bump.IsDependencyTitle(pr.Title) {
		return false
	}
	if f.ExcludeActions {
		if b, ok := bump.Parse(pr.Title); ok && strings.HasPrefix(b.Package, "actions/") {
			return false
		}
	}
	return true
}
