package updater

import (
	"fmt"
	"strings"

	"github.com/qiniu/x/log"

	"github.com/benmed00/prmeta/internal/describe"
	"github.com/benmed00/prmeta/internal/trace"
	"github.com/benmed00/prmeta/pkg/models"
)

// AxisResult is the outcome of writing one axis of one PR.
type AxisResult struct {
	Axis    models.Axis
	Outcome models.Outcome
	Reason  string
	Err     error
}

// PullRequestResult is what a run did to one PR.
type PullRequestResult struct {
	Number int
	Title  string
	Kind   describe.Kind
	Labels models.LabelSet
	// Body is the rendered description, kept even when it was not written.
	Body string
	Axes []AxisResult
}

// Axis returns the result for axis, if recorded.
func (r PullRequestResult) Axis(axis models.Axis) (AxisResult, bool) {
	for _, a := range r.Axes {
		if a.Axis == axis {
			return a, true
		}
	}
	return AxisResult{}, false
}

// Failed reports whether any axis of the PR failed.
func (r PullRequestResult) Failed() bool {
	for _, a := range r.Axes {
		if a.Outcome == models.OutcomeFailed {
			return true
		}
	}
	return false
}

// Report summarizes a run.
type Report struct {
	RunID   trace.TraceID
	DryRun  bool
	Results []PullRequestResult
	// Filtered counts PRs dropped by Options.Filter.
	Filtered int

	tally map[models.Axis]map[models.Outcome]int
}

func newReport(runID trace.TraceID, dryRun bool) *Report {
	return &Report{
		RunID:  runID,
		DryRun: dryRun,
		tally:  make(map[models.Axis]map[models.Outcome]int),
	}
}

func (r *Report) add(res PullRequestResult) {
	for _, a := range res.Axes {
		if r.tally[a.Axis] == nil {
			r.tally[a.Axis] = make(map[models.Outcome]int)
		}
		r.tally[a.Axis][a.Outcome]++
	}
	r.Results = append(r.Results, res)
}

// Count returns how many PRs ended with outcome on axis.
func (r *Report) Count(axis models.Axis, outcome models.Outcome) int {
	return r.tally[axis][outcome]
}

// Failures returns the number of PRs with at least one failed axis.
func (r *Report) Failures() int {
	n := 0
	for _, res := range r.Results {
		if res.Failed() {
			n++
		}
	}
	return n
}

// Summary renders the per-axis tallies on one line.
func (r *Report) Summary() string {
	parts := make([]string, 0, len(models.Axes))
	for _, axis := range models.Axes {
		parts = append(parts, fmt.Sprintf("%s %d/%d/%d", axis,
			r.Count(axis, models.OutcomeUpdated),
			r.Count(axis, models.OutcomeSkipped),
			r.Count(axis, models.OutcomeFailed)))
	}
	return "updated/skipped/failed: " + strings.Join(parts, ", ")
}

// Log writes the summary and every failure to the package logger.
func (r *Report) Log() {
	log.Infof("Processed %d PRs (%d filtered, %d with failures), %s",
		len(r.Results), r.Filtered, r.Failures(), r.Summary())
	for _, res := range r.Results {
		for _, a := range res.Axes {
			if a.Outcome == models.OutcomeFailed {
				log.Errorf("PR #%d %s: %v", res.Number, a.Axis, a.Err)
			}
		}
	}
}
