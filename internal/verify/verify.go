// Package verify reports which open PRs are missing metadata: milestone,
// labels, assignees, related issues, passing checks and project membership.
package verify

import (
	"context"
	"fmt"
	"strings"

	"github.com/benmed00/prmeta/internal/trace"
	"github.com/benmed00/prmeta/internal/updater"
	"github.com/benmed00/prmeta/pkg/models"
)

// Source is where PRs are read from.
type Source interface {
	ListOpenPullRequests(ctx context.Context) ([]models.PullRequestRef, error)
	GetPullRequest(ctx context.Context, number int) (models.PullRequestRef, error)
}

// CheckLister is implemented by sources that can list a commit's check runs.
type CheckLister interface {
	ListCheckRuns(ctx context.Context, sha string) ([]models.CheckRun, error)
}

// ProjectLister is implemented by sources that know a PR's project boards.
type ProjectLister interface {
	ProjectIDs(ctx context.Context, number int) ([]string, error)
}

// Options selects PRs and the expected metadata.
type Options struct {
	Numbers   []int
	Filter    updater.Filter
	Milestone string
	Assignee  string
	ProjectID string
}

// CheckSummary counts check runs by state.
type CheckSummary struct {
	Passed  int
	Failed  int
	Pending int
	Failing []string
}

// State is the overall state: failed if any run failed, else pending if
// any is still running, else passed. It is empty when there are no runs.
func (c CheckSummary) State() models.CheckState {
	switch {
	case c.Failed > 0:
		return models.CheckFailed
	case c.Pending > 0:
		return models.CheckPending
	case c.Passed > 0:
		return models.CheckPassed
	}
	return ""
}

func summarizeChecks(runs []models.CheckRun) CheckSummary {
	var s CheckSummary
	for _, r := range runs {
		switch r.State() {
		case models.CheckPassed:
			s.Passed++
		case models.CheckFailed:
			s.Failed++
			s.Failing = append(s.Failing, r.Name)
		default:
			s.Pending++
		}
	}
	return s
}

// Status is the verified metadata of one PR.
type Status struct {
	Number         int
	Title          string
	MergeableState string
	Milestone      string
	Labels         []string
	Assignees      []string
	RelatedIssues  []int
	ClosingIssues  []int
	Checks         CheckSummary
	// Projects is nil when the source cannot list projects.
	Projects []string

	// Problems lists lookups that failed; the fields they fill are empty.
	Problems []string
}

func (s Status) hasLabelPrefix(prefix string) bool {
	for _, l := range s.Labels {
		if strings.HasPrefix(l, prefix) {
			return true
		}
	}
	return false
}

// HasLabelSet reports whether the type, priority and module labels are all set.
func (s Status) HasLabelSet() bool {
	return s.hasLabelPrefix("type:") && s.hasLabelPrefix("priority:") && s.hasLabelPrefix("module:")
}

// OnProject reports whether the PR is on projectID, or on any board when
// projectID is empty.
func (s Status) OnProject(projectID string) bool {
	if projectID == "" {
		return len(s.Projects) > 0
	}
	for _, p := range s.Projects {
		if p == projectID {
			return true
		}
	}
	return false
}

// Missing lists the expected metadata the PR lacks.
func (s Status) Missing(opts Options) []string {
	var missing []string
	switch {
	case s.Milestone == "":
		missing = append(missing, "milestone")
	case opts.Milestone != "" && s.Milestone != opts.Milestone:
		missing = append(missing, fmt.Sprintf("milestone %q", opts.Milestone))
	}
	if !s.HasLabelSet() {
		missing = append(missing, "labels")
	}
	switch {
	case len(s.Assignees) == 0:
		missing = append(missing, "assignee")
	case opts.Assignee != "" && !contains(s.Assignees, opts.Assignee):
		missing = append(missing, "assignee "+opts.Assignee)
	}
	if s.Projects != nil && !s.OnProject(opts.ProjectID) {
		missing = append(missing, "project")
	}
	return missing
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

// Summary counts PRs per check, like the metadata dashboard.
type Summary struct {
	Total             int
	WithMilestone     int
	WithLabels        int
	WithAssignees     int
	WithRelatedIssues int
	InProject         int
	ChecksPassing     int
	ChecksFailing     int
	ChecksPending     int
	Complete          int
	FailedToFetch     int
}

// Report is the result of a verification run.
type Report struct {
	Statuses []Status
	Summary  Summary
	opts     Options
}

// Verify inspects the selected PRs. Lookup failures for a single PR are
// recorded as problems; only listing failures abort the run.
func Verify(ctx context.Context, src Source, opts Options) (*Report, error) {
	if src == nil {
		return nil, fmt.Errorf("%w: PR source", updater.ErrConfigurationMissing)
	}
	ctx = trace.NewContext(ctx, trace.NewRunID())

	numbers := opts.Numbers
	if len(numbers) == 0 {
		prs, err := src.ListOpenPullRequests(ctx)
		if err != nil {
			return nil, updater.NewStoreError("list", 0, err)
		}
		for _, pr := range prs {
			numbers = append(numbers, pr.Number)
		}
	}

	report := &Report{opts: opts}
	for _, number := range numbers {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		prCtx := trace.WithPullRequest(ctx, number)

		pr, err := src.GetPullRequest(prCtx, number)
		if err != nil {
			trace.Warn(prCtx, "Could not fetch PR details: %v", err)
			report.Summary.FailedToFetch++
			continue
		}
		if !opts.Filter.Match(pr) {
			continue
		}
		report.add(inspect(prCtx, src, pr))
	}
	return report, nil
}

func inspect(ctx context.Context, src Source, pr models.PullRequestRef) Status {
	body := pr.GetBody()
	s := Status{
		Number:         pr.Number,
		Title:          pr.Title,
		MergeableState: pr.MergeableState,
		Milestone:      pr.Milestone,
		Labels:         pr.Labels,
		Assignees:      pr.Assignees,
		RelatedIssues:  RelatedIssues(body),
		ClosingIssues:  ClosingIssues(body),
	}

	if lister, ok := src.(CheckLister); ok && pr.HeadSHA != "" {
		runs, err := lister.ListCheckRuns(ctx, pr.HeadSHA)
		if err != nil {
			trace.Warn(ctx, "Could not list check runs: %v", err)
			s.Problems = append(s.Problems, "checks: "+err.Error())
		} else {
			s.Checks = summarizeChecks(runs)
		}
	}

	if lister, ok := src.(ProjectLister); ok {
		projects, err := lister.ProjectIDs(ctx, pr.Number)
		if err != nil {
			trace.Warn(ctx, "Could not list projects: %v", err)
			s.Problems = append(s.Problems, "projects: "+err.Error())
		} else {
			s.Projects = append([]string{}, projects...)
		}
	}
	return s
}

func (r *Report) add(s Status) {
	sum := &r.Summary
	sum.Total++
	if s.Milestone != "" {
		sum.WithMilestone++
	}
	if len(s.Labels) > 0 {
		sum.WithLabels++
	}
	if len(s.Assignees) > 0 {
		sum.WithAssignees++
	}
	if len(s.RelatedIssues) > 0 {
		sum.WithRelatedIssues++
	}
	if s.OnProject(r.opts.ProjectID) {
		sum.InProject++
	}
	switch s.Checks.State() {
	case models.CheckPassed:
		sum.ChecksPassing++
	case models.CheckFailed:
		sum.ChecksFailing++
	case models.CheckPending:
		sum.ChecksPending++
	}
	if len(s.Missing(r.opts)) == 0 {
		sum.Complete++
	}
	r.Statuses = append(r.Statuses, s)
}
