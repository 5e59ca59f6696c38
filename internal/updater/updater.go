// Package updater drives the enrichment pipeline over a PR store: it fetches
// each PR, classifies it, renders its description and writes every metadata
// axis with its own independent update.
package updater

import (
	"context"
	"errors"
	"slices"

	"github.com/benmed00/prmeta/internal/describe"
	"github.com/benmed00/prmeta/internal/labels"
	"github.com/benmed00/prmeta/internal/trace"
	"github.com/benmed00/prmeta/pkg/models"
)

// Plan is the pure result of the pipeline for one PR.
type Plan struct {
	PR          models.PullRequestRef
	Labels      models.LabelSet
	Description describe.Description
}

// Updater orchestrates one run. It is not safe for concurrent runs.
type Updater struct {
	store  Store
	engine *labels.Engine
	synth  *describe.Synthesizer
	opts   Options
}

// New creates an updater. Missing collaborators are reported by Run.
func New(store Store, engine *labels.Engine, synth *describe.Synthesizer, opts Options) *Updater {
	return &Updater{store: store, engine: engine, synth: synth, opts: opts}
}

// Plan classifies pr and renders its description without touching the store.
func (u *Updater) Plan(pr models.PullRequestRef) Plan {
	set := u.engine.Labels(pr.Title, pr.Number)
	return Plan{
		PR:          pr,
		Labels:      set,
		Description: u.synth.Render(pr, set),
	}
}

func (u *Updater) validate() error {
	switch {
	case u.store == nil:
		return configurationMissing("PR store")
	case u.engine == nil:
		return configurationMissing("label rules")
	case u.synth == nil:
		return configurationMissing("description synthesizer")
	case !u.synth.HasKnowledgeBase():
		return configurationMissing("knowledge base")
	}
	return nil
}

// Run processes every selected PR sequentially. Per-axis failures are
// recorded in the report and never stop the run; the returned error is
// reserved for configuration problems, listing failures and cancellation.
func (u *Updater) Run(ctx context.Context) (*Report, error) {
	if err := u.validate(); err != nil {
		return nil, err
	}

	runID := trace.NewRunID()
	ctx = trace.NewContext(ctx, runID)
	report := newReport(runID, u.opts.DryRun)

	numbers, err := u.selectNumbers(ctx)
	if err != nil {
		return nil, err
	}
	trace.Info(ctx, "Processing %d PRs (dry run: %v)", len(numbers), u.opts.DryRun)

	milestone := u.resolveMilestone(ctx)

	for _, number := range numbers {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		prCtx := trace.WithPullRequest(ctx, number)

		pr, err := u.store.GetPullRequest(prCtx, number)
		if err != nil {
			err = NewStoreError("get", number, err)
			trace.Error(prCtx, "Failed to fetch PR: %v", err)
			report.add(failAll(number, err))
			continue
		}
		if !u.opts.Filter.Match(pr) {
			trace.Debug(prCtx, "Filtered out: %s", pr.Title)
			report.Filtered++
			continue
		}

		res := u.process(prCtx, pr, milestone)
		report.add(res)
	}

	report.Log()
	return report, nil
}

func (u *Updater) selectNumbers(ctx context.Context) ([]int, error) {
	if len(u.opts.Numbers) > 0 {
		return u.opts.Numbers, nil
	}
	prs, err := u.store.ListOpenPullRequests(ctx)
	if err != nil {
		return nil, NewStoreError("list", 0, err)
	}
	numbers := make([]int, 0, len(prs))
	for _, pr := range prs {
		numbers = append(numbers, pr.Number)
	}
	return numbers, nil
}

// milestoneTarget is the milestone resolved for the whole run.
type milestoneTarget struct {
	title  string
	number int
	reason string // why the axis is skipped, when number is 0
	err    error
}

func (u *Updater) resolveMilestone(ctx context.Context) milestoneTarget {
	t := milestoneTarget{title: u.opts.Milestone, number: u.opts.MilestoneNumber}
	switch {
	case !u.opts.enabled(models.AxisMilestone):
		t.reason = "disabled"
	case t.number > 0:
	case t.title == "":
		t.reason = "no milestone configured"
	default:
		resolver, ok := u.store.(MilestoneResolver)
		if !ok {
			t.reason = "store cannot resolve milestones"
			break
		}
		n, err := resolver.ResolveMilestone(ctx, t.title)
		if err != nil {
			t.err = NewStoreError("resolve milestone", 0, err)
			trace.Error(ctx, "Failed to resolve milestone %q: %v", t.title, err)
			break
		}
		t.number = n
		trace.Info(ctx, "Milestone %q is #%d", t.title, n)
	}
	return t
}

func (u *Updater) process(ctx context.Context, pr models.PullRequestRef, milestone milestoneTarget) PullRequestResult {
	plan := u.Plan(pr)
	trace.Info(ctx, "%s: %s template, labels %v", pr.Title, plan.Description.Kind, plan.Labels.Names())

	res := PullRequestResult{
		Number: pr.Number,
		Title:  pr.Title,
		Kind:   plan.Description.Kind,
		Labels: plan.Labels,
		Body:   plan.Description.Markdown,
	}
	res.Axes = append(res.Axes,
		u.writeDescription(ctx, plan),
		u.writeLabels(ctx, plan),
		u.writeMilestone(ctx, pr, milestone),
		u.writeAssignee(ctx, pr),
		u.addToProject(ctx, pr),
	)
	return res
}

func (u *Updater) writeDescription(ctx context.Context, plan Plan) AxisResult {
	axis := models.AxisDescription
	switch {
	case !u.opts.enabled(axis):
		return skipped(axis, "disabled")
	case u.opts.SkipUnrecognized && plan.Description.Kind == describe.KindGeneric:
		return skipped(axis, "no template")
	case plan.PR.HasBody() && plan.PR.GetBody() == plan.Description.Markdown:
		return skipped(axis, "unchanged")
	}
	return u.update(ctx, axis, plan.PR.Number, models.UpdateRequest{Body: models.String(plan.Description.Markdown)})
}

func (u *Updater) writeLabels(ctx context.Context, plan Plan) AxisResult {
	axis := models.AxisLabels
	if !u.opts.enabled(axis) {
		return skipped(axis, "disabled")
	}
	merged, changed := MergeLabels(plan.PR.Labels, plan.Labels.Names())
	if !changed {
		return skipped(axis, "unchanged")
	}
	return u.update(ctx, axis, plan.PR.Number, models.UpdateRequest{Labels: models.Strings(merged)})
}

func (u *Updater) writeMilestone(ctx context.Context, pr models.PullRequestRef, t milestoneTarget) AxisResult {
	axis := models.AxisMilestone
	switch {
	case t.err != nil:
		return AxisResult{Axis: axis, Outcome: models.OutcomeFailed, Err: t.err}
	case t.number == 0:
		return skipped(axis, t.reason)
	case t.title != "" && pr.Milestone == t.title:
		return skipped(axis, "unchanged")
	}
	return u.update(ctx, axis, pr.Number, models.UpdateRequest{Milestone: models.Int(t.number)})
}

func (u *Updater) writeAssignee(ctx context.Context, pr models.PullRequestRef) AxisResult {
	axis := models.AxisAssignee
	switch {
	case !u.opts.enabled(axis):
		return skipped(axis, "disabled")
	case u.opts.Assignee == "":
		return skipped(axis, "no assignee configured")
	case slices.Contains(pr.Assignees, u.opts.Assignee):
		return skipped(axis, "unchanged")
	}
	assignees := append(slices.Clone(pr.Assignees), u.opts.Assignee)
	return u.update(ctx, axis, pr.Number, models.UpdateRequest{Assignees: models.Strings(assignees)})
}

func (u *Updater) addToProject(ctx context.Context, pr models.PullRequestRef) AxisResult {
	axis := models.AxisProject
	if !u.opts.enabled(axis) {
		return skipped(axis, "disabled")
	}
	if u.opts.ProjectID == "" {
		return skipped(axis, "no project configured")
	}
	adder, ok := u.store.(ProjectAdder)
	if !ok {
		return skipped(axis, "store cannot add to projects")
	}
	if u.opts.DryRun {
		return skipped(axis, "dry run")
	}
	if err := adder.AddToProject(ctx, pr, u.opts.ProjectID); err != nil {
		return u.failed(ctx, axis, NewStoreError("add to project", pr.Number, err))
	}
	trace.Info(ctx, "Added to project %s", u.opts.ProjectID)
	return AxisResult{Axis: axis, Outcome: models.OutcomeUpdated}
}

func (u *Updater) update(ctx context.Context, axis models.Axis, number int, req models.UpdateRequest) AxisResult {
	if u.opts.DryRun {
		return skipped(axis, "dry run")
	}
	if err := u.store.UpdatePullRequest(ctx, number, req); err != nil {
		return u.failed(ctx, axis, NewStoreError("update "+string(axis), number, err))
	}
	trace.Info(ctx, "Updated %s", axis)
	return AxisResult{Axis: axis, Outcome: models.OutcomeUpdated}
}

func (u *Updater) failed(ctx context.Context, axis models.Axis, err error) AxisResult {
	if errors.Is(err, context.Canceled) {
		trace.Warn(ctx, "Cancelled while writing %s", axis)
	} else {
		trace.Error(ctx, "Failed to write %s: %v", axis, err)
	}
	return AxisResult{Axis: axis, Outcome: models.OutcomeFailed, Err: err}
}

func skipped(axis models.Axis, reason string) AxisResult {
	return AxisResult{Axis: axis, Outcome: models.OutcomeSkipped, Reason: reason}
}

func failAll(number int, err error) PullRequestResult {
	res := PullRequestResult{Number: number}
	for _, axis := range models.Axes {
		res.Axes = append(res.Axes, AxisResult{Axis: axis, Outcome: models.OutcomeFailed, Err: err})
	}
	return res
}

// MergeLabels adds the computed labels to the existing ones, keeping the
// existing order. changed is false when every computed label is already set.
func MergeLabels(existing, computed []string) (merged []string, changed bool) {
	merged = slices.Clone(existing)
	for _, name := range computed {
		if !slices.Contains(merged, name) {
			merged = append(merged, name)
			changed = true
		}
	}
	return merged, changed
}
