package verify

import (
	"fmt"
	"io"
	"strings"
)

// Write renders the report as a human readable checklist.
func (r *Report) Write(w io.Writer) {
	line := strings.Repeat("=", 80)
	fmt.Fprintln(w, "🔍 PR Metadata Verification")
	fmt.Fprintln(w, line)

	for _, s := range r.Statuses {
		fmt.Fprintf(w, "\n📋 PR #%d: %s\n", s.Number, s.Title)
		fmt.Fprintln(w, strings.Repeat("-", 80))

		mark(w, s.Milestone != "", "Milestone", orNone(s.Milestone))
		mark(w, s.HasLabelSet(), fmt.Sprintf("Labels (%d)", len(s.Labels)), orNone(strings.Join(s.Labels, ", ")))
		mark(w, len(s.Assignees) > 0, "Assignees", orNone(strings.Join(s.Assignees, ", ")))

		if len(s.RelatedIssues) > 0 {
			refs := make([]string, len(s.RelatedIssues))
			for i, n := range s.RelatedIssues {
				refs[i] = fmt.Sprintf("#%d", n)
			}
			fmt.Fprintf(w, "  ✅ Related Issues: %s\n", strings.Join(refs, ", "))
		} else {
			fmt.Fprintln(w, "  ℹ️  Related Issues: None found in description")
		}

		if s.Projects != nil {
			mark(w, s.OnProject(r.opts.ProjectID), "Project", orNone(strings.Join(s.Projects, ", ")))
		}
		if s.MergeableState != "" {
			fmt.Fprintf(w, "  ℹ️  Mergeable State: %s\n", s.MergeableState)
		}

		c := s.Checks
		if c.State() == "" {
			fmt.Fprintln(w, "  ℹ️  Checks: No check runs found")
		} else {
			fmt.Fprintf(w, "  📊 Checks: %d passing, %d failing, %d pending\n", c.Passed, c.Failed, c.Pending)
			if len(c.Failing) > 0 {
				fmt.Fprintf(w, "     Failing: %s\n", strings.Join(c.Failing, ", "))
			}
		}

		for _, p := range s.Problems {
			fmt.Fprintf(w, "  ⚠️  %s\n", p)
		}
		if missing := s.Missing(r.opts); len(missing) > 0 {
			fmt.Fprintf(w, "  ➡️  Missing: %s\n", strings.Join(missing, ", "))
		}
	}

	sum := r.Summary
	fmt.Fprintf(w, "\n%s\n\n📊 Summary:\n", line)
	fmt.Fprintf(w, "  Total PRs: %d\n", sum.Total)
	fmt.Fprintf(w, "  ✅ With Milestone: %d/%d\n", sum.WithMilestone, sum.Total)
	fmt.Fprintf(w, "  ✅ With Labels: %d/%d\n", sum.WithLabels, sum.Total)
	fmt.Fprintf(w, "  ✅ With Assignees: %d/%d\n", sum.WithAssignees, sum.Total)
	fmt.Fprintf(w, "  ✅ With Related Issues: %d/%d\n", sum.WithRelatedIssues, sum.Total)
	fmt.Fprintf(w, "  ✅ In Project Board: %d/%d\n", sum.InProject, sum.Total)
	fmt.Fprintf(w, "  ✅ Checks Passing: %d/%d\n", sum.ChecksPassing, sum.Total)
	fmt.Fprintf(w, "  ❌ Checks Failing: %d/%d\n", sum.ChecksFailing, sum.Total)
	fmt.Fprintf(w, "  ⏳ Checks Pending: %d/%d\n", sum.ChecksPending, sum.Total)
	fmt.Fprintf(w, "  🏁 Complete: %d/%d\n", sum.Complete, sum.Total)
	if sum.FailedToFetch > 0 {
		fmt.Fprintf(w, "  ⚠️  Could not fetch: %d\n", sum.FailedToFetch)
	}
}

func mark(w io.Writer, ok bool, name, value string) {
	icon := "❌"
	if ok {
		icon = "✅"
	}
	fmt.Fprintf(w, "  %s %s: %s\n", icon, name, value)
}

func orNone(v string) string {
	if v == "" {
		return "None"
	}
	return v
}
