// Package describe composes the Markdown description of a pull request.
package describe

import (
	"fmt"
	"strings"

	"github.com/qiniu/x/log"

	"github.com/benmed00/prmeta/internal/bump"
	"github.com/benmed00/prmeta/internal/compat"
	"github.com/benmed00/prmeta/pkg/models"
)

// Kind tells which template produced a description.
type Kind string

const (
	KindOverride   Kind = "override"
	KindDependency Kind = "dependency"
	KindGeneric    Kind = "generic"
)

// Description is a rendered PR description plus what it was derived from.
type Description struct {
	Kind     Kind
	Markdown string

	// Set only for KindDependency.
	Bump      *models.DependencyBump
	Magnitude models.Magnitude
	Note      string

	// ReviewPriority is the priority shown in the description body. It is
	// derived from the magnitude and differs from the label priority.
	ReviewPriority string
}

// Synthesizer renders descriptions. It is read-only after construction and
// Render is a pure function of its inputs.
type Synthesizer struct {
	kb        *compat.KnowledgeBase
	overrides *Overrides
	milestone string
}

// Option configures a Synthesizer.
type Option func(*Synthesizer)

// WithMilestone sets the milestone named in generated descriptions.
func WithMilestone(title string) Option {
	return func(s *Synthesizer) {
		s.milestone = title
	}
}

// New creates a synthesizer. A nil knowledge base or override table is
// treated as empty.
func New(kb *compat.KnowledgeBase, overrides *Overrides, opts ...Option) *Synthesizer {
	if overrides == nil {
		overrides = NoOverrides()
	}
	s := &Synthesizer{kb: kb, overrides: overrides}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// HasKnowledgeBase reports whether the synthesizer was given a knowledge base.
func (s *Synthesizer) HasKnowledgeBase() bool {
	return s.kb != nil
}

// Render selects a template for pr and renders it: the PR's override if it
// has one, else the dependency template when the title is a bump, else the
// generic template wrapping the current body.
func (s *Synthesizer) Render(pr models.PullRequestRef, labels models.LabelSet) Description {
	out, ok, err := s.overrides.render(pr)
	switch {
	case err != nil:
		log.Warnf("Override template for PR #%d failed, using generated description: %v", pr.Number, err)
	case ok:
		return Description{Kind: KindOverride, Markdown: out, ReviewPriority: labels.Priority}
	}

	if b, ok := bump.Parse(pr.Title); ok {
		return s.renderDependency(b, labels)
	}
	return Description{
		Kind:           KindGeneric,
		Markdown:       s.renderGeneric(pr, labels),
		ReviewPriority: labels.Priority,
	}
}

// HasTemplate reports whether Render would produce more than the generic
// fallback for pr.
func (s *Synthesizer) HasTemplate(pr models.PullRequestRef) bool {
	if s.overrides.Has(pr.Number) {
		return true
	}
	_, ok := bump.Parse(pr.Title)
	return ok
}

const (
	breakingBanner   = "⚠️ **Breaking changes possible** - Please review changelog and migration guide"
	compatibleBanner = "✅ Should be backward compatible"
)

const changesRequired = `### 🔧 Changes Required

- [ ] Dependency updated in ` + "`package.json`" + ` or workflow file
- [ ] Lock file updated (if applicable)
- [ ] Build verified: ` + "`npm run build`" + ` (for npm packages)
- [ ] Tests verified: ` + "`npm run test:run`" + ` (for npm packages)
- [ ] Linting verified: ` + "`npm run lint`" + ` (for npm packages)
- [ ] Workflow verified (for GitHub Actions)
- [ ] Affected functionality tested manually

`

const verificationChecklist = `### ✅ Verification Checklist

- [ ] Build succeeds: ` + "`npm run build`" + ` (for npm packages)
- [ ] All tests pass: ` + "`npm run test:run`" + ` (for npm packages)
- [ ] Linting passes: ` + "`npm run lint`" + ` (for npm packages)
- [ ] No TypeScript errors (for npm packages)
- [ ] Workflow runs successfully (for GitHub Actions)
- [ ] Affected functionality tested manually
- [ ] Breaking changes reviewed and addressed (if applicable)
- [ ] Migration guide reviewed (if applicable)

`

const migrationNotes = `### 📝 Migration Notes

Please review the migration guide for this major version update and address any breaking changes.

`

func (s *Synthesizer) renderDependency(b models.DependencyBump, labels models.LabelSet) Description {
	magnitude := bump.Classify(b.OldVersion, b.NewVersion)
	note, _ := s.kb.Lookup(b.Package, b.NewVersion)
	priority := ReviewPriority(b.Package, magnitude)
	known := magnitude != models.MagnitudeUnknown

	var sb strings.Builder
	fmt.Fprintf(&sb, "## 📦 Dependency Update: %s\n\n", b.Package)

	sb.WriteString("### Version Change\n")
	fmt.Fprintf(&sb, "- **Previous**: `%s`\n", b.OldVersion)
	fmt.Fprintf(&sb, "- **New**: `%s`\n", b.NewVersion)
	if known {
		fmt.Fprintf(&sb, "- **Change Type**: %s version bump\n", magnitude)
	}
	sb.WriteString("\n")

	if known {
		sb.WriteString("### ⚠️ Compatibility Analysis\n\n")
		if magnitude.IsBreaking() {
			sb.WriteString(breakingBanner)
		} else {
			sb.WriteString(compatibleBanner)
		}
		sb.WriteString("\n\n")
	}
	if note != "" {
		fmt.Fprintf(&sb, "**Note**: %s\n\n", note)
	}

	sb.WriteString(changesRequired)
	sb.WriteString(verificationChecklist)
	if magnitude.IsBreaking() && note != "" {
		sb.WriteString(migrationNotes)
	}

	sb.WriteString("### 🔗 Related\n\n")
	if s.milestone != "" {
		fmt.Fprintf(&sb, "- **Milestone**: %s\n", s.milestone)
	}
	sb.WriteString("- **Type**: Maintenance / Dependency Update\n")
	fmt.Fprintf(&sb, "- **Review Priority**: %s\n", priority)
	writeLabels(&sb, labels)
	if known {
		fmt.Fprintf(&sb, "- **Breaking**: %s\n", yesNo(magnitude.IsBreaking()))
	}
	sb.WriteString("\n### 🚀 Status\n\n⏳ Awaiting verification and testing\n")

	bc := b
	return Description{
		Kind:           KindDependency,
		Markdown:       sb.String(),
		Bump:           &bc,
		Magnitude:      magnitude,
		Note:           note,
		ReviewPriority: priority,
	}
}

const typeOfChange = `### Type of Change
- [ ] 🐛 Bug fix (non-breaking change which fixes an issue)
- [ ] ✨ New feature (non-breaking change which adds functionality)
- [ ] 💥 Breaking change (fix or feature that would cause existing functionality to not work as expected)
- [ ] 📚 Documentation update
- [ ] 🎨 Style/formatting changes
- [ ] ♻️ Code refactoring
- [ ] ⚡ Performance improvement
- [ ] ✅ Test additions/updates
- [ ] 🔧 Build/config changes

### Changes Made
- See commit history

### Testing
- [ ] All existing tests pass
- [ ] New tests added (if applicable)
- [ ] Manual testing completed

`

func (s *Synthesizer) renderGeneric(pr models.PullRequestRef, labels models.LabelSet) string {
	body := SourceBody(pr.GetBody())
	if body == "" {
		body = "No description provided"
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "## Description\n\n%s\n\n", embedBody(body))
	sb.WriteString(typeOfChange)
	sb.WriteString("### Related\n")
	if s.milestone != "" {
		fmt.Fprintf(&sb, "- **Milestone**: %s\n", s.milestone)
	}
	fmt.Fprintf(&sb, "- **Priority**: %s\n", labels.Priority)
	writeLabels(&sb, labels)
	sb.WriteString("\n### 🚀 Status\n⏳ Awaiting review\n")
	return sb.String()
}

func writeLabels(sb *strings.Builder, labels models.LabelSet) {
	if labels == (models.LabelSet{}) {
		return
	}
	names := labels.Names()
	for i, n := range names {
		names[i] = "`" + n + "`"
	}
	fmt.Fprintf(sb, "- **Labels**: %s\n", strings.Join(names, ", "))
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}
