package labels

import (
	"slices"
	"strings"

	"github.com/benmed00/prmeta/internal/bump"
	"github.com/benmed00/prmeta/pkg/models"
)

// Engine applies Rules. It holds no mutable state.
type Engine struct {
	rules Rules
}

// NewEngine creates an engine for the given rules.
func NewEngine(rules Rules) *Engine {
	if rules.DefaultModule == "" {
		rules.DefaultModule = models.ModuleCore
	}
	return &Engine{rules: rules}
}

// Labels classifies a PR by title and number.
func (e *Engine) Labels(title string, number int) models.LabelSet {
	lower := strings.ToLower(title)
	return models.LabelSet{
		Type:     labelType(lower),
		Priority: e.priority(title, lower, number),
		Module:   e.module(lower),
	}
}

func labelType(lower string) string {
	switch {
	case containsAny(lower, "deps", "bump"):
		return models.TypeMaintenance
	case strings.Contains(lower, "fix"):
		return models.TypeBug
	case strings.Contains(lower, "revert"):
		return models.TypeMaintenance
	default:
		return models.TypeMaintenance
	}
}

func (e *Engine) priority(title, lower string, number int) string {
	if slices.Contains(e.rules.LowPriorityPRs, number) {
		return models.PriorityLow
	}
	if containsAny(lower, e.rules.HighPriorityKeywords...) {
		return models.PriorityHigh
	}
	if e.rules.MajorBumpIsHigh {
		if b, ok := bump.Parse(title); ok && bump.Classify(b.OldVersion, b.NewVersion) == models.MagnitudeMajor {
			return models.PriorityHigh
		}
	}
	if containsAny(lower, e.rules.LowPriorityKeywords...) {
		return models.PriorityLow
	}
	return models.PriorityMedium
}

func (e *Engine) module(lower string) string {
	for _, r := range e.rules.Modules {
		if containsAny(lower, r.Keywords...) {
			return r.Module
		}
		for _, all := range r.AllOf {
			if len(all) > 0 && containsAll(lower, all...) {
				return r.Module
			}
		}
	}
	return e.rules.DefaultModule
}

func containsAny(s string, words ...string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

func containsAll(s string, words ...string) bool {
	for _, w := range words {
		if !strings.Contains(s, w) {
			return false
		}
	}
	return true
}
