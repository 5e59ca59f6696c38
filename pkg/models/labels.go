package models

import "strings"

// Label types
const (
	TypeBug         = "bug"
	TypeMaintenance = "maintenance"
)

// Priorities
const (
	PriorityHigh   = "High"
	PriorityMedium = "Medium"
	PriorityLow    = "Low"
)

// Modules
const (
	ModuleCI       = "ci"
	ModuleFrontend = "frontend"
	ModuleSecurity = "security"
	ModuleCore     = "core"
)

// LabelSet is the classification of a PR along the type, priority and module axes.
// It has no identity of its own and is recomputed on every run.
type LabelSet struct {
	Type     string `json:"type"`
	Priority string `json:"priority"`
	Module   string `json:"module"`
}

// Names renders the set as repository label names, e.g. "priority:high".
func (l LabelSet) Names() []string {
	return []string{
		"type:" + l.Type,
		"priority:" + strings.ToLower(l.Priority),
		"module:" + l.Module,
	}
}
