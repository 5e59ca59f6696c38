package models

// Outcome is the terminal state of one update axis for one PR.
type Outcome string

const (
	OutcomeUpdated Outcome = "updated"
	OutcomeSkipped Outcome = "skipped"
	OutcomeFailed  Outcome = "failed"
)

// Axis is an independently written attribute of a PR.
type Axis string

const (
	AxisDescription Axis = "description"
	AxisLabels      Axis = "labels"
	AxisMilestone   Axis = "milestone"
	AxisAssignee    Axis = "assignee"
	AxisProject     Axis = "project"
)

// Axes lists every axis in the order they are written.
var Axes = []Axis{AxisDescription, AxisLabels, AxisMilestone, AxisAssignee, AxisProject}
