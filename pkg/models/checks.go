package models

// CheckRun is a CI check reported on a PR's head commit.
type CheckRun struct {
	Name string `json:"name"`
	// Status is queued, in_progress or completed.
	Status string `json:"status"`
	// Conclusion is set once Status is completed, e.g. success or failure.
	Conclusion string `json:"conclusion,omitempty"`
}

// CheckState buckets a check run for reporting.
type CheckState string

const (
	CheckPassed  CheckState = "passed"
	CheckFailed  CheckState = "failed"
	CheckPending CheckState = "pending"
)

// State classifies the run. Neutral and skipped conclusions count as passed.
func (c CheckRun) State() CheckState {
	if c.Status != "completed" {
		return CheckPending
	}
	switch c.Conclusion {
	case "success", "neutral", "skipped":
		return CheckPassed
	default:
		return CheckFailed
	}
}
