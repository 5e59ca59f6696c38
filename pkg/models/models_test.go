package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheckRunState(t *testing.T) {
	tests := []struct {
		run  CheckRun
		want CheckState
	}{
		{CheckRun{Status: "queued"}, CheckPending},
		{CheckRun{Status: "in_progress"}, CheckPending},
		{CheckRun{Status: "completed", Conclusion: "success"}, CheckPassed},
		{CheckRun{Status: "completed", Conclusion: "skipped"}, CheckPassed},
		{CheckRun{Status: "completed", Conclusion: "neutral"}, CheckPassed},
		{CheckRun{Status: "completed", Conclusion: "failure"}, CheckFailed},
		{CheckRun{Status: "completed", Conclusion: "timed_out"}, CheckFailed},
		{CheckRun{Status: "completed", Conclusion: "cancelled"}, CheckFailed},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.run.State(), "%s/%s", tt.run.Status, tt.run.Conclusion)
	}
}

func TestLabelSetNames(t *testing.T) {
	set := LabelSet{Type: TypeMaintenance, Priority: PriorityHigh, Module: ModuleCI}
	assert.Equal(t, []string{"type:maintenance", "priority:high", "module:ci"}, set.Names())
}

func TestMagnitude(t *testing.T) {
	assert.Equal(t, "Major", MagnitudeMajor.String())
	assert.Equal(t, "Unknown", Magnitude(42).String())
	assert.True(t, MagnitudeMajor.IsBreaking())
	assert.False(t, MagnitudeMinor.IsBreaking())
}

func TestPullRequestRef(t *testing.T) {
	var pr PullRequestRef
	assert.Equal(t, "", pr.GetBody())
	assert.False(t, pr.HasBody())

	pr.Body = String("")
	assert.False(t, pr.HasBody())

	pr.Body = String("text")
	assert.True(t, pr.HasBody())
	assert.Equal(t, "text", pr.GetBody())
}

func TestUpdateRequestIsEmpty(t *testing.T) {
	assert.True(t, UpdateRequest{}.IsEmpty())
	assert.False(t, UpdateRequest{Milestone: Int(3)}.IsEmpty())
	assert.False(t, UpdateRequest{Labels: Strings(nil)}.IsEmpty())
}
