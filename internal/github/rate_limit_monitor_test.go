package github

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/benmed00/prmeta/internal/config"
)

func TestRateLimitMonitor(t *testing.T) {
	m := NewRateLimitMonitor(config.GitHubAPIConfig{RateLimitThreshold: 100})
	reset := time.Now().Add(time.Hour)

	m.RecordRESTAPICall(5000, 4000, reset)
	m.RecordRESTAPICall(0, 0, time.Time{})
	m.RecordGraphQLAPICall(5000, 4500, 3, reset)

	stats := m.GetStatistics()
	assert.Equal(t, int64(2), stats.RESTCalls)
	assert.Equal(t, int64(1), stats.GraphQLCalls)
	assert.Equal(t, int64(3), stats.GraphQLCost)
	require.NotNil(t, stats.RESTLimit)
	assert.Equal(t, 4000, stats.RESTLimit.Remaining, "headerless responses keep the last known limit")
	assert.False(t, m.IsRateLimitCritical())

	stats.RESTLimit.Remaining = 1
	assert.Equal(t, 4000, m.GetStatistics().RESTLimit.Remaining, "statistics are copies")

	m.RecordRESTAPICall(5000, 50, reset)
	assert.True(t, m.IsRateLimitCritical())
	assert.NotPanics(t, m.LogStatistics)
}

func TestRateLimitMonitorDisabled(t *testing.T) {
	m := NewRateLimitMonitor(config.GitHubAPIConfig{DisableRateMonitoring: true})
	m.RecordRESTAPICall(5000, 1, time.Now())
	assert.Zero(t, m.GetStatistics().RESTCalls)
	assert.False(t, m.IsRateLimitCritical())

	var nilMonitor *RateLimitMonitor
	assert.NotPanics(t, func() {
		nilMonitor.RecordRESTAPICall(5000, 1, time.Now())
		nilMonitor.RecordGraphQLAPICall(5000, 1, 1, time.Now())
		nilMonitor.LogStatistics()
	})
	assert.NoError(t, nilMonitor.WaitForRateLimit(context.Background(), APIREST, time.Minute))
}

func TestWaitForRateLimit(t *testing.T) {
	m := NewRateLimitMonitor(config.GitHubAPIConfig{RateLimitThreshold: 10})

	t.Run("remaining calls", func(t *testing.T) {
		m.RecordRESTAPICall(5000, 5, time.Now().Add(time.Hour))
		assert.NoError(t, m.WaitForRateLimit(context.Background(), APIREST, time.Minute))
	})

	t.Run("reset too far away", func(t *testing.T) {
		m.RecordRESTAPICall(5000, 0, time.Now().Add(time.Hour))
		assert.NoError(t, m.WaitForRateLimit(context.Background(), APIREST, time.Minute))
	})

	t.Run("cancelled while waiting", func(t *testing.T) {
		m.RecordRESTAPICall(5000, 0, time.Now().Add(30*time.Second))
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		assert.ErrorIs(t, m.WaitForRateLimit(ctx, APIREST, time.Minute), context.Canceled)
	})

	t.Run("short wait", func(t *testing.T) {
		m.RecordGraphQLAPICall(5000, 0, 1, time.Now().Add(20*time.Millisecond))
		assert.NoError(t, m.WaitForRateLimit(context.Background(), APIGraphQL, time.Minute))
	})
}
