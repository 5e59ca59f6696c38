package github

import (
	"context"
	"sync"
	"time"

	"github.com/qiniu/x/log"

	"github.com/benmed00/prmeta/internal/config"
)

// Names of the two GitHub API rate limit buckets.
const (
	APIREST    = "REST"
	APIGraphQL = "GraphQL"
)

// RateLimitMonitor tracks GitHub API rate limit usage across a run. It is
// the only state shared by store calls and is safe for concurrent use.
type RateLimitMonitor struct {
	config     config.GitHubAPIConfig
	mutex      sync.RWMutex
	restLimit  *RateLimitStatus
	graphLimit *RateLimitStatus

	restCalls  int64
	graphCalls int64
	graphCost  int64
}

// RateLimitStatus represents the current rate limit status
type RateLimitStatus struct {
	Limit     int       `json:"limit"`
	Remaining int       `json:"remaining"`
	ResetAt   time.Time `json:"reset_at"`
	LastCheck time.Time `json:"last_check"`
}

// NewRateLimitMonitor creates a new rate limit monitor
func NewRateLimitMonitor(cfg config.GitHubAPIConfig) *RateLimitMonitor {
	return &RateLimitMonitor{config: cfg}
}

func (m *RateLimitMonitor) enabled() bool {
	return m != nil && !m.config.DisableRateMonitoring
}

// RecordRESTAPICall records a REST call. A zero limit means the response
// carried no rate headers and only the call is counted.
func (m *RateLimitMonitor) RecordRESTAPICall(limit, remaining int, resetAt time.Time) {
	if !m.enabled() {
		return
	}

	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.restCalls++
	if limit == 0 {
		return
	}
	m.restLimit = &RateLimitStatus{
		Limit:     limit,
		Remaining: remaining,
		ResetAt:   resetAt,
		LastCheck: time.Now(),
	}
	m.checkAndWarnRateLimit(APIREST, m.restLimit)
	log.Debugf("REST API rate limit: %d/%d remaining, resets at %s",
		remaining, limit, resetAt.Format("15:04:05"))
}

// RecordGraphQLAPICall records a GraphQL call and the cost it reported.
func (m *RateLimitMonitor) RecordGraphQLAPICall(limit, remaining, cost int, resetAt time.Time) {
	if !m.enabled() {
		return
	}

	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.graphCalls++
	m.graphCost += int64(cost)
	if limit == 0 {
		return
	}
	m.graphLimit = &RateLimitStatus{
		Limit:     limit,
		Remaining: remaining,
		ResetAt:   resetAt,
		LastCheck: time.Now(),
	}
	m.checkAndWarnRateLimit(APIGraphQL, m.graphLimit)
	log.Debugf("GraphQL API call - Cost: %d, Remaining: %d/%d", cost, remaining, limit)
}

func (m *RateLimitMonitor) checkAndWarnRateLimit(apiType string, status *RateLimitStatus) {
	if status.Remaining > m.config.RateLimitThreshold {
		return
	}
	percentage := float64(status.Remaining) / float64(status.Limit) * 100
	log.Warnf("%s API rate limit warning: %d/%d remaining (%.1f%%), resets at %s",
		apiType, status.Remaining, status.Limit, percentage, status.ResetAt.Format("15:04:05"))
	if percentage < 10 {
		log.Errorf("%s API rate limit critically low: %d/%d remaining (%.1f%%)",
			apiType, status.Remaining, status.Limit, percentage)
	}
}

// RateLimitStatistics summarizes the calls made so far.
type RateLimitStatistics struct {
	RESTCalls    int64            `json:"rest_calls"`
	GraphQLCalls int64            `json:"graphql_calls"`
	GraphQLCost  int64            `json:"graphql_cost"`
	RESTLimit    *RateLimitStatus `json:"rest_limit"`
	GraphQLLimit *RateLimitStatus `json:"graphql_limit"`
}

// GetStatistics returns a copy of the current statistics
func (m *RateLimitMonitor) GetStatistics() RateLimitStatistics {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	return RateLimitStatistics{
		RESTCalls:    m.restCalls,
		GraphQLCalls: m.graphCalls,
		GraphQLCost:  m.graphCost,
		RESTLimit:    copyStatus(m.restLimit),
		GraphQLLimit: copyStatus(m.graphLimit),
	}
}

func copyStatus(status *RateLimitStatus) *RateLimitStatus {
	if status == nil {
		return nil
	}
	c := *status
	return &c
}

// LogStatistics logs the statistics, typically once at the end of a run.
func (m *RateLimitMonitor) LogStatistics() {
	if !m.enabled() {
		return
	}

	stats := m.GetStatistics()
	log.Infof("GitHub API usage: %d REST calls, %d GraphQL calls (cost %d)",
		stats.RESTCalls, stats.GraphQLCalls, stats.GraphQLCost)
	if s := stats.RESTLimit; s != nil {
		log.Infof("REST API rate limit: %d/%d (%.1f%% remaining)",
			s.Remaining, s.Limit, float64(s.Remaining)/float64(s.Limit)*100)
	}
	if s := stats.GraphQLLimit; s != nil {
		log.Infof("GraphQL API rate limit: %d/%d (%.1f%% remaining)",
			s.Remaining, s.Limit, float64(s.Remaining)/float64(s.Limit)*100)
	}
}

// IsRateLimitCritical reports whether either bucket is below 10%.
func (m *RateLimitMonitor) IsRateLimitCritical() bool {
	if m == nil {
		return false
	}
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	for _, s := range []*RateLimitStatus{m.restLimit, m.graphLimit} {
		if s != nil && float64(s.Remaining)/float64(s.Limit)*100 < 10 {
			return true
		}
	}
	return false
}

// WaitForRateLimit blocks until the bucket resets when it is exhausted.
// Waits longer than maxWait are not attempted; the call then proceeds and
// GitHub reports the error.
func (m *RateLimitMonitor) WaitForRateLimit(ctx context.Context, apiType string, maxWait time.Duration) error {
	if m == nil {
		return nil
	}
	m.mutex.RLock()
	status := m.restLimit
	if apiType == APIGraphQL {
		status = m.graphLimit
	}
	if status == nil || status.Remaining > 0 {
		m.mutex.RUnlock()
		return nil
	}
	resetAt := status.ResetAt
	m.mutex.RUnlock()

	wait := time.Until(resetAt)
	if wait <= 0 || wait > maxWait {
		return nil
	}
	log.Warnf("%s API rate limit exhausted, waiting %v for reset", apiType, wait)

	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
