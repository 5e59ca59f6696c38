package github

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/benmed00/prmeta/internal/config"
	"github.com/benmed00/prmeta/internal/updater"
	"github.com/benmed00/prmeta/pkg/models"
)

// fakeGitHub serves the slice of the GitHub API the store uses.
type fakeGitHub struct {
	mu       sync.Mutex
	server   *httptest.Server
	requests map[string]json.RawMessage
	graphql  []string
}

func newFakeGitHub(t *testing.T) *fakeGitHub {
	f := &fakeGitHub{requests: make(map[string]json.RawMessage)}
	mux := http.NewServeMux()

	mux.HandleFunc("/repos/o/r/pulls", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "open", r.URL.Query().Get("state"))
		f.rateHeaders(w)
		if r.URL.Query().Get("page") == "2" {
			fmt.Fprint(w, `[{"number": 90, "title": "Fix login redirect"}]`)
			return
		}
		w.Header().Set("Link", fmt.Sprintf(`<%s/repos/o/r/pulls?state=open&page=2>; rel="next"`, f.server.URL))
		fmt.Fprint(w, `[{"number": 42, "title": "chore(deps): bump date-fns from 3.0.0 to 4.1.0"}]`)
	})
	mux.HandleFunc("/repos/o/r/pulls/42", func(w http.ResponseWriter, r *http.Request) {
		f.rateHeaders(w)
		if r.Method == http.MethodPatch {
			f.capture("PATCH pulls/42", r)
			fmt.Fprint(w, `{"number": 42}`)
			return
		}
		fmt.Fprint(w, `{
			"number": 42,
			"node_id": "PR_node42",
			"title": "chore(deps): bump date-fns from 3.0.0 to 4.1.0",
			"body": "Bumps date-fns.",
			"user": {"login": "dependabot[bot]"},
			"head": {"sha": "abc123"},
			"mergeable_state": "clean",
			"labels": [{"name": "dependencies"}],
			"milestone": {"number": 3, "title": "v1.3 - Quality & Polish"},
			"assignees": [{"login": "benmed00"}]
		}`)
	})
	mux.HandleFunc("/repos/o/r/pulls/404", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"message": "Not Found"}`)
	})
	mux.HandleFunc("/repos/o/r/issues/42", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		f.capture("PATCH issues/42", r)
		fmt.Fprint(w, `{"number": 42}`)
	})
	mux.HandleFunc("/repos/o/r/milestones", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "all", r.URL.Query().Get("state"))
		fmt.Fprint(w, `[{"number": 1, "title": "v1.2"}, {"number": 3, "title": "v1.3 - Quality & Polish"}]`)
	})
	mux.HandleFunc("/repos/o/r/commits/abc123/check-runs", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"total_count": 3, "check_runs": [
			{"name": "build", "status": "completed", "conclusion": "success"},
			{"name": "lint", "status": "completed", "conclusion": "failure"},
			{"name": "e2e", "status": "in_progress"}
		]}`)
	})
	mux.HandleFunc("/graphql", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Query string `json:"query"`
		}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		f.mu.Lock()
		f.graphql = append(f.graphql, req.Query)
		f.mu.Unlock()

		const rl = `"rateLimit": {"limit": 5000, "cost": 1, "remaining": 4990, "resetAt": "2030-01-01T00:00:00Z"}`
		switch {
		case strings.Contains(req.Query, "addProjectV2ItemById"):
			fmt.Fprint(w, `{"data": {"addProjectV2ItemById": {"item": {"id": "PVTI_1"}}}}`)
		case strings.Contains(req.Query, "projectItems"):
			fmt.Fprintf(w, `{"data": {"repository": {"pullRequest": {"projectItems": {"nodes": [{"project": {"id": "PVT_a"}}, {"project": {"id": "PVT_b"}}]}}}, %s}}`, rl)
		default:
			fmt.Fprintf(w, `{"data": {"repository": {"pullRequest": {"id": "PR_fetched"}}, %s}}`, rl)
		}
	})

	f.server = httptest.NewServer(mux)
	t.Cleanup(f.server.Close)
	return f
}

func (f *fakeGitHub) rateHeaders(w http.ResponseWriter) {
	w.Header().Set("X-RateLimit-Limit", "5000")
	w.Header().Set("X-RateLimit-Remaining", "4321")
	w.Header().Set("X-RateLimit-Reset", "1900000000")
}

func (f *fakeGitHub) capture(key string, r *http.Request) {
	data, _ := io.ReadAll(r.Body)
	f.mu.Lock()
	f.requests[key] = data
	f.mu.Unlock()
}

func (f *fakeGitHub) client(t *testing.T) *Client {
	c, err := NewClient(f.server.Client(), "o", "r", f.server.URL+"/graphql",
		WithBaseURL(f.server.URL),
		WithRateLimitMonitor(NewRateLimitMonitor(config.GitHubAPIConfig{RateLimitThreshold: 10})))
	require.NoError(t, err)
	return c
}

func TestNewClient(t *testing.T) {
	_, err := NewClient(http.DefaultClient, "", "r", "")
	assert.Error(t, err)

	c, err := NewClient(http.DefaultClient, "o", "r", "")
	require.NoError(t, err)
	assert.Equal(t, "o/r", c.Repository())
	assert.Nil(t, c.Monitor())
}

func TestListOpenPullRequests(t *testing.T) {
	f := newFakeGitHub(t)
	c := f.client(t)

	prs, err := c.ListOpenPullRequests(context.Background())
	require.NoError(t, err)
	require.Len(t, prs, 2)
	assert.Equal(t, 42, prs[0].Number)
	assert.Equal(t, 90, prs[1].Number)
	assert.Nil(t, prs[1].Body)

	stats := c.Monitor().GetStatistics()
	assert.Equal(t, int64(2), stats.RESTCalls)
	require.NotNil(t, stats.RESTLimit)
	assert.Equal(t, 4321, stats.RESTLimit.Remaining)
}

func TestGetPullRequest(t *testing.T) {
	f := newFakeGitHub(t)
	c := f.client(t)

	pr, err := c.GetPullRequest(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, "Bumps date-fns.", pr.GetBody())
	assert.Equal(t, "PR_node42", pr.NodeID)
	assert.Equal(t, "dependabot[bot]", pr.Author)
	assert.Equal(t, "abc123", pr.HeadSHA)
	assert.Equal(t, "clean", pr.MergeableState)
	assert.Equal(t, []string{"dependencies"}, pr.Labels)
	assert.Equal(t, "v1.3 - Quality & Polish", pr.Milestone)
	assert.Equal(t, []string{"benmed00"}, pr.Assignees)

	_, err = c.GetPullRequest(context.Background(), 404)
	assert.ErrorContains(t, err, "PR #404")
}

func TestUpdatePullRequest(t *testing.T) {
	f := newFakeGitHub(t)
	c := f.client(t)
	ctx := context.Background()

	require.NoError(t, c.UpdatePullRequest(ctx, 42, models.UpdateRequest{}))
	assert.Empty(t, f.requests)

	require.NoError(t, c.UpdatePullRequest(ctx, 42, models.UpdateRequest{Body: models.String("## New")}))
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(f.requests["PATCH pulls/42"], &body))
	assert.Equal(t, "## New", body["body"])
	assert.NotContains(t, f.requests, "PATCH issues/42")

	require.NoError(t, c.UpdatePullRequest(ctx, 42, models.UpdateRequest{
		Labels:    models.Strings([]string{"dependencies", "type:maintenance"}),
		Milestone: models.Int(3),
	}))
	var issue map[string]interface{}
	require.NoError(t, json.Unmarshal(f.requests["PATCH issues/42"], &issue))
	assert.Equal(t, []interface{}{"dependencies", "type:maintenance"}, issue["labels"])
	assert.Equal(t, float64(3), issue["milestone"])
	assert.NotContains(t, issue, "assignees")
}

func TestResolveMilestone(t *testing.T) {
	f := newFakeGitHub(t)
	c := f.client(t)

	n, err := c.ResolveMilestone(context.Background(), "v1.3 - Quality & Polish")
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	_, err = c.ResolveMilestone(context.Background(), "v9")
	assert.ErrorIs(t, err, updater.ErrMilestoneNotFound)
}

func TestListCheckRuns(t *testing.T) {
	f := newFakeGitHub(t)
	runs, err := f.client(t).ListCheckRuns(context.Background(), "abc123")
	require.NoError(t, err)
	require.Len(t, runs, 3)
	assert.Equal(t, models.CheckPassed, runs[0].State())
	assert.Equal(t, models.CheckFailed, runs[1].State())
	assert.Equal(t, models.CheckPending, runs[2].State())
}

func TestAddToProject(t *testing.T) {
	f := newFakeGitHub(t)
	c := f.client(t)
	ctx := context.Background()

	require.NoError(t, c.AddToProject(ctx, models.PullRequestRef{Number: 42, NodeID: "PR_node42"}, "PVT_x"))
	require.Len(t, f.graphql, 1)
	assert.Contains(t, f.graphql[0], "addProjectV2ItemById")

	// Without a node id the store looks it up first.
	require.NoError(t, c.AddToProject(ctx, models.PullRequestRef{Number: 42}, "PVT_x"))
	require.Len(t, f.graphql, 3)
	assert.Contains(t, f.graphql[1], "pullRequest(number: $number)")
	assert.Equal(t, int64(3), c.Monitor().GetStatistics().GraphQLCalls)
}

func TestProjectIDs(t *testing.T) {
	f := newFakeGitHub(t)
	c := f.client(t)

	ids, err := c.ProjectIDs(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, []string{"PVT_a", "PVT_b"}, ids)

	stats := c.Monitor().GetStatistics()
	require.NotNil(t, stats.GraphQLLimit)
	assert.Equal(t, 4990, stats.GraphQLLimit.Remaining)
}

func TestNewClientFromConfig(t *testing.T) {
	_, err := NewClientFromConfig(context.Background(), nil)
	assert.Error(t, err)

	_, err = NewClientFromConfig(context.Background(), &config.Config{})
	assert.ErrorIs(t, err, config.ErrMissingCredential)

	cfg := config.Default()
	cfg.GitHub.Token = "ghp"
	cfg.GitHub.Repository = "o/r"
	cfg.GitHub.BaseURL = "https://ghe.example.com/api/v3"
	c, err := NewClientFromConfig(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, "o/r", c.Repository())
	assert.Equal(t, "https://ghe.example.com/api/v3/", c.rest.BaseURL.String())
	assert.NotNil(t, c.Monitor())
}
