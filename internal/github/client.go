package github

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/go-github/v58/github"
	"github.com/qiniu/x/log"

	"github.com/benmed00/prmeta/internal/updater"
	"github.com/benmed00/prmeta/pkg/models"
)

const (
	perPage = 100
	// Longest wait for an exhausted rate limit before giving up.
	maxRateLimitWait = 15 * time.Minute
)

// Client is the PR store for one repository. It implements updater.Store
// with its optional extensions and the verify report's source.
type Client struct {
	rest    *github.Client
	graphql *GraphQLClient
	monitor *RateLimitMonitor
	owner   string
	repo    string
}

var (
	_ updater.Store             = (*Client)(nil)
	_ updater.MilestoneResolver = (*Client)(nil)
	_ updater.ProjectAdder      = (*Client)(nil)
)

// ClientOption configures a Client.
type ClientOption func(*Client) error

// WithBaseURL points the REST client at a GitHub Enterprise or test API.
func WithBaseURL(restURL string) ClientOption {
	return func(c *Client) error {
		if restURL == "" {
			return nil
		}
		if !strings.HasSuffix(restURL, "/") {
			restURL += "/"
		}
		u, err := url.Parse(restURL)
		if err != nil {
			return fmt.Errorf("invalid GitHub API URL %q: %w", restURL, err)
		}
		c.rest.BaseURL = u
		return nil
	}
}

// WithRateLimitMonitor records the rate info of every call in m.
func WithRateLimitMonitor(m *RateLimitMonitor) ClientOption {
	return func(c *Client) error {
		c.monitor = m
		return nil
	}
}

// NewClient creates a store for owner/repo on top of an authenticated
// HTTP client. graphqlURL may be empty for github.com.
func NewClient(httpClient *http.Client, owner, repo, graphqlURL string, opts ...ClientOption) (*Client, error) {
	if owner == "" || repo == "" {
		return nil, fmt.Errorf("repository owner and name are required")
	}
	c := &Client{
		rest:  github.NewClient(httpClient),
		owner: owner,
		repo:  repo,
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	c.graphql = NewGraphQLClient(httpClient, graphqlURL, c.monitor)
	return c, nil
}

// Repository returns "owner/name".
func (c *Client) Repository() string {
	return c.owner + "/" + c.repo
}

// Monitor returns the rate limit monitor, or nil.
func (c *Client) Monitor() *RateLimitMonitor {
	return c.monitor
}

func (c *Client) record(resp *github.Response) {
	if resp == nil {
		return
	}
	c.monitor.RecordRESTAPICall(resp.Rate.Limit, resp.Rate.Remaining, resp.Rate.Reset.Time)
}

func (c *Client) wait(ctx context.Context) error {
	return c.monitor.WaitForRateLimit(ctx, APIREST, maxRateLimitWait)
}

// ListOpenPullRequests lists every open PR, oldest first.
func (c *Client) ListOpenPullRequests(ctx context.Context) ([]models.PullRequestRef, error) {
	opts := &github.PullRequestListOptions{
		State:       "open",
		Sort:        "created",
		Direction:   "asc",
		ListOptions: github.ListOptions{PerPage: perPage},
	}

	var all []models.PullRequestRef
	for {
		if err := c.wait(ctx); err != nil {
			return nil, err
		}
		prs, resp, err := c.rest.PullRequests.List(ctx, c.owner, c.repo, opts)
		c.record(resp)
		if err != nil {
			return nil, fmt.Errorf("failed to list open PRs: %w", err)
		}
		for _, pr := range prs {
			all = append(all, toRef(pr))
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	log.Infof("Found %d open PRs in %s", len(all), c.Repository())
	return all, nil
}

// GetPullRequest fetches one PR.
func (c *Client) GetPullRequest(ctx context.Context, number int) (models.PullRequestRef, error) {
	if err := c.wait(ctx); err != nil {
		return models.PullRequestRef{}, err
	}
	pr, resp, err := c.rest.PullRequests.Get(ctx, c.owner, c.repo, number)
	c.record(resp)
	if err != nil {
		return models.PullRequestRef{}, fmt.Errorf("failed to get PR #%d: %w", number, err)
	}
	return toRef(pr), nil
}

// UpdatePullRequest applies a partial update. The body goes through the
// pulls API; labels, milestone and assignees through the issues API, which
// replaces each list it is given.
func (c *Client) UpdatePullRequest(ctx context.Context, number int, req models.UpdateRequest) error {
	if req.IsEmpty() {
		return nil
	}
	if req.Body != nil {
		if err := c.wait(ctx); err != nil {
			return err
		}
		_, resp, err := c.rest.PullRequests.Edit(ctx, c.owner, c.repo, number, &github.PullRequest{Body: req.Body})
		c.record(resp)
		if err != nil {
			return fmt.Errorf("failed to update body of PR #%d: %w", number, err)
		}
		log.Debugf("Updated PR #%d body", number)
	}

	if req.Labels == nil && req.Milestone == nil && req.Assignees == nil {
		return nil
	}
	if err := c.wait(ctx); err != nil {
		return err
	}
	issueReq := &github.IssueRequest{
		Labels:    req.Labels,
		Milestone: req.Milestone,
		Assignees: req.Assignees,
	}
	_, resp, err := c.rest.Issues.Edit(ctx, c.owner, c.repo, number, issueReq)
	c.record(resp)
	if err != nil {
		return fmt.Errorf("failed to update metadata of PR #%d: %w", number, err)
	}
	log.Debugf("Updated PR #%d metadata", number)
	return nil
}

// ResolveMilestone finds a milestone number by title among open and closed milestones.
func (c *Client) ResolveMilestone(ctx context.Context, title string) (int, error) {
	opts := &github.MilestoneListOptions{
		State:       "all",
		ListOptions: github.ListOptions{PerPage: perPage},
	}
	for {
		if err := c.wait(ctx); err != nil {
			return 0, err
		}
		milestones, resp, err := c.rest.Issues.ListMilestones(ctx, c.owner, c.repo, opts)
		c.record(resp)
		if err != nil {
			return 0, fmt.Errorf("failed to list milestones: %w", err)
		}
		for _, m := range milestones {
			if m.GetTitle() == title {
				return m.GetNumber(), nil
			}
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return 0, fmt.Errorf("%w: %q", updater.ErrMilestoneNotFound, title)
}

// ListCheckRuns returns the check runs of a commit.
func (c *Client) ListCheckRuns(ctx context.Context, sha string) ([]models.CheckRun, error) {
	opts := &github.ListCheckRunsOptions{ListOptions: github.ListOptions{PerPage: perPage}}

	var runs []models.CheckRun
	for {
		if err := c.wait(ctx); err != nil {
			return nil, err
		}
		result, resp, err := c.rest.Checks.ListCheckRunsForRef(ctx, c.owner, c.repo, sha, opts)
		c.record(resp)
		if err != nil {
			return nil, fmt.Errorf("failed to list check runs for %s: %w", sha, err)
		}
		for _, run := range result.CheckRuns {
			runs = append(runs, models.CheckRun{
				Name:       run.GetName(),
				Status:     run.GetStatus(),
				Conclusion: run.GetConclusion(),
			})
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return runs, nil
}

// AddToProject adds the PR to a project (v2) board.
func (c *Client) AddToProject(ctx context.Context, pr models.PullRequestRef, projectID string) error {
	nodeID := pr.NodeID
	if nodeID == "" {
		id, err := c.graphql.PullRequestNodeID(ctx, c.owner, c.repo, pr.Number)
		if err != nil {
			return err
		}
		nodeID = id
	}
	_, err := c.graphql.AddProjectV2Item(ctx, projectID, nodeID)
	return err
}

// ProjectIDs returns the project boards the PR is on.
func (c *Client) ProjectIDs(ctx context.Context, number int) ([]string, error) {
	return c.graphql.PullRequestProjects(ctx, c.owner, c.repo, number)
}

func toRef(pr *github.PullRequest) models.PullRequestRef {
	ref := models.PullRequestRef{
		Number:         pr.GetNumber(),
		Title:          pr.GetTitle(),
		Body:           pr.Body,
		NodeID:         pr.GetNodeID(),
		Author:         pr.GetUser().GetLogin(),
		HeadSHA:        pr.GetHead().GetSHA(),
		MergeableState: pr.GetMergeableState(),
		Milestone:      pr.GetMilestone().GetTitle(),
	}
	for _, l := range pr.Labels {
		ref.Labels = append(ref.Labels, l.GetName())
	}
	for _, a := range pr.Assignees {
		ref.Assignees = append(ref.Assignees, a.GetLogin())
	}
	return ref
}
