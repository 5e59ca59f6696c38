package github

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/shurcooL/githubv4"

	"github.com/qiniu/x/log"
)

// GraphQLClient wraps the GitHub GraphQL API client for the calls REST
// cannot make: project (v2) boards and node ids.
type GraphQLClient struct {
	client  *githubv4.Client
	monitor *RateLimitMonitor
}

// NewGraphQLClient creates a GraphQL client for github.com, or for an
// enterprise endpoint when url is set.
func NewGraphQLClient(httpClient *http.Client, url string, monitor *RateLimitMonitor) *GraphQLClient {
	client := githubv4.NewClient(httpClient)
	if url != "" {
		client = githubv4.NewEnterpriseClient(url, httpClient)
	}
	return &GraphQLClient{client: client, monitor: monitor}
}

type rateLimit struct {
	Limit     int
	Cost      int
	Remaining int
	ResetAt   githubv4.DateTime
}

func (gc *GraphQLClient) record(rl rateLimit) {
	gc.monitor.RecordGraphQLAPICall(rl.Limit, rl.Remaining, rl.Cost, rl.ResetAt.Time)
}

// PullRequestNodeID returns the global node id of a PR.
func (gc *GraphQLClient) PullRequestNodeID(ctx context.Context, owner, repo string, number int) (string, error) {
	var query struct {
		Repository struct {
			PullRequest struct {
				ID githubv4.ID
			} `graphql:"pullRequest(number: $number)"`
		} `graphql:"repository(owner: $owner, name: $name)"`
		RateLimit rateLimit
	}
	variables := map[string]interface{}{
		"owner":  githubv4.String(owner),
		"name":   githubv4.String(repo),
		"number": githubv4.Int(number),
	}
	if err := gc.client.Query(ctx, &query, variables); err != nil {
		return "", fmt.Errorf("failed to query node id of PR #%d: %w", number, err)
	}
	gc.record(query.RateLimit)
	return idString(query.Repository.PullRequest.ID), nil
}

// AddProjectV2Item adds content (a PR node id) to a project. GitHub returns
// the existing item when the content is already on the board.
func (gc *GraphQLClient) AddProjectV2Item(ctx context.Context, projectID, contentID string) (string, error) {
	var mutation struct {
		AddProjectV2ItemById struct {
			Item struct {
				ID githubv4.ID
			}
		} `graphql:"addProjectV2ItemById(input: $input)"`
	}
	input := githubv4.AddProjectV2ItemByIdInput{
		ProjectID: githubv4.ID(projectID),
		ContentID: githubv4.ID(contentID),
	}
	if err := gc.client.Mutate(ctx, &mutation, input, nil); err != nil {
		return "", fmt.Errorf("failed to add %s to project %s: %w", contentID, projectID, err)
	}
	gc.monitor.RecordGraphQLAPICall(0, 0, 1, time.Time{})
	itemID := idString(mutation.AddProjectV2ItemById.Item.ID)
	log.Debugf("Project %s item %s for %s", projectID, itemID, contentID)
	return itemID, nil
}

// PullRequestProjects returns the ids of the project boards a PR is on.
func (gc *GraphQLClient) PullRequestProjects(ctx context.Context, owner, repo string, number int) ([]string, error) {
	var query struct {
		Repository struct {
			PullRequest struct {
				ProjectItems struct {
					Nodes []struct {
						Project struct {
							ID githubv4.ID
						}
					}
				} `graphql:"projectItems(first: 50)"`
			} `graphql:"pullRequest(number: $number)"`
		} `graphql:"repository(owner: $owner, name: $name)"`
		RateLimit rateLimit
	}
	variables := map[string]interface{}{
		"owner":  githubv4.String(owner),
		"name":   githubv4.String(repo),
		"number": githubv4.Int(number),
	}
	if err := gc.client.Query(ctx, &query, variables); err != nil {
		return nil, fmt.Errorf("failed to query projects of PR #%d: %w", number, err)
	}
	gc.record(query.RateLimit)

	nodes := query.Repository.PullRequest.ProjectItems.Nodes
	ids := make([]string, 0, len(nodes))
	for _, n := range nodes {
		ids = append(ids, idString(n.Project.ID))
	}
	return ids, nil
}

func idString(id githubv4.ID) string {
	if id == nil {
		return ""
	}
	return fmt.Sprint(id)
}
