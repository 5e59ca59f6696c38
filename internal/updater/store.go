package updater

import (
	"context"

	"github.com/benmed00/prmeta/pkg/models"
)

// Store is the PR store the updater reads from and writes to.
type Store interface {
	ListOpenPullRequests(ctx context.Context) ([]models.PullRequestRef, error)
	GetPullRequest(ctx context.Context, number int) (models.PullRequestRef, error)
	UpdatePullRequest(ctx context.Context, number int, req models.UpdateRequest) error
}

// MilestoneResolver is implemented by stores that can look up a milestone
// number by its title.
type MilestoneResolver interface {
	ResolveMilestone(ctx context.Context, title string) (int, error)
}

// ProjectAdder is implemented by stores that can add a PR to a project board.
// Adding a PR that is already on the board must succeed.
type ProjectAdder interface {
	AddToProject(ctx context.Context, pr models.PullRequestRef, projectID string) error
}
