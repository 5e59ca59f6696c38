package updater

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/benmed00/prmeta/pkg/models"
)

var errBoom = errors.New("boom")

// memoryStore is an in-memory Store with per-axis failure injection.
type memoryStore struct {
	mu        sync.Mutex
	prs       map[int]*models.PullRequestRef
	updates   []recordedUpdate
	failOn    map[models.Axis]bool
	failGet   map[int]bool
	listErr   error
	projected []int
}

type recordedUpdate struct {
	Number int
	Req    models.UpdateRequest
}

func newMemoryStore(prs ...models.PullRequestRef) *memoryStore {
	s := &memoryStore{
		prs:     make(map[int]*models.PullRequestRef),
		failOn:  make(map[models.Axis]bool),
		failGet: make(map[int]bool),
	}
	for i := range prs {
		pr := prs[i]
		s.prs[pr.Number] = &pr
	}
	return s
}

func (s *memoryStore) ListOpenPullRequests(ctx context.Context) ([]models.PullRequestRef, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listErr != nil {
		return nil, s.listErr
	}
	out := make([]models.PullRequestRef, 0, len(s.prs))
	for _, pr := range s.prs {
		out = append(out, *pr)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out, nil
}

func (s *memoryStore) GetPullRequest(ctx context.Context, number int) (models.PullRequestRef, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failGet[number] {
		return models.PullRequestRef{}, errBoom
	}
	pr, ok := s.prs[number]
	if !ok {
		return models.PullRequestRef{}, fmt.Errorf("PR #%d not found", number)
	}
	return *pr, nil
}

func (s *memoryStore) UpdatePullRequest(ctx context.Context, number int, req models.UpdateRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch {
	case req.Body != nil && s.failOn[models.AxisDescription],
		req.Labels != nil && s.failOn[models.AxisLabels],
		req.Milestone != nil && s.failOn[models.AxisMilestone],
		req.Assignees != nil && s.failOn[models.AxisAssignee]:
		return errBoom
	}
	pr, ok := s.prs[number]
	if !ok {
		return fmt.Errorf("PR #%d not found", number)
	}
	s.updates = append(s.updates, recordedUpdate{Number: number, Req: req})
	if req.Body != nil {
		pr.Body = models.String(*req.Body)
	}
	if req.Labels != nil {
		pr.Labels = append([]string(nil), (*req.Labels)...)
	}
	if req.Milestone != nil {
		pr.Milestone = "v1.3 - Quality & Polish"
	}
	if req.Assignees != nil {
		pr.Assignees = append([]string(nil), (*req.Assignees)...)
	}
	return nil
}

func (s *memoryStore) ResolveMilestone(ctx context.Context, title string) (int, error) {
	if title == "v1.3 - Quality & Polish" {
		return 3, nil
	}
	return 0, ErrMilestoneNotFound
}

func (s *memoryStore) AddToProject(ctx context.Context, pr models.PullRequestRef, projectID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failOn[models.AxisProject] {
		return errBoom
	}
	s.projected = append(s.projected, pr.Number)
	return nil
}

// basicStore exposes only the Store methods of memoryStore.
type basicStore struct {
	s *memoryStore
}

func (b basicStore) ListOpenPullRequests(ctx context.Context) ([]models.PullRequestRef, error) {
	return b.s.ListOpenPullRequests(ctx)
}

func (b basicStore) GetPullRequest(ctx context.Context, number int) (models.PullRequestRef, error) {
	return b.s.GetPullRequest(ctx, number)
}

func (b basicStore) UpdatePullRequest(ctx context.Context, number int, req models.UpdateRequest) error {
	return b.s.UpdatePullRequest(ctx, number, req)
}
