package models

// PullRequestRef is a snapshot of a pull request read once per processing pass.
// Number is the identity; Body is nil when the PR has no description.
type PullRequestRef struct {
	Number int     `json:"number"`
	Title  string  `json:"title"`
	Body   *string `json:"body,omitempty"`

	// Read-only metadata, populated when the store provides it.
	// Synthesis never looks at these.
	NodeID         string   `json:"node_id,omitempty"`
	Author         string   `json:"author,omitempty"`
	HeadSHA        string   `json:"head_sha,omitempty"`
	MergeableState string   `json:"mergeable_state,omitempty"`
	Labels         []string `json:"labels,omitempty"`
	Milestone      string   `json:"milestone,omitempty"`
	Assignees      []string `json:"assignees,omitempty"`
}

// GetBody returns the body or "" when it is absent.
func (pr PullRequestRef) GetBody() string {
	if pr.Body == nil {
		return ""
	}
	return *pr.Body
}

// HasBody reports whether the PR carries a non-empty description.
func (pr PullRequestRef) HasBody() bool {
	return pr.Body != nil && *pr.Body != ""
}

// UpdateRequest is a partial PR update. A nil field leaves that attribute unchanged.
type UpdateRequest struct {
	Body      *string   `json:"body,omitempty"`
	Labels    *[]string `json:"labels,omitempty"`
	Milestone *int      `json:"milestone,omitempty"`
	Assignees *[]string `json:"assignees,omitempty"`
}

// IsEmpty reports whether the request would change nothing.
func (r UpdateRequest) IsEmpty() bool {
	return r.Body == nil && r.Labels == nil && r.Milestone == nil && r.Assignees == nil
}

// String returns a pointer to v.
func String(v string) *string { return &v }

// Int returns a pointer to v.
func Int(v int) *int { return &v }

// Strings returns a pointer to v.
func Strings(v []string) *[]string { return &v }
