package updater

import (
	"errors"
	"fmt"
)

var (
	// ErrConfigurationMissing means a required collaborator (store, knowledge
	// base, credential) was not provided. It is fatal and reported before any
	// PR is touched.
	ErrConfigurationMissing = errors.New("configuration missing")

	// ErrMilestoneNotFound is returned by stores when no milestone has the
	// requested title.
	ErrMilestoneNotFound = errors.New("milestone not found")
)

// StoreError is a failure reported by the PR store for one operation.
type StoreError struct {
	Op     string // Operation that failed
	Number int    // PR number, 0 when not PR specific
	Err    error  // Underlying error
}

func (e *StoreError) Error() string {
	if e.Number > 0 {
		return fmt.Sprintf("store %s failed for PR #%d: %v", e.Op, e.Number, e.Err)
	}
	return fmt.Sprintf("store %s failed: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// NewStoreError creates a new StoreError
func NewStoreError(op string, number int, err error) *StoreError {
	return &StoreError{Op: op, Number: number, Err: err}
}

// IsStoreError reports whether err wraps a StoreError.
func IsStoreError(err error) bool {
	var se *StoreError
	return errors.As(err, &se)
}

func configurationMissing(what string) error {
	return fmt.Errorf("%w: %s", ErrConfigurationMissing, what)
}
