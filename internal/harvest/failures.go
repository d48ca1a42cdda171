package harvest

import "fmt"

// FailureTracker runs units of work and records their failures instead of
// propagating them. It is the sole mechanism keeping a single bad transfer
// from aborting the rest of a collection batch.
type FailureTracker struct {
	failures []error
}

// Run executes fn. A returned error or a panic is appended to the failure
// list; execution always continues past the failed unit.
func (t *FailureTracker) Run(fn func() error) {
	defer func() {
		if r := recover(); r != nil {
			t.failures = append(t.failures, fmt.Errorf("collection attempt panicked: %v", r))
		}
	}()
	if err := fn(); err != nil {
		t.failures = append(t.failures, err)
	}
}

// Failures returns the accumulated failure list in occurrence order.
func (t *FailureTracker) Failures() []error {
	return t.failures
}
