package harvest

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// JobLock guards a local working directory against concurrent harvests. The
// collector's dedup state is owned by one collection run; two processes
// harvesting into the same directory would race on the files themselves.
type JobLock struct {
	path string
	lock *flock.Flock
}

// NewJobLock prepares a lock for the given working directory.
func NewJobLock(workingDirectory string) (*JobLock, error) {
	if err := os.MkdirAll(workingDirectory, 0o755); err != nil {
		return nil, fmt.Errorf("ensure working directory: %w", err)
	}
	path := filepath.Join(workingDirectory, ".stagehand.lock")
	return &JobLock{path: path, lock: flock.New(path)}, nil
}

// Acquire takes the lock, failing immediately when another harvest holds it.
func (l *JobLock) Acquire() error {
	ok, err := l.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire harvest lock %s: %w", l.path, err)
	}
	if !ok {
		return fmt.Errorf("another harvest is already running for %s", filepath.Dir(l.path))
	}
	return nil
}

// Release drops the lock and removes the lock file.
func (l *JobLock) Release() error {
	if err := l.lock.Unlock(); err != nil {
		return fmt.Errorf("release harvest lock %s: %w", l.path, err)
	}
	_ = os.Remove(l.path)
	return nil
}

// Path returns the lock file location.
func (l *JobLock) Path() string {
	return l.path
}
