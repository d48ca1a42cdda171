// Package pathmap translates file names between the local and remote naming
// conventions. The worker may run a different operating system than the
// submitting host, so relative paths are re-joined with the peer's separator
// rather than passed through verbatim.
package pathmap

import (
	"path/filepath"
	"strings"
)

// Helper converts relative paths between local and remote separators.
type Helper struct {
	separator string
}

// New returns a helper for the given remote path separator. An empty
// separator defaults to "/".
func New(separator string) *Helper {
	if separator == "" {
		separator = "/"
	}
	return &Helper{separator: separator}
}

// Separator reports the remote path separator in use.
func (h *Helper) Separator() string {
	return h.separator
}

// RemoteName converts a local relative path into the remote naming convention.
func (h *Helper) RemoteName(localRelPath string) string {
	parts := strings.Split(filepath.ToSlash(localRelPath), "/")
	return strings.Join(parts, h.separator)
}

// LocalName converts a remote file name into a local relative path.
func (h *Helper) LocalName(remoteName string) string {
	parts := strings.Split(remoteName, h.separator)
	return filepath.Join(parts...)
}
