package harvest

import (
	"path/filepath"
	"strings"
)

// CommandVersionFilename is the well-known name under which the worker stores
// the tool version metadata file in the job output directory.
const CommandVersionFilename = "COMMAND_VERSION"

// Presence is the tri-state answer to "did the worker produce this file?".
// Unknown means the server protocol does not report file listings (a legacy
// worker), which is distinct from an explicit yes or no.
type Presence int

const (
	PresenceUnknown Presence = iota
	PresencePresent
	PresenceAbsent
)

func (p Presence) String() string {
	switch p {
	case PresencePresent:
		return "present"
	case PresenceAbsent:
		return "absent"
	default:
		return "unknown"
	}
}

// Extra is one auxiliary remote file associated with a declared output, such
// as a multi-output or metadata sibling.
type Extra struct {
	// Path is the destination path on the submitting host.
	Path string
	// Name is the file's name on the worker.
	Name string
}

// PathTranslator converts file names between local and remote conventions.
type PathTranslator interface {
	RemoteName(localRelPath string) string
	LocalName(remoteName string) string
}

// RemoteReport is the worker's view of what a job actually produced.
type RemoteReport interface {
	// HasOutputFile reports whether the worker produced the file destined for
	// path. PresenceUnknown indicates a legacy worker.
	HasOutputFile(path string) Presence
	// OutputExtras lists auxiliary remote files tied to the output destined
	// for path, in a stable order.
	OutputExtras(path string) []Extra
	// WorkingDirectoryContents returns the worker's working-directory
	// listing; ok is false for legacy workers.
	WorkingDirectoryContents() (names []string, ok bool)
	// OutputDirectoryContents returns the worker's output-directory listing;
	// ok is false for legacy workers.
	OutputDirectoryContents() (names []string, ok bool)
	// PathHelper translates names between local and remote conventions.
	PathHelper() PathTranslator
}

// ListingReport implements RemoteReport from raw directory listings as
// returned by the worker. Nil listings mark a legacy worker that predates
// listing support.
type ListingReport struct {
	WorkDirContents   []string
	OutputDirContents []string
	Helper            PathTranslator
}

var _ RemoteReport = (*ListingReport)(nil)

func (r *ListingReport) HasOutputFile(path string) Presence {
	if r.OutputDirContents == nil {
		return PresenceUnknown
	}
	name := r.Helper.RemoteName(filepath.Base(path))
	for _, entry := range r.OutputDirContents {
		if entry == name {
			return PresencePresent
		}
	}
	return PresenceAbsent
}

// OutputExtras maps remote files named "<base>_<suffix>" onto local siblings
// of the declared output, preserving the listing order.
func (r *ListingReport) OutputExtras(path string) []Extra {
	if r.OutputDirContents == nil {
		return nil
	}
	prefix := filepath.Base(path) + "_"
	dir := filepath.Dir(path)
	var extras []Extra
	for _, name := range r.OutputDirContents {
		if !strings.HasPrefix(name, prefix) {
			continue
		}
		extras = append(extras, Extra{
			Path: filepath.Join(dir, r.Helper.LocalName(name)),
			Name: name,
		})
	}
	return extras
}

func (r *ListingReport) WorkingDirectoryContents() ([]string, bool) {
	if r.WorkDirContents == nil {
		return nil, false
	}
	return r.WorkDirContents, true
}

func (r *ListingReport) OutputDirectoryContents() ([]string, bool) {
	if r.OutputDirContents == nil {
		return nil, false
	}
	return r.OutputDirContents, true
}

func (r *ListingReport) PathHelper() PathTranslator {
	return r.Helper
}
