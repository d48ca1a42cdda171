package harvest

import "context"

// Category classifies one collection attempt.
type Category string

const (
	// CategoryLegacy marks an attempt against a server that does not report
	// file listings; the client infers the transfer target on its own.
	CategoryLegacy Category = "legacy"
	// CategoryOutput marks a declared tool output or an auxiliary sibling.
	CategoryOutput Category = "output"
	// CategoryWorkDir marks a working-directory output.
	CategoryWorkDir Category = "output_workdir"
)

// Action is the resolved transfer policy for one destination path. The kind
// is opaque to this package; the client interprets it.
type Action struct {
	Kind string
}

// ActionMapper resolves the transfer action for a destination path. The
// category passed here is CategoryWorkDir for working-directory attempts and
// CategoryOutput for everything else; legacy attempts never get a distinct
// action kind.
type ActionMapper interface {
	Action(path string, category Category) (Action, error)
}

// RemoteClient is the transfer capability consumed by the collector. Each
// fetch call moves exactly one file; Clean discards the remote working area.
type RemoteClient interface {
	// FetchLegacy retrieves path without knowing whether the worker placed it
	// in the output directory or the working directory.
	FetchLegacy(ctx context.Context, path, workingDirectory, actionKind string) error
	// FetchWorkDirOutput retrieves the working-directory file known remotely
	// as name into the local destination path.
	FetchWorkDirOutput(ctx context.Context, name, workingDirectory, path, actionKind string) error
	// FetchOutput retrieves the output-directory file known remotely as name
	// into the local destination path.
	FetchOutput(ctx context.Context, path, name, actionKind string) error
	// Clean discards the remote job working area.
	Clean(ctx context.Context) error
}

// OutputSpec describes what the submitting side expects a job to produce.
type OutputSpec struct {
	// WorkingDirectory is the local working directory of the job.
	WorkingDirectory string
	// OutputFiles are the destination paths of the tool's declared outputs.
	OutputFiles []string
	// WorkDirOutputs are explicit working-directory outputs, ordered.
	WorkDirOutputs []WorkDirOutput
	// VersionFile is the optional destination path for the tool version
	// metadata file.
	VersionFile string
}

// WorkDirOutput pairs a working-directory source file with its declared
// destination path.
type WorkDirOutput struct {
	Source      string
	Destination string
}
