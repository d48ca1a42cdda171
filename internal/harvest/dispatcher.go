package harvest

import (
	"context"
	"fmt"
)

// Dispatcher translates one classified collection attempt into exactly one
// transfer call on the remote client.
type Dispatcher struct {
	client RemoteClient
}

// NewDispatcher wraps the given client.
func NewDispatcher(client RemoteClient) *Dispatcher {
	return &Dispatcher{client: client}
}

// Dispatch performs the transfer for one attempt. The path is the destination
// on the submitting host; the name is the file's remote-visible name.
func (d *Dispatcher) Dispatch(ctx context.Context, category Category, action Action, workingDirectory, path, name string) error {
	switch category {
	case CategoryLegacy:
		return d.client.FetchLegacy(ctx, path, workingDirectory, action.Kind)
	case CategoryWorkDir:
		return d.client.FetchWorkDirOutput(ctx, name, workingDirectory, path, action.Kind)
	case CategoryOutput:
		return d.client.FetchOutput(ctx, path, name, action.Kind)
	default:
		return fmt.Errorf("unknown output category %q", category)
	}
}
