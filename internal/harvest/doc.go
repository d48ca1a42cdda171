// Package harvest collects output artifacts produced by a job that executed
// on a remote worker and decides whether the remote working area may be
// discarded afterwards.
//
// The Collector reconciles three independent views of what the job produced:
// the tool's declared outputs, the worker-reported file listings, and a
// pattern scan of the working directory contents. Collection runs as four
// ordered phases, each transfer attempt isolated by a FailureTracker so one
// bad download never aborts the batch. The only job-level outcome is the
// accumulated failure list plus the cleanup decision derived from it.
//
// The actual transfer mechanism, the action-mapping policy, and the remote
// report are consumed through the RemoteClient, ActionMapper, and
// RemoteReport interfaces; see internal/transfer and internal/actions for the
// default implementations.
package harvest
