// Package journal persists a local history of harvest runs in SQLite so
// operators can review past jobs, their failures, and cleanup outcomes.
package journal
