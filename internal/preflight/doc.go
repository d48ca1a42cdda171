// Package preflight validates the local environment before a harvest run:
// directory permissions, worker reachability, and the shared mount when copy
// actions are configured.
package preflight
