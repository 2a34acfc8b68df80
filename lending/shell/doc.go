// Package shell holds the infrastructure shared by the command and query slices:
// mapping between domain events and storable events, event metadata, event filters,
// optimistic concurrency retry, handler results, item side effects, transition-event
// publishing and the observability helpers used by the wrappers.
package shell
