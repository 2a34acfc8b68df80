// Package reservations is the entry point of the reservation lifecycle engine.
//
// Service wires the command and query slices over one event store and the collaborators, and
// exposes the lifecycle operations by intent: create, confirm, activate, complete, cancel, reject
// and the overdue sweep. Every command handler is wrapped with the observable decorator, so all
// operations share metrics, tracing and logging.
package reservations
