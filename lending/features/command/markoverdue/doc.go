// Package markoverdue implements the Mark Overdue use case, fired by the overdue sweeper as the
// system actor for an ACTIVE reservation past its end. Marking an OVERDUE reservation again is
// an idempotent no-op.
package markoverdue
