// Package sweeper implements the Overdue Sweeper.
//
// A sweep finds every ACTIVE reservation past its end and fires the mark overdue command for each
// of them as the system actor, one unit of work per reservation. Reservations that changed in the
// meantime (returned, already marked) are skipped, so running a sweep twice transitions each
// reservation exactly once.
package sweeper
