// Package completereservation implements the Complete Reservation use case: the borrower returns
// the item of an ACTIVE or OVERDUE reservation. Late returns are flagged with wasOverdue and the
// started days past the end, for the reputation collaborator to act on. The catalog marks the
// item AVAILABLE again.
package completereservation
