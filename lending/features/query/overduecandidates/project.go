package overduecandidates

import (
	"slices"

	"github.com/AntonStoeckl/item-lending-reservations/lending/core"
)

// Project returns the reservations a sweep at query.Now has to transition, ordered by end.
//
// Query Logic:
//
//	GIVEN: all reservation events
//	WHEN: OverdueCandidates is executed
//	THEN: every ACTIVE reservation with end < Now is returned
//	EXCLUDES: reservations that are already OVERDUE
func Project(history core.DomainEvents, query Query, maxSequence uint) OverdueCandidates {
	candidates := make([]Candidate, 0)

	for _, r := range core.ProjectReservations(history) {
		if r.Status != core.StatusActive || !query.Now.After(r.End) {
			continue
		}

		candidates = append(candidates, Candidate{
			ReservationID: r.ID,
			ItemID:        r.ItemID,
			BorrowerID:    r.BorrowerID,
			End:           r.End,
		})
	}

	slices.SortStableFunc(candidates, func(a, b Candidate) int {
		return a.End.Compare(b.End)
	})

	return OverdueCandidates{
		Candidates:     candidates,
		Count:          len(candidates),
		SequenceNumber: maxSequence,
	}
}
