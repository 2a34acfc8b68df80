package reservationbyid

import (
	"github.com/AntonStoeckl/item-lending-reservations/lending/core"
)

const (
	queryType = "ReservationByID"
)

// Query represents the intent to read one reservation.
type Query struct {
	ReservationID core.ReservationIDString
}

// BuildQuery creates a new Query with the provided reservation ID.
func BuildQuery(reservationID core.ReservationIDString) Query {
	return Query{
		ReservationID: reservationID,
	}
}

// QueryType returns the query type.
func (q Query) QueryType() string {
	return queryType
}
