package overduecandidates

import (
	"time"
)

const (
	queryType = "OverdueCandidates"
)

// Query represents the intent to find the reservations that are due to be marked overdue.
type Query struct {
	Now time.Time
}

// BuildQuery creates a new Query for the given instant.
func BuildQuery(now time.Time) Query {
	return Query{
		Now: now,
	}
}

// QueryType returns the query type.
func (q Query) QueryType() string {
	return queryType
}
