// Package overduecandidates implements the query the overdue sweeper runs: every ACTIVE
// reservation whose end lies before a given instant.
package overduecandidates
