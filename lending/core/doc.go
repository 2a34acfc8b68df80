// Package core contains the pure domain model of the item lending reservation engine.
//
// It holds the reservation events and their projection (the Reservation record), the status
// transition table with its actor rules, the interval-overlap availability check, period
// validation, the booking policy and the error taxonomy. Nothing in here performs I/O.
package core
