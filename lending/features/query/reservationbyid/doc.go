// Package reservationbyid implements the Get Reservation query: the projected record of one
// reservation, terminal ones included.
package reservationbyid
