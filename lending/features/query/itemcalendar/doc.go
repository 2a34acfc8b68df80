// Package itemcalendar implements the Item Calendar query.
//
// The calendar of an item is its set of blocking reservations (CONFIRMED or ACTIVE) ordered by
// start. It is the read model the availability validator works on, exposed for callers that want
// to show free windows before booking.
package itemcalendar
