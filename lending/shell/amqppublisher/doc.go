// Package amqppublisher delivers transition events to a RabbitMQ topic exchange.
//
// Each event is published as JSON with the routing key "reservation.<status>", where status is the
// lowercase target status, so subscribers can bind to e.g. "reservation.overdue" or "reservation.#".
package amqppublisher
