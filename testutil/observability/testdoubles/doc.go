// Package testdoubles provides recording spies for the dependency-free observability interfaces of the
// eventstore engines and the command handlers.
package testdoubles
