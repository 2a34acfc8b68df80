// Package enginetest holds the behavioral test suite every eventstore engine must pass.
//
// Engine packages call RunContractTests from their own _test.go files with a factory that returns a
// fresh, empty store per test.
package enginetest
