// Package instrument holds the logging, metrics and tracing plumbing shared by all eventstore engines.
//
// Every engine owns an Observer configured through its functional options. Query and Append
// operations start an observation, which wraps a tracing span plus the metrics to record when the
// operation finishes. All collectors are optional; a zero Observer is silent.
package instrument
