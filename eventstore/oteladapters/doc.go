// Package oteladapters provides OpenTelemetry implementations of the eventstore observability interfaces.
//
// The engines and the lending command handlers only depend on the dependency-free Logger,
// ContextualLogger, MetricsCollector and TracingCollector interfaces. The adapters in this package plug
// them into the OpenTelemetry APIs:
//
//   - SlogBridgeLogger and OTelLogger implement eventstore.ContextualLogger
//   - MetricsCollector implements eventstore.ContextualMetricsCollector
//   - TracingCollector implements eventstore.TracingCollector
//
// Providers are configured by the application (see lending/shell/config).
package oteladapters
