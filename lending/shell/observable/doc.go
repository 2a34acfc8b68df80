// Package observable wraps command handlers with metrics, tracing and logging.
//
// The wrappers are applied at wiring time, so the handlers in features/command stay free of
// instrumentation and can be tested without it:
//
//	handler := confirmreservation.NewCommandHandler(eventStore)
//
//	observableHandler, err := observable.NewCommandWrapper[confirmreservation.Command](
//		handler,
//		observable.WithCommandMetrics[confirmreservation.Command](metricsCollector),
//		observable.WithCommandTracing[confirmreservation.Command](tracingCollector),
//		observable.WithCommandContextualLogging[confirmreservation.Command](logger),
//	)
//
// Commands refused by a business rule are reported with status "rejected" and logged at info,
// technical failures with status "error" and logged at error.
package observable
