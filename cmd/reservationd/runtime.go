package main

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/AntonStoeckl/item-lending-reservations/lending/reservations"
	"github.com/AntonStoeckl/item-lending-reservations/lending/shell/amqppublisher"
	"github.com/AntonStoeckl/item-lending-reservations/lending/shell/config"
)

// runtime is the infrastructure one command invocation runs on.
type runtime struct {
	cfg       config.Config
	logger    *slog.Logger
	telemetry config.Telemetry
	storage   config.Storage
	publisher *amqppublisher.Publisher
	service   *reservations.Service
}

func openRuntime(ctx context.Context, opts *rootOptions, logOutput io.Writer) (*runtime, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, err
	}

	if opts.Verbose {
		cfg.Log.Level = "debug"
	}

	rt := &runtime{
		cfg:    cfg,
		logger: config.NewLogger(cfg.Log, logOutput),
	}

	contextualLogger := config.NewContextualLogger(cfg.Log, logOutput)

	if rt.telemetry, err = config.NewTelemetry(ctx, cfg.Telemetry); err != nil {
		return nil, err
	}

	rt.storage, err = config.OpenStorage(ctx, cfg.Storage, config.EngineObservability{
		ContextualLogger: contextualLogger,
		Metrics:          rt.telemetry.MetricsCollector(),
		Tracing:          rt.telemetry.TracingCollector(),
	})
	if err != nil {
		return nil, errors.Join(err, rt.close(ctx))
	}

	collaborators := reservations.Collaborators{
		Accounts:   detachedCollaborators{},
		Reputation: detachedCollaborators{},
		Catalog:    detachedCollaborators{},
	}

	if cfg.AMQP.URL != "" {
		if rt.publisher, err = amqppublisher.Dial(cfg.AMQP.URL, cfg.AMQP.Exchange); err != nil {
			return nil, errors.Join(err, rt.close(ctx))
		}

		collaborators.Publisher = rt.publisher
	}

	rt.service, err = reservations.NewService(
		rt.storage.EventStore,
		collaborators,
		reservations.WithPolicy(cfg.CorePolicy()),
		reservations.WithRetryOptions(cfg.RetryOptions()...),
		reservations.WithMetrics(rt.telemetry.MetricsCollector()),
		reservations.WithTracing(rt.telemetry.TracingCollector()),
		reservations.WithContextualLogging(contextualLogger),
	)
	if err != nil {
		return nil, errors.Join(err, rt.close(ctx))
	}

	rt.logger.Debug("runtime ready",
		"engine", cfg.Storage.Engine,
		"publisher", rt.publisher != nil,
		"telemetry", rt.telemetry.Enabled(),
	)

	return rt, nil
}

func (rt *runtime) close(ctx context.Context) error {
	var errs []error

	if rt.publisher != nil {
		errs = append(errs, rt.publisher.Close())
	}

	errs = append(errs, rt.storage.Close(), rt.telemetry.Shutdown(ctx))

	return errors.Join(errs...)
}
