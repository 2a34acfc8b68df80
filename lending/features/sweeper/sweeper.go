package sweeper

import (
	"context"
	"errors"
	"time"

	"github.com/AntonStoeckl/item-lending-reservations/lending/core"
	"github.com/AntonStoeckl/item-lending-reservations/lending/features/command/markoverdue"
	"github.com/AntonStoeckl/item-lending-reservations/lending/features/query/overduecandidates"
	"github.com/AntonStoeckl/item-lending-reservations/lending/shell"
)

const (
	logMsgSweepCompleted = "overdue sweep completed"
	logMsgSweepFailed    = "overdue sweep failed"
	logMsgCandidateError = "marking reservation overdue failed"
)

var (
	ErrNilCollaborator      = errors.New("sweeper collaborator must not be nil")
	ErrInvalidInterval      = errors.New("sweep interval must be positive")
	ErrMarkingOverdueFailed = errors.New("marking reservations overdue failed")
)

// CandidateFinder finds the reservations a sweep has to transition.
type CandidateFinder interface {
	Handle(ctx context.Context, query overduecandidates.Query) (overduecandidates.OverdueCandidates, error)
}

// Report summarizes one sweep.
type Report struct {
	Candidates   int
	Transitioned int
	Skipped      int
	Failed       int
}

// Sweeper runs overdue sweeps.
type Sweeper struct {
	finder           CandidateFinder
	marker           shell.CommandHandler[markoverdue.Command]
	clock            func() time.Time
	metricsCollector shell.MetricsCollector
	contextualLogger shell.ContextualLogger
	logger           shell.Logger
}

// Option configures a Sweeper.
type Option func(*Sweeper)

// WithClock replaces time.Now, mostly for tests.
func WithClock(clock func() time.Time) Option {
	return func(s *Sweeper) {
		s.clock = clock
	}
}

// WithMetrics sets the metrics collector.
func WithMetrics(collector shell.MetricsCollector) Option {
	return func(s *Sweeper) {
		s.metricsCollector = collector
	}
}

// WithContextualLogging sets the contextual logger.
func WithContextualLogging(logger shell.ContextualLogger) Option {
	return func(s *Sweeper) {
		s.contextualLogger = logger
	}
}

// WithLogging sets the basic logger.
func WithLogging(logger shell.Logger) Option {
	return func(s *Sweeper) {
		s.logger = logger
	}
}

// NewSweeper creates a Sweeper that reads candidates from finder and transitions them with marker.
func NewSweeper(
	finder CandidateFinder,
	marker shell.CommandHandler[markoverdue.Command],
	opts ...Option,
) (Sweeper, error) {

	if finder == nil || marker == nil {
		return Sweeper{}, ErrNilCollaborator
	}

	s := Sweeper{
		finder: finder,
		marker: marker,
		clock:  time.Now,
	}

	for _, opt := range opts {
		opt(&s)
	}

	return s, nil
}

// SweepOverdue transitions every ACTIVE reservation whose end lies before now and returns how many
// it transitioned. Candidates refused by a business rule are skipped. Other failures do not stop the
// sweep, they are returned together once all candidates were tried.
func (s Sweeper) SweepOverdue(ctx context.Context, now time.Time) (int, error) {
	report, err := s.sweep(ctx, now)

	labels := map[string]string{shell.LogAttrStatus: shell.StatusSuccess}
	if err != nil {
		labels[shell.LogAttrStatus] = shell.StatusError
	}

	shell.RecordValue(ctx, s.metricsCollector, shell.SweeperCandidatesMetric, float64(report.Candidates), labels)

	for range report.Transitioned {
		shell.IncrementCounter(ctx, s.metricsCollector, shell.SweeperTransitionedMetric, labels)
	}

	if err != nil {
		shell.LogError(ctx, s.logger, s.contextualLogger, logMsgSweepFailed,
			"candidates", report.Candidates,
			"transitioned", report.Transitioned,
			"skipped", report.Skipped,
			"failed", report.Failed,
			shell.LogAttrError, err.Error(),
		)

		return report.Transitioned, err
	}

	shell.LogInfo(ctx, s.logger, s.contextualLogger, logMsgSweepCompleted,
		"candidates", report.Candidates,
		"transitioned", report.Transitioned,
		"skipped", report.Skipped,
	)

	return report.Transitioned, nil
}

func (s Sweeper) sweep(ctx context.Context, now time.Time) (Report, error) {
	found, err := s.finder.Handle(ctx, overduecandidates.BuildQuery(now))
	if err != nil {
		return Report{}, err
	}

	report := Report{Candidates: found.Count}
	var failures []error

	for _, candidate := range found.Candidates {
		if err = ctx.Err(); err != nil {
			return report, errors.Join(append(failures, err)...)
		}

		result, markErr := s.marker.Handle(ctx, markoverdue.BuildCommand(candidate.ReservationID, now))

		switch {
		case markErr == nil && result.Idempotent:
			report.Skipped++
		case markErr == nil:
			report.Transitioned++
		case core.ErrorCode(markErr) != "":
			report.Skipped++
		default:
			report.Failed++
			failures = append(failures, markErr)

			shell.LogWarn(ctx, s.logger, s.contextualLogger, logMsgCandidateError,
				shell.LogAttrReservationID, candidate.ReservationID,
				shell.LogAttrItemID, candidate.ItemID,
				shell.LogAttrError, markErr.Error(),
			)
		}
	}

	if len(failures) > 0 {
		return report, errors.Join(ErrMarkingOverdueFailed, errors.Join(failures...))
	}

	return report, nil
}

// Run sweeps once right away and then every interval until ctx is done.
// Sweep failures are logged and do not stop the loop.
func (s Sweeper) Run(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		return ErrInvalidInterval
	}

	_, _ = s.SweepOverdue(ctx, s.clock())

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			_, _ = s.SweepOverdue(ctx, s.clock())
		}
	}
}
