package reservations

import (
	"context"
	"errors"
	"time"

	"github.com/AntonStoeckl/item-lending-reservations/lending/core"
	"github.com/AntonStoeckl/item-lending-reservations/lending/eligibility"
	"github.com/AntonStoeckl/item-lending-reservations/lending/features/command/activatereservation"
	"github.com/AntonStoeckl/item-lending-reservations/lending/features/command/cancelreservation"
	"github.com/AntonStoeckl/item-lending-reservations/lending/features/command/completereservation"
	"github.com/AntonStoeckl/item-lending-reservations/lending/features/command/confirmreservation"
	"github.com/AntonStoeckl/item-lending-reservations/lending/features/command/createreservation"
	"github.com/AntonStoeckl/item-lending-reservations/lending/features/command/markoverdue"
	"github.com/AntonStoeckl/item-lending-reservations/lending/features/command/rejectreservation"
	"github.com/AntonStoeckl/item-lending-reservations/lending/features/query/itemcalendar"
	"github.com/AntonStoeckl/item-lending-reservations/lending/features/query/overduecandidates"
	"github.com/AntonStoeckl/item-lending-reservations/lending/features/query/reservationbyid"
	"github.com/AntonStoeckl/item-lending-reservations/lending/features/sweeper"
	"github.com/AntonStoeckl/item-lending-reservations/lending/shell"
	"github.com/AntonStoeckl/item-lending-reservations/lending/shell/observable"
)

// ErrMissingCollaborator is returned when NewService lacks a required collaborator.
var ErrMissingCollaborator = errors.New("reservation service collaborator is missing")

// Catalog is everything the service needs from the item catalog.
type Catalog interface {
	eligibility.Catalog
	shell.OwnerLookup
	shell.ItemStatusUpdater
}

// Collaborators are the external systems the service consumes. Publisher is optional.
type Collaborators struct {
	Accounts   eligibility.Accounts
	Reputation eligibility.Reputation
	Catalog    Catalog
	Publisher  shell.TransitionPublisher
}

// CreateRequest is the input of CreateReservation. ReservationID is optional, supplying the id of an
// earlier request makes a resubmission idempotent.
type CreateRequest struct {
	ReservationID core.ReservationIDString
	ItemID        core.ItemIDString
	BorrowerID    core.UserIDString
	Start         time.Time
	End           time.Time
	Notes         string
	DepositAmount float64
}

// Service exposes the reservation lifecycle operations.
type Service struct {
	create   shell.CommandHandler[createreservation.Command]
	confirm  shell.CommandHandler[confirmreservation.Command]
	activate shell.CommandHandler[activatereservation.Command]
	complete shell.CommandHandler[completereservation.Command]
	cancel   shell.CommandHandler[cancelreservation.Command]
	reject   shell.CommandHandler[rejectreservation.Command]

	reservationByID   reservationbyid.QueryHandler
	itemCalendar      itemcalendar.QueryHandler
	overdueCandidates overduecandidates.QueryHandler
	sweeper           sweeper.Sweeper

	clock func() time.Time
}

// NewService wires all slices over the event store.
func NewService(eventStore shell.EventStore, collaborators Collaborators, opts ...Option) (*Service, error) {
	if eventStore == nil || collaborators.Accounts == nil || collaborators.Reputation == nil || collaborators.Catalog == nil {
		return nil, ErrMissingCollaborator
	}

	o := options{policy: core.DefaultPolicy(), clock: time.Now}
	for _, opt := range opts {
		opt(&o)
	}

	checker, err := eligibility.NewChecker(collaborators.Accounts, collaborators.Reputation, collaborators.Catalog, o.policy)
	if err != nil {
		return nil, err
	}

	handlerOpts := []shell.HandlerOption{
		shell.WithRetryOptions(o.retryOptions...),
		shell.WithItemStatusUpdater(collaborators.Catalog),
		shell.WithPublisher(collaborators.Publisher),
		shell.WithLogger(o.contextualLogger),
	}

	queryOpts := []shell.QueryOption{
		shell.WithQueryMetrics(o.metricsCollector),
		shell.WithQueryTracing(o.tracingCollector),
		shell.WithQueryContextualLogging(o.contextualLogger),
		shell.WithQueryLogging(o.logger),
	}

	createHandler, err := createreservation.NewCommandHandler(eventStore, collaborators.Catalog, checker, handlerOpts...)
	if err != nil {
		return nil, err
	}

	s := &Service{
		reservationByID:   reservationbyid.NewQueryHandler(eventStore, queryOpts...),
		itemCalendar:      itemcalendar.NewQueryHandler(eventStore, queryOpts...),
		overdueCandidates: overduecandidates.NewQueryHandler(eventStore, queryOpts...),
		clock:             o.clock,
	}

	if s.create, err = observe[createreservation.Command](createHandler, o); err != nil {
		return nil, err
	}

	if s.confirm, err = observe[confirmreservation.Command](confirmreservation.NewCommandHandler(eventStore, handlerOpts...), o); err != nil {
		return nil, err
	}

	if s.activate, err = observe[activatereservation.Command](activatereservation.NewCommandHandler(eventStore, o.policy, handlerOpts...), o); err != nil {
		return nil, err
	}

	if s.complete, err = observe[completereservation.Command](completereservation.NewCommandHandler(eventStore, handlerOpts...), o); err != nil {
		return nil, err
	}

	if s.cancel, err = observe[cancelreservation.Command](cancelreservation.NewCommandHandler(eventStore, handlerOpts...), o); err != nil {
		return nil, err
	}

	if s.reject, err = observe[rejectreservation.Command](rejectreservation.NewCommandHandler(eventStore, handlerOpts...), o); err != nil {
		return nil, err
	}

	markOverdue, err := observe[markoverdue.Command](markoverdue.NewCommandHandler(eventStore, handlerOpts...), o)
	if err != nil {
		return nil, err
	}

	s.sweeper, err = sweeper.NewSweeper(
		s.overdueCandidates,
		markOverdue,
		sweeper.WithClock(o.clock),
		sweeper.WithMetrics(o.metricsCollector),
		sweeper.WithContextualLogging(o.contextualLogger),
		sweeper.WithLogging(o.logger),
	)
	if err != nil {
		return nil, err
	}

	return s, nil
}

func observe[C shell.Command](handler shell.CommandHandler[C], o options) (shell.CommandHandler[C], error) {
	return observable.NewCommandWrapper[C](
		handler,
		observable.WithCommandMetrics[C](o.metricsCollector),
		observable.WithCommandTracing[C](o.tracingCollector),
		observable.WithCommandContextualLogging[C](o.contextualLogger),
		observable.WithCommandLogging[C](o.logger),
	)
}

// CreateReservation requests a reservation in status PENDING.
func (s *Service) CreateReservation(ctx context.Context, req CreateRequest) (core.Reservation, error) {
	command := createreservation.BuildCommand(
		req.ReservationID,
		req.ItemID,
		req.BorrowerID,
		req.Start,
		req.End,
		req.Notes,
		req.DepositAmount,
		s.clock(),
	)

	return reservationOf(s.create.Handle(ctx, command))
}

// ConfirmReservation lets the owner accept a PENDING request.
func (s *Service) ConfirmReservation(
	ctx context.Context,
	reservationID core.ReservationIDString,
	ownerID core.UserIDString,
	notes string,
) (core.Reservation, error) {

	command := confirmreservation.BuildCommand(reservationID, ownerID, notes, s.clock())

	return reservationOf(s.confirm.Handle(ctx, command))
}

// ActivateReservation records the pickup by the borrower. A zero actualStart means now.
func (s *Service) ActivateReservation(
	ctx context.Context,
	reservationID core.ReservationIDString,
	borrowerID core.UserIDString,
	actualStart time.Time,
	depositPaid bool,
) (core.Reservation, error) {

	command := activatereservation.BuildCommand(reservationID, borrowerID, actualStart, depositPaid, s.clock())

	return reservationOf(s.activate.Handle(ctx, command))
}

// CompleteReservation records the return by the borrower. A zero actualEnd means now.
func (s *Service) CompleteReservation(
	ctx context.Context,
	reservationID core.ReservationIDString,
	borrowerID core.UserIDString,
	actualEnd time.Time,
	returnCondition string,
) (core.Reservation, error) {

	command := completereservation.BuildCommand(reservationID, borrowerID, actualEnd, returnCondition, s.clock())

	return reservationOf(s.complete.Handle(ctx, command))
}

// CancelReservation lets the borrower or the owner withdraw a PENDING or CONFIRMED reservation.
func (s *Service) CancelReservation(
	ctx context.Context,
	reservationID core.ReservationIDString,
	userID core.UserIDString,
	reason string,
) (core.Reservation, error) {

	command := cancelreservation.BuildCommand(reservationID, userID, reason, s.clock())

	return reservationOf(s.cancel.Handle(ctx, command))
}

// RejectReservation lets the owner decline a PENDING request.
func (s *Service) RejectReservation(
	ctx context.Context,
	reservationID core.ReservationIDString,
	ownerID core.UserIDString,
	reason string,
) (core.Reservation, error) {

	command := rejectreservation.BuildCommand(reservationID, ownerID, reason, s.clock())

	return reservationOf(s.reject.Handle(ctx, command))
}

// SweepOverdue marks every ACTIVE reservation past its end as OVERDUE and returns how many it marked.
func (s *Service) SweepOverdue(ctx context.Context) (int, error) {
	return s.sweeper.SweepOverdue(ctx, s.clock())
}

// RunSweeper sweeps every interval until ctx is done.
func (s *Service) RunSweeper(ctx context.Context, interval time.Duration) error {
	return s.sweeper.Run(ctx, interval)
}

// GetReservation returns the reservation, terminal ones included.
func (s *Service) GetReservation(ctx context.Context, reservationID core.ReservationIDString) (core.Reservation, error) {
	return s.reservationByID.Handle(ctx, reservationbyid.BuildQuery(reservationID))
}

// ItemCalendar returns the blocking reservations of the item ordered by start.
func (s *Service) ItemCalendar(ctx context.Context, itemID core.ItemIDString) (itemcalendar.ItemCalendar, error) {
	return s.itemCalendar.Handle(ctx, itemcalendar.BuildQuery(itemID))
}

// OverdueCandidates returns the reservations the next sweep would mark.
func (s *Service) OverdueCandidates(ctx context.Context) (overduecandidates.OverdueCandidates, error) {
	return s.overdueCandidates.Handle(ctx, overduecandidates.BuildQuery(s.clock()))
}

func reservationOf(result shell.HandlerResult, err error) (core.Reservation, error) {
	if err != nil {
		return core.Reservation{}, err
	}

	return result.Reservation, nil
}
