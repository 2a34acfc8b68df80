package createreservation_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/item-lending-reservations/lending/core"
	"github.com/AntonStoeckl/item-lending-reservations/lending/eligibility"
	"github.com/AntonStoeckl/item-lending-reservations/lending/features/command/createreservation"
	"github.com/AntonStoeckl/item-lending-reservations/lending/shell"
	"github.com/AntonStoeckl/item-lending-reservations/testutil/collaborators"
	"github.com/AntonStoeckl/item-lending-reservations/testutil/enginewrapper"
	"github.com/AntonStoeckl/item-lending-reservations/testutil/fixtures"
)

type testEnvironment struct {
	es        shell.EventStore
	catalog   *collaborators.Catalog
	accounts  *collaborators.Accounts
	publisher *collaborators.PublisherSpy
	handler   createreservation.CommandHandler
}

func setupTestEnvironment(t *testing.T, opts ...shell.HandlerOption) testEnvironment {
	t.Helper()

	env := testEnvironment{
		es:        enginewrapper.CreateWrapperWithTestConfig(t).GetEventStore(),
		catalog:   collaborators.NewCatalog().AddItem(itemID, ownerID),
		accounts:  collaborators.NewAccounts(),
		publisher: collaborators.NewPublisherSpy(),
	}

	checker, err := eligibility.NewChecker(env.accounts, collaborators.NewReputation(), env.catalog, core.DefaultPolicy())
	require.NoError(t, err)

	opts = append([]shell.HandlerOption{shell.WithPublisher(env.publisher)}, opts...)
	env.handler, err = createreservation.NewCommandHandler(env.es, env.catalog, checker, opts...)
	require.NoError(t, err)

	return env
}

func Test_CommandHandler_Handle_Success(t *testing.T) {
	// arrange
	env := setupTestEnvironment(t)
	start, end := fakeClock.Add(48*time.Hour), fakeClock.Add(120*time.Hour)
	command := createreservation.BuildCommand("", itemID, borrowerID, start, end, "", 50, fakeClock)

	// act
	result, err := env.handler.Handle(context.Background(), command)

	// assert
	require.NoError(t, err)
	assert.False(t, result.Idempotent)
	assert.Equal(t, 1, result.RetryAttempts)

	r := result.Reservation
	assert.Equal(t, command.ReservationID, r.ID)
	assert.Equal(t, core.StatusPending, r.Status)
	assert.Equal(t, ownerID, r.OwnerID)
	assert.Equal(t, 3, r.DurationDays())
	assert.Equal(t, fakeClock, r.CreatedAt)

	_, stored, err := shell.LoadReservation(context.Background(), env.es, r.ID)
	require.NoError(t, err)
	assert.Equal(t, r, stored)

	events := env.publisher.EventsFor(r.ID)
	require.Len(t, events, 1)
	assert.Equal(t, core.Status(""), events[0].From)
	assert.Equal(t, core.StatusPending, events[0].To)
	assert.Equal(t, borrowerID, events[0].Actor)
}

func Test_CommandHandler_Handle_Resubmission_IsIdempotent(t *testing.T) {
	env := setupTestEnvironment(t)
	start, end := fakeClock.Add(48*time.Hour), fakeClock.Add(120*time.Hour)
	command := createreservation.BuildCommand("r-1", itemID, borrowerID, start, end, "", 50, fakeClock)

	first, err := env.handler.Handle(context.Background(), command)
	require.NoError(t, err)

	second, err := env.handler.Handle(context.Background(), command)

	require.NoError(t, err)
	assert.True(t, second.Idempotent)
	assert.Equal(t, first.Reservation, second.Reservation)
	assert.Len(t, env.publisher.Events(), 1)
}

func Test_CommandHandler_Handle_ReusedIDWithAnotherPeriod_IsADuplicate(t *testing.T) {
	// arrange
	env := setupTestEnvironment(t)
	first := createreservation.BuildCommand("r-1", itemID, borrowerID, fakeClock.Add(48*time.Hour), fakeClock.Add(72*time.Hour), "", 50, fakeClock)
	_, err := env.handler.Handle(context.Background(), first)
	require.NoError(t, err)

	second := createreservation.BuildCommand("r-1", itemID, borrowerID, fakeClock.Add(240*time.Hour), fakeClock.Add(288*time.Hour), "", 50, fakeClock)

	// act
	result, err := env.handler.Handle(context.Background(), second)

	// assert
	assert.ErrorIs(t, err, core.ErrValidation)
	assert.Equal(t, core.CodeDuplicateReservation, core.ErrorCode(err))
	assert.False(t, result.Idempotent)
	assert.False(t, result.Reservation.Exists())

	_, stored, err := shell.LoadReservation(context.Background(), env.es, "r-1")
	require.NoError(t, err)
	assert.Equal(t, first.Start, stored.Start, "the original request stays untouched")
	assert.Len(t, env.publisher.EventsFor("r-1"), 1)
}

func Test_CommandHandler_Handle_Errors(t *testing.T) {
	start, end := fakeClock.Add(48*time.Hour), fakeClock.Add(120*time.Hour)

	tests := []struct {
		name         string
		arrange      func(t *testing.T, env testEnvironment)
		command      createreservation.Command
		expectedErr  error
		expectedCode string
	}{
		{
			name:         "period in wrong order",
			command:      createreservation.BuildCommand("r-1", itemID, borrowerID, end, start, "", 0, fakeClock),
			expectedErr:  core.ErrValidation,
			expectedCode: core.CodeInvalidPeriod,
		},
		{
			name:         "negative deposit",
			command:      createreservation.BuildCommand("r-1", itemID, borrowerID, start, end, "", -5, fakeClock),
			expectedErr:  core.ErrValidation,
			expectedCode: core.CodeInvalidDeposit,
		},
		{
			name:         "unknown item",
			command:      createreservation.BuildCommand("r-1", "item-unknown", borrowerID, start, end, "", 0, fakeClock),
			expectedErr:  core.ErrNotFound,
			expectedCode: core.CodeNotFound,
		},
		{
			name:         "owner books own item",
			command:      createreservation.BuildCommand("r-1", itemID, ownerID, start, end, "", 0, fakeClock),
			expectedErr:  core.ErrEligibility,
			expectedCode: core.CodeNotOwnItem,
		},
		{
			name: "inactive borrower",
			arrange: func(_ *testing.T, env testEnvironment) {
				env.accounts.Deactivate(borrowerID)
			},
			command:      createreservation.BuildCommand("r-1", itemID, borrowerID, start, end, "", 0, fakeClock),
			expectedErr:  core.ErrEligibility,
			expectedCode: core.CodeAccountInactive,
		},
		{
			name: "unlisted item",
			arrange: func(_ *testing.T, env testEnvironment) {
				env.catalog.Unlist(itemID)
			},
			command:      createreservation.BuildCommand("r-1", itemID, borrowerID, start, end, "", 0, fakeClock),
			expectedErr:  core.ErrEligibility,
			expectedCode: core.CodeItemNotAvailable,
		},
		{
			name: "overlap with a confirmed reservation",
			arrange: func(t *testing.T, env testEnvironment) {
				blocker := fixtures.Booking{
					ReservationID: "r-0", ItemID: itemID, BorrowerID: "other", OwnerID: ownerID,
					Start: start.Add(-24 * time.Hour), End: start.Add(time.Hour), CreatedAt: fakeClock.Add(-time.Hour),
				}
				fixtures.Given(t, env.es, blocker.Events(t, core.StatusConfirmed)...)
			},
			command:      createreservation.BuildCommand("r-1", itemID, borrowerID, start, end, "", 0, fakeClock),
			expectedErr:  core.ErrConflict,
			expectedCode: core.CodeConflict,
		},
		{
			name: "id taken by another borrower",
			arrange: func(t *testing.T, env testEnvironment) {
				taken := fixtures.Booking{
					ReservationID: "r-1", ItemID: itemID, BorrowerID: "other", OwnerID: ownerID,
					Start: end, End: end.Add(24 * time.Hour), CreatedAt: fakeClock.Add(-time.Hour),
				}
				fixtures.Given(t, env.es, taken.Events(t, core.StatusPending)...)
			},
			command:      createreservation.BuildCommand("r-1", itemID, borrowerID, start, end, "", 0, fakeClock),
			expectedErr:  core.ErrValidation,
			expectedCode: core.CodeDuplicateReservation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// arrange
			env := setupTestEnvironment(t)
			if tt.arrange != nil {
				tt.arrange(t, env)
			}

			// act
			result, err := env.handler.Handle(context.Background(), tt.command)

			// assert
			assert.ErrorIs(t, err, tt.expectedErr)
			assert.Equal(t, tt.expectedCode, core.ErrorCode(err))
			assert.False(t, result.Reservation.Exists())
			assert.Empty(t, env.publisher.EventsFor(tt.command.ReservationID))
		})
	}
}

func Test_CommandHandler_Handle_CollaboratorFailure(t *testing.T) {
	env := setupTestEnvironment(t)
	env.catalog.LookupErr = errors.New("catalog down")
	command := createreservation.BuildCommand("r-1", itemID, borrowerID, fakeClock.Add(48*time.Hour), fakeClock.Add(72*time.Hour), "", 0, fakeClock)

	_, err := env.handler.Handle(context.Background(), command)

	assert.ErrorIs(t, err, createreservation.ErrOwnerLookupFailed)
	assert.Empty(t, core.ErrorCode(err))
}

func Test_CommandHandler_Handle_ConcurrentPendingRequests_AllSucceed(t *testing.T) {
	// arrange
	env := setupTestEnvironment(t, shell.WithRetryOptions(shell.WithMaxAttempts(10), shell.WithBaseDelay(time.Millisecond)))
	start, end := fakeClock.Add(48*time.Hour), fakeClock.Add(120*time.Hour)

	const n = 8
	var wg sync.WaitGroup
	errs := make([]error, n)

	// act
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			command := createreservation.BuildCommand("", itemID, borrowerID, start.Add(time.Duration(i)*time.Hour), end, "", 0, fakeClock)
			_, errs[i] = env.handler.Handle(context.Background(), command)
		}()
	}
	wg.Wait()

	// assert
	for _, err := range errs {
		assert.NoError(t, err, "pending requests do not block each other")
	}

	history, err := shell.LoadHistory(context.Background(), env.es, shell.ItemFilter(itemID))
	require.NoError(t, err)
	assert.Len(t, core.ProjectReservations(history.Events), n)
}

func Test_NewCommandHandler_RejectsNilCollaborators(t *testing.T) {
	_, err := createreservation.NewCommandHandler(nil, nil, nil)

	assert.ErrorIs(t, err, createreservation.ErrNilCollaborator)
}
