package eligibility_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/item-lending-reservations/lending/core"
	"github.com/AntonStoeckl/item-lending-reservations/lending/eligibility"
	"github.com/AntonStoeckl/item-lending-reservations/testutil/collaborators"
)

var now = time.Date(2025, time.March, 1, 12, 0, 0, 0, time.UTC)

type fixture struct {
	accounts   *collaborators.Accounts
	reputation *collaborators.Reputation
	catalog    *collaborators.Catalog
	checker    *eligibility.Checker
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	f := fixture{
		accounts:   collaborators.NewAccounts(),
		reputation: collaborators.NewReputation(),
		catalog:    collaborators.NewCatalog().AddItem("item-1", "owner-1"),
	}

	checker, err := eligibility.NewChecker(f.accounts, f.reputation, f.catalog, core.DefaultPolicy())
	require.NoError(t, err)
	f.checker = checker

	return f
}

func validRequest() eligibility.Request {
	return eligibility.Request{
		BorrowerID: "borrower-1",
		OwnerID:    "owner-1",
		ItemID:     "item-1",
		Start:      now.Add(48 * time.Hour),
		End:        now.Add(120 * time.Hour),
		Now:        now,
	}
}

func Test_Checker_Check_AdmitsAnEligibleRequest(t *testing.T) {
	// arrange
	f := newFixture(t)

	// act
	period, err := f.checker.Check(context.Background(), validRequest())

	// assert
	require.NoError(t, err)
	assert.Equal(t, now.Add(48*time.Hour), period.Start)
	assert.Equal(t, 3, period.DurationDays())
}

func Test_Checker_Check_Rejections(t *testing.T) {
	tests := []struct {
		name         string
		arrange      func(f fixture, req *eligibility.Request)
		sentinel     error
		expectedCode string
	}{
		{
			name:         "end before start",
			arrange:      func(_ fixture, req *eligibility.Request) { req.End = req.Start.Add(-time.Hour) },
			sentinel:     core.ErrValidation,
			expectedCode: core.CodeInvalidPeriod,
		},
		{
			name:         "start in the past",
			arrange:      func(_ fixture, req *eligibility.Request) { req.Start = now.Add(-time.Hour) },
			sentinel:     core.ErrValidation,
			expectedCode: core.CodeInvalidPeriod,
		},
		{
			name:         "too long",
			arrange:      func(_ fixture, req *eligibility.Request) { req.End = req.Start.Add(31 * 24 * time.Hour) },
			sentinel:     core.ErrValidation,
			expectedCode: core.CodeInvalidPeriod,
		},
		{
			name: "too far ahead",
			arrange: func(_ fixture, req *eligibility.Request) {
				req.Start = now.Add(91 * 24 * time.Hour)
				req.End = req.Start.Add(24 * time.Hour)
			},
			sentinel:     core.ErrValidation,
			expectedCode: core.CodeInvalidPeriod,
		},
		{
			name:         "inactive account",
			arrange:      func(f fixture, _ *eligibility.Request) { f.accounts.Deactivate("borrower-1") },
			sentinel:     core.ErrEligibility,
			expectedCode: core.CodeAccountInactive,
		},
		{
			name:         "trust score below threshold",
			arrange:      func(f fixture, _ *eligibility.Request) { f.reputation.SetScore("borrower-1", 2.99) },
			sentinel:     core.ErrEligibility,
			expectedCode: core.CodeInsufficientTrust,
		},
		{
			name:         "self booking",
			arrange:      func(_ fixture, req *eligibility.Request) { req.BorrowerID = "owner-1" },
			sentinel:     core.ErrEligibility,
			expectedCode: core.CodeNotOwnItem,
		},
		{
			name:         "item not borrowable",
			arrange:      func(f fixture, _ *eligibility.Request) { f.catalog.Unlist("item-1") },
			sentinel:     core.ErrEligibility,
			expectedCode: core.CodeItemNotAvailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// arrange
			f := newFixture(t)
			req := validRequest()
			tt.arrange(f, &req)

			// act
			_, err := f.checker.Check(context.Background(), req)

			// assert
			assert.ErrorIs(t, err, tt.sentinel)
			assert.Equal(t, tt.expectedCode, core.ErrorCode(err))
		})
	}
}

func Test_Checker_Check_FirstFailureWins(t *testing.T) {
	// arrange
	f := newFixture(t)
	f.accounts.Deactivate("borrower-1")
	f.reputation.SetScore("borrower-1", 0)
	req := validRequest()
	req.Start = now.Add(-time.Hour)

	// act
	_, err := f.checker.Check(context.Background(), req)

	// assert
	assert.Equal(t, core.CodeInvalidPeriod, core.ErrorCode(err))
}

func Test_Checker_Check_ThresholdIsInclusive(t *testing.T) {
	f := newFixture(t)
	f.reputation.SetScore("borrower-1", 3.0)

	_, err := f.checker.Check(context.Background(), validRequest())

	assert.NoError(t, err)
}

func Test_Checker_Check_CollaboratorFailures(t *testing.T) {
	lookupErr := errors.New("connection refused")

	f := newFixture(t)
	f.reputation.Err = lookupErr

	_, err := f.checker.Check(context.Background(), validRequest())

	assert.ErrorIs(t, err, eligibility.ErrCollaboratorFailed)
	assert.ErrorIs(t, err, lookupErr)
	assert.NotErrorIs(t, err, core.ErrEligibility)
}

func Test_NewChecker_RequiresAllCollaborators(t *testing.T) {
	_, err := eligibility.NewChecker(nil, collaborators.NewReputation(), collaborators.NewCatalog(), core.DefaultPolicy())

	assert.ErrorIs(t, err, eligibility.ErrNilCollaborator)
}
