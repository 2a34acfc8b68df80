package eligibility

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/AntonStoeckl/item-lending-reservations/lending/core"
)

var (
	// ErrNilCollaborator is returned when a collaborator passed to NewChecker is nil.
	ErrNilCollaborator = errors.New("eligibility collaborator must not be nil")

	// ErrCollaboratorFailed wraps technical failures of the collaborators.
	ErrCollaboratorFailed = errors.New("eligibility collaborator failed")
)

// Accounts looks up the standing of user accounts.
type Accounts interface {
	IsActive(ctx context.Context, userID string) (bool, error)
}

// Reputation looks up trust scores on a 0 to 5 scale.
type Reputation interface {
	TrustScore(ctx context.Context, userID string) (float64, error)
}

// Catalog looks up whether an item is active and borrowable.
type Catalog interface {
	IsBorrowable(ctx context.Context, itemID string) (bool, error)
}

// Request is the input of one eligibility check.
type Request struct {
	BorrowerID string
	OwnerID    string
	ItemID     string
	Start      time.Time
	End        time.Time
	Now        time.Time
}

// Checker validates a booking request against the policy and the collaborators.
type Checker struct {
	accounts   Accounts
	reputation Reputation
	catalog    Catalog
	policy     core.Policy
}

// NewChecker creates a Checker. All collaborators are required.
func NewChecker(accounts Accounts, reputation Reputation, catalog Catalog, policy core.Policy) (*Checker, error) {
	if accounts == nil || reputation == nil || catalog == nil {
		return nil, ErrNilCollaborator
	}

	return &Checker{
		accounts:   accounts,
		reputation: reputation,
		catalog:    catalog,
		policy:     policy,
	}, nil
}

// Policy returns the booking policy the Checker applies.
func (c *Checker) Policy() core.Policy {
	return c.policy
}

// Check returns the validated period, a *core.ValidationError or *core.EligibilityError for a
// rejected request, or an error wrapping ErrCollaboratorFailed.
//
// Order of the checks:
//  1. period well-formed
//  2. start not in the past
//  3. duration within the maximum
//  4. start within the advance window
//  5. borrower account active
//  6. borrower trust score at least the minimum
//  7. borrower is not the owner
//  8. item borrowable
func (c *Checker) Check(ctx context.Context, req Request) (core.Period, error) {
	period, err := c.policy.ValidateBooking(req.Start, req.End, req.Now)
	if err != nil {
		return core.Period{}, err
	}

	active, err := c.accounts.IsActive(ctx, req.BorrowerID)
	if err != nil {
		return core.Period{}, errors.Join(ErrCollaboratorFailed, fmt.Errorf("account lookup: %w", err))
	}

	if !active {
		return core.Period{}, core.NewEligibilityError(core.CodeAccountInactive, req.BorrowerID, req.ItemID, "borrower account is not active")
	}

	score, err := c.reputation.TrustScore(ctx, req.BorrowerID)
	if err != nil {
		return core.Period{}, errors.Join(ErrCollaboratorFailed, fmt.Errorf("trust score lookup: %w", err))
	}

	if score < c.policy.MinTrustScore {
		return core.Period{}, core.NewEligibilityError(
			core.CodeInsufficientTrust,
			req.BorrowerID,
			req.ItemID,
			fmt.Sprintf("trust score %.2f is below %.2f", score, c.policy.MinTrustScore),
		)
	}

	if req.BorrowerID == req.OwnerID {
		return core.Period{}, core.NewEligibilityError(core.CodeNotOwnItem, req.BorrowerID, req.ItemID, "owners cannot borrow their own items")
	}

	borrowable, err := c.catalog.IsBorrowable(ctx, req.ItemID)
	if err != nil {
		return core.Period{}, errors.Join(ErrCollaboratorFailed, fmt.Errorf("catalog lookup: %w", err))
	}

	if !borrowable {
		return core.Period{}, core.NewEligibilityError(core.CodeItemNotAvailable, req.BorrowerID, req.ItemID, "item is not borrowable")
	}

	return period, nil
}
