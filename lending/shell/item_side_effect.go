package shell

import (
	"context"
	"errors"
	"fmt"

	"github.com/AntonStoeckl/item-lending-reservations/lending/core"
)

var (
	// ErrChangingItemStatusFailed is returned when the catalog refused an item status flip.
	ErrChangingItemStatusFailed = errors.New("changing item status failed")

	// ErrRevertingItemStatusFailed is joined to the original error when a flip could not be undone.
	ErrRevertingItemStatusFailed = errors.New("reverting item status failed")
)

// ItemSideEffect is the flip of the item's lending status a transition causes.
type ItemSideEffect uint8

const (
	NoItemChange ItemSideEffect = iota
	MarkItemBorrowed
	MarkItemAvailable
)

func (e ItemSideEffect) String() string {
	switch e {
	case MarkItemBorrowed:
		return "mark_borrowed"
	case MarkItemAvailable:
		return "mark_available"
	default:
		return "none"
	}
}

// Apply performs the flip. A nil updater makes every flip a no-op.
func (e ItemSideEffect) Apply(ctx context.Context, items ItemStatusUpdater, itemID core.ItemIDString) error {
	return e.run(ctx, items, itemID, false)
}

// Revert performs the opposite flip.
func (e ItemSideEffect) Revert(ctx context.Context, items ItemStatusUpdater, itemID core.ItemIDString) error {
	return e.run(ctx, items, itemID, true)
}

func (e ItemSideEffect) run(ctx context.Context, items ItemStatusUpdater, itemID core.ItemIDString, inverse bool) error {
	if items == nil || e == NoItemChange {
		return nil
	}

	borrow := e == MarkItemBorrowed
	if inverse {
		borrow = !borrow
	}

	var err error
	if borrow {
		err = items.MarkBorrowed(ctx, itemID)
	} else {
		err = items.MarkAvailable(ctx, itemID)
	}

	if err != nil {
		return fmt.Errorf("item %q: %w", itemID, err)
	}

	return nil
}
