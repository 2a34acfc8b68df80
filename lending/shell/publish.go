package shell

import (
	"context"

	"github.com/AntonStoeckl/item-lending-reservations/lending/core"
)

// PublishTransition hands the transition event to the publisher.
// The event store is the source of truth, so failures are logged and not returned.
func PublishTransition(
	ctx context.Context,
	publisher TransitionPublisher,
	logger ContextualLogger,
	event core.TransitionEvent,
) {

	if publisher == nil {
		return
	}

	if err := publisher.Publish(ctx, event); err != nil {
		LogWarn(ctx, nil, logger, LogMsgPublishFailed,
			LogAttrReservationID, event.ReservationID,
			LogAttrItemID, event.ItemID,
			"to", string(event.To),
			LogAttrError, err.Error(),
		)
	}
}
