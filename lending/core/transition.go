package core

import (
	"fmt"
)

// Trigger is the intent that fires a transition.
type Trigger string

const (
	TriggerConfirm     Trigger = "confirm"
	TriggerCancel      Trigger = "cancel"
	TriggerReject      Trigger = "reject"
	TriggerActivate    Trigger = "activate"
	TriggerComplete    Trigger = "complete"
	TriggerMarkOverdue Trigger = "mark_overdue"
)

// AllTriggers lists every trigger.
func AllTriggers() []Trigger {
	return []Trigger{
		TriggerConfirm,
		TriggerCancel,
		TriggerReject,
		TriggerActivate,
		TriggerComplete,
		TriggerMarkOverdue,
	}
}

// RequestedStatus is the status the trigger asks for, independent of where it starts from.
func (t Trigger) RequestedStatus() Status {
	switch t {
	case TriggerConfirm:
		return StatusConfirmed
	case TriggerCancel:
		return StatusCancelled
	case TriggerReject:
		return StatusRejected
	case TriggerActivate:
		return StatusActive
	case TriggerComplete:
		return StatusCompleted
	case TriggerMarkOverdue:
		return StatusOverdue
	default:
		return ""
	}
}

// Role is the relation of an actor to a reservation.
type Role uint8

const (
	RoleBorrower Role = 1 << iota
	RoleOwner
	RoleSystem
)

// Actor is who fires a trigger: a user or the system.
type Actor struct {
	UserID   UserIDString
	isSystem bool
}

// SystemActorName is how the system actor appears in events.
const SystemActorName = "system"

// UserActor builds an actor for an external caller.
func UserActor(userID UserIDString) Actor {
	return Actor{UserID: userID}
}

// SystemActor builds the actor reserved for system-triggered transitions.
func SystemActor() Actor {
	return Actor{isSystem: true}
}

// IsSystem reports whether this is the system actor.
func (a Actor) IsSystem() bool {
	return a.isSystem
}

func (a Actor) String() string {
	if a.isSystem {
		return SystemActorName
	}

	return a.UserID
}

// rolesOf resolves the roles the actor holds on the reservation.
// A user never holds RoleSystem, whatever its id is.
func (a Actor) rolesOf(r Reservation) Role {
	if a.isSystem {
		return RoleSystem
	}

	var roles Role
	if a.UserID != "" && a.UserID == r.BorrowerID {
		roles |= RoleBorrower
	}

	if a.UserID != "" && a.UserID == r.OwnerID {
		roles |= RoleOwner
	}

	return roles
}

// TransitionRule is one row of the transition table.
type TransitionRule struct {
	From    Status
	To      Status
	Trigger Trigger
	Allowed Role
}

var transitionTable = []TransitionRule{
	{From: StatusPending, To: StatusConfirmed, Trigger: TriggerConfirm, Allowed: RoleOwner},
	{From: StatusPending, To: StatusCancelled, Trigger: TriggerCancel, Allowed: RoleBorrower | RoleOwner},
	{From: StatusPending, To: StatusRejected, Trigger: TriggerReject, Allowed: RoleOwner},
	{From: StatusConfirmed, To: StatusActive, Trigger: TriggerActivate, Allowed: RoleBorrower},
	{From: StatusConfirmed, To: StatusCancelled, Trigger: TriggerCancel, Allowed: RoleBorrower | RoleOwner},
	{From: StatusActive, To: StatusCompleted, Trigger: TriggerComplete, Allowed: RoleBorrower},
	{From: StatusActive, To: StatusOverdue, Trigger: TriggerMarkOverdue, Allowed: RoleSystem},
	{From: StatusOverdue, To: StatusCompleted, Trigger: TriggerComplete, Allowed: RoleBorrower},
}

// TransitionTable returns a copy of all legal transitions.
func TransitionTable() []TransitionRule {
	return append([]TransitionRule(nil), transitionTable...)
}

// allowedRoles is the same for a trigger from every source status.
func allowedRoles(trigger Trigger) Role {
	for _, rule := range transitionTable {
		if rule.Trigger == trigger {
			return rule.Allowed
		}
	}

	return 0
}

// Transition checks that the actor may fire the trigger and that the table has an edge for it
// from the reservation's current status. It returns the target status.
//
// Authorization is checked before the edge. Guards that depend on time or input are checked
// by the callers, after Transition succeeded.
func Transition(r Reservation, trigger Trigger, actor Actor) (Status, error) {
	allowed := allowedRoles(trigger)
	if allowed == 0 {
		return "", fmt.Errorf("unknown trigger %q", trigger)
	}

	if actor.rolesOf(r)&allowed == 0 {
		return "", &AuthorizationError{ReservationID: r.ID, UserID: actor.String(), Trigger: trigger}
	}

	for _, rule := range transitionTable {
		if rule.From == r.Status && rule.Trigger == trigger {
			return rule.To, nil
		}
	}

	return "", &InvalidTransitionError{
		ReservationID: r.ID,
		From:          r.Status,
		To:            trigger.RequestedStatus(),
		Trigger:       trigger,
	}
}
