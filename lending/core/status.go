package core

// Status is the disposition of a reservation.
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusConfirmed Status = "CONFIRMED"
	StatusActive    Status = "ACTIVE"
	StatusCompleted Status = "COMPLETED"
	StatusCancelled Status = "CANCELLED"
	StatusRejected  Status = "REJECTED"
	StatusOverdue   Status = "OVERDUE"
)

// AllStatuses lists every status in lifecycle order.
func AllStatuses() []Status {
	return []Status{
		StatusPending,
		StatusConfirmed,
		StatusActive,
		StatusCompleted,
		StatusCancelled,
		StatusRejected,
		StatusOverdue,
	}
}

// IsBlocking reports whether the status occupies the item's calendar.
func (s Status) IsBlocking() bool {
	return s == StatusConfirmed || s == StatusActive
}

// IsTerminal reports whether the status has no outgoing transitions.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled || s == StatusRejected
}

func (s Status) String() string {
	return string(s)
}
