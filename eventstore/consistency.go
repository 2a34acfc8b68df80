package eventstore

import "context"

// ConsistencyLevel tells an engine with a read replica where a Query may be served from.
// Engines without a replica ignore it.
type ConsistencyLevel int

const (
	// StrongConsistency reads from the primary. Everything that decides on what it read and then
	// appends (command handlers, sweeps) needs it, otherwise the expected max sequence number is stale
	// and every append conflicts.
	StrongConsistency ConsistencyLevel = iota

	// EventualConsistency allows the replica. For read models that may lag by the replication delay.
	EventualConsistency
)

type consistencyKey struct{}

// ConsistencyLevelKey is the context key holding the requested ConsistencyLevel.
var ConsistencyLevelKey = consistencyKey{}

// WithStrongConsistency marks ctx for primary reads.
func WithStrongConsistency(ctx context.Context) context.Context {
	return context.WithValue(ctx, ConsistencyLevelKey, StrongConsistency)
}

// WithEventualConsistency marks ctx as tolerating replica reads.
func WithEventualConsistency(ctx context.Context) context.Context {
	return context.WithValue(ctx, ConsistencyLevelKey, EventualConsistency)
}

// GetConsistencyLevel returns the level stored in ctx, StrongConsistency if there is none.
func GetConsistencyLevel(ctx context.Context) ConsistencyLevel {
	level, ok := ctx.Value(ConsistencyLevelKey).(ConsistencyLevel)
	if !ok {
		return StrongConsistency
	}

	return level
}

func (c ConsistencyLevel) String() string {
	if c == EventualConsistency {
		return "eventual"
	}

	if c == StrongConsistency {
		return "strong"
	}

	return "unknown"
}
