package postgresengine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/AntonStoeckl/item-lending-reservations/eventstore"
	"github.com/AntonStoeckl/item-lending-reservations/eventstore/internal/instrument"
)

const logActionCreateSchema = "create schema"

func (es EventStore) schemaStatements() []string {
	return []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %q (
	%s BIGSERIAL PRIMARY KEY,
	%s TEXT NOT NULL,
	%s TIMESTAMPTZ NOT NULL,
	%s JSONB NOT NULL,
	%s JSONB NOT NULL
)`, es.eventTableName, colSequenceNumber, colEventType, colOccurredAt, colPayload, colMetadata),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %q ON %q (%s)`,
			es.eventTableName+"_event_type_idx", es.eventTableName, colEventType),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %q ON %q USING GIN (%s jsonb_path_ops)`,
			es.eventTableName+"_payload_idx", es.eventTableName, colPayload),
	}
}

// CreateSchema creates the events table and its indexes if they do not exist.
func (es EventStore) CreateSchema(ctx context.Context) error {
	for _, statement := range es.schemaStatements() {
		start := time.Now()
		_, err := es.db.Exec(ctx, statement)
		es.observer.LogSQL(ctx, statement, logActionCreateSchema, time.Since(start))

		if err != nil {
			es.observer.LogError(ctx, "failed to create schema", err, instrument.LogAttrQuery, statement)
			return errors.Join(eventstore.ErrCreatingSchemaFailed, err)
		}
	}

	return nil
}
