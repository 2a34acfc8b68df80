package eventstore

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

//nolint:funlen
func Test_BuildStorableEvent_ErrorCases(t *testing.T) {
	validTime := time.Now()
	validPayloadJSON := []byte(`{"ReservationID": "r-1"}`)
	validMetadataJSON := []byte(`{"MessageID": "m-1"}`)

	tests := []struct {
		name         string
		payloadJSON  []byte
		metadataJSON []byte
		expectedErr  error
	}{
		{
			name:         "invalid payload JSON",
			payloadJSON:  []byte(`{"invalid": json}`),
			metadataJSON: validMetadataJSON,
			expectedErr:  ErrInvalidPayloadJSON,
		},
		{
			name:         "invalid metadata JSON",
			payloadJSON:  validPayloadJSON,
			metadataJSON: []byte(`{"invalid": json}`),
			expectedErr:  ErrInvalidMetadataJSON,
		},
		{
			name:         "empty payload JSON",
			payloadJSON:  []byte(``),
			metadataJSON: validMetadataJSON,
			expectedErr:  ErrInvalidPayloadJSON,
		},
		{
			name:         "nil metadata JSON",
			payloadJSON:  validPayloadJSON,
			metadataJSON: nil,
			expectedErr:  ErrInvalidMetadataJSON,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := BuildStorableEvent("ReservationRequested", validTime, tt.payloadJSON, tt.metadataJSON)

			assert.ErrorIs(t, err, tt.expectedErr)
		})
	}
}

func Test_BuildStorableEvent_Success(t *testing.T) {
	occurredAt := time.Date(2025, 1, 10, 12, 0, 0, 0, time.UTC)

	event, err := BuildStorableEvent("ReservationRequested", occurredAt, []byte(`{"ItemID":"i-1"}`), []byte(`{}`))

	assert.NoError(t, err)
	assert.Equal(t, "ReservationRequested", event.EventType)
	assert.Equal(t, occurredAt, event.OccurredAt)
	assert.Equal(t, MaxSequenceNumberUint(0), event.SequenceNumber)
}

func Test_BuildStorableEventWithEmptyMetadata_UsesEmptyJSONObject(t *testing.T) {
	event, err := BuildStorableEventWithEmptyMetadata("ReservationRequested", time.Now(), []byte(`{}`))

	assert.NoError(t, err)
	assert.Equal(t, []byte("{}"), event.MetadataJSON)
}

func Test_StorableEvent_WithSequenceNumber_DoesNotMutateOriginal(t *testing.T) {
	event, err := BuildStorableEventWithEmptyMetadata("ReservationRequested", time.Now(), []byte(`{}`))
	assert.NoError(t, err)

	withSeq := event.WithSequenceNumber(42)

	assert.Equal(t, MaxSequenceNumberUint(42), withSeq.SequenceNumber)
	assert.Equal(t, MaxSequenceNumberUint(0), event.SequenceNumber)
}
