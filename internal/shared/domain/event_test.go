package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestNewBaseEvent(t *testing.T) {
	aggregateID := uuid.New()

	e := NewBaseEvent(aggregateID, "Consumption", "venue.consumption.registered")

	assert.NotEqual(t, uuid.Nil, e.EventID())
	assert.Equal(t, aggregateID, e.AggregateID())
	assert.Equal(t, "Consumption", e.AggregateType())
	assert.Equal(t, "venue.consumption.registered", e.RoutingKey())
	assert.False(t, e.OccurredAt().IsZero())
}

func TestBaseEvent_SetMetadata(t *testing.T) {
	e := NewBaseEvent(uuid.New(), "Consumption", "venue.consumption.paid")
	metadata := EventMetadata{
		CorrelationID: uuid.New(),
		CausationID:   uuid.New(),
		CustomerID:    uuid.New(),
	}

	e.SetMetadata(metadata)

	assert.Equal(t, metadata, e.Metadata())
}
