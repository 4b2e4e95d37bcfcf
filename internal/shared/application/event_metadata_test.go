package application

import (
	"testing"

	consumptionDomain "github.com/comanda-app/comanda/internal/consumption/domain"
	"github.com/comanda-app/comanda/internal/shared/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type metadataEvent struct {
	domain.BaseEvent
}

func TestNewEventMetadata(t *testing.T) {
	customerID := uuid.New()

	metadata := NewEventMetadata(customerID)

	assert.Equal(t, customerID, metadata.CustomerID)
	assert.NotEqual(t, uuid.Nil, metadata.CorrelationID)
	assert.NotEqual(t, uuid.Nil, metadata.CausationID)
}

func TestApplyEventMetadata(t *testing.T) {
	event := &metadataEvent{BaseEvent: domain.NewBaseEvent(uuid.New(), "Consumption", "venue.consumption.registered")}
	metadata := NewEventMetadata(uuid.New())

	ApplyEventMetadata([]domain.DomainEvent{event}, metadata)

	require.Equal(t, metadata, event.Metadata())
}

// Events raised by an aggregate must end up with metadata too, not just
// hand-built ones.
func TestApplyEventMetadata_AggregateEvents(t *testing.T) {
	customerID := uuid.New()
	c, err := consumptionDomain.New(customerID)
	require.NoError(t, err)
	require.NoError(t, c.AddItem(uuid.New(), 2, 1000))
	require.NoError(t, c.Register())
	require.NoError(t, c.MarkAsPaid("pix-ref-1"))

	events := c.DomainEvents()
	require.Len(t, events, 2)

	metadata := NewEventMetadata(customerID)
	ApplyEventMetadata(events, metadata)

	for _, event := range events {
		assert.Equal(t, metadata, event.Metadata())
		assert.NotEqual(t, uuid.Nil, event.Metadata().CorrelationID)
		assert.NotEqual(t, uuid.Nil, event.Metadata().CausationID)
		assert.Equal(t, customerID, event.Metadata().CustomerID)
	}
}
