package outbox_test

import (
	"encoding/json"
	"testing"
	"time"

	consumptionDomain "github.com/comanda-app/comanda/internal/consumption/domain"
	"github.com/comanda-app/comanda/internal/shared/infrastructure/outbox"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMessage(t *testing.T) {
	consumptionID := uuid.New()
	customerID := uuid.New()
	event := consumptionDomain.NewConsumptionRegistered(consumptionID, customerID, 4500)

	msg, err := outbox.NewMessage(event)

	require.NoError(t, err)
	assert.Equal(t, event.EventID(), msg.EventID)
	assert.Equal(t, "Consumption", msg.AggregateType)
	assert.Equal(t, consumptionID, msg.AggregateID)
	assert.Equal(t, "venue.consumption.registered", msg.RoutingKey)
	assert.Equal(t, msg.RoutingKey, msg.EventType)
	assert.False(t, msg.IsPublished())

	var payload map[string]any
	require.NoError(t, json.Unmarshal(msg.Payload, &payload))
	assert.Equal(t, customerID.String(), payload["customer_id"])
	assert.Equal(t, float64(4500), payload["total_amount"])
}

func TestMessage_IsPublished(t *testing.T) {
	msg := createTestMessage("venue.consumption.registered")
	assert.False(t, msg.IsPublished())

	now := time.Now()
	msg.PublishedAt = &now
	assert.True(t, msg.IsPublished())
}

func TestMessage_CanRetry(t *testing.T) {
	msg := createTestMessage("venue.consumption.registered")

	assert.True(t, msg.CanRetry(3))

	msg.RetryCount = 2
	assert.True(t, msg.CanRetry(3))

	msg.RetryCount = 3
	assert.False(t, msg.CanRetry(3))

	msg.RetryCount = 5
	assert.False(t, msg.CanRetry(3))
}
