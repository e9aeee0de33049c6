package events

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Consumers bind to these JSON keys; renaming a field is a breaking change.
func TestOrderCreatedWireFormat(t *testing.T) {
	ev := OrderCreated{
		EventType:     "OrderCreated",
		OrderID:       "order-1",
		CustomerID:    "cust-1",
		CustomerEmail: "awa@example.com",
		Total:         4000,
		Lines: []OrderLine{
			{ProductID: "p1", ProductName: "Oud Royal", Quantity: 2, UnitPrice: 2000},
		},
		Timestamp: time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC),
	}

	body, err := json.Marshal(ev)
	require.NoError(t, err)

	var asMap map[string]any
	require.NoError(t, json.Unmarshal(body, &asMap))

	for _, key := range []string{"eventType", "orderId", "customerId", "customerEmail", "total", "lines", "timestamp"} {
		assert.Contains(t, asMap, key)
	}

	lines, ok := asMap["lines"].([]any)
	require.True(t, ok)
	require.Len(t, lines, 1)
	line, ok := lines[0].(map[string]any)
	require.True(t, ok)
	for _, key := range []string{"productId", "productName", "quantity", "unitPrice"} {
		assert.Contains(t, line, key)
	}

	assert.Equal(t, "OrderCreated", asMap["eventType"])
	assert.Equal(t, float64(4000), asMap["total"])
}
