package models_test

import (
	"testing"

	"gerai/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestValidOrderStatus(t *testing.T) {
	for _, status := range models.OrderStatuses {
		assert.True(t, models.ValidOrderStatus(status), status)
	}
	assert.False(t, models.ValidOrderStatus("Shipped"))
	assert.False(t, models.ValidOrderStatus(""))
	assert.False(t, models.ValidOrderStatus("order received")) // statuses are case sensitive
}

func TestCanTransition(t *testing.T) {
	testCases := []struct {
		name    string
		from    string
		to      string
		allowed bool
	}{
		{"received to processing", models.StatusReceived, models.StatusProcessing, true},
		{"processing to on the way", models.StatusProcessing, models.StatusOnTheWay, true},
		{"on the way to completed", models.StatusOnTheWay, models.StatusCompleted, true},
		{"received skips to completed", models.StatusReceived, models.StatusCompleted, false},
		{"processing back to received", models.StatusProcessing, models.StatusReceived, false},
		{"cancel from received", models.StatusReceived, models.StatusCanceled, true},
		{"cancel from processing", models.StatusProcessing, models.StatusCanceled, true},
		{"cancel from on the way", models.StatusOnTheWay, models.StatusCanceled, true},
		{"cancel after completion", models.StatusCompleted, models.StatusCanceled, false},
		{"revive a canceled order", models.StatusCanceled, models.StatusReceived, false},
		{"completed is terminal", models.StatusCompleted, models.StatusProcessing, false},
		{"unknown target", models.StatusReceived, "Shipped", false},
		{"unknown source", "Shipped", models.StatusProcessing, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.allowed, models.CanTransition(tc.from, tc.to))
		})
	}
}
