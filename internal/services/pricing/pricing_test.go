package pricing

import (
	"testing"

	"github.com/designdesk/designdesk/internal/entities"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestPriorityForTimeline(t *testing.T) {
	tests := []struct {
		timeline string
		want     string
	}{
		{timeline: "rush", want: entities.PriorityHigh},
		{timeline: "standard", want: entities.PriorityMedium},
		{timeline: "flexible", want: entities.PriorityLow},
		{timeline: "large", want: entities.PriorityMedium},
		{timeline: "someday", want: entities.PriorityMedium},
		{timeline: "", want: entities.PriorityMedium},
	}

	for _, tt := range tests {
		t.Run(tt.timeline, func(t *testing.T) {
			assert.Equal(t, tt.want, PriorityForTimeline(tt.timeline))
		})
	}
}

func TestPriceForBudget(t *testing.T) {
	tests := []struct {
		budget string
		want   int64
	}{
		{budget: "50-150", want: 100},
		{budget: "150-300", want: 225},
		{budget: "300-500", want: 400},
		{budget: "500+", want: 750},
		{budget: "1000000", want: 0},
		{budget: "", want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.budget, func(t *testing.T) {
			assert.True(t, decimal.NewFromInt(tt.want).Equal(PriceForBudget(tt.budget)))
		})
	}
}
