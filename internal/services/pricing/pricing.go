// Package pricing derives a request's priority and price from the enumerated
// timeline and budget choices offered on the intake form. Both derivations
// are fixed lookup tables; unrecognized values fall back rather than fail.
package pricing

import (
	"github.com/designdesk/designdesk/internal/entities"
	"github.com/shopspring/decimal"
)

var timelinePriorities = map[string]string{
	"rush":     entities.PriorityHigh,
	"standard": entities.PriorityMedium,
	"flexible": entities.PriorityLow,
	"large":    entities.PriorityMedium,
}

var budgetPrices = map[string]int64{
	"50-150":  100,
	"150-300": 225,
	"300-500": 400,
	"500+":    750,
}

func PriorityForTimeline(timeline string) string {
	if priority, ok := timelinePriorities[timeline]; ok {
		return priority
	}

	return entities.PriorityMedium
}

func PriceForBudget(budget string) decimal.Decimal {
	if price, ok := budgetPrices[budget]; ok {
		return decimal.NewFromInt(price)
	}

	return decimal.Zero
}
