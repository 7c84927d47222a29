// Package stats derives the impact numbers shown on the home view. A
// snapshot is a pure projection over its inputs: every call recomputes
// from scratch, so the numbers can never drift from their source records.
package stats

import (
	"github.com/mealbridge/mealbridge/internal/pickup"
	"github.com/mealbridge/mealbridge/internal/shadow"
)

// livesPerMeal is the presented multiplier between meals served and lives
// saved. User-visible contract; do not change casually.
const livesPerMeal = 3

// Snapshot holds the derived impact metrics. It has no identity of its
// own and is never persisted.
type Snapshot struct {
	FoodItems          int
	MealsServed        int
	LivesSaved         int
	SurplusSaved       int
	FoodBanksSupported int
	DonationsMade      int
}

// Compute derives a snapshot from exactly two sources: server-reported
// completed records and the local donated history, plus the donor's
// pending items for the food-items count. No other inputs exist.
func Compute(completed, pending []pickup.Record, donated []shadow.Entry) Snapshot {
	meals := len(completed) + len(donated)

	surplus := 0
	for _, rec := range completed {
		surplus += rec.Quantity.Value()
	}
	for _, entry := range donated {
		surplus += entry.Quantity.Value()
	}

	locations := make(map[string]struct{})
	for _, rec := range completed {
		locations[rec.Location] = struct{}{}
	}
	for _, entry := range donated {
		locations[entry.Location] = struct{}{}
	}

	return Snapshot{
		FoodItems:          len(pending) + len(donated),
		MealsServed:        meals,
		LivesSaved:         meals * livesPerMeal,
		SurplusSaved:       surplus,
		FoodBanksSupported: len(locations),
		DonationsMade:      len(donated),
	}
}
