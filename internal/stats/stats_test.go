package stats

import (
	"encoding/json"
	"testing"

	"github.com/mealbridge/mealbridge/internal/pickup"
	"github.com/mealbridge/mealbridge/internal/shadow"
)

func record(id int64, quantity int, location string) pickup.Record {
	return pickup.Record{ID: id, Quantity: pickup.QuantityOf(quantity), Location: location}
}

func entry(id int64, quantity int, location string) shadow.Entry {
	return shadow.Entry{Record: record(id, quantity, location)}
}

func TestCompute_EmptyInputs(t *testing.T) {
	snap := Compute(nil, nil, nil)
	if snap != (Snapshot{}) {
		t.Fatalf("Compute(nil, nil, nil) = %+v, want zero snapshot", snap)
	}
}

func TestCompute_Derivations(t *testing.T) {
	completed := []pickup.Record{
		record(1, 4, "Downtown"),
		record(2, 2, "Harbor"),
	}
	pending := []pickup.Record{
		record(10, 9, "Downtown"),
	}
	donated := []shadow.Entry{
		entry(3, 5, "Downtown"),
	}

	snap := Compute(completed, pending, donated)

	if snap.MealsServed != 3 {
		t.Errorf("MealsServed = %d, want 3 (2 completed + 1 donated)", snap.MealsServed)
	}
	if snap.LivesSaved != 9 {
		t.Errorf("LivesSaved = %d, want 9 (meals * 3)", snap.LivesSaved)
	}
	if snap.SurplusSaved != 11 {
		t.Errorf("SurplusSaved = %d, want 11 (4+2+5)", snap.SurplusSaved)
	}
	if snap.FoodBanksSupported != 2 {
		t.Errorf("FoodBanksSupported = %d, want 2 distinct locations", snap.FoodBanksSupported)
	}
	if snap.FoodItems != 2 {
		t.Errorf("FoodItems = %d, want 2 (1 pending + 1 donated)", snap.FoodItems)
	}
	if snap.DonationsMade != 1 {
		t.Errorf("DonationsMade = %d, want 1", snap.DonationsMade)
	}
}

func TestCompute_NonNumericQuantityCountsAsZero(t *testing.T) {
	var odd pickup.Record
	if err := json.Unmarshal([]byte(`{"id": 5, "quantity": "plenty", "location": "Docks"}`), &odd); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	snap := Compute([]pickup.Record{odd, record(6, 4, "Docks")}, nil, nil)

	// The odd record still counts as a meal, just contributes 0 surplus.
	if snap.MealsServed != 2 {
		t.Errorf("MealsServed = %d, want 2", snap.MealsServed)
	}
	if snap.SurplusSaved != 4 {
		t.Errorf("SurplusSaved = %d, want 4", snap.SurplusSaved)
	}
}

func TestCompute_SurplusMatchesMealSources(t *testing.T) {
	// surplusSaved must sum quantity over exactly the records counted by
	// mealsServed: no double counting, no omission.
	completed := []pickup.Record{record(1, 3, "A"), record(2, 7, "B")}
	donated := []shadow.Entry{entry(3, 1, "C"), entry(4, 2, "A")}

	snap := Compute(completed, nil, donated)

	if snap.MealsServed != 4 {
		t.Fatalf("MealsServed = %d, want 4", snap.MealsServed)
	}
	if snap.SurplusSaved != 13 {
		t.Fatalf("SurplusSaved = %d, want 13", snap.SurplusSaved)
	}
	if snap.FoodBanksSupported != 3 {
		t.Fatalf("FoodBanksSupported = %d, want 3 (A shared across sources)", snap.FoodBanksSupported)
	}
}

func TestCompute_IsStateless(t *testing.T) {
	completed := []pickup.Record{record(1, 4, "A")}

	first := Compute(completed, nil, nil)
	second := Compute(completed, nil, nil)
	if first != second {
		t.Fatalf("repeated Compute differs: %+v vs %+v", first, second)
	}

	// Adding one completed record of quantity 4 moves the numbers by
	// exactly one meal, three lives, four surplus.
	grown := Compute(append(completed, record(2, 4, "A")), nil, nil)
	if grown.MealsServed != first.MealsServed+1 {
		t.Errorf("MealsServed delta = %d, want 1", grown.MealsServed-first.MealsServed)
	}
	if grown.LivesSaved != first.LivesSaved+3 {
		t.Errorf("LivesSaved delta = %d, want 3", grown.LivesSaved-first.LivesSaved)
	}
	if grown.SurplusSaved != first.SurplusSaved+4 {
		t.Errorf("SurplusSaved delta = %d, want 4", grown.SurplusSaved-first.SurplusSaved)
	}
}
