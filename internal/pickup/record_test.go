package pickup

import (
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func TestQuantity_DecodesNumbersAndStrings(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want int
	}{
		{"number", `{"quantity": 5}`, 5},
		{"numeric string", `{"quantity": "12"}`, 12},
		{"float", `{"quantity": 2.9}`, 2},
		{"garbage string", `{"quantity": "a lot"}`, 0},
		{"null", `{"quantity": null}`, 0},
		{"missing", `{}`, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var rec Record
			if err := json.Unmarshal([]byte(tc.in), &rec); err != nil {
				t.Fatalf("unmarshal %s: %v", tc.in, err)
			}
			if got := rec.Quantity.Value(); got != tc.want {
				t.Fatalf("Quantity.Value() = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestQuantity_RoundTrip(t *testing.T) {
	rec := Record{ID: 7, Quantity: QuantityOf(4)}
	data, err := json.Marshal(rec)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var back Record
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back.Quantity.Value() != 4 {
		t.Fatalf("round-trip quantity = %d, want 4", back.Quantity.Value())
	}
}

func TestValidateSubmission(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	valid := Record{
		RestaurantName:      "Pizza Place",
		FoodType:            "Prepared Meals",
		Quantity:            QuantityOf(5),
		QuantityType:        QuantityKg,
		ExpiryDate:          "2026-03-10",
		PickupTime:          "13:00",
		StorageInstructions: StorageRefrigerated,
		Location:            "Downtown Street",
		ContactPerson:       "John Doe",
		ContactNumber:       "5551234567",
	}

	if err := ValidateSubmission(valid, now); err != nil {
		t.Fatalf("valid record rejected: %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*Record)
		field  string
	}{
		{"zero quantity", func(r *Record) { r.Quantity = QuantityOf(0) }, "quantity"},
		{"negative quantity", func(r *Record) { r.Quantity = QuantityOf(-2) }, "quantity"},
		{"unknown unit", func(r *Record) { r.QuantityType = "barrels" }, "quantityType"},
		{"past expiry", func(r *Record) { r.ExpiryDate = "2026-03-09" }, "expiryDate"},
		{"malformed expiry", func(r *Record) { r.ExpiryDate = "soon" }, "expiryDate"},
		{"same-day pickup in the past", func(r *Record) { r.PickupTime = "08:00" }, "pickupTime"},
		{"short contact number", func(r *Record) { r.ContactNumber = "12345" }, "contactNumber"},
		{"non-digit contact number", func(r *Record) { r.ContactNumber = "555123456x" }, "contactNumber"},
		{"unknown storage", func(r *Record) { r.StorageInstructions = "Outside" }, "storageInstructions"},
		{"missing location", func(r *Record) { r.Location = " " }, "location"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := valid
			tc.mutate(&rec)
			err := ValidateSubmission(rec, now)
			if err == nil {
				t.Fatal("expected validation error, got nil")
			}
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("error = %T, want *ValidationError", err)
			}
			if verr.Field != tc.field {
				t.Fatalf("field = %q, want %q", verr.Field, tc.field)
			}
		})
	}
}

func TestValidateSubmission_OptionalFields(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	rec := Record{
		RestaurantName:      "Bakery",
		FoodType:            "Baked Goods",
		Quantity:            QuantityOf(3),
		QuantityType:        QuantityBoxes,
		ExpiryDate:          "2026-03-12",
		StorageInstructions: StorageDry,
		Location:            "Main St",
	}
	// Contact number and pickup time may be omitted entirely.
	if err := ValidateSubmission(rec, now); err != nil {
		t.Fatalf("record with optional fields omitted rejected: %v", err)
	}
}

func TestCurrentStatus_DefaultsToRequested(t *testing.T) {
	var rec Record
	if got := rec.CurrentStatus(); got != StatusRequested {
		t.Fatalf("CurrentStatus() = %q, want %q", got, StatusRequested)
	}
	rec.Status = StatusOnTheWay
	if got := rec.CurrentStatus(); got != StatusOnTheWay {
		t.Fatalf("CurrentStatus() = %q, want %q", got, StatusOnTheWay)
	}
}
