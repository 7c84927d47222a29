// Package pickup defines the donation record model and the pickup
// lifecycle state machine shared by every view.
package pickup

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

// QuantityType enumerates the units a donation can be measured in.
type QuantityType string

const (
	QuantityKg       QuantityType = "kg"
	QuantityG        QuantityType = "g"
	QuantityLbs      QuantityType = "lbs"
	QuantityBoxes    QuantityType = "boxes"
	QuantityServings QuantityType = "servings"
	QuantityLiters   QuantityType = "liters"
	QuantityPieces   QuantityType = "pieces"
)

// QuantityTypes lists the accepted units in display order.
var QuantityTypes = []QuantityType{
	QuantityKg, QuantityG, QuantityLbs, QuantityBoxes,
	QuantityServings, QuantityLiters, QuantityPieces,
}

// Valid reports whether the unit is one of the accepted values.
func (q QuantityType) Valid() bool {
	for _, known := range QuantityTypes {
		if q == known {
			return true
		}
	}
	return false
}

// StorageInstruction enumerates how donated food must be kept.
type StorageInstruction string

const (
	StorageRefrigerated StorageInstruction = "Refrigerated"
	StorageFrozen       StorageInstruction = "Frozen"
	StorageRoomTemp     StorageInstruction = "Room Temperature"
	StorageDry          StorageInstruction = "Dry Storage"
	StorageImmediate    StorageInstruction = "Consume Immediately"
)

// StorageInstructions lists the accepted storage values in display order.
var StorageInstructions = []StorageInstruction{
	StorageRefrigerated, StorageFrozen, StorageRoomTemp,
	StorageDry, StorageImmediate,
}

// Valid reports whether the instruction is one of the accepted values.
func (s StorageInstruction) Valid() bool {
	for _, known := range StorageInstructions {
		if s == known {
			return true
		}
	}
	return false
}

// Quantity accepts either a JSON number or a numeric string; backends have
// been observed sending both. Non-numeric values decode to zero rather
// than failing the whole record.
type Quantity struct {
	raw string
}

// QuantityOf builds a Quantity from a known integer value.
func QuantityOf(n int) Quantity {
	return Quantity{raw: strconv.Itoa(n)}
}

// Value returns the integer value, or 0 when the quantity is missing or
// not numeric.
func (q Quantity) Value() int {
	trimmed := strings.TrimSpace(q.raw)
	if trimmed == "" {
		return 0
	}
	if n, err := strconv.Atoi(trimmed); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(trimmed, 64); err == nil {
		return int(f)
	}
	return 0
}

// String returns the raw textual form.
func (q Quantity) String() string { return q.raw }

// UnmarshalJSON accepts numbers, strings, and null.
func (q *Quantity) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		q.raw = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("decode quantity: %w", err)
		}
		q.raw = s
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("decode quantity: %w", err)
	}
	q.raw = n.String()
	return nil
}

// MarshalJSON emits the numeric form when possible, otherwise a string.
func (q Quantity) MarshalJSON() ([]byte, error) {
	trimmed := strings.TrimSpace(q.raw)
	if trimmed == "" {
		return []byte("0"), nil
	}
	if _, err := strconv.ParseFloat(trimmed, 64); err == nil {
		return []byte(trimmed), nil
	}
	return json.Marshal(q.raw)
}

// Record is one unit of donated food offered for pickup. The server owns
// identity and status once the record exists server-side; clients never
// invent ids.
type Record struct {
	ID                  int64              `json:"id"`
	RestaurantName      string             `json:"restaurantName"`
	FoodType            string             `json:"foodType"`
	Quantity            Quantity           `json:"quantity"`
	QuantityType        QuantityType       `json:"quantityType"`
	ExpiryDate          string             `json:"expiryDate"`
	PickupTime          string             `json:"pickupTime"`
	StorageInstructions StorageInstruction `json:"storageInstructions"`
	Location            string             `json:"location"`
	ContactPerson       string             `json:"contactPerson"`
	ContactNumber       string             `json:"contactNumber,omitempty"`
	Notes               string             `json:"notes,omitempty"`
	Image               string             `json:"image,omitempty"`
	Status              Status             `json:"status"`
	OwnerID             string             `json:"userId,omitempty"`
	CompletedDate       string             `json:"completedDate,omitempty"`
}

// CurrentStatus returns the record's status with an absent value read as
// Requested, matching how the backend serves freshly claimed records.
func (r Record) CurrentStatus() Status {
	return Normalize(r.Status)
}

// ValidateSubmission checks a record the donor is about to submit.
// Rules apply at creation time only; existing records are not re-checked.
func ValidateSubmission(r Record, now time.Time) error {
	if strings.TrimSpace(r.RestaurantName) == "" {
		return &ValidationError{Field: "restaurantName", Reason: "restaurant name is required"}
	}
	if strings.TrimSpace(r.FoodType) == "" {
		return &ValidationError{Field: "foodType", Reason: "food type is required"}
	}
	if r.Quantity.Value() <= 0 {
		return &ValidationError{Field: "quantity", Reason: "quantity must be a positive number"}
	}
	if !r.QuantityType.Valid() {
		return &ValidationError{Field: "quantityType", Reason: fmt.Sprintf("unknown quantity type %q", r.QuantityType)}
	}
	if !r.StorageInstructions.Valid() {
		return &ValidationError{Field: "storageInstructions", Reason: fmt.Sprintf("unknown storage instruction %q", r.StorageInstructions)}
	}
	if strings.TrimSpace(r.Location) == "" {
		return &ValidationError{Field: "location", Reason: "location is required"}
	}

	expiry, err := time.Parse(dateLayout, r.ExpiryDate)
	if err != nil {
		return &ValidationError{Field: "expiryDate", Reason: "expiry date is required (YYYY-MM-DD)"}
	}
	today := now.Format(dateLayout)
	if r.ExpiryDate < today {
		return &ValidationError{Field: "expiryDate", Reason: "expiry date cannot be in the past"}
	}
	if strings.TrimSpace(r.PickupTime) != "" {
		pickupAt, err := time.Parse(timeLayout, r.PickupTime)
		if err != nil {
			return &ValidationError{Field: "pickupTime", Reason: "pickup time must be HH:MM"}
		}
		// Same-day pickups must not be scheduled before now.
		if expiry.Format(dateLayout) == today {
			nowClock := now.Format(timeLayout)
			if pickupAt.Format(timeLayout) < nowClock {
				return &ValidationError{Field: "pickupTime", Reason: "pickup time has already passed"}
			}
		}
	}

	if r.ContactNumber != "" && !isTenDigits(r.ContactNumber) {
		return &ValidationError{Field: "contactNumber", Reason: "contact number must be exactly 10 digits"}
	}
	return nil
}

func isTenDigits(s string) bool {
	if len(s) != 10 {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
