package ui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mealbridge/mealbridge/internal/pickup"
)

// foodForm collects a new donation listing field by field. Parsing here
// is best-effort only; real validation happens when the record is
// submitted.
type foodForm struct {
	labels []string
	fields []textinput.Model
	focus  int
}

const (
	fieldRestaurant = iota
	fieldFoodType
	fieldQuantity
	fieldUnit
	fieldExpiry
	fieldPickupTime
	fieldStorage
	fieldLocation
	fieldContactPerson
	fieldContactNumber
	fieldCount
)

func newFoodForm() *foodForm {
	labels := []string{
		"Restaurant",
		"Food type",
		"Quantity",
		"Unit (kg/g/lbs/boxes/servings/liters/pieces)",
		"Expiry date (YYYY-MM-DD)",
		"Pickup time (HH:MM, optional)",
		"Storage (Refrigerated/Frozen/Room Temperature/Dry Storage/Consume Immediately)",
		"Location",
		"Contact person",
		"Contact number (10 digits, optional)",
	}

	fields := make([]textinput.Model, fieldCount)
	for i := range fields {
		in := textinput.New()
		in.CharLimit = 64
		in.Width = 40
		fields[i] = in
	}
	fields[fieldQuantity].CharLimit = 6
	fields[fieldContactNumber].CharLimit = 10
	fields[fieldRestaurant].Focus()

	return &foodForm{labels: labels, fields: fields}
}

// next moves focus forward and reports whether it wrapped past the last
// field, which submits the form.
func (f *foodForm) next() bool {
	f.fields[f.focus].Blur()
	f.focus++
	if f.focus >= len(f.fields) {
		f.focus = len(f.fields) - 1
		f.fields[f.focus].Focus()
		return true
	}
	f.fields[f.focus].Focus()
	return false
}

func (f *foodForm) prev() {
	f.fields[f.focus].Blur()
	f.focus--
	if f.focus < 0 {
		f.focus = 0
	}
	f.fields[f.focus].Focus()
}

func (f *foodForm) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	f.fields[f.focus], cmd = f.fields[f.focus].Update(msg)
	return cmd
}

// record assembles the drafted listing. A non-numeric quantity becomes
// zero and is rejected downstream with a field-specific message.
func (f *foodForm) record() pickup.Record {
	quantity := 0
	if n, err := strconv.Atoi(strings.TrimSpace(f.fields[fieldQuantity].Value())); err == nil {
		quantity = n
	}
	return pickup.Record{
		RestaurantName:      strings.TrimSpace(f.fields[fieldRestaurant].Value()),
		FoodType:            strings.TrimSpace(f.fields[fieldFoodType].Value()),
		Quantity:            pickup.QuantityOf(quantity),
		QuantityType:        pickup.QuantityType(strings.TrimSpace(f.fields[fieldUnit].Value())),
		ExpiryDate:          strings.TrimSpace(f.fields[fieldExpiry].Value()),
		PickupTime:          strings.TrimSpace(f.fields[fieldPickupTime].Value()),
		StorageInstructions: pickup.StorageInstruction(strings.TrimSpace(f.fields[fieldStorage].Value())),
		Location:            strings.TrimSpace(f.fields[fieldLocation].Value()),
		ContactPerson:       strings.TrimSpace(f.fields[fieldContactPerson].Value()),
		ContactNumber:       strings.TrimSpace(f.fields[fieldContactNumber].Value()),
	}
}
