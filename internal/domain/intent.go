package domain

import "strings"

// Fallback values used whenever extraction cannot produce a field.
const (
	DefaultBudget   = 1000
	DefaultQuantity = 1
	AnyLocation     = "any"
)

// MaxQuantity bounds the head count a request may ask for. Larger values
// are rejected so per-line and total costs stay within int range.
const MaxQuantity = 1000

// ShoppingIntent is the structured form of one free-text shopping request.
type ShoppingIntent struct {
	Items    []string `json:"items"`
	Budget   int      `json:"budget"`
	Location string   `json:"location"`
	Quantity int      `json:"quantity"`
}

// DefaultIntent returns the intent used when extraction fails.
func DefaultIntent() ShoppingIntent {
	return ShoppingIntent{
		Items:    []string{},
		Budget:   DefaultBudget,
		Location: AnyLocation,
		Quantity: DefaultQuantity,
	}
}

// WantsAnyLocation reports whether no aisle filter should be applied.
func (i ShoppingIntent) WantsAnyLocation() bool {
	loc := strings.TrimSpace(i.Location)
	return loc == "" || strings.EqualFold(loc, AnyLocation)
}
