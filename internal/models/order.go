package models

import "strings"

// FulfillmentMode is how the order reaches the customer.
type FulfillmentMode string

const (
	FulfillmentPickup   FulfillmentMode = "pickup"
	FulfillmentDelivery FulfillmentMode = "delivery"
)

// ParseFulfillmentMode maps raw form input to a mode.
// Anything other than "delivery" (including the empty string) is pickup.
func ParseFulfillmentMode(raw string) FulfillmentMode {
	if strings.TrimSpace(raw) == string(FulfillmentDelivery) {
		return FulfillmentDelivery
	}
	return FulfillmentPickup
}

// OrderDraft is the order assembled at checkout time. It is derived from the
// cart and the checkout form and is never persisted.
type OrderDraft struct {
	Lines           []CartLine
	Total           float64
	FulfillmentMode FulfillmentMode
	Notes           string
	CustomerName    string
}
