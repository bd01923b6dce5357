package models

// CartLine is one product's aggregated quantity and price within a cart.
// A line with Quantity 0 never exists in a cart; it is removed instead.
type CartLine struct {
	// ID is the product identifier the line was created from.
	ID string

	// Name is the display name captured when the line was first added.
	Name string

	// UnitPrice is the price captured when the line was first added.
	// Malformed prices are kept as NaN rather than rejected.
	UnitPrice float64

	// Quantity is the number of units of the product in the cart.
	Quantity int
}

// Subtotal returns Quantity × UnitPrice.
func (l CartLine) Subtotal() float64 {
	return float64(l.Quantity) * l.UnitPrice
}
