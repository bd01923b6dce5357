// Package render projects cart state into the view-model the storefront page
// displays, and binds the per-row controls of that view back to cart mutations.
package render

import (
	"strconv"

	"github.com/mmynk/storefront/internal/cart"
	"github.com/mmynk/storefront/internal/models"
	"github.com/mmynk/storefront/internal/money"
)

// EmptyCartMessage is the placeholder shown when the cart has no lines.
const EmptyCartMessage = "Tu carrito está vacío. Agrega algo rico 😋"

// Control is one button on a cart row.
type Control struct {
	Action cart.Action `json:"action"`
	ID     string      `json:"id"`
	Label  string      `json:"label"`
	Text   string      `json:"text"`
}

// Row is one rendered cart line.
type Row struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	UnitPrice string `json:"unitPrice"`
	Quantity  int    `json:"quantity"`
	// QuantityLive marks the quantity display as a polite live region.
	QuantityLive bool      `json:"quantityLive"`
	Subtotal     string    `json:"subtotal"`
	Controls     []Control `json:"controls"`
}

// CartView is the complete cart display.
type CartView struct {
	Empty       bool   `json:"empty"`
	Placeholder string `json:"placeholder,omitempty"`
	Rows        []Row  `json:"rows"`
	Total       string `json:"total"`
	Count       string `json:"count"`
}

// Project builds the view for the given lines. It is pure: the same lines
// and formatter always produce the same view.
func Project(lines []models.CartLine, f *money.Formatter) CartView {
	view := CartView{Rows: make([]Row, 0, len(lines))}

	var total float64
	var count int
	for _, l := range lines {
		total += l.Subtotal()
		count += l.Quantity
		view.Rows = append(view.Rows, Row{
			ID:           l.ID,
			Name:         l.Name,
			UnitPrice:    f.Format(l.UnitPrice) + " c/u",
			Quantity:     l.Quantity,
			QuantityLive: true,
			Subtotal:     f.Format(l.Subtotal()),
			Controls: []Control{
				{Action: cart.ActionDecrement, ID: l.ID, Label: "Quitar uno", Text: "–"},
				{Action: cart.ActionIncrement, ID: l.ID, Label: "Agregar uno", Text: "+"},
				{Action: cart.ActionDelete, ID: l.ID, Label: "Eliminar del carrito", Text: "✕"},
			},
		})
	}

	if len(lines) == 0 {
		view.Empty = true
		view.Placeholder = EmptyCartMessage
	}
	view.Total = f.Format(total)
	view.Count = strconv.Itoa(count)
	return view
}
