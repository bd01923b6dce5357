// Package order turns a cart and the checkout form into the order message
// sent to the store, and into the messaging deep link that carries it.
package order

import (
	"fmt"
	"strings"

	"github.com/mmynk/storefront/internal/models"
	"github.com/mmynk/storefront/internal/money"
)

// Fixed message fragments.
const (
	modePickupLine   = "Modo: Recoger en sucursal"
	modeDeliveryLine = "Modo: Entrega a domicilio"
	closingLine      = "¿Me confirmas, por favor?"
)

// NewDraft assembles an OrderDraft from cart lines and raw form values.
// Notes and name are trimmed; the mode falls back to pickup.
func NewDraft(lines []models.CartLine, customerName, mode, notes string) models.OrderDraft {
	var total float64
	for _, l := range lines {
		total += l.Subtotal()
	}
	return models.OrderDraft{
		Lines:           lines,
		Total:           total,
		FulfillmentMode: models.ParseFulfillmentMode(mode),
		Notes:           strings.TrimSpace(notes),
		CustomerName:    strings.TrimSpace(customerName),
	}
}

// BuildMessage formats the order text. It returns "" when the draft has no
// lines, meaning there is nothing to send.
func BuildMessage(d models.OrderDraft, storeName string, f *money.Formatter) string {
	if len(d.Lines) == 0 {
		return ""
	}

	lines := []string{
		fmt.Sprintf("*%s*", storeName),
		fmt.Sprintf("Pedido nuevo de *%s*", d.CustomerName),
		"",
	}
	for _, l := range d.Lines {
		lines = append(lines, fmt.Sprintf("• %s × %d — %s", l.Name, l.Quantity, f.Format(l.Subtotal())))
	}

	lines = append(lines, "", fmt.Sprintf("*Total:* %s", f.Format(d.Total)))
	if d.Notes != "" {
		lines = append(lines, "Notas: "+d.Notes)
	}
	if d.FulfillmentMode == models.FulfillmentDelivery {
		lines = append(lines, modeDeliveryLine)
	} else {
		lines = append(lines, modePickupLine)
	}
	lines = append(lines, "", closingLine)

	return strings.Join(lines, "\n")
}
