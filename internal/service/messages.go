package service

import (
	"log/slog"

	"github.com/mmynk/storefront/internal/announce"
	"github.com/mmynk/storefront/internal/catalog"
	"github.com/mmynk/storefront/internal/checkout"
	"github.com/mmynk/storefront/internal/models"
	"github.com/mmynk/storefront/internal/render"
	"github.com/mmynk/storefront/internal/storefront"
)

// CartState is the cart panel after a request.
type CartState struct {
	Cart         render.CartView       `json:"cart"`
	Revision     string                `json:"revision"`
	Announcement announce.Announcement `json:"announcement"`
	CustomerName string                `json:"customerName,omitempty"`
}

func cartState(st storefront.State) *CartState {
	return &CartState{
		Cart:         st.Cart,
		Revision:     st.Revision,
		Announcement: st.Announcement,
		CustomerName: st.CustomerName,
	}
}

func (c *CartState) logAttrs() []slog.Attr {
	if c == nil {
		return nil
	}
	return []slog.Attr{slog.String("cart_count", c.Cart.Count)}
}

type GetCartRequest struct{}

type GetCartResponse struct {
	State *CartState `json:"state"`
}

type AddItemRequest struct {
	ProductID string `json:"productId"`
}

type AddItemResponse struct {
	State *CartState `json:"state"`
}

// UpdateItemRequest activates a row control: action is "inc", "dec" or "del".
type UpdateItemRequest struct {
	ProductID string `json:"productId"`
	Action    string `json:"action"`
}

type UpdateItemResponse struct {
	State *CartState `json:"state"`
}

func (r *AddItemResponse) LogAttrs() []slog.Attr    { return r.State.logAttrs() }
func (r *UpdateItemResponse) LogAttrs() []slog.Attr { return r.State.logAttrs() }

type ClearCartRequest struct {
	Confirmed bool `json:"confirmed"`
}

// ClearCartResponse carries a confirmation prompt when the shopper still has
// to confirm.
type ClearCartResponse struct {
	Prompt  string     `json:"prompt,omitempty"`
	Cleared bool       `json:"cleared"`
	State   *CartState `json:"state"`
}

func (r *ClearCartResponse) LogAttrs() []slog.Attr {
	return []slog.Attr{slog.Bool("cleared", r.Cleared), slog.Bool("prompted", r.Prompt != "")}
}

// FilterCatalogRequest leaves the active category unchanged when Category is empty.
type FilterCatalogRequest struct {
	Category string `json:"category"`
	Query    string `json:"query"`
}

type FilterCatalogResponse struct {
	Buttons   []catalog.Button `json:"buttons"`
	Products  []models.Product `json:"products"`
	HiddenIDs []string         `json:"hiddenIds"`
	Empty     bool             `json:"empty"`
}

type ValidateNameRequest struct {
	Name string `json:"name"`
}

type ValidateNameResponse struct {
	Name  string              `json:"name"`
	Field checkout.FieldState `json:"field"`
}

type CheckoutRequest struct {
	Name  string `json:"name"`
	Mode  string `json:"mode"`
	Notes string `json:"notes"`
}

// CheckoutResponse tells the page what to do. Outcome "sent" comes with the
// URL to open; "name_required" with the field state; "empty_cart" with an alert.
type CheckoutResponse struct {
	Outcome   string              `json:"outcome"`
	NameField checkout.FieldState `json:"nameField"`
	Alert     string              `json:"alert,omitempty"`
	Message   string              `json:"message,omitempty"`
	URL       string              `json:"url,omitempty"`
}

func (r *CheckoutResponse) LogAttrs() []slog.Attr {
	return []slog.Attr{slog.String("outcome", r.Outcome)}
}

type GetConfigRequest struct{}

type GetConfigResponse struct {
	StoreName     string             `json:"storeName"`
	Phone         string             `json:"phone"`
	Currency      string             `json:"currency"`
	Locale        string             `json:"locale"`
	SearchDelayMs int64              `json:"searchDelayMs"`
	Categories    []catalog.Category `json:"categories"`
	Products      []models.Product   `json:"products"`
}
