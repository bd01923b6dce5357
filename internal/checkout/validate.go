// Package checkout gates and runs the send-order step: the customer name
// must be present, the name is remembered, and the order message is handed
// off as a deep link.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mmynk/storefront/internal/storage"
)

var (
	ErrNameRequired = errors.New("customer name required")
	ErrEmptyCart    = errors.New("cart is empty")
)

// User-facing texts.
const (
	NameErrorMessage = "Escribe tu nombre para enviar el pedido."
	EmptyCartAlert   = "Tu carrito está vacío."
)

// FieldState is the visual state of the customer-name input.
type FieldState struct {
	Value        string `json:"value"`
	Invalid      bool   `json:"invalid"`
	ErrorVisible bool   `json:"errorVisible"`
	ErrorMessage string `json:"errorMessage,omitempty"`
	// Focus asks the page to move focus to the field.
	Focus bool `json:"focus"`
}

// ValidateName trims the raw input and reports the field state. An empty or
// whitespace-only name marks the field invalid, shows the inline error, and
// requests focus; a valid name clears all of that.
func ValidateName(raw string) (string, FieldState) {
	name := strings.TrimSpace(raw)
	if name == "" {
		return "", FieldState{
			Value:        raw,
			Invalid:      true,
			ErrorVisible: true,
			ErrorMessage: NameErrorMessage,
			Focus:        true,
		}
	}
	return name, FieldState{Value: raw}
}

// NameStore remembers the customer name per session.
type NameStore struct {
	kv storage.Store
}

// NewNameStore returns a NameStore over kv.
func NewNameStore(kv storage.Store) *NameStore {
	return &NameStore{kv: kv}
}

// Save stores the trimmed name.
func (n *NameStore) Save(ctx context.Context, sessionID, name string) error {
	if err := n.kv.Set(ctx, sessionID, storage.NameKey, strings.TrimSpace(name)); err != nil {
		return fmt.Errorf("failed to remember name: %w", err)
	}
	return nil
}

// Load returns the remembered name, or "" when none is stored or it cannot be read.
func (n *NameStore) Load(ctx context.Context, sessionID string) string {
	name, _, err := n.kv.Get(ctx, sessionID, storage.NameKey)
	if err != nil {
		slog.Warn("Failed to read remembered name", "session_id", sessionID, "error", err)
		return ""
	}
	return name
}
