// Package cart implements the shopper's cart: the id → line mapping, its
// mutations and derived totals, and its load/save lifecycle against a
// storage.Store.
package cart

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strconv"

	"github.com/mmynk/storefront/internal/models"
	"github.com/mmynk/storefront/internal/storage"
)

// Action is a per-row cart control.
type Action string

const (
	ActionIncrement Action = "inc"
	ActionDecrement Action = "dec"
	ActionDelete    Action = "del"
)

// Valid reports whether a is one of the known row actions.
func (a Action) Valid() bool {
	switch a {
	case ActionIncrement, ActionDecrement, ActionDelete:
		return true
	}
	return false
}

// Store owns one session's cart. It is not safe for concurrent use; callers
// serialize access per session.
//
// Every mutation leaves the store self-consistent (no zero-quantity lines)
// before returning. Mutations do not persist on their own: the caller
// follows each one with a render pass that calls Save.
type Store struct {
	kv        storage.Store
	sessionID string

	lines map[string]*models.CartLine
	// added records insertion order for non-index ids.
	added []string
}

// New returns an empty cart bound to the session. Call Load to rehydrate it.
func New(kv storage.Store, sessionID string) *Store {
	return &Store{
		kv:        kv,
		sessionID: sessionID,
		lines:     make(map[string]*models.CartLine),
	}
}

// SessionID returns the session the cart belongs to.
func (s *Store) SessionID() string {
	return s.sessionID
}

// Load replaces the in-memory cart with the persisted snapshot. A missing
// snapshot yields an empty cart. A malformed one is logged, deleted, and
// also yields an empty cart. Backend errors are returned and leave the
// persisted snapshot untouched.
func (s *Store) Load(ctx context.Context) error {
	raw, ok, err := s.kv.Get(ctx, s.sessionID, storage.CartKey)
	if err != nil {
		return fmt.Errorf("failed to load cart: %w", err)
	}
	s.reset()
	if !ok {
		return nil
	}

	lines, err := decodeSnapshot(raw)
	if err != nil {
		slog.WarnContext(ctx, "Discarding malformed cart snapshot", "session_id", s.sessionID, "error", err)
		if err := s.kv.Delete(ctx, s.sessionID, storage.CartKey); err != nil {
			slog.WarnContext(ctx, "Failed to delete malformed cart snapshot", "session_id", s.sessionID, "error", err)
		}
		return nil
	}
	for _, l := range lines {
		line := l
		s.insert(&line)
	}
	return nil
}

// Save writes the current cart snapshot.
func (s *Store) Save(ctx context.Context) error {
	raw, err := encodeSnapshot(s.Lines())
	if err != nil {
		return fmt.Errorf("failed to encode cart: %w", err)
	}
	if err := s.kv.Set(ctx, s.sessionID, storage.CartKey, raw); err != nil {
		return fmt.Errorf("failed to save cart: %w", err)
	}
	return nil
}

// Add puts one unit of the product in the cart. The first add creates the
// line with the given name and the coerced price; later adds only bump the
// quantity and keep the original name and price.
func (s *Store) Add(id, name, rawPrice string) models.CartLine {
	line, ok := s.lines[id]
	if !ok {
		line = &models.CartLine{ID: id, Name: name, UnitPrice: ParsePrice(rawPrice)}
		s.insert(line)
	}
	line.Quantity++
	return *line
}

// Increment adds one unit to an existing line. Unknown ids are a no-op.
func (s *Store) Increment(id string) bool {
	return s.Apply(ActionIncrement, id)
}

// Decrement removes one unit, deleting the line when it reaches zero.
// Unknown ids are a no-op.
func (s *Store) Decrement(id string) bool {
	return s.Apply(ActionDecrement, id)
}

// Remove deletes the line regardless of quantity. Unknown ids are a no-op.
func (s *Store) Remove(id string) bool {
	return s.Apply(ActionDelete, id)
}

// Apply runs a row action against the line. It reports whether a line was
// found; unknown ids and unknown actions change nothing.
func (s *Store) Apply(action Action, id string) bool {
	line, ok := s.lines[id]
	if !ok || !action.Valid() {
		return false
	}

	switch action {
	case ActionIncrement:
		line.Quantity++
	case ActionDecrement:
		line.Quantity = max(0, line.Quantity-1)
	}
	if action == ActionDelete || line.Quantity == 0 {
		s.delete(id)
	}
	return true
}

// Clear empties the cart. Callers confirm with the shopper first.
func (s *Store) Clear() {
	s.reset()
}

// Total is the sum of quantity × unit price over all lines.
func (s *Store) Total() float64 {
	var total float64
	for _, l := range s.lines {
		total += l.Subtotal()
	}
	return total
}

// Count is the sum of quantities over all lines.
func (s *Store) Count() int {
	var n int
	for _, l := range s.lines {
		n += l.Quantity
	}
	return n
}

// Len is the number of distinct lines.
func (s *Store) Len() int {
	return len(s.lines)
}

// IsEmpty reports whether the cart has no lines.
func (s *Store) IsEmpty() bool {
	return len(s.lines) == 0
}

// Line returns a copy of the line for id.
func (s *Store) Line(id string) (models.CartLine, bool) {
	l, ok := s.lines[id]
	if !ok {
		return models.CartLine{}, false
	}
	return *l, true
}

// Lines returns copies of all lines in display order: ids that look like
// array indices ("0", "7", "42") first in numeric order, then every other id
// in the order it was first added. This is the iteration order shoppers saw
// when the cart lived in browser storage, so existing carts keep their layout.
func (s *Store) Lines() []models.CartLine {
	var indexed []string
	for id := range s.lines {
		if _, ok := arrayIndex(id); ok {
			indexed = append(indexed, id)
		}
	}
	sort.Slice(indexed, func(i, j int) bool {
		a, _ := arrayIndex(indexed[i])
		b, _ := arrayIndex(indexed[j])
		return a < b
	})

	out := make([]models.CartLine, 0, len(s.lines))
	for _, id := range indexed {
		out = append(out, *s.lines[id])
	}
	for _, id := range s.added {
		out = append(out, *s.lines[id])
	}
	return out
}

func (s *Store) insert(line *models.CartLine) {
	if _, exists := s.lines[line.ID]; !exists {
		if _, ok := arrayIndex(line.ID); !ok {
			s.added = append(s.added, line.ID)
		}
	}
	s.lines[line.ID] = line
}

func (s *Store) delete(id string) {
	delete(s.lines, id)
	for i, a := range s.added {
		if a == id {
			s.added = append(s.added[:i], s.added[i+1:]...)
			break
		}
	}
}

func (s *Store) reset() {
	s.lines = make(map[string]*models.CartLine)
	s.added = nil
}

// arrayIndex reports whether id is a canonical non-negative integer below
// 2^32-1, the keys object property order puts first.
func arrayIndex(id string) (uint64, bool) {
	if id == "" || (len(id) > 1 && id[0] == '0') {
		return 0, false
	}
	n, err := strconv.ParseUint(id, 10, 32)
	if err != nil || n == 1<<32-1 {
		return 0, false
	}
	return n, true
}
