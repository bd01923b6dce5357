package render

import (
	"context"
	"fmt"
	"strconv"
	"sync/atomic"

	"github.com/mmynk/storefront/internal/cart"
	"github.com/mmynk/storefront/internal/money"
)

// renderSeq numbers render passes process-wide so bindings from different
// passes never collide.
var renderSeq atomic.Uint64

// Bindings maps the controls of one render pass to cart mutations. A new
// render pass replaces the bindings; controls from an older pass no longer
// dispatch.
type Bindings struct {
	revision string
	store    *cart.Store
	controls map[string]cart.Action
}

func controlKey(action cart.Action, id string) string {
	return string(action) + "\x00" + id
}

// Revision identifies the render pass that produced the bindings.
func (b *Bindings) Revision() string {
	return b.revision
}

// Dispatch runs the mutation bound to a control. Controls that were not
// rendered in this pass are ignored and report false.
func (b *Bindings) Dispatch(action cart.Action, id string) bool {
	if b == nil {
		return false
	}
	if _, ok := b.controls[controlKey(action, id)]; !ok {
		return false
	}
	return b.store.Apply(action, id)
}

// Renderer rebuilds the cart view from scratch on every pass.
type Renderer struct {
	store     *cart.Store
	formatter *money.Formatter
	bindings  *Bindings
}

// NewRenderer returns a renderer for the store.
func NewRenderer(store *cart.Store, f *money.Formatter) *Renderer {
	return &Renderer{store: store, formatter: f}
}

// Render projects the store, persists it, and rebinds the row controls.
// The view is returned even when persisting fails.
func (r *Renderer) Render(ctx context.Context) (CartView, error) {
	view := Project(r.store.Lines(), r.formatter)

	b := &Bindings{
		revision: strconv.FormatUint(renderSeq.Add(1), 10),
		store:    r.store,
		controls: make(map[string]cart.Action, len(view.Rows)*3),
	}
	for _, row := range view.Rows {
		for _, c := range row.Controls {
			b.controls[controlKey(c.Action, c.ID)] = c.Action
		}
	}
	r.bindings = b

	if err := r.store.Save(ctx); err != nil {
		return view, fmt.Errorf("render: %w", err)
	}
	return view, nil
}

// Bindings returns the controls of the latest render pass, nil before the first.
func (r *Renderer) Bindings() *Bindings {
	return r.bindings
}
