// Package storefront is the per-shopper controller. It turns page events into
// cart mutations, follows every mutation with a full render pass, and runs
// the catalog filter and checkout for one session at a time.
package storefront

import (
	"context"
	"errors"
	"fmt"

	"github.com/mmynk/storefront/internal/announce"
	"github.com/mmynk/storefront/internal/cart"
	"github.com/mmynk/storefront/internal/catalog"
	"github.com/mmynk/storefront/internal/checkout"
	"github.com/mmynk/storefront/internal/render"
)

var (
	ErrUnknownProduct = errors.New("unknown product")
	ErrUnknownAction  = errors.New("unknown cart action")
)

// ClearPrompt is the confirmation asked before emptying the cart.
const ClearPrompt = "¿Vaciar carrito?"

// State is everything the page needs to redraw after an event.
type State struct {
	Cart         render.CartView
	Revision     string
	Announcement announce.Announcement
	CustomerName string
}

// FilterState is the catalog grid after a filter change.
type FilterState struct {
	Buttons []catalog.Button
	Result  catalog.Result
}

// ClearResult reports a clear attempt. Prompt is set when the shopper still
// has to confirm; Cleared when the cart was emptied.
type ClearResult struct {
	Prompt  string
	Cleared bool
	State   State
}

// Session is one shopper's controller. It is not safe for concurrent use;
// Manager serializes access.
type Session struct {
	id       string
	env      *Env
	cart     *cart.Store
	renderer *render.Renderer
	region   announce.Region
	bar      *catalog.FilterBar
	query    string
}

func newSession(ctx context.Context, id string, env *Env) (*Session, error) {
	store := cart.New(env.Storage, id)
	if err := store.Load(ctx); err != nil {
		return nil, err
	}
	return &Session{
		id:       id,
		env:      env,
		cart:     store,
		renderer: render.NewRenderer(store, env.Formatter),
		bar:      catalog.NewFilterBar(env.Catalog.Catalog().Categories),
	}, nil
}

// ID returns the session id.
func (s *Session) ID() string {
	return s.id
}

// State renders the cart and returns it with the remembered customer name.
func (s *Session) State(ctx context.Context) (State, error) {
	st, err := s.render(ctx)
	st.CustomerName = s.env.names.Load(ctx, s.id)
	return st, err
}

// AddToCart adds one unit of a catalog product and announces it.
func (s *Session) AddToCart(ctx context.Context, productID string) (State, error) {
	p, ok := s.env.Catalog.Catalog().Product(productID)
	if !ok {
		return State{}, fmt.Errorf("%w: %q", ErrUnknownProduct, productID)
	}
	s.cart.Add(p.ID, p.Name, p.Price)
	s.region.Announce(announce.Added(p.Name))
	s.env.Metrics.CartMutation("add")
	return s.render(ctx)
}

// CartAction runs a row control from the last rendered view. Controls that
// are not part of that view change nothing.
func (s *Session) CartAction(ctx context.Context, action cart.Action, id string) (State, error) {
	if !action.Valid() {
		return State{}, fmt.Errorf("%w: %q", ErrUnknownAction, action)
	}
	if s.renderer.Bindings() == nil {
		if _, err := s.render(ctx); err != nil {
			return State{}, err
		}
	}
	if s.renderer.Bindings().Dispatch(action, id) {
		s.env.Metrics.CartMutation(string(action))
	}
	return s.render(ctx)
}

// ClearCart empties the cart once the shopper confirmed. An empty cart needs
// no confirmation and is left alone.
func (s *Session) ClearCart(ctx context.Context, confirmed bool) (ClearResult, error) {
	if s.cart.IsEmpty() {
		st, err := s.render(ctx)
		return ClearResult{State: st}, err
	}
	if !confirmed {
		st, err := s.render(ctx)
		return ClearResult{Prompt: ClearPrompt, State: st}, err
	}
	s.cart.Clear()
	s.env.Metrics.CartMutation("clear")
	st, err := s.render(ctx)
	return ClearResult{Cleared: true, State: st}, err
}

// FilterCatalog activates a category and applies the search text. An empty
// category keeps the active button.
func (s *Session) FilterCatalog(category, query string) FilterState {
	if category != "" {
		s.bar.Activate(category)
	}
	s.query = query
	f := catalog.Filter{Category: s.bar.Active(), Query: s.query}
	return FilterState{
		Buttons: s.bar.Buttons(),
		Result:  f.Apply(s.env.Catalog.Products()),
	}
}

// Checkout runs the send-order flow against the current cart.
func (s *Session) Checkout(ctx context.Context, req checkout.Request) (checkout.Result, error) {
	req.SessionID = s.id
	res, err := s.env.flow.Run(ctx, s.cart.Lines(), req)
	if err != nil {
		return res, err
	}
	s.env.Metrics.Checkout(string(res.Outcome))
	return res, nil
}

func (s *Session) render(ctx context.Context) (State, error) {
	view, err := s.renderer.Render(ctx)
	st := State{
		Cart:         view,
		Revision:     s.renderer.Bindings().Revision(),
		Announcement: s.region.Last(),
	}
	if err != nil {
		return st, fmt.Errorf("failed to render cart: %w", err)
	}
	return st, nil
}
