package service

import (
	"context"
	"errors"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/storefront/internal/cart"
	"github.com/mmynk/storefront/internal/catalog"
	"github.com/mmynk/storefront/internal/checkout"
	"github.com/mmynk/storefront/internal/middleware"
	"github.com/mmynk/storefront/internal/money"
	"github.com/mmynk/storefront/internal/storefront"
)

var errNoSession = errors.New("no session in context")

var (
	_ middleware.LogAttrer = (*AddItemResponse)(nil)
	_ middleware.LogAttrer = (*UpdateItemResponse)(nil)
	_ middleware.LogAttrer = (*ClearCartResponse)(nil)
	_ middleware.LogAttrer = (*CheckoutResponse)(nil)
)

// Info is the static storefront configuration exposed by GetConfig.
type Info struct {
	StoreName string
	Phone     string
	Locale    string
	Formatter *money.Formatter
}

// StorefrontService implements the storefront RPCs on top of the session manager.
type StorefrontService struct {
	sessions *storefront.Manager
	catalog  *catalog.Source
	info     Info
}

// NewStorefrontService creates the service.
func NewStorefrontService(sessions *storefront.Manager, source *catalog.Source, info Info) *StorefrontService {
	if info.Formatter == nil {
		info.Formatter = money.Default()
	}
	return &StorefrontService{sessions: sessions, catalog: source, info: info}
}

// withSession runs fn inside the caller's session.
func (s *StorefrontService) withSession(ctx context.Context, fn func(*storefront.Session) error) error {
	id := middleware.GetSessionID(ctx)
	if id == "" {
		return connect.NewError(connect.CodeUnauthenticated, errNoSession)
	}
	if err := s.sessions.Do(ctx, id, fn); err != nil {
		return toConnectError(err)
	}
	return nil
}

// toConnectError maps domain errors onto Connect codes.
func toConnectError(err error) error {
	var connectErr *connect.Error
	switch {
	case errors.As(err, &connectErr):
		return err
	case errors.Is(err, storefront.ErrUnknownProduct), errors.Is(err, storefront.ErrUnknownAction):
		return connect.NewError(connect.CodeInvalidArgument, err)
	default:
		slog.Error("Storefront request failed", "error", err)
		return connect.NewError(connect.CodeInternal, err)
	}
}

// GetCart renders the cart and returns it with the remembered customer name.
func (s *StorefrontService) GetCart(ctx context.Context, req *connect.Request[GetCartRequest]) (*connect.Response[GetCartResponse], error) {
	var st storefront.State
	err := s.withSession(ctx, func(sess *storefront.Session) error {
		var err error
		st, err = sess.State(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(&GetCartResponse{State: cartState(st)}), nil
}

// AddItem adds one unit of a catalog product.
func (s *StorefrontService) AddItem(ctx context.Context, req *connect.Request[AddItemRequest]) (*connect.Response[AddItemResponse], error) {
	if req.Msg.ProductID == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, storefront.ErrUnknownProduct)
	}

	var st storefront.State
	err := s.withSession(ctx, func(sess *storefront.Session) error {
		var err error
		st, err = sess.AddToCart(ctx, req.Msg.ProductID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(&AddItemResponse{State: cartState(st)}), nil
}

// UpdateItem runs a row control.
func (s *StorefrontService) UpdateItem(ctx context.Context, req *connect.Request[UpdateItemRequest]) (*connect.Response[UpdateItemResponse], error) {
	var st storefront.State
	err := s.withSession(ctx, func(sess *storefront.Session) error {
		var err error
		st, err = sess.CartAction(ctx, cart.Action(req.Msg.Action), req.Msg.ProductID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(&UpdateItemResponse{State: cartState(st)}), nil
}

// ClearCart empties the cart when confirmed, otherwise returns the prompt.
func (s *StorefrontService) ClearCart(ctx context.Context, req *connect.Request[ClearCartRequest]) (*connect.Response[ClearCartResponse], error) {
	var res storefront.ClearResult
	err := s.withSession(ctx, func(sess *storefront.Session) error {
		var err error
		res, err = sess.ClearCart(ctx, req.Msg.Confirmed)
		return err
	})
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(&ClearCartResponse{
		Prompt:  res.Prompt,
		Cleared: res.Cleared,
		State:   cartState(res.State),
	}), nil
}

// FilterCatalog applies a category and search text to the catalog.
func (s *StorefrontService) FilterCatalog(ctx context.Context, req *connect.Request[FilterCatalogRequest]) (*connect.Response[FilterCatalogResponse], error) {
	var fs storefront.FilterState
	err := s.withSession(ctx, func(sess *storefront.Session) error {
		fs = sess.FilterCatalog(req.Msg.Category, req.Msg.Query)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(&FilterCatalogResponse{
		Buttons:   fs.Buttons,
		Products:  fs.Result.Visible,
		HiddenIDs: fs.Result.Hidden,
		Empty:     fs.Result.Empty,
	}), nil
}

// ValidateName re-validates the name field as the shopper types.
func (s *StorefrontService) ValidateName(ctx context.Context, req *connect.Request[ValidateNameRequest]) (*connect.Response[ValidateNameResponse], error) {
	name, field := checkout.ValidateName(req.Msg.Name)
	// Typing is not a submit attempt.
	field.Focus = false
	return connect.NewResponse(&ValidateNameResponse{Name: name, Field: field}), nil
}

// Checkout validates the form and builds the order link.
func (s *StorefrontService) Checkout(ctx context.Context, req *connect.Request[CheckoutRequest]) (*connect.Response[CheckoutResponse], error) {
	var res checkout.Result
	err := s.withSession(ctx, func(sess *storefront.Session) error {
		var err error
		res, err = sess.Checkout(ctx, checkout.Request{
			Name:      req.Msg.Name,
			Mode:      req.Msg.Mode,
			Notes:     req.Msg.Notes,
			UserAgent: req.Header().Get("User-Agent"),
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(&CheckoutResponse{
		Outcome:   string(res.Outcome),
		NameField: res.NameField,
		Alert:     res.Alert,
		Message:   res.Message,
		URL:       res.URL,
	}), nil
}

// GetConfig returns the store settings and the current catalog.
func (s *StorefrontService) GetConfig(ctx context.Context, req *connect.Request[GetConfigRequest]) (*connect.Response[GetConfigResponse], error) {
	c := s.catalog.Catalog()
	return connect.NewResponse(&GetConfigResponse{
		StoreName:     s.info.StoreName,
		Phone:         s.info.Phone,
		Currency:      s.info.Formatter.Currency(),
		Locale:        s.info.Locale,
		SearchDelayMs: catalog.SearchDelay.Milliseconds(),
		Categories:    c.Categories,
		Products:      c.Products,
	}), nil
}
