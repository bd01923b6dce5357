package service

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"
)

// StorefrontServiceName is the fully-qualified name of the service.
const StorefrontServiceName = "storefront.v1.StorefrontService"

// Procedure paths.
const (
	GetCartProcedure       = "/" + StorefrontServiceName + "/GetCart"
	AddItemProcedure       = "/" + StorefrontServiceName + "/AddItem"
	UpdateItemProcedure    = "/" + StorefrontServiceName + "/UpdateItem"
	ClearCartProcedure     = "/" + StorefrontServiceName + "/ClearCart"
	FilterCatalogProcedure = "/" + StorefrontServiceName + "/FilterCatalog"
	ValidateNameProcedure  = "/" + StorefrontServiceName + "/ValidateName"
	CheckoutProcedure      = "/" + StorefrontServiceName + "/Checkout"
	GetConfigProcedure     = "/" + StorefrontServiceName + "/GetConfig"
)

// IsProcedure reports whether an HTTP path belongs to the RPC API.
func IsProcedure(path string) bool {
	return strings.HasPrefix(path, "/"+StorefrontServiceName+"/")
}

// NewStorefrontServiceHandler builds an HTTP handler serving every procedure
// of svc. It returns the path to mount it on.
func NewStorefrontServiceHandler(svc *StorefrontService, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{connect.WithCodec(jsonCodec{})}, opts...)

	mux := http.NewServeMux()
	mux.Handle(GetCartProcedure, connect.NewUnaryHandler(GetCartProcedure, svc.GetCart, opts...))
	mux.Handle(AddItemProcedure, connect.NewUnaryHandler(AddItemProcedure, svc.AddItem, opts...))
	mux.Handle(UpdateItemProcedure, connect.NewUnaryHandler(UpdateItemProcedure, svc.UpdateItem, opts...))
	mux.Handle(ClearCartProcedure, connect.NewUnaryHandler(ClearCartProcedure, svc.ClearCart, opts...))
	mux.Handle(FilterCatalogProcedure, connect.NewUnaryHandler(FilterCatalogProcedure, svc.FilterCatalog, opts...))
	mux.Handle(ValidateNameProcedure, connect.NewUnaryHandler(ValidateNameProcedure, svc.ValidateName, opts...))
	mux.Handle(CheckoutProcedure, connect.NewUnaryHandler(CheckoutProcedure, svc.Checkout, opts...))
	mux.Handle(GetConfigProcedure, connect.NewUnaryHandler(GetConfigProcedure, svc.GetConfig, opts...))
	return "/" + StorefrontServiceName + "/", mux
}

// StorefrontServiceClient calls the service over Connect with the JSON codec.
type StorefrontServiceClient struct {
	getCart       *connect.Client[GetCartRequest, GetCartResponse]
	addItem       *connect.Client[AddItemRequest, AddItemResponse]
	updateItem    *connect.Client[UpdateItemRequest, UpdateItemResponse]
	clearCart     *connect.Client[ClearCartRequest, ClearCartResponse]
	filterCatalog *connect.Client[FilterCatalogRequest, FilterCatalogResponse]
	validateName  *connect.Client[ValidateNameRequest, ValidateNameResponse]
	checkout      *connect.Client[CheckoutRequest, CheckoutResponse]
	getConfig     *connect.Client[GetConfigRequest, GetConfigResponse]
}

// NewStorefrontServiceClient returns a client for the service at baseURL.
func NewStorefrontServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *StorefrontServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{connect.WithCodec(jsonCodec{})}, opts...)
	return &StorefrontServiceClient{
		getCart:       connect.NewClient[GetCartRequest, GetCartResponse](httpClient, baseURL+GetCartProcedure, opts...),
		addItem:       connect.NewClient[AddItemRequest, AddItemResponse](httpClient, baseURL+AddItemProcedure, opts...),
		updateItem:    connect.NewClient[UpdateItemRequest, UpdateItemResponse](httpClient, baseURL+UpdateItemProcedure, opts...),
		clearCart:     connect.NewClient[ClearCartRequest, ClearCartResponse](httpClient, baseURL+ClearCartProcedure, opts...),
		filterCatalog: connect.NewClient[FilterCatalogRequest, FilterCatalogResponse](httpClient, baseURL+FilterCatalogProcedure, opts...),
		validateName:  connect.NewClient[ValidateNameRequest, ValidateNameResponse](httpClient, baseURL+ValidateNameProcedure, opts...),
		checkout:      connect.NewClient[CheckoutRequest, CheckoutResponse](httpClient, baseURL+CheckoutProcedure, opts...),
		getConfig:     connect.NewClient[GetConfigRequest, GetConfigResponse](httpClient, baseURL+GetConfigProcedure, opts...),
	}
}

func (c *StorefrontServiceClient) GetCart(ctx context.Context, req *connect.Request[GetCartRequest]) (*connect.Response[GetCartResponse], error) {
	return c.getCart.CallUnary(ctx, req)
}

func (c *StorefrontServiceClient) AddItem(ctx context.Context, req *connect.Request[AddItemRequest]) (*connect.Response[AddItemResponse], error) {
	return c.addItem.CallUnary(ctx, req)
}

func (c *StorefrontServiceClient) UpdateItem(ctx context.Context, req *connect.Request[UpdateItemRequest]) (*connect.Response[UpdateItemResponse], error) {
	return c.updateItem.CallUnary(ctx, req)
}

func (c *StorefrontServiceClient) ClearCart(ctx context.Context, req *connect.Request[ClearCartRequest]) (*connect.Response[ClearCartResponse], error) {
	return c.clearCart.CallUnary(ctx, req)
}

func (c *StorefrontServiceClient) FilterCatalog(ctx context.Context, req *connect.Request[FilterCatalogRequest]) (*connect.Response[FilterCatalogResponse], error) {
	return c.filterCatalog.CallUnary(ctx, req)
}

func (c *StorefrontServiceClient) ValidateName(ctx context.Context, req *connect.Request[ValidateNameRequest]) (*connect.Response[ValidateNameResponse], error) {
	return c.validateName.CallUnary(ctx, req)
}

func (c *StorefrontServiceClient) Checkout(ctx context.Context, req *connect.Request[CheckoutRequest]) (*connect.Response[CheckoutResponse], error) {
	return c.checkout.CallUnary(ctx, req)
}

func (c *StorefrontServiceClient) GetConfig(ctx context.Context, req *connect.Request[GetConfigRequest]) (*connect.Response[GetConfigResponse], error) {
	return c.getConfig.CallUnary(ctx, req)
}
