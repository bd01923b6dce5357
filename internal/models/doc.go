// Package models defines the core domain models for the storefront.
//
// # Models
//
//   - CartLine: one product's aggregated quantity and price in a shopper's cart
//   - Product: a menu item shown on the catalog grid
//   - OrderDraft: the derived, never-persisted order assembled at checkout
//   - FulfillmentMode: pickup or delivery
//
// Shoppers are anonymous. Everything a shopper owns (cart, remembered name)
// is keyed by an opaque session ID rather than by user account.
//
// # Design Principles
//
// 1. **Plain values**: models carry no behavior beyond small derived helpers
// 2. **Avoid circular references**: use ID strings instead of pointers for relationships
// 3. **Derived data is computed, not stored**: totals and drafts are rebuilt on demand
package models
