package catalog

import (
	"strings"

	"github.com/mmynk/storefront/internal/models"
)

// All is the filter token that matches every category.
const All = "all"

// Filter is the catalog view's current category and raw search text.
type Filter struct {
	Category string
	Query    string
}

// Result is the outcome of applying a Filter.
type Result struct {
	// Visible holds the matching products in catalog order.
	Visible []models.Product
	// Hidden holds the ids of products that did not match.
	Hidden []string
	// Empty is true when nothing matched; it drives the empty-results indicator.
	Empty bool
}

// matches reports whether a product is visible under the filter given an
// already-normalized query.
func (f Filter) matches(p models.Product, query string) bool {
	category := strings.TrimSpace(f.Category)
	if category != "" && category != All && !strings.EqualFold(p.Category, category) {
		return false
	}
	if query == "" {
		return true
	}
	return strings.Contains(Normalize(p.Name), query) ||
		strings.Contains(Normalize(p.Description), query)
}

// Apply computes which products are visible. It has no side effects, so
// applying the same filter twice yields the same result.
func (f Filter) Apply(products []models.Product) Result {
	query := Normalize(f.Query)
	res := Result{Visible: make([]models.Product, 0, len(products))}
	for _, p := range products {
		if f.matches(p, query) {
			res.Visible = append(res.Visible, p)
		} else {
			res.Hidden = append(res.Hidden, p.ID)
		}
	}
	res.Empty = len(res.Visible) == 0
	return res
}
