// Package catalog holds the storefront's menu and the logic that decides which
// products the catalog grid shows: category filter, accent-insensitive search,
// and the debounce that paces search while the shopper types.
package catalog

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
	"sync/atomic"

	"gopkg.in/yaml.v3"

	"github.com/mmynk/storefront/internal/models"
)

//go:embed default_catalog.yaml
var defaultCatalog []byte

// Category is a filter button definition.
type Category struct {
	Token string `yaml:"token" json:"token"`
	Label string `yaml:"label" json:"label"`
}

// Catalog is the full menu.
type Catalog struct {
	Categories []Category       `yaml:"categories"`
	Products   []models.Product `yaml:"products"`
}

// Parse decodes a YAML catalog and checks that product ids are present and unique.
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}

	seen := make(map[string]bool, len(c.Products))
	for i, p := range c.Products {
		id := strings.TrimSpace(p.ID)
		if id == "" {
			return nil, fmt.Errorf("product %d (%q) has no id", i, p.Name)
		}
		if seen[id] {
			return nil, fmt.Errorf("duplicate product id %q", id)
		}
		seen[id] = true
		c.Products[i].ID = id
	}
	return &c, nil
}

// LoadFile reads and parses a catalog file.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}
	return Parse(data)
}

// Default returns the built-in menu.
func Default() *Catalog {
	c, err := Parse(defaultCatalog)
	if err != nil {
		panic(err)
	}
	return c
}

// Product looks up a product by id.
func (c *Catalog) Product(id string) (models.Product, bool) {
	for _, p := range c.Products {
		if p.ID == id {
			return p, true
		}
	}
	return models.Product{}, false
}

// Source holds the current catalog and lets a Watcher swap it atomically.
type Source struct {
	current atomic.Pointer[Catalog]
}

// NewSource returns a Source serving c.
func NewSource(c *Catalog) *Source {
	s := &Source{}
	s.current.Store(c)
	return s
}

// Catalog returns the current catalog.
func (s *Source) Catalog() *Catalog {
	return s.current.Load()
}

// Products returns the current product list.
func (s *Source) Products() []models.Product {
	return s.current.Load().Products
}

// Replace swaps in a new catalog.
func (s *Source) Replace(c *Catalog) {
	s.current.Store(c)
}
