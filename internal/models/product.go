package models

// Product is a menu item shown on the catalog grid.
type Product struct {
	// ID is the stable identifier used as the cart key.
	ID string `yaml:"id" json:"id"`

	// Name is the card title and the name copied into cart lines.
	Name string `yaml:"name" json:"name"`

	// Description is the card body text; it is searchable.
	Description string `yaml:"description" json:"description"`

	// Price is the raw price as the catalog provides it. It is coerced to a
	// number only when the product is added to a cart.
	Price string `yaml:"price" json:"price"`

	// Category is the filter tag (e.g. "tacos", "bebidas").
	Category string `yaml:"category" json:"category"`

	// Image is an optional image URL for the card.
	Image string `yaml:"image,omitempty" json:"image,omitempty"`
}
