// Package store provides an interface for product storage operations.
package store

import "context"

// ProductStore is an interface for product storage operations.
// It abstracts the underlying data store, allowing for different implementations (e.g., in-memory, database).
// All implementations return products in insertion order.
type ProductStore interface {
	// FindByID retrieves a single product by its unique identifier.
	// Returns ErrProductNotFound if no product exists with the given ID.
	FindByID(ctx context.Context, id string) (*Product, error)

	// FindAll returns all available products in insertion order.
	// Returns an empty slice if no products exist.
	FindAll(ctx context.Context) ([]Product, error)

	// Create appends a new product. The caller assigns the ID.
	// Returns error if the product cannot be created.
	Create(ctx context.Context, product Product) (*Product, error)

	// Update applies the patch to an existing product as one atomic step.
	// Returns ErrProductNotFound if no product exists with the given ID.
	Update(ctx context.Context, id string, patch ProductPatch) (*Product, error)

	// DeleteByID removes a product by its ID and returns the removed product.
	// Returns ErrProductNotFound if no product exists with the given ID.
	DeleteByID(ctx context.Context, id string) (*Product, error)
}

// Product represents a product entity in the store.
type Product struct {
	ID          string
	Name        string
	Description string
	Price       float64
	Category    string
	InStock     bool
}

// ProductPatch holds the fields of a partial update. Nil fields are left untouched.
type ProductPatch struct {
	Name        *string
	Description *string
	Price       *float64
	Category    *string
	InStock     *bool
}

// Apply overwrites the fields of p that are set in the patch.
func (patch ProductPatch) Apply(p *Product) {
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.Description != nil {
		p.Description = *patch.Description
	}
	if patch.Price != nil {
		p.Price = *patch.Price
	}
	if patch.Category != nil {
		p.Category = *patch.Category
	}
	if patch.InStock != nil {
		p.InStock = *patch.InStock
	}
}

// SeedProducts returns the fixed set of products every store starts with.
func SeedProducts() []Product {
	return []Product{
		{
			ID:          "1",
			Name:        "Laptop Pro",
			Description: "High-performance laptop for professionals",
			Price:       1299.99,
			Category:    "electronics",
			InStock:     true,
		},
		{
			ID:          "2",
			Name:        "Wireless Mouse",
			Description: "Ergonomic wireless mouse",
			Price:       29.99,
			Category:    "electronics",
			InStock:     true,
		},
		{
			ID:          "3",
			Name:        "Coffee Maker",
			Description: "Programmable drip coffee maker",
			Price:       89.5,
			Category:    "kitchen",
			InStock:     false,
		},
	}
}
