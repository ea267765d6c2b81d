package store

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/abgdnv/productcatalog/internal/product/errors"
)

// inMemory implements ProductStore using an in-memory slice.
// The slice keeps insertion order; every lookup plus mutation runs under the lock.
type inMemory struct {
	mu       sync.RWMutex
	products []Product
}

// NewInMemoryStore creates a new instance of ProductStore holding a copy of the given products.
func NewInMemoryStore(seed []Product) ProductStore {
	return &inMemory{
		products: slices.Clone(seed),
	}
}

// FindByID retrieves a product by its ID.
func (s *inMemory) FindByID(_ context.Context, id string) (*Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.indexOf(id)
	if i < 0 {
		return nil, errors.ErrProductNotFound
	}
	p := s.products[i]
	return &p, nil
}

// FindAll retrieves all products.
func (s *inMemory) FindAll(_ context.Context) ([]Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return slices.Clone(s.products), nil
}

// Create appends a product and returns it.
func (s *inMemory) Create(_ context.Context, product Product) (*Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.indexOf(product.ID) >= 0 {
		return nil, fmt.Errorf("failed to create product %s: %w", product.ID, errors.ErrDuplicateProductID)
	}
	s.products = append(s.products, product)
	return &product, nil
}

// Update applies the patch to the product with the given ID.
func (s *inMemory) Update(_ context.Context, id string, patch ProductPatch) (*Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return nil, errors.ErrProductNotFound
	}
	patch.Apply(&s.products[i])
	p := s.products[i]
	return &p, nil
}

// DeleteByID deletes a product by its ID.
func (s *inMemory) DeleteByID(_ context.Context, id string) (*Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return nil, errors.ErrProductNotFound
	}
	removed := s.products[i]
	s.products = slices.Delete(s.products, i, i+1)
	return &removed, nil
}

// indexOf returns the position of the product with the given ID or -1. Callers hold the lock.
func (s *inMemory) indexOf(id string) int {
	return slices.IndexFunc(s.products, func(p Product) bool {
		return p.ID == id
	})
}
