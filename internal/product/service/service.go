// Package service provides the implementation of product-related business logic.
package service

import (
	"context"
	"fmt"

	"github.com/abgdnv/productcatalog/internal/product/query"
	"github.com/abgdnv/productcatalog/internal/product/store"
	"github.com/google/uuid"
)

// ProductService defines the methods for managing products.
// It abstracts the underlying business logic and data access.
type ProductService interface {
	// FindByID retrieves a single product by its unique identifier.
	// Returns ErrProductNotFound if no product exists with the given ID.
	FindByID(ctx context.Context, id string) (*ProductDto, error)

	// List filters, searches and paginates the collection. Bad parameters never fail.
	List(ctx context.Context, params query.Params) (*ProductListDto, error)

	// Stats counts all products and the products in each category.
	Stats(ctx context.Context) (*StatsDto, error)

	// Create adds a new product with a generated ID.
	// Returns error if the product cannot be created.
	Create(ctx context.Context, product ProductCreateDto) (*ProductDto, error)

	// Update applies a partial patch to an existing product.
	// Returns ErrProductNotFound if no product exists with the given ID.
	Update(ctx context.Context, id string, patch ProductPatchDto) (*ProductDto, error)

	// DeleteByID removes a product by its ID and returns the removed product.
	// Returns ErrProductNotFound if no product exists with the given ID.
	DeleteByID(ctx context.Context, id string) (*ProductDto, error)
}

// Service implements ProductService and provides methods to manage products.
type Service struct {
	repository store.ProductStore
	newID      func() string
}

// NewService creates a new instance of ProductService with the provided repository.
func NewService(repo store.ProductStore) *Service {
	return &Service{
		repository: repo,
		newID:      uuid.NewString,
	}
}

// ProductDto represents the data transfer object for a product.
type ProductDto struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
	InStock     bool    `json:"inStock"`
}

// ProductCreateDto carries the fields of a validated create request.
type ProductCreateDto struct {
	Name        string
	Description string
	Price       float64
	Category    string
	InStock     bool
}

// ProductPatchDto carries the fields present in a validated update request.
type ProductPatchDto struct {
	Name        *string
	Description *string
	Price       *float64
	Category    *string
	InStock     *bool
}

// ProductListDto is one page of products with its pagination metadata.
type ProductListDto struct {
	Meta query.Meta   `json:"meta"`
	Data []ProductDto `json:"data"`
}

// StatsDto holds aggregate counts over the whole collection.
type StatsDto struct {
	Total      int            `json:"total"`
	ByCategory map[string]int `json:"byCategory"`
}

// DeletedDto wraps a removed product.
type DeletedDto struct {
	Deleted ProductDto `json:"deleted"`
}

// FindByID retrieves a product by its ID and returns it as a ProductDto.
// Returns ErrProductNotFound if no product exists with the given ID.
func (s *Service) FindByID(ctx context.Context, id string) (*ProductDto, error) {
	product, err := s.repository.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch product by ID %s: %w", id, err)
	}

	return toDto(product), nil
}

// List runs the query evaluator over the current collection.
func (s *Service) List(ctx context.Context, params query.Params) (*ProductListDto, error) {
	products, err := s.repository.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch products: %w", err)
	}

	page, meta := query.Evaluate(products, params)
	productDTOs := make([]ProductDto, len(page))
	for i, item := range page {
		productDTOs[i] = *toDto(&item)
	}

	return &ProductListDto{Meta: meta, Data: productDTOs}, nil
}

// Stats counts the products overall and per category.
func (s *Service) Stats(ctx context.Context) (*StatsDto, error) {
	products, err := s.repository.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch products: %w", err)
	}

	byCategory := make(map[string]int)
	for _, p := range products {
		byCategory[p.Category]++
	}

	return &StatsDto{Total: len(products), ByCategory: byCategory}, nil
}

// Create creates a new product and returns it as a ProductDto.
// Returns an error if the product cannot be created.
func (s *Service) Create(ctx context.Context, product ProductCreateDto) (*ProductDto, error) {
	p, err := s.repository.Create(ctx, store.Product{
		ID:          s.newID(),
		Name:        product.Name,
		Description: product.Description,
		Price:       product.Price,
		Category:    product.Category,
		InStock:     product.InStock,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	return toDto(p), nil
}

// Update modifies the fields present in the patch and returns the updated product.
// Returns ErrProductNotFound if no product exists with the given ID.
func (s *Service) Update(ctx context.Context, id string, patch ProductPatchDto) (*ProductDto, error) {
	updated, err := s.repository.Update(ctx, id, store.ProductPatch{
		Name:        patch.Name,
		Description: patch.Description,
		Price:       patch.Price,
		Category:    patch.Category,
		InStock:     patch.InStock,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update product with ID %s: %w", id, err)
	}

	return toDto(updated), nil
}

// DeleteByID deletes a product by its ID.
// Returns ErrProductNotFound if no product exists with the given ID.
func (s *Service) DeleteByID(ctx context.Context, id string) (*ProductDto, error) {
	deleted, err := s.repository.DeleteByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to delete product with ID %s: %w", id, err)
	}

	return toDto(deleted), nil
}

// toDto converts a store.Product to a ProductDto.
func toDto(product *store.Product) *ProductDto {
	return &ProductDto{
		ID:          product.ID,
		Name:        product.Name,
		Description: product.Description,
		Price:       product.Price,
		Category:    product.Category,
		InStock:     product.InStock,
	}
}
