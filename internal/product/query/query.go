// Package query evaluates list requests over a product collection:
// category filter, name search, then pagination.
package query

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/abgdnv/productcatalog/internal/product/store"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// Params holds the list parameters after parsing. Empty Category or Search means no filter.
type Params struct {
	Category string
	Search   string
	Page     int
	Limit    int
}

// Meta describes the page returned by Evaluate.
type Meta struct {
	Total int `json:"total"`
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

// ParseParams reads category, q, page and limit from the query string.
// Malformed page or limit values fall back to their defaults; it never fails.
func ParseParams(values url.Values) Params {
	limit := positiveInt(values.Get("limit"), DefaultLimit)
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return Params{
		Category: values.Get("category"),
		Search:   values.Get("q"),
		Page:     positiveInt(values.Get("page"), DefaultPage),
		Limit:    limit,
	}
}

// Evaluate filters by category, then searches names, then cuts the requested page.
// The input order is preserved and the input slice is not modified.
func Evaluate(products []store.Product, p Params) ([]store.Product, Meta) {
	if p.Page < 1 {
		p.Page = DefaultPage
	}
	if p.Limit < 1 {
		p.Limit = DefaultLimit
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}

	needle := strings.ToLower(p.Search)
	matched := make([]store.Product, 0, len(products))
	for _, product := range products {
		if p.Category != "" && product.Category != p.Category {
			continue
		}
		if needle != "" && !strings.Contains(strings.ToLower(product.Name), needle) {
			continue
		}
		matched = append(matched, product)
	}

	meta := Meta{Total: len(matched), Page: p.Page, Limit: p.Limit}

	// compare pages before multiplying so huge page numbers cannot overflow
	if p.Page-1 > len(matched)/p.Limit {
		return []store.Product{}, meta
	}
	start := (p.Page - 1) * p.Limit
	if start >= len(matched) {
		return []store.Product{}, meta
	}
	end := min(start+p.Limit, len(matched))
	return matched[start:end], meta
}

func positiveInt(raw string, fallback int) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 1 {
		return fallback
	}
	return n
}
