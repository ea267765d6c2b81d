package query

import (
	"fmt"
	"net/url"
	"testing"

	"github.com/abgdnv/productcatalog/internal/product/store"
	"github.com/stretchr/testify/assert"
)

func Test_ParseParams(t *testing.T) {
	testCases := []struct {
		name     string
		rawQuery string
		expected Params
	}{
		{name: "defaults", rawQuery: "", expected: Params{Page: 1, Limit: 10}},
		{name: "explicit values", rawQuery: "page=3&limit=25&category=kitchen&q=pro", expected: Params{Category: "kitchen", Search: "pro", Page: 3, Limit: 25}},
		{name: "limit clamped to 100", rawQuery: "limit=150", expected: Params{Page: 1, Limit: 100}},
		{name: "limit exactly 100", rawQuery: "limit=100", expected: Params{Page: 1, Limit: 100}},
		{name: "unparsable values fall back", rawQuery: "page=abc&limit=1.5", expected: Params{Page: 1, Limit: 10}},
		{name: "zero and negative fall back", rawQuery: "page=0&limit=-4", expected: Params{Page: 1, Limit: 10}},
		{name: "empty filters are ignored", rawQuery: "category=&q=", expected: Params{Page: 1, Limit: 10}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			values, err := url.ParseQuery(tc.rawQuery)
			assert.NoError(t, err)

			assert.Equal(t, tc.expected, ParseParams(values))
		})
	}
}

func Test_Evaluate_FilterAndSearch(t *testing.T) {
	products := []store.Product{
		{ID: "1", Name: "Laptop Pro", Category: "electronics"},
		{ID: "2", Name: "Wireless Mouse", Category: "electronics"},
		{ID: "3", Name: "Coffee Maker", Category: "kitchen"},
		{ID: "4", Name: "laptop stand", Category: "Electronics"},
	}

	testCases := []struct {
		name          string
		params        Params
		expectedIDs   []string
		expectedTotal int
	}{
		{name: "no filters", params: Params{Page: 1, Limit: 10}, expectedIDs: []string{"1", "2", "3", "4"}, expectedTotal: 4},
		{name: "category is case-sensitive", params: Params{Category: "electronics", Page: 1, Limit: 10}, expectedIDs: []string{"1", "2"}, expectedTotal: 2},
		{name: "search is case-insensitive", params: Params{Search: "LAPTOP", Page: 1, Limit: 10}, expectedIDs: []string{"1", "4"}, expectedTotal: 2},
		{name: "search matches substrings", params: Params{Search: "mak", Page: 1, Limit: 10}, expectedIDs: []string{"3"}, expectedTotal: 1},
		{name: "filter then search", params: Params{Category: "electronics", Search: "laptop", Page: 1, Limit: 10}, expectedIDs: []string{"1"}, expectedTotal: 1},
		{name: "no match", params: Params{Category: "garden", Page: 1, Limit: 10}, expectedIDs: []string{}, expectedTotal: 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// when
			page, meta := Evaluate(products, tc.params)
			// then
			ids := make([]string, 0, len(page))
			for _, p := range page {
				ids = append(ids, p.ID)
			}
			assert.Equal(t, tc.expectedIDs, ids)
			assert.Equal(t, tc.expectedTotal, meta.Total)
		})
	}
}

func Test_Evaluate_Pagination(t *testing.T) {
	products := make([]store.Product, 25)
	for i := range products {
		products[i] = store.Product{ID: fmt.Sprintf("%d", i+1), Name: "Item", Category: "misc"}
	}

	testCases := []struct {
		name          string
		params        Params
		expectedFirst string
		expectedLen   int
		expectedMeta  Meta
	}{
		{name: "first page", params: Params{Page: 1, Limit: 10}, expectedFirst: "1", expectedLen: 10, expectedMeta: Meta{Total: 25, Page: 1, Limit: 10}},
		{name: "partial last page", params: Params{Page: 3, Limit: 10}, expectedFirst: "21", expectedLen: 5, expectedMeta: Meta{Total: 25, Page: 3, Limit: 10}},
		{name: "beyond last page", params: Params{Page: 4, Limit: 10}, expectedLen: 0, expectedMeta: Meta{Total: 25, Page: 4, Limit: 10}},
		{name: "huge page", params: Params{Page: 1 << 62, Limit: 100}, expectedLen: 0, expectedMeta: Meta{Total: 25, Page: 1 << 62, Limit: 100}},
		{name: "limit above max is clamped", params: Params{Page: 1, Limit: 150}, expectedFirst: "1", expectedLen: 25, expectedMeta: Meta{Total: 25, Page: 1, Limit: 100}},
		{name: "invalid values use defaults", params: Params{Page: 0, Limit: 0}, expectedFirst: "1", expectedLen: 10, expectedMeta: Meta{Total: 25, Page: 1, Limit: 10}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			page, meta := Evaluate(products, tc.params)

			assert.NotNil(t, page)
			assert.Len(t, page, tc.expectedLen)
			if tc.expectedLen > 0 {
				assert.Equal(t, tc.expectedFirst, page[0].ID)
			}
			assert.Equal(t, tc.expectedMeta, meta)
		})
	}
}
