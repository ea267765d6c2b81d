package validation

import (
	"strings"
	"testing"

	perrors "github.com/abgdnv/productcatalog/internal/product/errors"
	"github.com/abgdnv/productcatalog/internal/product/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustDecode(t *testing.T, body string) Payload {
	t.Helper()
	p, err := Decode(strings.NewReader(body))
	require.NoError(t, err)
	return p
}

func Test_Decode(t *testing.T) {
	testCases := []struct {
		name        string
		body        string
		expectError bool
	}{
		{name: "object", body: `{"name":"x"}`},
		{name: "empty body", body: ``},
		{name: "malformed", body: `{"name":`, expectError: true},
		{name: "array", body: `[1,2]`, expectError: true},
		{name: "null", body: `null`, expectError: true},
		{name: "string", body: `"hello"`, expectError: true},
		{name: "trailing whitespace", body: "{\"name\":\"x\"}\n  \t"},
		{name: "trailing garbage", body: `{"name":"x"} garbage`, expectError: true},
		{name: "two objects", body: `{"name":"x"}{"name":"y"}`, expectError: true},
		{name: "object then null", body: `{"name":"x"} null`, expectError: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			p, err := Decode(strings.NewReader(tc.body))
			if tc.expectError {
				var appErr *perrors.AppError
				require.ErrorAs(t, err, &appErr)
				assert.Equal(t, perrors.KindValidation, appErr.Kind)
				assert.Equal(t, "Invalid JSON body", appErr.Message)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, p)
		})
	}
}

func Test_Validator_Create(t *testing.T) {
	testCases := []struct {
		name            string
		body            string
		expected        service.ProductCreateDto
		expectedMessage string
	}{
		{
			name:     "Success - all fields",
			body:     `{"name":"Kettle","description":"","price":-2.5,"category":"kitchen","inStock":false,"id":"ignored"}`,
			expected: service.ProductCreateDto{Name: "Kettle", Description: "", Price: -2.5, Category: "kitchen", InStock: false},
		},
		{
			name:            "Error - empty body reports name first",
			body:            ``,
			expectedMessage: "name is required and must be a non-empty string",
		},
		{
			name:            "Error - blank name",
			body:            `{"name":"   ","description":"d","price":1,"category":"c","inStock":true}`,
			expectedMessage: "name is required and must be a non-empty string",
		},
		{
			name:            "Error - name wrong type",
			body:            `{"name":5,"description":"d","price":1,"category":"c","inStock":true}`,
			expectedMessage: "name is required and must be a non-empty string",
		},
		{
			name:            "Error - missing description",
			body:            `{"name":"n","price":1,"category":"c","inStock":true}`,
			expectedMessage: "description is required and must be a string",
		},
		{
			name:            "Error - missing price",
			body:            `{"name":"n","description":"d","category":"c","inStock":true}`,
			expectedMessage: "price is required and must be a number",
		},
		{
			name:            "Error - price as string",
			body:            `{"name":"n","description":"d","price":"10","category":"c","inStock":true}`,
			expectedMessage: "price is required and must be a number",
		},
		{
			name:            "Error - category null",
			body:            `{"name":"n","description":"d","price":1,"category":null,"inStock":true}`,
			expectedMessage: "category is required and must be a string",
		},
		{
			name:            "Error - inStock as string",
			body:            `{"name":"n","description":"d","price":1,"category":"c","inStock":"yes"}`,
			expectedMessage: "inStock is required and must be a boolean",
		},
		{
			name:            "Error - only the first failing field is reported",
			body:            `{"name":"n","price":"x","inStock":1}`,
			expectedMessage: "description is required and must be a string",
		},
	}

	v := New()
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// when
			dto, err := v.Create(mustDecode(t, tc.body))
			// then
			if tc.expectedMessage != "" {
				var appErr *perrors.AppError
				require.ErrorAs(t, err, &appErr)
				assert.Equal(t, perrors.KindValidation, appErr.Kind)
				assert.Equal(t, tc.expectedMessage, appErr.Message)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, dto)
		})
	}
}

func Test_Validator_Patch(t *testing.T) {
	name := "  "
	price := 15.0
	inStock := true

	testCases := []struct {
		name            string
		body            string
		expected        service.ProductPatchDto
		expectedMessage string
	}{
		{
			name:     "Success - empty patch",
			body:     `{}`,
			expected: service.ProductPatchDto{},
		},
		{
			name:     "Success - price only",
			body:     `{"price":15}`,
			expected: service.ProductPatchDto{Price: &price},
		},
		{
			name:     "Success - blank name is accepted on update",
			body:     `{"name":"  ","inStock":true}`,
			expected: service.ProductPatchDto{Name: &name, InStock: &inStock},
		},
		{
			name:            "Error - name wrong type",
			body:            `{"name":12}`,
			expectedMessage: "name must be a string",
		},
		{
			name:            "Error - description null",
			body:            `{"description":null}`,
			expectedMessage: "description must be a string",
		},
		{
			name:            "Error - price as string",
			body:            `{"price":"15"}`,
			expectedMessage: "price must be a number",
		},
		{
			name:            "Error - category wrong type",
			body:            `{"category":["a"]}`,
			expectedMessage: "category must be a string",
		},
		{
			name:            "Error - inStock as number",
			body:            `{"inStock":0}`,
			expectedMessage: "inStock must be a boolean",
		},
	}

	v := New()
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			dto, err := v.Patch(mustDecode(t, tc.body))
			if tc.expectedMessage != "" {
				var appErr *perrors.AppError
				require.ErrorAs(t, err, &appErr)
				assert.Equal(t, perrors.KindValidation, appErr.Kind)
				assert.Equal(t, tc.expectedMessage, appErr.Message)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, dto)
		})
	}
}
