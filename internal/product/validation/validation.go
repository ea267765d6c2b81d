// Package validation checks the shape of product payloads before they reach the service.
// Create requests are strict: every field is required. Update requests are partial:
// absent fields are skipped, present ones must have the right type.
package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	perrors "github.com/abgdnv/productcatalog/internal/product/errors"
	"github.com/abgdnv/productcatalog/internal/product/service"
	"github.com/go-playground/validator/v10"
)

// Payload is a decoded JSON object keyed by field name.
type Payload map[string]any

const (
	fieldName        = "name"
	fieldDescription = "description"
	fieldPrice       = "price"
	fieldCategory    = "category"
	fieldInStock     = "inStock"
)

// Validator checks product payloads.
type Validator struct {
	validate *validator.Validate
}

// New creates a Validator.
func New() *Validator {
	return &Validator{validate: validator.New()}
}

// Decode reads a single JSON object from r. An empty body decodes to an empty payload;
// anything but whitespace after the object is rejected.
func Decode(r io.Reader) (Payload, error) {
	dec := json.NewDecoder(r)
	var payload Payload
	if err := dec.Decode(&payload); err != nil {
		if errors.Is(err, io.EOF) {
			return Payload{}, nil
		}
		return nil, invalidBody(err)
	}
	if payload == nil {
		// a literal null body
		return nil, perrors.Validation(invalidBodyMessage)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return nil, invalidBody(fmt.Errorf("unexpected data after JSON object: %w", err))
	}
	return payload, nil
}

const invalidBodyMessage = "Invalid JSON body"

func invalidBody(err error) error {
	return &perrors.AppError{Kind: perrors.KindValidation, Message: invalidBodyMessage, Err: err}
}

// Create validates a create payload. Fields are checked in the order
// name, description, price, category, inStock and the first failure is returned.
func (v *Validator) Create(p Payload) (service.ProductCreateDto, error) {
	var dto service.ProductCreateDto

	name, ok := p[fieldName].(string)
	if !ok || v.validate.Var(strings.TrimSpace(name), "required") != nil {
		return dto, required(fieldName, "non-empty string")
	}
	description, ok := p[fieldDescription].(string)
	if !ok {
		return dto, required(fieldDescription, "string")
	}
	price, ok := p[fieldPrice].(float64)
	if !ok {
		return dto, required(fieldPrice, "number")
	}
	category, ok := p[fieldCategory].(string)
	if !ok {
		return dto, required(fieldCategory, "string")
	}
	inStock, ok := p[fieldInStock].(bool)
	if !ok {
		return dto, required(fieldInStock, "boolean")
	}

	dto.Name = name
	dto.Description = description
	dto.Price = price
	dto.Category = category
	dto.InStock = inStock
	return dto, nil
}

// Patch validates an update payload. A field counts as present when its key exists,
// so an explicit null fails the type check. Name is only type-checked here; the
// non-empty rule applies to creates alone.
func (v *Validator) Patch(p Payload) (service.ProductPatchDto, error) {
	var dto service.ProductPatchDto
	var err error

	if dto.Name, err = optional[string](p, fieldName, "string"); err != nil {
		return dto, err
	}
	if dto.Description, err = optional[string](p, fieldDescription, "string"); err != nil {
		return dto, err
	}
	if dto.Price, err = optional[float64](p, fieldPrice, "number"); err != nil {
		return dto, err
	}
	if dto.Category, err = optional[string](p, fieldCategory, "string"); err != nil {
		return dto, err
	}
	if dto.InStock, err = optional[bool](p, fieldInStock, "boolean"); err != nil {
		return dto, err
	}
	return dto, nil
}

// optional returns nil when the key is absent and a pointer to the value when it has type T.
func optional[T any](p Payload, field, typeName string) (*T, error) {
	raw, present := p[field]
	if !present {
		return nil, nil
	}
	value, ok := raw.(T)
	if !ok {
		return nil, perrors.Validation(fmt.Sprintf("%s must be a %s", field, typeName))
	}
	return &value, nil
}

func required(field, typeName string) error {
	return perrors.Validation(fmt.Sprintf("%s is required and must be a %s", field, typeName))
}
