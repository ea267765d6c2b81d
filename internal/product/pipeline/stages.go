package pipeline

import (
	"github.com/abgdnv/productcatalog/internal/product/auth"
	"github.com/abgdnv/productcatalog/internal/product/validation"
)

// LogRequest records the incoming request. It never stops the pipeline.
func LogRequest() Stage {
	return func(ex *Exchange) error {
		ex.Logger.InfoContext(ex.Request.Context(), "Incoming request",
			"method", ex.Request.Method,
			"path", ex.Request.URL.Path,
		)
		return nil
	}
}

// Authenticate requires the shared API key on the request.
func Authenticate(secret string) Stage {
	return func(ex *Exchange) error {
		return auth.Authenticate(auth.Credential(ex.Request.Header), secret)
	}
}

// ValidateCreate decodes the body and requires every product field.
// On success Input holds a service.ProductCreateDto.
func ValidateCreate(v *validation.Validator) Stage {
	return func(ex *Exchange) error {
		payload, err := validation.Decode(ex.Request.Body)
		if err != nil {
			return err
		}
		dto, err := v.Create(payload)
		if err != nil {
			return err
		}
		ex.Input = dto
		return nil
	}
}

// ValidatePatch decodes the body and type-checks the fields present.
// On success Input holds a service.ProductPatchDto.
func ValidatePatch(v *validation.Validator) Stage {
	return func(ex *Exchange) error {
		payload, err := validation.Decode(ex.Request.Body)
		if err != nil {
			return err
		}
		dto, err := v.Patch(payload)
		if err != nil {
			return err
		}
		ex.Input = dto
		return nil
	}
}
