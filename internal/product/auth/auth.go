// Package auth implements the shared-secret API key check guarding mutating routes.
package auth

import (
	"crypto/subtle"
	"net/http"

	perrors "github.com/abgdnv/productcatalog/internal/product/errors"
)

const (
	// HeaderAPIKey is the canonical credential header.
	HeaderAPIKey = "X-API-Key"
	// HeaderAPIKeyAlias is accepted when HeaderAPIKey is absent.
	HeaderAPIKeyAlias = "Api-Key"
)

// Credential returns the API key sent with the request, preferring the canonical header.
func Credential(h http.Header) string {
	if key := h.Get(HeaderAPIKey); key != "" {
		return key
	}
	return h.Get(HeaderAPIKeyAlias)
}

// Authenticate compares the presented key with the configured secret.
func Authenticate(presented, secret string) error {
	if presented == "" {
		return perrors.Unauthorized("Unauthorized: API key is missing")
	}
	if subtle.ConstantTimeCompare([]byte(presented), []byte(secret)) != 1 {
		return perrors.Unauthorized("Unauthorized: invalid API key")
	}
	return nil
}
