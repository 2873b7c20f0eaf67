// Package shared centralizes JSON encoding and domain error translation for
// the HTTP layer, keeping the per-domain handlers thin.
package shared

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"

	dErrors "voxlab/pkg/domain-errors"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// WriteJSON writes v as a JSON response with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError translates a domain error into the JSON error envelope. Errors
// that are not domain errors become opaque internal failures.
func WriteError(w http.ResponseWriter, err error) {
	var domainErr *dErrors.Error
	if !errors.As(err, &domainErr) {
		domainErr = dErrors.New(dErrors.CodeInternal, "internal error")
	}
	WriteJSON(w, dErrors.ToHTTPStatus(domainErr.Code), map[string]string{
		"error":             string(domainErr.Code),
		"error_description": domainErr.Message,
	})
}

// DecodeJSON decodes the request body into dst and runs struct validation.
// Unknown fields are rejected so client typos surface as 400s.
func DecodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return dErrors.New(dErrors.CodeBadRequest, "invalid request body")
	}
	if err := validate.Struct(dst); err != nil {
		var invalid *validator.InvalidValidationError
		if errors.As(err, &invalid) {
			return dErrors.Wrap(err, dErrors.CodeInternal, "request validation misconfigured")
		}
		return dErrors.Wrap(err, dErrors.CodeBadRequest, "request validation failed")
	}
	return nil
}
