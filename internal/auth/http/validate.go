package http

import (
	"errors"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/aussiebroadwan/carecube/pkg/authsdk"
	"github.com/aussiebroadwan/carecube/pkg/slogx"
)

// writeValidationError reports field errors as details of a 400. An error
// that isn't a field error means a rule itself failed.
func writeValidationError(w http.ResponseWriter, r *http.Request, err error) {
	var fields validation.Errors
	if !errors.As(err, &fields) {
		slogx.FromContext(r.Context()).Error("request validation failed", "error", err)
		authsdk.ErrInternal.WriteError(w)
		return
	}

	details := make(map[string]string, len(fields))
	for name, ferr := range fields {
		details[name] = ferr.Error()
	}
	authsdk.ErrInvalidRequest.WithDetails(details).WriteError(w)
}
