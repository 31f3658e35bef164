package http

import (
	"errors"
	"net/http"

	"github.com/aussiebroadwan/carecube/internal/auth/service"
	"github.com/aussiebroadwan/carecube/pkg/authsdk"
	"github.com/aussiebroadwan/carecube/pkg/slogx"
)

// writeServiceError maps a service error onto its public response. Anything
// unrecognised is logged in full and reported as a generic 500.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrUnauthenticated):
		authsdk.ErrUnauthenticated.WriteError(w)
	case errors.Is(err, service.ErrInvalidCredentials):
		authsdk.ErrInvalidCredentials.WriteError(w)
	case errors.Is(err, service.ErrSessionExpired):
		authsdk.ErrSessionExpired.WriteError(w)
	case errors.Is(err, service.ErrInvalidCode):
		authsdk.ErrInvalidCode.WriteError(w)
	case errors.Is(err, service.ErrEmailInUse):
		authsdk.ErrEmailInUse.WriteError(w)
	case errors.Is(err, service.ErrAlreadyVerified):
		authsdk.ErrAlreadyVerified.WriteError(w)
	default:
		slogx.FromContext(r.Context()).Error("request failed", "error", err)
		authsdk.ErrInternal.WriteError(w)
	}
}
