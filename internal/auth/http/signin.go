package http

import (
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/aussiebroadwan/carecube/internal/auth/service"
	"github.com/aussiebroadwan/carecube/pkg/authsdk"
	"github.com/aussiebroadwan/carecube/pkg/httpx"
)

type SignInHandler struct {
	Credentials *service.CredentialService
	Cookies     CookieConfig
}

func validateSignIn(req authsdk.SignInRequest) error {
	return validation.ValidateStruct(&req,
		validation.Field(&req.Email, validation.Required.Error("Email is required")),
		validation.Field(&req.Password, validation.Required.Error("Password is required")),
	)
}

// ServeHTTP godoc
//
//	@Summary		Sign In
//	@Description	Checks email and password and starts a new session, replacing any previous refresh token.
//	@Description	Sets the accessToken and userId cookies.
//	@Tags			Users
//	@Accept			json
//	@Produce		json
//	@Param			request	body		authsdk.SignInRequest	true	"email, password"
//	@Success		200		{object}	authsdk.AuthResponse	"message, data"
//	@Failure		400		{object}	authsdk.APIError		"message, details"
//	@Failure		401		{object}	authsdk.APIError		"message"
//	@Failure		500		{object}	authsdk.APIError		"message"
//	@Router			/api/users/sign-in [post].
func (h *SignInHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req authsdk.SignInRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		authsdk.ErrInvalidRequest.WriteError(w)
		return
	}

	if err := validateSignIn(req); err != nil {
		writeValidationError(w, r, err)
		return
	}

	ident, creds, err := h.Credentials.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	h.Cookies.setSession(w, ident.ID, creds.Access.Token)
	httpx.WriteJSON(w, http.StatusOK, authsdk.AuthResponse{
		Message: "User login successful",
		Data:    userResponse(ident),
	})
}
