package http

import (
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"

	"github.com/aussiebroadwan/carecube/internal/auth/service"
	"github.com/aussiebroadwan/carecube/pkg/authsdk"
	"github.com/aussiebroadwan/carecube/pkg/httpx"
)

type SignUpHandler struct {
	Credentials *service.CredentialService
	Cookies     CookieConfig
}

func validateSignUp(req authsdk.SignUpRequest) error {
	return validation.ValidateStruct(&req,
		validation.Field(&req.Name, validation.Required, validation.Length(1, 100)),
		validation.Field(&req.Email, validation.Required, validation.Length(3, 254), is.Email),
		validation.Field(&req.Password, validation.Required, validation.Length(8, 128)),
		validation.Field(&req.Photo, is.URL),
	)
}

// ServeHTTP godoc
//
//	@Summary		Sign Up
//	@Description	Creates an identity with role User, starts a session and emails a verification code.
//	@Description	Sets the accessToken and userId cookies.
//	@Tags			Users
//	@Accept			json
//	@Produce		json
//	@Param			request	body		authsdk.SignUpRequest	true	"name, email, password, photo"
//	@Success		201		{object}	authsdk.AuthResponse	"message, data"
//	@Failure		400		{object}	authsdk.APIError		"message, details"
//	@Failure		500		{object}	authsdk.APIError		"message"
//	@Router			/api/users/sign-up [post].
func (h *SignUpHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req authsdk.SignUpRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		authsdk.ErrInvalidRequest.WriteError(w)
		return
	}

	if err := validateSignUp(req); err != nil {
		writeValidationError(w, r, err)
		return
	}

	ident, creds, err := h.Credentials.SignUp(r.Context(), service.SignUpInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Photo:    req.Photo,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	h.Cookies.setSession(w, ident.ID, creds.Access.Token)
	httpx.WriteJSON(w, http.StatusCreated, authsdk.AuthResponse{
		Message: "User was created successfully",
		Data:    userResponse(ident),
	})
}
