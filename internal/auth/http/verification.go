package http

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/aussiebroadwan/carecube/internal/auth/domain"
	"github.com/aussiebroadwan/carecube/internal/auth/service"
	"github.com/aussiebroadwan/carecube/pkg/authsdk"
	"github.com/aussiebroadwan/carecube/pkg/httpx"
)

type VerificationHandler struct {
	Verification *service.VerificationService
}

// HandleRequestCode godoc
//
//	@Summary		Request Verification Code
//	@Description	Emails a fresh verification code to the signed-in identity, replacing any outstanding one.
//	@Tags			Users
//	@Security		SessionCookie
//	@Produce		json
//	@Success		200	{object}	authsdk.MessageResponse	"message"
//	@Failure		400	{object}	authsdk.APIError		"message - already verified"
//	@Failure		401	{object}	authsdk.APIError		"message"
//	@Failure		403	{object}	authsdk.APIError		"message"
//	@Failure		500	{object}	authsdk.APIError		"message"
//	@Router			/api/users/verification-code [get].
func (h *VerificationHandler) HandleRequestCode(w http.ResponseWriter, r *http.Request, ic domain.IdentityContext) {
	if err := h.Verification.RequestCode(r.Context(), ic); err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authsdk.MessageResponse{
		Message: "Code was sent to " + ic.Email,
	})
}

// HandleVerifyEmail godoc
//
//	@Summary		Verify Email
//	@Description	Redeems a verification code for the signed-in identity's email. Codes are single use.
//	@Tags			Users
//	@Security		SessionCookie
//	@Produce		json
//	@Param			code	query		int						true	"Verification code"
//	@Success		200		{object}	authsdk.MessageResponse	"message"
//	@Failure		400		{object}	authsdk.APIError		"message"
//	@Failure		401		{object}	authsdk.APIError		"message"
//	@Failure		403		{object}	authsdk.APIError		"message"
//	@Failure		500		{object}	authsdk.APIError		"message"
//	@Router			/api/users/verify-email [post].
func (h *VerificationHandler) HandleVerifyEmail(w http.ResponseWriter, r *http.Request, ic domain.IdentityContext) {
	code, err := strconv.Atoi(strings.TrimSpace(r.FormValue("code")))
	if err != nil {
		authsdk.ErrInvalidCode.WriteError(w)
		return
	}

	if err := h.Verification.RedeemCode(r.Context(), ic.Email, code); err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authsdk.MessageResponse{Message: "Verification successful"})
}
