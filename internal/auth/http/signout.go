package http

import (
	"net/http"

	"github.com/aussiebroadwan/carecube/internal/auth/domain"
	"github.com/aussiebroadwan/carecube/internal/auth/service"
	"github.com/aussiebroadwan/carecube/pkg/authsdk"
	"github.com/aussiebroadwan/carecube/pkg/httpx"
)

type SignOutHandler struct {
	Credentials *service.CredentialService
	Cookies     CookieConfig
}

// Handle godoc
//
//	@Summary		Sign Out
//	@Description	Clears the stored refresh token and expires both session cookies.
//	@Description	An access token already handed out stays valid until it expires.
//	@Tags			Users
//	@Security		SessionCookie
//	@Produce		json
//	@Success		200	{object}	authsdk.MessageResponse	"message"
//	@Failure		401	{object}	authsdk.APIError		"message"
//	@Failure		403	{object}	authsdk.APIError		"message"
//	@Failure		500	{object}	authsdk.APIError		"message"
//	@Router			/api/users/sign-out [post].
func (h *SignOutHandler) Handle(w http.ResponseWriter, r *http.Request, ic domain.IdentityContext) {
	if err := h.Credentials.SignOut(r.Context(), ic); err != nil {
		writeServiceError(w, r, err)
		return
	}

	h.Cookies.clearSession(w)
	httpx.WriteJSON(w, http.StatusOK, authsdk.MessageResponse{Message: "User logout successful"})
}
