package http

import (
	"net/http"

	"github.com/aussiebroadwan/carecube/internal/auth/domain"
	"github.com/aussiebroadwan/carecube/pkg/authsdk"
	"github.com/aussiebroadwan/carecube/pkg/httpx"
)

// CurrentUserHandler godoc
//
//	@Summary		Current User
//	@Description	Returns the identity resolved from the session cookies. The access token is renewed from the stored refresh token when it has expired.
//	@Tags			Users
//	@Security		SessionCookie
//	@Produce		json
//	@Success		200	{object}	authsdk.CurrentUserResponse	"id, email, role"
//	@Failure		401	{object}	authsdk.APIError			"message"
//	@Failure		403	{object}	authsdk.APIError			"message"
//	@Router			/api/users/current-user [get].
func CurrentUserHandler(w http.ResponseWriter, r *http.Request, ic domain.IdentityContext) {
	httpx.WriteJSON(w, http.StatusOK, authsdk.CurrentUserResponse{
		ID:    ic.ID,
		Email: ic.Email,
		Role:  ic.Role.String(),
	})
}
