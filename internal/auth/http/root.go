package http

import (
	"net/http"

	"github.com/aussiebroadwan/carecube/pkg/authsdk"
	"github.com/aussiebroadwan/carecube/pkg/httpx"
)

// RootHandler godoc
//
//	@Summary		Root
//	@Description	Reports that the server is up.
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	authsdk.MessageResponse	"message"
//	@Router			/ [get].
func RootHandler(w http.ResponseWriter, r *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, authsdk.MessageResponse{Message: "Server is running"})
}
