package http

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/aussiebroadwan/carecube/pkg/authsdk"
)

// PhotoHandler serves uploaded profile photos out of UploadDir.
type PhotoHandler struct {
	UploadDir string
}

// ServeHTTP godoc
//
//	@Summary		Get Photo
//	@Description	Serves a previously uploaded profile photo by file name.
//	@Tags			Users
//	@Produce		octet-stream
//	@Param			filename	path		string				true	"Photo file name"
//	@Success		200			{file}		file				"photo"
//	@Failure		404			{object}	authsdk.APIError	"message"
//	@Router			/api/users/photos/{filename} [get].
func (h *PhotoHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("filename")
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		authsdk.ErrFileNotFound.WriteError(w)
		return
	}

	path := filepath.Join(h.UploadDir, name)
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		authsdk.ErrFileNotFound.WriteError(w)
		return
	}

	http.ServeFile(w, r, path)
}
