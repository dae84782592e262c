package http

import (
	"mime"
	"net/http"

	"github.com/MKhiriev/go-org-site/internal/app"
	"github.com/MKhiriev/go-org-site/internal/logger"
	"github.com/MKhiriev/go-org-site/internal/utils"
	"github.com/MKhiriev/go-org-site/models"
)

const avatarFormField = "file"

// updateAvatar stores the multipart "file" part as the caller's avatar. A
// request without a multipart body regenerates the avatar from Gravatar.
func (h *Handler) updateAvatar(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)
	principal, _ := utils.GetPrincipalFromContext(r.Context())

	var upload *models.Upload
	if isMultipart(r) {
		r.Body = http.MaxBytesReader(w, r.Body, maxAvatarUploadSize + 1<<10)
		file, header, err := r.FormFile(avatarFormField)
		if err != nil {
			log.Err(err).Msg("error reading avatar upload")
			writeError(w, r, ErrInvalidUpload)
			return
		}
		defer file.Close()

		upload = &models.Upload{
			Name:        header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Size:        header.Size,
			Body:        file,
		}
	}

	user, err := h.services.AvatarService.UpdateAvatar(r.Context(), principal.UserID, upload)
	if err != nil {
		writeError(w, r, err)
		return
	}

	utils.WriteResponse(w, http.StatusOK, app.MsgAvatarUpdated, user)
}

func (h *Handler) deleteAvatar(w http.ResponseWriter, r *http.Request) {
	principal, _ := utils.GetPrincipalFromContext(r.Context())

	user, err := h.services.AvatarService.DeleteAvatar(r.Context(), principal.UserID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	utils.WriteResponse(w, http.StatusOK, app.MsgAvatarDeleted, user)
}

func isMultipart(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		return false
	}
	return mediaType == "multipart/form-data"
}

