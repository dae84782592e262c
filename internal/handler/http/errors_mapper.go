package http

import (
	"errors"
	"net/http"

	"github.com/MKhiriev/go-org-site/internal/app"
	"github.com/MKhiriev/go-org-site/internal/logger"
	"github.com/MKhiriev/go-org-site/internal/service"
	"github.com/MKhiriev/go-org-site/internal/store"
	"github.com/MKhiriev/go-org-site/internal/utils"
)

var errorStatusMap = map[error]int{
	ErrInvalidJSON:                http.StatusBadRequest,
	ErrInvalidUserID:              http.StatusBadRequest,
	ErrInvalidUpload:              http.StatusBadRequest,
	ErrInvalidGzip:                http.StatusBadRequest,
	ErrEmptyAuthorizationHeader:   http.StatusUnauthorized,
	ErrInvalidAuthorizationHeader: http.StatusUnauthorized,
	ErrForbidden:                  http.StatusForbidden,
	ErrTooManyRequests:            http.StatusTooManyRequests,

	service.ErrInvalidDataProvided:  http.StatusBadRequest,
	service.ErrInvalidCredentials:   http.StatusUnauthorized,
	service.ErrUnauthorized:         http.StatusUnauthorized,
	service.ErrSessionExpired:       http.StatusUnauthorized,
	service.ErrUsernameTaken:        http.StatusConflict,
	service.ErrUserNotFound:         http.StatusNotFound,
	service.ErrAvatarDownloadFailed: http.StatusBadGateway,
	service.ErrTokenCreationFailed:  http.StatusInternalServerError,

	store.ErrUsernameAlreadyExists: http.StatusConflict,
	store.ErrNoUserWasFound:        http.StatusNotFound,

	store.ErrBuildingSQLQuery:     http.StatusInternalServerError,
	store.ErrExecutingQuery:       http.StatusInternalServerError,
	store.ErrBeginningTransaction: http.StatusInternalServerError,
	store.ErrCommitingTransaction: http.StatusInternalServerError,
	store.ErrExecutingStatement:   http.StatusInternalServerError,
	store.ErrScanningRow:          http.StatusInternalServerError,
	store.ErrScanningRows:         http.StatusInternalServerError,
}

func statusFromError(err error) int {
	for target, status := range errorStatusMap {
		if errors.Is(err, target) {
			return status
		}
	}
	return http.StatusInternalServerError
}

// messageFromError is the text shown to the client. Authentication failures
// collapse to one generic message and server errors never expose internals.
func messageFromError(err error, status int) string {
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		return app.MsgInvalidCredentials
	case status == http.StatusUnauthorized:
		return app.MsgAccessDenied
	case status >= http.StatusInternalServerError && status != http.StatusBadGateway:
		return http.StatusText(status)
	default:
		return err.Error()
	}
}

// writeError logs err with the request logger and answers with the JSON
// envelope.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFromError(err)

	log := logger.FromRequest(r)
	if status >= http.StatusInternalServerError {
		log.Err(err).Int("status", status).Msg("request failed")
	} else {
		log.Warn().Err(err).Int("status", status).Msg("request rejected")
	}

	utils.WriteResponse(w, status, messageFromError(err, status), nil)
}
