package http

import (
	"net/http"

	"github.com/MKhiriev/go-org-site/internal/logger"
	"github.com/MKhiriev/go-org-site/internal/utils"
	"github.com/MKhiriev/go-org-site/models"
)

// auth is an HTTP middleware that enforces access-token authentication.
//
// The token is taken from the "accessToken" cookie and, when the cookie is
// absent, from an "Authorization: Bearer <token>" header. A verified token is
// turned into a [models.Principal] and stored in the request context with
// [utils.WithPrincipal].
//
// Every failure is answered with 401 and the same generic message; the
// reason is only logged.
func (h *Handler) auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromRequest(r)

		tokenString, err := accessTokenFromRequest(r)
		if err != nil {
			writeError(w, r, err)
			return
		}

		ctx := r.Context()
		principal, err := h.services.AuthService.ParseAccessToken(ctx, tokenString)
		if err != nil {
			writeError(w, r, err)
			return
		}

		log.Debug().Int64("user_id", principal.UserID).Str("role", string(principal.Role)).Msg("request authenticated")
		next.ServeHTTP(w, r.WithContext(utils.WithPrincipal(ctx, principal)))
	})
}

// accessTokenFromRequest prefers the cookie over the Authorization header.
func accessTokenFromRequest(r *http.Request) (string, error) {
	if cookie, err := r.Cookie(accessTokenCookie); err == nil && cookie.Value != "" {
		return cookie.Value, nil
	}

	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", ErrEmptyAuthorizationHeader
	}

	tokenString, err := utils.ParseBearerToken(authHeader)
	if err != nil {
		return "", ErrInvalidAuthorizationHeader
	}
	return tokenString, nil
}

// requireRole lets through only principals holding role. It must run after
// [Handler.auth].
func requireRole(role models.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, ok := utils.GetPrincipalFromContext(r.Context())
			if !ok {
				writeError(w, r, ErrEmptyAuthorizationHeader)
				return
			}
			if principal.Role != role {
				writeError(w, r, ErrForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
