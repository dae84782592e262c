package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/MKhiriev/go-org-site/internal/app"
	"github.com/MKhiriev/go-org-site/internal/logger"
	"github.com/MKhiriev/go-org-site/internal/service"
	"github.com/MKhiriev/go-org-site/internal/utils"
	"github.com/MKhiriev/go-org-site/models"
)

const unknownDevice = "Unknown device"

type refreshTokenBody struct {
	RefreshToken string `json:"refreshToken"`
}

func (h *Handler) signUp(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var req models.SignUpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		writeError(w, r, ErrInvalidJSON)
		return
	}

	user, err := h.services.AuthService.SignUp(ctx, req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	log.Info().Int64("user_id", user.UserID).Msg("user created")
	utils.WriteResponse(w, http.StatusCreated, app.MsgUserCreated, user)
}

func (h *Handler) signIn(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var req models.SignInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		writeError(w, r, ErrInvalidJSON)
		return
	}

	user, err := h.services.AuthService.VerifyCredentials(ctx, req.Username, req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}

	deviceInfo := r.UserAgent()
	if deviceInfo == "" {
		deviceInfo = unknownDevice
	}

	pair, err := h.services.AuthService.SignIn(ctx, user, models.ClientInfo{
		DeviceInfo: deviceInfo,
		IPAddress:  clientIP(r),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	h.cookies.setAuthCookies(w, pair)
	utils.WriteResponse(w, http.StatusOK, app.MsgSignedIn, pair)
}

func (h *Handler) refresh(w http.ResponseWriter, r *http.Request) {
	refreshToken, err := refreshTokenFromRequest(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	pair, err := h.services.AuthService.Refresh(r.Context(), refreshToken)
	if err != nil {
		writeError(w, r, err)
		return
	}

	h.cookies.setAuthCookies(w, pair)
	utils.WriteResponse(w, http.StatusOK, app.MsgTokensRefreshed, pair)
}

// signOut always clears the auth cookies, even when the token is rejected.
func (h *Handler) signOut(w http.ResponseWriter, r *http.Request) {
	h.cookies.clearAuthCookies(w)

	refreshToken, err := refreshTokenFromRequest(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if err = h.services.AuthService.Logout(r.Context(), refreshToken); err != nil {
		writeError(w, r, err)
		return
	}

	utils.WriteResponse(w, http.StatusOK, app.MsgSignedOut, nil)
}

func (h *Handler) logoutAll(w http.ResponseWriter, r *http.Request) {
	principal, _ := utils.GetPrincipalFromContext(r.Context())

	h.cookies.clearAuthCookies(w)

	revoked, err := h.services.AuthService.LogoutAll(r.Context(), principal.UserID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	utils.WriteResponse(w, http.StatusOK, app.MsgSignedOutAll, models.LogoutAllResult{Revoked: revoked})
}

func (h *Handler) session(w http.ResponseWriter, r *http.Request) {
	principal, _ := utils.GetPrincipalFromContext(r.Context())

	utils.WriteResponse(w, http.StatusOK, app.MsgSuccess, principal)
}

func (h *Handler) sessions(w http.ResponseWriter, r *http.Request) {
	principal, _ := utils.GetPrincipalFromContext(r.Context())

	list, err := h.services.UserService.ListSessions(r.Context(), principal.UserID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if list == nil {
		list = []models.Session{}
	}

	utils.WriteResponse(w, http.StatusOK, app.MsgSuccess, list)
}

// refreshTokenFromRequest reads the refresh token from its cookie or, when
// there is no cookie, from the JSON body. The cookie wins when both are set.
func refreshTokenFromRequest(r *http.Request) (string, error) {
	if cookie, err := r.Cookie(refreshTokenCookie); err == nil && cookie.Value != "" {
		return cookie.Value, nil
	}

	var body refreshTokenBody
	err := json.NewDecoder(r.Body).Decode(&body)
	if err != nil && !errors.Is(err, io.EOF) {
		return "", ErrInvalidJSON
	}
	if body.RefreshToken == "" {
		return "", service.ErrUnauthorized
	}
	return body.RefreshToken, nil
}
