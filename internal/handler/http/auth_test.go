// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MKhiriev/go-org-site/internal/app"
	"github.com/MKhiriev/go-org-site/internal/service"
	"github.com/MKhiriev/go-org-site/internal/utils"
	"github.com/MKhiriev/go-org-site/models"
)

// ─────────────────────────────────────────────
// signIn
// ─────────────────────────────────────────────

func TestSignIn_Success(t *testing.T) {
	h, m := newTestHandler(t)
	m.auth.EXPECT().VerifyCredentials(gomock.Any(), "alice@example.com", "password123").Return(alice.Public(), nil)
	m.auth.EXPECT().SignIn(gomock.Any(), alice.Public(), models.ClientInfo{DeviceInfo: "test-agent", IPAddress: "198.51.100.4"}).
		Return(testPair, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/signin",
		strings.NewReader(`{"username":"alice@example.com","password":"password123"}`))
	req.Header.Set("User-Agent", "test-agent")
	req.RemoteAddr = "198.51.100.4:40000"
	rec := httptest.NewRecorder()

	h.signIn(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var pair models.TokenPair
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &pair))
	assert.Equal(t, testPair.AccessToken, pair.AccessToken)
	assert.Equal(t, testPair.RefreshToken, pair.RefreshToken)

	access := cookieByName(rec, accessTokenCookie)
	require.NotNil(t, access)
	assert.Equal(t, testPair.AccessToken, access.Value)
	assert.True(t, access.HttpOnly)
	assert.True(t, access.Secure)
	assert.Equal(t, http.SameSiteStrictMode, access.SameSite)
	assert.Equal(t, int(testAuthCfg.AccessTokenTTL.Seconds()), access.MaxAge)

	refresh := cookieByName(rec, refreshTokenCookie)
	require.NotNil(t, refresh)
	assert.Equal(t, testPair.RefreshToken, refresh.Value)
	assert.Equal(t, int(testAuthCfg.RefreshTokenTTL.Seconds()), refresh.MaxAge)
}

func TestSignIn_MissingUserAgent(t *testing.T) {
	h, m := newTestHandler(t)
	m.auth.EXPECT().VerifyCredentials(gomock.Any(), gomock.Any(), gomock.Any()).Return(alice.Public(), nil)
	m.auth.EXPECT().SignIn(gomock.Any(), alice.Public(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ models.PublicUser, client models.ClientInfo) (models.TokenPair, error) {
			assert.Equal(t, unknownDevice, client.DeviceInfo)
			return testPair, nil
		})

	req := httptest.NewRequest(http.MethodPost, "/api/auth/signin", strings.NewReader(`{"username":"a@b.c","password":"password123"}`))
	req.Header.Del("User-Agent")
	rec := httptest.NewRecorder()

	h.signIn(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSignIn_InvalidCredentials(t *testing.T) {
	h, m := newTestHandler(t)
	m.auth.EXPECT().VerifyCredentials(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(models.PublicUser{}, service.ErrInvalidCredentials)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/signin", strings.NewReader(`{"username":"alice@example.com","password":"wrong-password"}`))
	rec := httptest.NewRecorder()

	h.signIn(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Invalid credentials", decodeEnvelope(t, rec).Message)
	assert.Nil(t, cookieByName(rec, accessTokenCookie))
}

func TestSignIn_InvalidJSON(t *testing.T) {
	h, _ := newTestHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/signin", strings.NewReader(`{not json`))
	rec := httptest.NewRecorder()

	h.signIn(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSignIn_TokenCreationFailed(t *testing.T) {
	h, m := newTestHandler(t)
	m.auth.EXPECT().VerifyCredentials(gomock.Any(), gomock.Any(), gomock.Any()).Return(alice.Public(), nil)
	m.auth.EXPECT().SignIn(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(models.TokenPair{}, service.ErrTokenCreationFailed)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/signin", strings.NewReader(`{"username":"a@b.c","password":"password123"}`))
	rec := httptest.NewRecorder()

	h.signIn(rec, req)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, http.StatusText(http.StatusInternalServerError), decodeEnvelope(t, rec).Message)
}

// ─────────────────────────────────────────────
// signUp
// ─────────────────────────────────────────────

func TestSignUp_Created(t *testing.T) {
	h, m := newTestHandler(t)
	req := models.SignUpRequest{Name: "Alice", Username: "alice@example.com", Password: "secret1"}
	m.auth.EXPECT().SignUp(gomock.Any(), req).Return(alice.Public(), nil)

	body, _ := json.Marshal(req)
	r := httptest.NewRequest(http.MethodPost, "/api/auth/signup", strings.NewReader(string(body)))
	rec := httptest.NewRecorder()

	h.signUp(rec, r)

	require.Equal(t, http.StatusCreated, rec.Code)

	var user models.PublicUser
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &user))
	assert.Equal(t, alice.UserID, user.UserID)
	assert.NotContains(t, rec.Body.String(), alice.PasswordHash)
}

func TestSignUp_Errors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"username taken", service.ErrUsernameTaken, http.StatusConflict},
		{"invalid data", service.ErrInvalidDataProvided, http.StatusBadRequest},
		{"unexpected", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, m := newTestHandler(t)
			m.auth.EXPECT().SignUp(gomock.Any(), gomock.Any()).Return(models.PublicUser{}, tt.err)

			r := httptest.NewRequest(http.MethodPost, "/api/auth/signup", strings.NewReader(`{"username":"x"}`))
			rec := httptest.NewRecorder()

			h.signUp(rec, r)

			assert.Equal(t, tt.status, rec.Code)
		})
	}
}

// ─────────────────────────────────────────────
// refresh
// ─────────────────────────────────────────────

func TestRefresh_FromCookie(t *testing.T) {
	h, m := newTestHandler(t)
	rotated := models.TokenPair{AccessToken: "access.2", RefreshToken: "refresh.2"}
	m.auth.EXPECT().Refresh(gomock.Any(), "refresh.cookie").Return(rotated, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/refresh", strings.NewReader(`{"refreshToken":"refresh.body"}`))
	req.AddCookie(&http.Cookie{Name: refreshTokenCookie, Value: "refresh.cookie"})
	rec := httptest.NewRecorder()

	h.refresh(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, cookieByName(rec, refreshTokenCookie))
	assert.Equal(t, "refresh.2", cookieByName(rec, refreshTokenCookie).Value)
}

func TestRefresh_FromBody(t *testing.T) {
	h, m := newTestHandler(t)
	m.auth.EXPECT().Refresh(gomock.Any(), "refresh.body").Return(testPair, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/refresh", strings.NewReader(`{"refreshToken":"refresh.body"}`))
	rec := httptest.NewRecorder()

	h.refresh(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRefresh_MissingToken(t *testing.T) {
	h, _ := newTestHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/refresh", nil)
	rec := httptest.NewRecorder()

	h.refresh(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, app.MsgAccessDenied, decodeEnvelope(t, rec).Message)
}

func TestRefresh_ExpiredSession(t *testing.T) {
	h, m := newTestHandler(t)
	m.auth.EXPECT().Refresh(gomock.Any(), "old").Return(models.TokenPair{}, service.ErrSessionExpired)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/refresh", nil)
	req.AddCookie(&http.Cookie{Name: refreshTokenCookie, Value: "old"})
	rec := httptest.NewRecorder()

	h.refresh(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, app.MsgAccessDenied, decodeEnvelope(t, rec).Message)
	assert.Nil(t, cookieByName(rec, accessTokenCookie))
}

// ─────────────────────────────────────────────
// signOut / logoutAll
// ─────────────────────────────────────────────

func TestSignOut_ClearsCookies(t *testing.T) {
	h, m := newTestHandler(t)
	m.auth.EXPECT().Logout(gomock.Any(), "refresh.jwt").Return(nil)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/signout", nil)
	req.AddCookie(&http.Cookie{Name: refreshTokenCookie, Value: "refresh.jwt"})
	rec := httptest.NewRecorder()

	h.signOut(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	for _, name := range []string{accessTokenCookie, refreshTokenCookie} {
		c := cookieByName(rec, name)
		require.NotNil(t, c, name)
		assert.Empty(t, c.Value)
		assert.Equal(t, -1, c.MaxAge)
	}
}

func TestSignOut_InvalidTokenStillClearsCookies(t *testing.T) {
	h, m := newTestHandler(t)
	m.auth.EXPECT().Logout(gomock.Any(), "garbage").Return(service.ErrUnauthorized)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/signout", strings.NewReader(`{"refreshToken":"garbage"}`))
	rec := httptest.NewRecorder()

	h.signOut(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.NotNil(t, cookieByName(rec, refreshTokenCookie))
}

func TestLogoutAll_ReturnsRevokedCount(t *testing.T) {
	h, m := newTestHandler(t)
	m.auth.EXPECT().LogoutAll(gomock.Any(), userPrincipal.UserID).Return(int64(3), nil)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/logout-all", nil)
	req = req.WithContext(utils.WithPrincipal(req.Context(), userPrincipal))
	rec := httptest.NewRecorder()

	h.logoutAll(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var result models.LogoutAllResult
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &result))
	assert.EqualValues(t, 3, result.Revoked)
	assert.NotNil(t, cookieByName(rec, accessTokenCookie))
}

// ─────────────────────────────────────────────
// session / sessions
// ─────────────────────────────────────────────

func TestSession_ReturnsPrincipal(t *testing.T) {
	h, _ := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/session", nil)
	req = req.WithContext(utils.WithPrincipal(req.Context(), userPrincipal))
	rec := httptest.NewRecorder()

	h.session(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var got models.Principal
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &got))
	assert.Equal(t, userPrincipal, got)
}

func TestSessions_EmptyListIsArray(t *testing.T) {
	h, m := newTestHandler(t)
	m.users.EXPECT().ListSessions(gomock.Any(), userPrincipal.UserID).Return(nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/sessions", nil)
	req = req.WithContext(utils.WithPrincipal(req.Context(), userPrincipal))
	rec := httptest.NewRecorder()

	h.sessions(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, string(decodeEnvelope(t, rec).Data))
}
