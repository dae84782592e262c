package http

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MKhiriev/go-org-site/internal/app"
	"github.com/MKhiriev/go-org-site/internal/service"
	"github.com/MKhiriev/go-org-site/models"
)

// ─────────────────────────────────────────────
// Route registration
// ─────────────────────────────────────────────

type routeCase struct {
	method string
	path   string
}

// protectedRoutes answer 401 without a token, which proves they exist.
var protectedRoutes = []routeCase{
	{http.MethodPost, "/api/auth/logout-all"},
	{http.MethodGet, "/api/auth/session"},
	{http.MethodGet, "/api/auth/sessions"},
	{http.MethodPut, "/api/users/me/avatar"},
	{http.MethodDelete, "/api/users/me/avatar"},
	{http.MethodPost, "/api/auth/signup"},
	{http.MethodGet, "/api/users"},
	{http.MethodPatch, "/api/users"},
	{http.MethodDelete, "/api/users/5"},
}

func TestInit_ProtectedRoutesRequireToken(t *testing.T) {
	h, _ := newTestHandler(t)
	router := h.Init()

	for _, tc := range protectedRoutes {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, nil)
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Equal(t, app.MsgAccessDenied, decodeEnvelope(t, rec).Message)
		})
	}
}

func TestInit_PublicRoutes(t *testing.T) {
	h, m := newTestHandler(t)
	m.appInfo.EXPECT().GetAppVersion(gomock.Any()).Return(models.AppVersion{Version: "1.0.0"})
	m.health.EXPECT().Check(gomock.Any()).Return(nil)
	router := h.Init()

	for _, path := range []string{"/api/version", "/api/health", "/metrics"} {
		t.Run(path, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, path, nil)
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusOK, rec.Code)
		})
	}
}

func TestInit_UnknownRouteReturns404(t *testing.T) {
	h, _ := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/nonexistent", nil)
	rec := httptest.NewRecorder()
	h.Init().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestInit_WrongMethodReturns404(t *testing.T) {
	h, _ := newTestHandler(t)

	req := httptest.NewRequest(http.MethodDelete, "/api/version", nil)
	rec := httptest.NewRecorder()
	h.Init().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, http.StatusNotFound, decodeEnvelope(t, rec).StatusCode)
}

func TestInit_SetsTraceIDHeader(t *testing.T) {
	h, m := newTestHandler(t)
	m.appInfo.EXPECT().GetAppVersion(gomock.Any()).Return(models.AppVersion{})

	req := httptest.NewRequest(http.MethodGet, "/api/version", nil)
	rec := httptest.NewRecorder()
	h.Init().ServeHTTP(rec, req)

	assert.NotEmpty(t, rec.Header().Get(traceIDHeader))
}

// ─────────────────────────────────────────────
// Role gating
// ─────────────────────────────────────────────

func TestInit_AdminRouteForbiddenForUser(t *testing.T) {
	h, m := newTestHandler(t)
	m.auth.EXPECT().ParseAccessToken(gomock.Any(), "user.jwt").Return(userPrincipal, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
	req.Header.Set("Authorization", "Bearer user.jwt")
	rec := httptest.NewRecorder()
	h.Init().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestInit_AdminRouteAllowedForAdmin(t *testing.T) {
	h, m := newTestHandler(t)
	m.auth.EXPECT().ParseAccessToken(gomock.Any(), "admin.jwt").Return(adminPrincipal, nil)
	m.users.EXPECT().ListUsers(gomock.Any()).Return([]models.PublicUser{alice.Public()}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
	req.AddCookie(&http.Cookie{Name: accessTokenCookie, Value: "admin.jwt"})
	rec := httptest.NewRecorder()
	h.Init().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestInit_ExpiredAccessTokenIsDenied(t *testing.T) {
	h, m := newTestHandler(t)
	m.auth.EXPECT().ParseAccessToken(gomock.Any(), "stale.jwt").Return(models.Principal{}, service.ErrUnauthorized)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/session", nil)
	req.Header.Set("Authorization", "Bearer stale.jwt")
	rec := httptest.NewRecorder()
	h.Init().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, app.MsgAccessDenied, decodeEnvelope(t, rec).Message)
}

// ─────────────────────────────────────────────
// Rate limiting
// ─────────────────────────────────────────────

func TestInit_SignInIsRateLimited(t *testing.T) {
	h, m := newTestHandler(t)
	h.limiter = newIPRateLimiter(1, 2)
	m.auth.EXPECT().VerifyCredentials(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(models.PublicUser{}, service.ErrInvalidCredentials).Times(2)
	router := h.Init()

	codes := make([]int, 0, 3)
	for range 3 {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/signin", strings.NewReader(`{"username":"a","password":"b"}`))
		req.RemoteAddr = "203.0.113.7:5555"
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}

	require.Len(t, codes, 3)
	assert.Equal(t, []int{http.StatusUnauthorized, http.StatusUnauthorized, http.StatusTooManyRequests}, codes)
}
