package http

import (
	"time"

	"github.com/MKhiriev/go-org-site/internal/config"
	"github.com/MKhiriev/go-org-site/internal/logger"
	"github.com/MKhiriev/go-org-site/internal/service"
)

const (
	defaultRateLimitRPS   = 5
	defaultRateLimitBurst = 10
	maxAvatarUploadSize   = 5 << 20
)

type Handler struct {
	services *service.Services

	// cookies describes how auth cookies are written and cleared.
	cookies cookieSettings

	// limiter throttles the public auth endpoints per client IP.
	limiter *ipRateLimiter

	requestTimeout time.Duration

	logger *logger.Logger
}

func NewHandler(services *service.Services, authCfg config.Auth, serverCfg config.Server, logger *logger.Logger) *Handler {
	rps, burst := serverCfg.RateLimitRPS, serverCfg.RateLimitBurst
	if rps <= 0 {
		rps = defaultRateLimitRPS
	}
	if burst <= 0 {
		burst = defaultRateLimitBurst
	}

	logger.Info().Msg("http handler created")
	return &Handler{
		services: services,
		cookies: cookieSettings{
			secure:     !authCfg.InsecureCookies,
			accessTTL:  authCfg.AccessTokenTTL,
			refreshTTL: authCfg.RefreshTokenTTL,
		},
		limiter:        newIPRateLimiter(rps, burst),
		requestTimeout: serverCfg.RequestTimeout,
		logger:         logger,
	}
}
