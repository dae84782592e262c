// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/errgroup"

	"github.com/MKhiriev/go-org-site/internal/config"
	"github.com/MKhiriev/go-org-site/internal/logger"
	"github.com/MKhiriev/go-org-site/internal/metrics"
	"github.com/MKhiriev/go-org-site/internal/store"
	"github.com/MKhiriev/go-org-site/internal/utils"
	"github.com/MKhiriev/go-org-site/models"
)

// dummyPassword is hashed once at construction so that sign-in for an
// unknown username still spends one bcrypt comparison.
const dummyPassword = "org-site-dummy-password"

// authService is the concrete implementation of AuthService.
//
// Passwords are stored as bcrypt hashes. Refresh tokens are stored as
// HMAC-SHA256 digests keyed by Auth.RefreshTokenHashKey, and a session is
// always looked up by (user id, digest), the user id coming from the verified
// refresh token claims.
type authService struct {
	userRepository    store.UserRepository
	sessionRepository store.SessionRepository

	// avatarService is optional; when nil sign-up skips avatar generation.
	avatarService AvatarService

	accessTokenSecret   string
	refreshTokenSecret  string
	refreshTokenHashKey string
	tokenIssuer         string
	accessTokenTTL      time.Duration
	refreshTokenTTL     time.Duration

	bcryptCost int
	dummyHash  []byte

	now    func() time.Time
	logger *logger.Logger
}

// NewAuthService builds the auth core from the Auth and App sections of the
// configuration. The returned service keeps no mutable state and is safe for
// concurrent use.
func NewAuthService(
	userRepository store.UserRepository,
	sessionRepository store.SessionRepository,
	avatarService AvatarService,
	authCfg config.Auth,
	appCfg config.App,
	logger *logger.Logger,
) (AuthService, error) {
	cost := appCfg.BcryptCost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}

	dummyHash, err := bcrypt.GenerateFromPassword([]byte(dummyPassword), cost)
	if err != nil {
		return nil, fmt.Errorf("error preparing password hasher: %w", err)
	}

	return &authService{
		userRepository:      userRepository,
		sessionRepository:   sessionRepository,
		avatarService:       avatarService,
		accessTokenSecret:   authCfg.AccessTokenSecret,
		refreshTokenSecret:  authCfg.RefreshTokenSecret,
		refreshTokenHashKey: authCfg.RefreshTokenHashKey,
		tokenIssuer:         authCfg.TokenIssuer,
		accessTokenTTL:      authCfg.AccessTokenTTL,
		refreshTokenTTL:     authCfg.RefreshTokenTTL,
		bcryptCost:          cost,
		dummyHash:           dummyHash,
		now:                 func() time.Time { return time.Now().UTC() },
		logger:              logger,
	}, nil
}

func (a *authService) VerifyCredentials(ctx context.Context, username, password string) (models.PublicUser, error) {
	log := logger.FromContext(ctx)

	user, err := a.userRepository.FindUserByUsername(ctx, username)
	if errors.Is(err, store.ErrNoUserWasFound) {
		_ = bcrypt.CompareHashAndPassword(a.dummyHash, []byte(password))
		log.Warn().Str("func", "authService.VerifyCredentials").Str("stage", "lookup").Msg("unknown username")
		metrics.AuthEvents.WithLabelValues("signin", "invalid_credentials").Inc()
		return models.PublicUser{}, ErrInvalidCredentials
	}
	if err != nil {
		log.Err(err).Str("func", "authService.VerifyCredentials").Msg("user search by username failed")
		return models.PublicUser{}, fmt.Errorf("user search by username failed: %w", err)
	}

	if err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		log.Warn().Str("func", "authService.VerifyCredentials").Str("stage", "password").Int64("user_id", user.UserID).Msg("wrong password")
		metrics.AuthEvents.WithLabelValues("signin", "invalid_credentials").Inc()
		return models.PublicUser{}, ErrInvalidCredentials
	}

	return user.Public(), nil
}

func (a *authService) SignUp(ctx context.Context, req models.SignUpRequest) (models.PublicUser, error) {
	log := logger.FromContext(ctx)

	_, err := a.userRepository.FindUserByUsername(ctx, req.Username)
	switch {
	case err == nil:
		log.Warn().Str("func", "authService.SignUp").Str("username", req.Username).Msg("username already exists")
		return models.PublicUser{}, ErrUsernameTaken
	case !errors.Is(err, store.ErrNoUserWasFound):
		log.Err(err).Str("func", "authService.SignUp").Msg("user search by username failed")
		return models.PublicUser{}, fmt.Errorf("user search by username failed: %w", err)
	}

	passwordHash, err := a.hashPassword(req.Password)
	if err != nil {
		log.Err(err).Str("func", "authService.SignUp").Msg("password hashing failed")
		return models.PublicUser{}, err
	}

	user, err := a.userRepository.CreateUser(ctx, models.User{
		Username:     req.Username,
		Name:         req.Name,
		Role:         models.RoleUser,
		PasswordHash: passwordHash,
	})
	if errors.Is(err, store.ErrUsernameAlreadyExists) {
		return models.PublicUser{}, ErrUsernameTaken
	}
	if err != nil {
		log.Err(err).Str("func", "authService.SignUp").Msg("user creation ended with error")
		return models.PublicUser{}, fmt.Errorf("user creation ended with error: %w", err)
	}
	metrics.AuthEvents.WithLabelValues("signup", "ok").Inc()

	if a.avatarService != nil {
		withAvatar, err := a.avatarService.GenerateAvatar(ctx, user.UserID)
		if err != nil {
			log.Err(err).Str("func", "authService.SignUp").Int64("user_id", user.UserID).Msg("avatar generation failed, user kept without avatar")
			return user.Public(), nil
		}
		return withAvatar, nil
	}

	return user.Public(), nil
}

// IssueTokenPair signs both tokens concurrently. It fails only when the
// signer is misconfigured.
func (a *authService) IssueTokenPair(ctx context.Context, principal models.Principal) (models.TokenPair, error) {
	var access, refresh models.Token

	g := new(errgroup.Group)
	g.Go(func() error {
		var err error
		access, err = utils.GenerateJWTToken(a.tokenIssuer, principal, models.AccessToken, a.accessTokenTTL, a.accessTokenSecret)
		return err
	})
	g.Go(func() error {
		var err error
		refresh, err = utils.GenerateJWTToken(a.tokenIssuer, principal, models.RefreshToken, a.refreshTokenTTL, a.refreshTokenSecret)
		return err
	})
	if err := g.Wait(); err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "authService.IssueTokenPair").Msg("token signing failed")
		return models.TokenPair{}, fmt.Errorf("%w: %w", ErrTokenCreationFailed, err)
	}

	return models.TokenPair{
		AccessToken:      access.String(),
		RefreshToken:     refresh.String(),
		AccessExpiresAt:  access.ExpiresAt,
		RefreshExpiresAt: refresh.ExpiresAt,
	}, nil
}

func (a *authService) SignIn(ctx context.Context, user models.PublicUser, client models.ClientInfo) (models.TokenPair, error) {
	log := logger.FromContext(ctx)

	pair, err := a.IssueTokenPair(ctx, user.Principal())
	if err != nil {
		return models.TokenPair{}, err
	}

	_, err = a.sessionRepository.CreateSession(ctx, models.Session{
		UserID:           user.UserID,
		RefreshTokenHash: a.hashRefreshToken(pair.RefreshToken),
		ExpiresAt:        a.now().Add(a.refreshTokenTTL),
		DeviceInfo:       optional(client.DeviceInfo),
		IPAddress:        optional(client.IPAddress),
	})
	if err != nil {
		log.Err(err).Str("func", "authService.SignIn").Int64("user_id", user.UserID).Msg("session creation failed")
		return models.TokenPair{}, fmt.Errorf("session creation failed: %w", err)
	}

	log.Info().Str("func", "authService.SignIn").Int64("user_id", user.UserID).Msg("user signed in")
	metrics.AuthEvents.WithLabelValues("signin", "ok").Inc()
	return pair, nil
}

func (a *authService) Refresh(ctx context.Context, refreshToken string) (models.TokenPair, error) {
	log := logger.FromContext(ctx)

	session, token, err := a.findSession(ctx, refreshToken)
	if err != nil {
		log.Warn().Err(err).Str("func", "authService.Refresh").Msg("refresh rejected")
		metrics.AuthEvents.WithLabelValues("refresh", "unauthorized").Inc()
		return models.TokenPair{}, ErrUnauthorized
	}

	now := a.now()
	if session.IsExpired(now) {
		if err = a.sessionRepository.DeleteSession(ctx, session.SessionID); err != nil {
			log.Err(err).Str("func", "authService.Refresh").Int64("session_id", session.SessionID).Msg("expired session removal failed")
		}
		log.Warn().Str("func", "authService.Refresh").Str("stage", "session_expiry").Int64("session_id", session.SessionID).Msg("session expired")
		metrics.AuthEvents.WithLabelValues("refresh", "expired").Inc()
		return models.TokenPair{}, ErrSessionExpired
	}

	user, err := a.userRepository.FindUserByID(ctx, token.UserID)
	if errors.Is(err, store.ErrNoUserWasFound) {
		log.Warn().Str("func", "authService.Refresh").Str("stage", "owner").Int64("user_id", token.UserID).Msg("session owner no longer exists")
		return models.TokenPair{}, ErrUnauthorized
	}
	if err != nil {
		return models.TokenPair{}, fmt.Errorf("user search by id failed: %w", err)
	}

	pair, err := a.IssueTokenPair(ctx, user.Principal())
	if err != nil {
		return models.TokenPair{}, err
	}

	err = a.sessionRepository.RotateSession(ctx, session.SessionID, session.RefreshTokenHash,
		a.hashRefreshToken(pair.RefreshToken), now.Add(a.refreshTokenTTL))
	if errors.Is(err, store.ErrSessionNotFound) {
		log.Warn().Str("func", "authService.Refresh").Str("stage", "rotation").Int64("session_id", session.SessionID).Msg("refresh token was already rotated")
		metrics.AuthEvents.WithLabelValues("refresh", "unauthorized").Inc()
		return models.TokenPair{}, ErrUnauthorized
	}
	if err != nil {
		log.Err(err).Str("func", "authService.Refresh").Int64("session_id", session.SessionID).Msg("session rotation failed")
		return models.TokenPair{}, fmt.Errorf("session rotation failed: %w", err)
	}

	metrics.AuthEvents.WithLabelValues("refresh", "ok").Inc()
	return pair, nil
}

func (a *authService) Logout(ctx context.Context, refreshToken string) error {
	log := logger.FromContext(ctx)

	token, err := utils.ValidateAndParseJWTToken(refreshToken, a.refreshTokenSecret, a.tokenIssuer)
	if err != nil {
		log.Warn().Err(err).Str("func", "authService.Logout").Str("stage", "token").Msg("logout with invalid refresh token")
		return ErrUnauthorized
	}

	session, err := a.sessionRepository.FindSession(ctx, token.UserID, a.hashRefreshToken(refreshToken))
	if errors.Is(err, store.ErrSessionNotFound) {
		log.Debug().Str("func", "authService.Logout").Int64("user_id", token.UserID).Msg("session already gone")
		return nil
	}
	if err != nil {
		return fmt.Errorf("session search failed: %w", err)
	}

	if err = a.sessionRepository.DeleteSession(ctx, session.SessionID); err != nil {
		return fmt.Errorf("session removal failed: %w", err)
	}

	metrics.AuthEvents.WithLabelValues("logout", "ok").Inc()
	return nil
}

func (a *authService) LogoutAll(ctx context.Context, userID int64) (int64, error) {
	revoked, err := a.sessionRepository.DeleteUserSessions(ctx, userID)
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "authService.LogoutAll").Int64("user_id", userID).Msg("sessions removal failed")
		return 0, fmt.Errorf("sessions removal failed: %w", err)
	}

	logger.FromContext(ctx).Info().Str("func", "authService.LogoutAll").Int64("user_id", userID).Int64("revoked", revoked).Msg("all sessions revoked")
	metrics.AuthEvents.WithLabelValues("logout_all", "ok").Inc()
	return revoked, nil
}

func (a *authService) CleanupExpiredSessions(ctx context.Context) (int64, error) {
	deleted, err := a.sessionRepository.DeleteExpiredSessions(ctx, a.now())
	if err != nil {
		return 0, fmt.Errorf("expired sessions cleanup failed: %w", err)
	}

	metrics.SessionsCleaned.Add(float64(deleted))
	return deleted, nil
}

func (a *authService) ParseAccessToken(ctx context.Context, accessToken string) (models.Principal, error) {
	token, err := utils.ValidateAndParseJWTToken(accessToken, a.accessTokenSecret, a.tokenIssuer)
	if err != nil {
		logger.FromContext(ctx).Debug().Err(err).Str("func", "authService.ParseAccessToken").Msg("invalid access token")
		return models.Principal{}, ErrUnauthorized
	}

	return token.Principal(), nil
}

// findSession verifies refreshToken and loads its session. Every failure is
// reported with the stage it happened at, for logging only.
func (a *authService) findSession(ctx context.Context, refreshToken string) (models.Session, models.Token, error) {
	token, err := utils.ValidateAndParseJWTToken(refreshToken, a.refreshTokenSecret, a.tokenIssuer)
	if err != nil {
		return models.Session{}, models.Token{}, fmt.Errorf("stage token: %w", err)
	}

	session, err := a.sessionRepository.FindSession(ctx, token.UserID, a.hashRefreshToken(refreshToken))
	if err != nil {
		return models.Session{}, models.Token{}, fmt.Errorf("stage lookup: %w", err)
	}
	if session.UserID != token.UserID {
		return models.Session{}, models.Token{}, errors.New("stage owner: session belongs to another user")
	}

	return session, token, nil
}

func (a *authService) hashRefreshToken(refreshToken string) string {
	return utils.HashString(refreshToken, a.refreshTokenHashKey)
}

func (a *authService) hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), a.bcryptCost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", fmt.Errorf("%w: password is longer than 72 bytes", ErrInvalidDataProvided)
	}
	if err != nil {
		return "", fmt.Errorf("password hashing failed: %w", err)
	}
	return string(hash), nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
