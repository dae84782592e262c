// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Defaults used for every field left empty after all sources were merged.
const (
	DefaultHTTPAddress            = "localhost:8080"
	DefaultRequestTimeout         = 30 * time.Second
	DefaultTokenIssuer            = "go-org-site"
	DefaultAccessTokenTTL         = 15 * time.Minute
	DefaultRefreshTokenTTL        = 7 * 24 * time.Hour
	DefaultBcryptCost             = 10
	DefaultDriver                 = DriverPostgres
	DefaultBlobDir                = "./data/blobs"
	DefaultPublicBaseURL          = "/static"
	DefaultRateLimitRPS           = 5
	DefaultRateLimitBurst         = 5
	DefaultSessionCleanupInterval = 24 * time.Hour
	DefaultAvatarCleanupInterval  = 24 * time.Hour
	DefaultAdminName              = "Administrator"
)

// Supported database/sql drivers.
const (
	DriverPostgres = "pgx"
	DriverSQLite   = "sqlite3"
)

func (cfg *StructuredConfig) applyDefaults() {
	setDefault(&cfg.Server.HTTPAddress, DefaultHTTPAddress)
	setDefault(&cfg.Server.RequestTimeout, DefaultRequestTimeout)
	setDefault(&cfg.Server.RateLimitRPS, DefaultRateLimitRPS)
	setDefault(&cfg.Server.RateLimitBurst, DefaultRateLimitBurst)

	setDefault(&cfg.Auth.TokenIssuer, DefaultTokenIssuer)
	setDefault(&cfg.Auth.AccessTokenTTL, DefaultAccessTokenTTL)
	setDefault(&cfg.Auth.RefreshTokenTTL, DefaultRefreshTokenTTL)

	setDefault(&cfg.App.BcryptCost, DefaultBcryptCost)

	setDefault(&cfg.Storage.DB.Driver, DefaultDriver)
	setDefault(&cfg.Storage.Files.BlobDir, DefaultBlobDir)
	setDefault(&cfg.Storage.Files.PublicBaseURL, DefaultPublicBaseURL)

	setDefault(&cfg.Workers.SessionCleanupInterval, DefaultSessionCleanupInterval)
	setDefault(&cfg.Workers.AvatarCleanupInterval, DefaultAvatarCleanupInterval)

	setDefault(&cfg.Seed.AdminName, DefaultAdminName)
}

func setDefault[T comparable](field *T, value T) {
	var zero T
	if *field == zero {
		*field = value
	}
}

// validate checks that the final merged [StructuredConfig] satisfies all
// application invariants before it is used at startup.
func (cfg *StructuredConfig) validate() error {
	auth := cfg.Auth
	if auth.AccessTokenSecret == "" || auth.RefreshTokenSecret == "" || auth.RefreshTokenHashKey == "" {
		return ErrMissingTokenSecrets
	}
	if auth.AccessTokenSecret == auth.RefreshTokenSecret {
		return ErrSameTokenSecrets
	}
	if auth.AccessTokenTTL <= 0 || auth.RefreshTokenTTL <= 0 {
		return ErrInvalidTokenTTL
	}

	if cfg.App.BcryptCost < bcrypt.MinCost || cfg.App.BcryptCost > bcrypt.MaxCost {
		return fmt.Errorf("%w: %d", ErrInvalidBcryptCost, cfg.App.BcryptCost)
	}

	if cfg.Storage.DB.DSN == "" {
		return fmt.Errorf("%w: empty DSN", ErrInvalidStorageConfigs)
	}
	if cfg.Storage.DB.Driver != DriverPostgres && cfg.Storage.DB.Driver != DriverSQLite {
		return fmt.Errorf("%w: unknown driver %q", ErrInvalidStorageConfigs, cfg.Storage.DB.Driver)
	}

	if cfg.Workers.SessionCleanupInterval < 0 || cfg.Workers.AvatarCleanupInterval < 0 {
		return ErrInvalidWorkerConfigs
	}

	if cfg.Seed.AdminUsername != "" && cfg.Seed.AdminPassword == "" {
		return ErrInvalidSeedConfigs
	}

	return nil
}
