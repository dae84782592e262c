package config

import "errors"

// Validation errors returned by [StructuredConfig.validate] when required
// configuration groups are incomplete or invalid.
var (
	// ErrMissingTokenSecrets indicates that one of the token signing secrets
	// or the refresh token hash key is empty.
	ErrMissingTokenSecrets = errors.New("access token secret, refresh token secret and refresh token hash key are required")
	// ErrSameTokenSecrets indicates that access and refresh tokens would be
	// signed with the same secret.
	ErrSameTokenSecrets = errors.New("access and refresh token secrets must differ")
	// ErrInvalidTokenTTL indicates a non-positive token lifetime.
	ErrInvalidTokenTTL = errors.New("token lifetimes must be positive")
	// ErrInvalidBcryptCost indicates a bcrypt cost outside the supported range.
	ErrInvalidBcryptCost = errors.New("invalid bcrypt cost")
	// ErrInvalidStorageConfigs indicates invalid storage settings
	// (for example, empty DSN or unknown driver).
	ErrInvalidStorageConfigs = errors.New("invalid storage configuration")
	// ErrInvalidWorkerConfigs indicates invalid background worker settings.
	ErrInvalidWorkerConfigs = errors.New("invalid worker configuration")
	// ErrInvalidSeedConfigs indicates that an admin username was given
	// without a password.
	ErrInvalidSeedConfigs = errors.New("invalid seed configuration")
)
