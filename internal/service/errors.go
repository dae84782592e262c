// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import "errors"

var (
	// ErrInvalidCredentials covers both an unknown username and a wrong
	// password so callers cannot tell the two apart.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUsernameTaken      = errors.New("username already exists")

	// ErrUnauthorized is returned for any token or session failure: bad
	// signature, expired token, unknown or already rotated session.
	ErrUnauthorized = errors.New("access denied")
	// ErrSessionExpired is reported when the session row itself outlived its
	// expiry. It is answered exactly like ErrUnauthorized.
	ErrSessionExpired = errors.New("session expired")

	ErrUserNotFound        = errors.New("user not found")
	ErrInvalidDataProvided = errors.New("invalid data provided")

	ErrTokenCreationFailed   = errors.New("token creation failed")
	ErrVersionIsNotSpecified = errors.New("app version is not specified")
	ErrAvatarDownloadFailed  = errors.New("avatar download failed")
)
