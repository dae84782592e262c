// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// Session is one issued refresh token. The token itself is never stored;
// only its keyed hash is.
type Session struct {
	SessionID int64 `json:"id"`
	UserID    int64 `json:"user_id"`

	// RefreshTokenHash is the hex HMAC-SHA256 of the refresh token.
	RefreshTokenHash string `json:"-"`

	ExpiresAt  time.Time `json:"expires_at"`
	DeviceInfo *string   `json:"device_info,omitempty"`
	IPAddress  *string   `json:"ip_address,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// TableName returns the name of the database table
// associated with the Session model.
func (s Session) TableName() string {
	return "sessions"
}

// IsExpired reports whether the session is no longer usable at now.
func (s Session) IsExpired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// ClientInfo is the request metadata recorded on a new session.
type ClientInfo struct {
	DeviceInfo string
	IPAddress  string
}
