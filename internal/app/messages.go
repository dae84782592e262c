// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package app holds the human-readable messages written into the JSON
// envelope of HTTP responses, so that handlers and middleware word the same
// outcome the same way.
package app

const (
	MsgSuccess = "Success"

	// MsgInvalidCredentials is the only message a failed sign-in ever gets,
	// whatever the reason.
	MsgInvalidCredentials = "Invalid credentials"

	// MsgAccessDenied answers every other 401: missing, malformed, expired or
	// revoked tokens and sessions.
	MsgAccessDenied = "Access Denied"

	MsgUserCreated     = "User created successfully"
	MsgUserUpdated     = "User updated successfully"
	MsgUserDeleted     = "User deleted successfully"
	MsgSignedIn        = "Signed in successfully"
	MsgSignedOut       = "Signed out successfully"
	MsgSignedOutAll    = "Signed out from all devices"
	MsgTokensRefreshed = "Tokens refreshed successfully"
	MsgAvatarUpdated   = "Avatar updated successfully"
	MsgAvatarDeleted   = "Avatar deleted successfully"
	MsgHealthy         = "ok"
	MsgUnhealthy       = "unhealthy"
)
