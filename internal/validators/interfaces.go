// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package validators checks inbound payloads (sign-up, sign-in, admin user
// updates, avatar uploads) before they reach the services.
//
// A Validator may be asked to check only some fields of a value; with no
// field names it applies the full rule set for that type.
package validators

import "context"

// Validator validates an arbitrary value, optionally restricted to the
// named fields.
type Validator interface {
	Validate(ctx context.Context, value any, fields ...string) error
}
