// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package validators

import (
	"context"

	"github.com/MKhiriev/go-org-site/models"
)

// AllowedAvatarTypes maps accepted image content types to file extensions.
var AllowedAvatarTypes = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// AvatarValidator checks uploaded avatar files.
type AvatarValidator struct{}

func NewAvatarValidator() Validator {
	return &AvatarValidator{}
}

func (v *AvatarValidator) Validate(_ context.Context, value any, _ ...string) error {
	var upload models.Upload
	switch value := value.(type) {
	case models.Upload:
		upload = value
	case *models.Upload:
		upload = *value
	default:
		return ErrUnsupportedType
	}

	if upload.Body == nil || upload.Size == 0 {
		return ErrEmptyAvatarPayload
	}
	if _, ok := AllowedAvatarTypes[upload.ContentType]; !ok {
		return ErrUnsupportedAvatar
	}
	return nil
}
