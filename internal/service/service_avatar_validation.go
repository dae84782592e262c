package service

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-org-site/internal/validators"
	"github.com/MKhiriev/go-org-site/models"
)

type AvatarValidationService struct {
	AvatarService
	validator validators.Validator
}

func NewAvatarValidationService() AvatarServiceWrapper {
	return &AvatarValidationService{
		validator: validators.NewAvatarValidator(),
	}
}

func (v *AvatarValidationService) Wrap(inner AvatarService) AvatarService {
	v.AvatarService = inner
	return v
}

// UpdateAvatar validates custom uploads only; a nil upload regenerates the
// avatar and has nothing to check.
func (v *AvatarValidationService) UpdateAvatar(ctx context.Context, userID int64, upload *models.Upload) (models.PublicUser, error) {
	if upload != nil {
		if err := v.validator.Validate(ctx, upload); err != nil {
			return models.PublicUser{}, fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
		}
	}

	return v.AvatarService.UpdateAvatar(ctx, userID, upload)
}
