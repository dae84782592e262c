package service

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-org-site/internal/config"
	"github.com/MKhiriev/go-org-site/internal/validators"
	"github.com/MKhiriev/go-org-site/models"
)

type UserValidationService struct {
	inner     UserService
	validator validators.Validator
}

func NewUserValidationService() UserServiceWrapper {
	return &UserValidationService{
		validator: validators.NewUserValidator(),
	}
}

func (v *UserValidationService) Wrap(inner UserService) UserService {
	v.inner = inner
	return v
}

func (v *UserValidationService) ListUsers(ctx context.Context) ([]models.PublicUser, error) {
	return v.inner.ListUsers(ctx)
}

func (v *UserValidationService) UpdateUser(ctx context.Context, req models.UpdateUserRequest) (models.PublicUser, error) {
	if err := v.validator.Validate(ctx, req); err != nil {
		return models.PublicUser{}, fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}

	return v.inner.UpdateUser(ctx, req)
}

func (v *UserValidationService) DeleteUser(ctx context.Context, userID int64) error {
	if userID <= 0 {
		return fmt.Errorf("%w: %w", ErrInvalidDataProvided, validators.ErrInvalidUserID)
	}

	return v.inner.DeleteUser(ctx, userID)
}

func (v *UserValidationService) ListSessions(ctx context.Context, userID int64) ([]models.Session, error) {
	if userID <= 0 {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDataProvided, validators.ErrInvalidUserID)
	}

	return v.inner.ListSessions(ctx, userID)
}

// EnsureAdmin checks the seed account against the sign-up rules.
func (v *UserValidationService) EnsureAdmin(ctx context.Context, seed config.Seed) (models.PublicUser, bool, error) {
	req := models.SignUpRequest{Name: seed.AdminName, Username: seed.AdminUsername, Password: seed.AdminPassword}
	if err := v.validator.Validate(ctx, req, validators.FieldUsername, validators.FieldPassword); err != nil {
		return models.PublicUser{}, false, fmt.Errorf("%w: seed admin: %w", ErrInvalidDataProvided, err)
	}

	return v.inner.EnsureAdmin(ctx, seed)
}
