package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/MKhiriev/go-org-site/internal/validators"
	"github.com/MKhiriev/go-org-site/models"
)

// AuthValidationService rejects malformed credentials and empty tokens before
// they reach the wrapped AuthService. Sign-in failures are reported as
// ErrInvalidCredentials so that a malformed request looks like a wrong
// password.
type AuthValidationService struct {
	AuthService
	validator validators.Validator
}

func NewAuthValidationService() AuthServiceWrapper {
	return &AuthValidationService{
		validator: validators.NewUserValidator(),
	}
}

func (v *AuthValidationService) Wrap(inner AuthService) AuthService {
	v.AuthService = inner
	return v
}

// VerifyCredentials normalizes the username the same way SignUp does.
func (v *AuthValidationService) VerifyCredentials(ctx context.Context, username, password string) (models.PublicUser, error) {
	username = strings.TrimSpace(username)

	if err := v.validator.Validate(ctx, models.SignInRequest{Username: username, Password: password}); err != nil {
		return models.PublicUser{}, ErrInvalidCredentials
	}

	return v.AuthService.VerifyCredentials(ctx, username, password)
}

func (v *AuthValidationService) SignUp(ctx context.Context, req models.SignUpRequest) (models.PublicUser, error) {
	req.Username = strings.TrimSpace(req.Username)
	req.Name = strings.TrimSpace(req.Name)

	if err := v.validator.Validate(ctx, req); err != nil {
		return models.PublicUser{}, fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}

	return v.AuthService.SignUp(ctx, req)
}

func (v *AuthValidationService) Refresh(ctx context.Context, refreshToken string) (models.TokenPair, error) {
	if refreshToken == "" {
		return models.TokenPair{}, ErrUnauthorized
	}

	return v.AuthService.Refresh(ctx, refreshToken)
}

func (v *AuthValidationService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return ErrUnauthorized
	}

	return v.AuthService.Logout(ctx, refreshToken)
}

func (v *AuthValidationService) LogoutAll(ctx context.Context, userID int64) (int64, error) {
	if userID <= 0 {
		return 0, ErrUnauthorized
	}

	return v.AuthService.LogoutAll(ctx, userID)
}
