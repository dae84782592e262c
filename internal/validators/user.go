package validators

import (
	"context"
	"net/mail"
	"strings"
	"unicode"

	"github.com/MKhiriev/go-org-site/models"
)

// Field names accepted by [UserValidator.Validate] for scoped validation.
const (
	FieldUserID   = "user_id"
	FieldUsername = "username"
	FieldPassword = "password"
	FieldName     = "name"
	FieldRole     = "role"
	FieldPatch    = "patch"
)

// PasswordMinLength applies to new accounts and password changes. Sign-in
// only requires a non-empty password, so every password accepted here can
// later be used to sign in.
const PasswordMinLength = 6

// UserValidator validates sign-up, sign-in and admin update payloads.
type UserValidator struct{}

func NewUserValidator() Validator {
	return &UserValidator{}
}

func (v *UserValidator) Validate(ctx context.Context, value any, fields ...string) error {
	switch value := value.(type) {
	case models.SignUpRequest:
		return v.validateSignUp(ctx, value, fields...)
	case *models.SignUpRequest:
		return v.validateSignUp(ctx, *value, fields...)

	case models.SignInRequest:
		return v.validateSignIn(ctx, value, fields...)
	case *models.SignInRequest:
		return v.validateSignIn(ctx, *value, fields...)

	case models.UpdateUserRequest:
		return v.validateUpdate(ctx, value, fields...)
	case *models.UpdateUserRequest:
		return v.validateUpdate(ctx, *value, fields...)

	default:
		return ErrUnsupportedType
	}
}

func (v *UserValidator) validateSignUp(_ context.Context, req models.SignUpRequest, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldUsername, FieldPassword, FieldName}
	}

	for _, f := range fields {
		switch f {
		case FieldUsername:
			if err := validateUsername(req.Username); err != nil {
				return err
			}
		case FieldPassword:
			if err := validatePassword(req.Password, PasswordMinLength); err != nil {
				return err
			}
		case FieldName:
			if strings.TrimSpace(req.Name) == "" {
				return ErrEmptyName
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func (v *UserValidator) validateSignIn(_ context.Context, req models.SignInRequest, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldUsername, FieldPassword}
	}

	for _, f := range fields {
		switch f {
		case FieldUsername:
			if strings.TrimSpace(req.Username) == "" {
				return ErrEmptyUsername
			}
		case FieldPassword:
			if req.Password == "" {
				return ErrEmptyPassword
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

// validateUpdate checks only the fields present in the request; absent
// fields are left untouched by the update.
func (v *UserValidator) validateUpdate(_ context.Context, req models.UpdateUserRequest, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldUserID, FieldPatch, FieldUsername, FieldPassword, FieldName, FieldRole}
	}

	for _, f := range fields {
		switch f {
		case FieldUserID:
			if req.UserID <= 0 {
				return ErrInvalidUserID
			}
		case FieldPatch:
			if req.Name == nil && req.Username == nil && req.Password == nil && req.Role == nil {
				return ErrNoFieldsToUpdate
			}
		case FieldUsername:
			if req.Username != nil {
				if err := validateUsername(*req.Username); err != nil {
					return err
				}
			}
		case FieldPassword:
			if req.Password != nil {
				if err := validatePassword(*req.Password, PasswordMinLength); err != nil {
					return err
				}
			}
		case FieldName:
			if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
				return ErrEmptyName
			}
		case FieldRole:
			if req.Role != nil && !req.Role.Valid() {
				return ErrInvalidRole
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

// validateUsername accepts plain logins such as "alice" as well as email
// addresses. A username containing '@' must be a bare address.
func validateUsername(s string) error {
	if strings.TrimSpace(s) == "" {
		return ErrEmptyUsername
	}
	if strings.ContainsFunc(s, unicode.IsSpace) {
		return ErrInvalidUsername
	}
	if !strings.Contains(s, "@") {
		return nil
	}
	addr, err := mail.ParseAddress(s)
	// reject display-name forms such as "Alice<a@x.io>"
	if err != nil || addr.Address != s {
		return ErrInvalidEmail
	}
	return nil
}

func validatePassword(password string, minLength int) error {
	if password == "" {
		return ErrEmptyPassword
	}
	if len([]rune(password)) < minLength {
		return ErrPasswordTooShort
	}
	return nil
}
