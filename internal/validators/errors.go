package validators

import "errors"

var (
	ErrUnsupportedType = errors.New("unsupported type for validation")
	ErrUnknownField    = errors.New("unknown field for validation")

	ErrInvalidUserID      = errors.New("invalid user ID")
	ErrEmptyUsername      = errors.New("username should not be empty")
	ErrInvalidUsername    = errors.New("username must not contain whitespace")
	ErrInvalidEmail       = errors.New("username is not a valid email address")
	ErrEmptyPassword      = errors.New("password should not be empty")
	ErrPasswordTooShort   = errors.New("password is too short")
	ErrEmptyName          = errors.New("name should not be empty")
	ErrInvalidRole        = errors.New("invalid role")
	ErrNoFieldsToUpdate   = errors.New("at least one field must be provided for update")
	ErrEmptyRefreshToken  = errors.New("refresh token should not be empty")
	ErrUnsupportedAvatar  = errors.New("unsupported avatar content type")
	ErrEmptyAvatarPayload = errors.New("avatar file is empty")
)
