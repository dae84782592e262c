package validators

import (
	"context"
	"testing"

	"github.com/MKhiriev/go-org-site/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func rolePtr(r models.Role) *models.Role { return &r }

func TestUserValidator_UnsupportedType(t *testing.T) {
	v := NewUserValidator()
	assert.ErrorIs(t, v.Validate(context.Background(), 42), ErrUnsupportedType)
}

func TestUserValidator_SignUp(t *testing.T) {
	v := NewUserValidator()
	ctx := context.Background()

	tests := []struct {
		name string
		req  models.SignUpRequest
		want error
	}{
		{"valid", models.SignUpRequest{Name: "Alice", Username: "alice@x.io", Password: "Secret123"}, nil},
		{"empty username", models.SignUpRequest{Name: "Alice", Password: "Secret123"}, ErrEmptyUsername},
		{"plain login", models.SignUpRequest{Name: "Alice", Username: "alice", Password: "Secret123"}, nil},
		{"login with whitespace", models.SignUpRequest{Name: "Alice", Username: "alice smith", Password: "Secret123"}, ErrInvalidUsername},
		{"display name form", models.SignUpRequest{Name: "Alice", Username: "Alice <alice@x.io>", Password: "Secret123"}, ErrInvalidUsername},
		{"angle address", models.SignUpRequest{Name: "Alice", Username: "<alice@x.io>", Password: "Secret123"}, ErrInvalidEmail},
		{"broken email", models.SignUpRequest{Name: "Alice", Username: "alice@", Password: "Secret123"}, ErrInvalidEmail},
		{"empty password", models.SignUpRequest{Name: "Alice", Username: "alice@x.io"}, ErrEmptyPassword},
		{"short password", models.SignUpRequest{Name: "Alice", Username: "alice@x.io", Password: "12345"}, ErrPasswordTooShort},
		{"six chars is enough", models.SignUpRequest{Name: "Alice", Username: "alice@x.io", Password: "123456"}, nil},
		{"blank name", models.SignUpRequest{Name: "  ", Username: "alice@x.io", Password: "Secret123"}, ErrEmptyName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(ctx, tt.req)
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestUserValidator_SignUpPointerAndScoped(t *testing.T) {
	v := NewUserValidator()
	req := &models.SignUpRequest{Username: "alice"}

	assert.NoError(t, v.Validate(context.Background(), req, FieldUsername))
	assert.ErrorIs(t, v.Validate(context.Background(), req, FieldPassword), ErrEmptyPassword)
	assert.ErrorIs(t, v.Validate(context.Background(), req, "bogus"), ErrUnknownField)
}

func TestUserValidator_SignIn(t *testing.T) {
	v := NewUserValidator()
	ctx := context.Background()

	assert.NoError(t, v.Validate(ctx, models.SignInRequest{Username: "admin", Password: "Admin@12345"}))
	assert.ErrorIs(t, v.Validate(ctx, models.SignInRequest{Password: "Admin@12345"}), ErrEmptyUsername)
	assert.ErrorIs(t, v.Validate(ctx, &models.SignInRequest{Username: "admin"}), ErrEmptyPassword)
}

func TestUserValidator_SignUpPasswordIsAcceptedAtSignIn(t *testing.T) {
	v := NewUserValidator()
	ctx := context.Background()

	shortest := "abc123"
	require.Len(t, shortest, PasswordMinLength)

	assert.NoError(t, v.Validate(ctx, models.SignUpRequest{Name: "Carol", Username: "carol@example.com", Password: shortest}))
	assert.NoError(t, v.Validate(ctx, models.SignInRequest{Username: "carol@example.com", Password: shortest}))
}

func TestUserValidator_Update(t *testing.T) {
	v := NewUserValidator()
	ctx := context.Background()

	tests := []struct {
		name string
		req  models.UpdateUserRequest
		want error
	}{
		{"valid name change", models.UpdateUserRequest{UserID: 1, Name: strPtr("Bob")}, nil},
		{"valid role change", models.UpdateUserRequest{UserID: 1, Role: rolePtr(models.RoleAdmin)}, nil},
		{"missing user id", models.UpdateUserRequest{Name: strPtr("Bob")}, ErrInvalidUserID},
		{"nothing to update", models.UpdateUserRequest{UserID: 1}, ErrNoFieldsToUpdate},
		{"plain login", models.UpdateUserRequest{UserID: 1, Username: strPtr("bob")}, nil},
		{"bad email", models.UpdateUserRequest{UserID: 1, Username: strPtr("bob@")}, ErrInvalidEmail},
		{"short password", models.UpdateUserRequest{UserID: 1, Password: strPtr("123")}, ErrPasswordTooShort},
		{"blank name", models.UpdateUserRequest{UserID: 1, Name: strPtr("")}, ErrEmptyName},
		{"unknown role", models.UpdateUserRequest{UserID: 1, Role: rolePtr("ROOT")}, ErrInvalidRole},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(ctx, tt.req)
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}
