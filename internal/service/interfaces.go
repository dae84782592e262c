//go:generate mockgen -source=interfaces.go -destination=../mock/service_mock.go -package=mock

package service

import (
	"context"
	"io"

	"github.com/MKhiriev/go-org-site/internal/config"
	"github.com/MKhiriev/go-org-site/models"
)

// AuthService is the session-backed authentication core.
type AuthService interface {
	// VerifyCredentials checks username and password and returns the public
	// projection of the user. Any mismatch yields ErrInvalidCredentials.
	VerifyCredentials(ctx context.Context, username, password string) (models.PublicUser, error)
	SignUp(ctx context.Context, req models.SignUpRequest) (models.PublicUser, error)
	// IssueTokenPair signs an access and a refresh token for principal.
	IssueTokenPair(ctx context.Context, principal models.Principal) (models.TokenPair, error)
	// SignIn trusts an already verified user, mints a pair and opens a session.
	SignIn(ctx context.Context, user models.PublicUser, client models.ClientInfo) (models.TokenPair, error)
	// Refresh rotates the session bound to refreshToken. The presented token
	// stops working as soon as Refresh returns.
	Refresh(ctx context.Context, refreshToken string) (models.TokenPair, error)
	// Logout ends the session of refreshToken. A session that is already gone
	// is not an error.
	Logout(ctx context.Context, refreshToken string) error
	LogoutAll(ctx context.Context, userID int64) (int64, error)
	CleanupExpiredSessions(ctx context.Context) (int64, error)
	ParseAccessToken(ctx context.Context, accessToken string) (models.Principal, error)
}

// UserService covers the admin user management endpoints and the seeder.
type UserService interface {
	ListUsers(ctx context.Context) ([]models.PublicUser, error)
	UpdateUser(ctx context.Context, req models.UpdateUserRequest) (models.PublicUser, error)
	DeleteUser(ctx context.Context, userID int64) error
	ListSessions(ctx context.Context, userID int64) ([]models.Session, error)
	// EnsureAdmin creates the seed administrator unless the username exists.
	// The boolean reports whether an account was created.
	EnsureAdmin(ctx context.Context, seed config.Seed) (models.PublicUser, bool, error)
}

// AvatarService manages user avatars and the sweep of retired blobs.
type AvatarService interface {
	// GenerateAvatar stores a Gravatar image as the user's avatar.
	GenerateAvatar(ctx context.Context, userID int64) (models.PublicUser, error)
	// UpdateAvatar stores upload as the new avatar, or regenerates one from
	// Gravatar when upload is nil.
	UpdateAvatar(ctx context.Context, userID int64, upload *models.Upload) (models.PublicUser, error)
	DeleteAvatar(ctx context.Context, userID int64) (models.PublicUser, error)
	CleanupDeletedAvatars(ctx context.Context) (models.AvatarCleanupResult, error)
}

// AvatarSource produces a default avatar image for a user.
type AvatarSource interface {
	Fetch(ctx context.Context, userID int64) (body io.Reader, contentType string, err error)
}

type AppInfoService interface {
	GetAppVersion(ctx context.Context) models.AppVersion
}

// HealthService reports whether the backing stores are reachable.
type HealthService interface {
	Check(ctx context.Context) error
}
