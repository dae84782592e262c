//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock

package store

import (
	"context"
	"time"

	"github.com/MKhiriev/go-org-site/models"
)

// UserRepository persists user accounts.
type UserRepository interface {
	// CreateUser inserts user and returns it with the generated id and
	// timestamps. A username collision yields [ErrUsernameAlreadyExists].
	CreateUser(ctx context.Context, user models.User) (models.User, error)
	FindUserByUsername(ctx context.Context, username string) (models.User, error)
	FindUserByID(ctx context.Context, userID int64) (models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	// UpdateUser applies the non-nil fields of patch and returns the stored row.
	UpdateUser(ctx context.Context, userID int64, patch models.UserPatch) (models.User, error)
	// DeleteUser removes the user. Its sessions go with it and its avatars are
	// marked DELETED in the same transaction.
	DeleteUser(ctx context.Context, userID int64) error
}

// SessionRepository persists refresh-token sessions. Only HMAC hashes of
// refresh tokens are ever stored.
type SessionRepository interface {
	CreateSession(ctx context.Context, session models.Session) (models.Session, error)
	// FindSession looks a session up by owner and refresh token hash.
	FindSession(ctx context.Context, userID int64, refreshTokenHash string) (models.Session, error)
	// RotateSession swaps oldHash for newHash and extends the expiry. It
	// succeeds only while the stored hash still equals oldHash, otherwise
	// [ErrSessionNotFound] is returned.
	RotateSession(ctx context.Context, sessionID int64, oldHash, newHash string, expiresAt time.Time) error
	// DeleteSession removes a session. Missing sessions are not an error.
	DeleteSession(ctx context.Context, sessionID int64) error
	DeleteUserSessions(ctx context.Context, userID int64) (int64, error)
	DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error)
	// ListUserSessions returns the user's sessions, newest first.
	ListUserSessions(ctx context.Context, userID int64) ([]models.Session, error)
}

// AvatarRepository tracks uploaded avatar blobs and the user image that
// points at them.
type AvatarRepository interface {
	// ReplaceUserAvatar marks the user's active avatars DELETED, records
	// avatar as the active one and points users.image at its URL.
	ReplaceUserAvatar(ctx context.Context, userID int64, avatar models.Avatar) (models.User, error)
	// RemoveUserAvatar marks the user's active avatars DELETED and clears
	// users.image.
	RemoveUserAvatar(ctx context.Context, userID int64) (models.User, error)
	ListDeletedAvatars(ctx context.Context, limit uint64) ([]models.Avatar, error)
	// PurgeAvatar removes a DELETED avatar row once its blob is gone.
	PurgeAvatar(ctx context.Context, avatarID int64) error
}
