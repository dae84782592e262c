package store

import (
	"database/sql"
	"time"

	"github.com/MKhiriev/go-org-site/models"
)

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func nullableString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

func scanUser(row rowScanner) (models.User, error) {
	var (
		user  models.User
		role  string
		image sql.NullString
	)
	err := row.Scan(&user.UserID, &user.Username, &user.Name, &role, &user.PasswordHash, &image, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return models.User{}, err
	}
	user.Role = models.Role(role)
	user.Image = nullableString(image)
	return user, nil
}

func scanSession(row rowScanner) (models.Session, error) {
	var (
		session    models.Session
		deviceInfo sql.NullString
		ipAddress  sql.NullString
	)
	err := row.Scan(&session.SessionID, &session.UserID, &session.RefreshTokenHash, &session.ExpiresAt,
		&deviceInfo, &ipAddress, &session.CreatedAt, &session.UpdatedAt)
	if err != nil {
		return models.Session{}, err
	}
	session.DeviceInfo = nullableString(deviceInfo)
	session.IPAddress = nullableString(ipAddress)
	return session, nil
}

func scanAvatar(row rowScanner) (models.Avatar, error) {
	var (
		avatar    models.Avatar
		userID    sql.NullInt64
		state     string
		deletedAt sql.NullTime
	)
	err := row.Scan(&avatar.AvatarID, &userID, &avatar.Key, &avatar.URL, &state, &avatar.CreatedAt, &deletedAt)
	if err != nil {
		return models.Avatar{}, err
	}
	if userID.Valid {
		id := userID.Int64
		avatar.UserID = &id
	}
	if deletedAt.Valid {
		t := deletedAt.Time
		avatar.DeletedAt = &t
	}
	avatar.State = models.AvatarState(state)
	return avatar, nil
}

func utcNow() time.Time {
	return time.Now().UTC()
}
