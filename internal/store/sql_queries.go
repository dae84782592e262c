package store

import (
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/MKhiriev/go-org-site/internal/config"
	"github.com/MKhiriev/go-org-site/models"
)

var (
	userColumns = []string{
		"user_id", "username", "name", "role", "password_hash", "image", "created_at", "updated_at",
	}
	sessionColumns = []string{
		"session_id", "user_id", "refresh_token_hash", "expires_at", "device_info", "ip_address", "created_at", "updated_at",
	}
	avatarColumns = []string{
		"avatar_id", "user_id", "blob_key", "url", "state", "created_at", "deleted_at",
	}
)

// queries builds dialect-aware SQL. Both dialects understand RETURNING, so
// only the placeholder style differs.
type queries struct {
	sb sq.StatementBuilderType
}

func newQueries(dialect string) *queries {
	var placeholder sq.PlaceholderFormat = sq.Dollar
	if dialect == config.DriverSQLite {
		placeholder = sq.Question
	}
	return &queries{sb: sq.StatementBuilder.PlaceholderFormat(placeholder)}
}

func returning(columns []string) string {
	return "RETURNING " + strings.Join(columns, ", ")
}

// users

func (q *queries) buildInsertUserQuery(user models.User, now time.Time) (string, []any, error) {
	return q.sb.Insert(user.TableName()).
		Columns("username", "name", "role", "password_hash", "image", "created_at", "updated_at").
		Values(user.Username, user.Name, string(user.Role), user.PasswordHash, user.Image, now, now).
		Suffix(returning(userColumns)).
		ToSql()
}

func (q *queries) buildSelectUserQuery(where sq.Eq) (string, []any, error) {
	return q.sb.Select(userColumns...).
		From(models.User{}.TableName()).
		Where(where).
		ToSql()
}

func (q *queries) buildListUsersQuery() (string, []any, error) {
	return q.sb.Select(userColumns...).
		From(models.User{}.TableName()).
		OrderBy("user_id").
		ToSql()
}

func (q *queries) buildUpdateUserQuery(userID int64, patch models.UserPatch, now time.Time) (string, []any, error) {
	update := q.sb.Update(models.User{}.TableName()).
		Set("updated_at", now).
		Where(sq.Eq{"user_id": userID}).
		Suffix(returning(userColumns))

	if patch.Name != nil {
		update = update.Set("name", *patch.Name)
	}
	if patch.Username != nil {
		update = update.Set("username", *patch.Username)
	}
	if patch.PasswordHash != nil {
		update = update.Set("password_hash", *patch.PasswordHash)
	}
	if patch.Role != nil {
		update = update.Set("role", string(*patch.Role))
	}
	switch {
	case patch.ClearImage:
		update = update.Set("image", nil)
	case patch.Image != nil:
		update = update.Set("image", *patch.Image)
	}

	return update.ToSql()
}

func (q *queries) buildDeleteUserQuery(userID int64) (string, []any, error) {
	return q.sb.Delete(models.User{}.TableName()).
		Where(sq.Eq{"user_id": userID}).
		ToSql()
}

// sessions

func (q *queries) buildInsertSessionQuery(session models.Session, now time.Time) (string, []any, error) {
	return q.sb.Insert(session.TableName()).
		Columns("user_id", "refresh_token_hash", "expires_at", "device_info", "ip_address", "created_at", "updated_at").
		Values(session.UserID, session.RefreshTokenHash, session.ExpiresAt, session.DeviceInfo, session.IPAddress, now, now).
		Suffix(returning(sessionColumns)).
		ToSql()
}

func (q *queries) buildFindSessionQuery(userID int64, refreshTokenHash string) (string, []any, error) {
	return q.sb.Select(sessionColumns...).
		From(models.Session{}.TableName()).
		Where(sq.Eq{"user_id": userID, "refresh_token_hash": refreshTokenHash}).
		ToSql()
}

// buildRotateSessionQuery only matches while the stored hash is still oldHash,
// so of two concurrent rotations at most one affects a row.
func (q *queries) buildRotateSessionQuery(sessionID int64, oldHash, newHash string, expiresAt, now time.Time) (string, []any, error) {
	return q.sb.Update(models.Session{}.TableName()).
		Set("refresh_token_hash", newHash).
		Set("expires_at", expiresAt).
		Set("updated_at", now).
		Where(sq.Eq{"session_id": sessionID, "refresh_token_hash": oldHash}).
		ToSql()
}

func (q *queries) buildDeleteSessionQuery(sessionID int64) (string, []any, error) {
	return q.sb.Delete(models.Session{}.TableName()).
		Where(sq.Eq{"session_id": sessionID}).
		ToSql()
}

func (q *queries) buildDeleteUserSessionsQuery(userID int64) (string, []any, error) {
	return q.sb.Delete(models.Session{}.TableName()).
		Where(sq.Eq{"user_id": userID}).
		ToSql()
}

func (q *queries) buildDeleteExpiredSessionsQuery(now time.Time) (string, []any, error) {
	return q.sb.Delete(models.Session{}.TableName()).
		Where(sq.Lt{"expires_at": now}).
		ToSql()
}

func (q *queries) buildListUserSessionsQuery(userID int64) (string, []any, error) {
	return q.sb.Select(sessionColumns...).
		From(models.Session{}.TableName()).
		Where(sq.Eq{"user_id": userID}).
		OrderBy("created_at DESC", "session_id DESC").
		ToSql()
}

// avatars

func (q *queries) buildInsertAvatarQuery(avatar models.Avatar, now time.Time) (string, []any, error) {
	return q.sb.Insert(avatar.TableName()).
		Columns("user_id", "blob_key", "url", "state", "created_at").
		Values(avatar.UserID, avatar.Key, avatar.URL, string(models.AvatarActive), now).
		Suffix(returning(avatarColumns)).
		ToSql()
}

func (q *queries) buildMarkUserAvatarsDeletedQuery(userID int64, now time.Time) (string, []any, error) {
	return q.sb.Update(models.Avatar{}.TableName()).
		Set("state", string(models.AvatarDeleted)).
		Set("deleted_at", now).
		Where(sq.Eq{"user_id": userID, "state": string(models.AvatarActive)}).
		ToSql()
}

func (q *queries) buildListDeletedAvatarsQuery(limit uint64) (string, []any, error) {
	sel := q.sb.Select(avatarColumns...).
		From(models.Avatar{}.TableName()).
		Where(sq.Eq{"state": string(models.AvatarDeleted)}).
		OrderBy("avatar_id")
	if limit > 0 {
		sel = sel.Limit(limit)
	}
	return sel.ToSql()
}

func (q *queries) buildPurgeAvatarQuery(avatarID int64) (string, []any, error) {
	return q.sb.Delete(models.Avatar{}.TableName()).
		Where(sq.Eq{"avatar_id": avatarID, "state": string(models.AvatarDeleted)}).
		ToSql()
}
