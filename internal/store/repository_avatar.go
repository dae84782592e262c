package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/go-org-site/internal/logger"
	"github.com/MKhiriev/go-org-site/models"
)

type avatarRepository struct {
	db     *DB
	logger *logger.Logger
	now    func() time.Time
}

func NewAvatarRepository(db *DB, log *logger.Logger) AvatarRepository {
	return &avatarRepository{db: db, logger: log, now: utcNow}
}

func (a *avatarRepository) ReplaceUserAvatar(ctx context.Context, userID int64, avatar models.Avatar) (models.User, error) {
	now := a.now()
	avatar.UserID = &userID

	insertQuery, insertArgs, err := a.db.queries.buildInsertAvatarQuery(avatar, now)
	if err != nil {
		return models.User{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	return a.swapUserImage(ctx, "ReplaceUserAvatar", userID, models.UserPatch{Image: &avatar.URL}, now,
		func(ctx context.Context, tx *sql.Tx) error {
			if _, err := scanAvatar(tx.QueryRowContext(ctx, insertQuery, insertArgs...)); err != nil {
				return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
			}
			return nil
		})
}

func (a *avatarRepository) RemoveUserAvatar(ctx context.Context, userID int64) (models.User, error) {
	return a.swapUserImage(ctx, "RemoveUserAvatar", userID, models.UserPatch{ClearImage: true}, a.now(), nil)
}

// swapUserImage retires the user's active avatars, rewrites users.image and
// then runs extra, all in one transaction. The user row is updated before
// extra so a missing user surfaces as ErrNoUserWasFound rather than as a
// foreign key violation on the avatar insert.
func (a *avatarRepository) swapUserImage(ctx context.Context, op string, userID int64, patch models.UserPatch, now time.Time,
	extra func(ctx context.Context, tx *sql.Tx) error) (models.User, error) {
	log := logger.FromContext(ctx)

	markQuery, markArgs, err := a.db.queries.buildMarkUserAvatarsDeletedQuery(userID, now)
	if err != nil {
		return models.User{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	updateQuery, updateArgs, err := a.db.queries.buildUpdateUserQuery(userID, patch, now)
	if err != nil {
		return models.User{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var user models.User
	err = a.db.inTx(ctx, op, func(ctx context.Context, tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, markQuery, markArgs...); err != nil {
			return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
		}

		var err error
		user, err = scanUser(tx.QueryRowContext(ctx, updateQuery, updateArgs...))
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNoUserWasFound
		}
		if err != nil {
			return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
		}

		if extra != nil {
			return extra(ctx, tx)
		}
		return nil
	})
	if err != nil {
		if !errors.Is(err, ErrNoUserWasFound) {
			log.Err(err).Str("func", "avatarRepository."+op).Int64("user_id", userID).Msg("error updating user avatar")
		}
		return models.User{}, err
	}

	return user, nil
}

func (a *avatarRepository) ListDeletedAvatars(ctx context.Context, limit uint64) ([]models.Avatar, error) {
	query, args, err := a.db.queries.buildListDeletedAvatarsQuery(limit)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var avatars []models.Avatar
	err = a.db.withRetry(ctx, "ListDeletedAvatars", func(ctx context.Context) error {
		rows, err := a.db.QueryContext(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()

		avatars = avatars[:0]
		for rows.Next() {
			avatar, err := scanAvatar(rows)
			if err != nil {
				return fmt.Errorf("%w: %w", ErrScanningRows, err)
			}
			avatars = append(avatars, avatar)
		}
		return rows.Err()
	})
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "avatarRepository.ListDeletedAvatars").Msg("error listing deleted avatars")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return avatars, nil
}

func (a *avatarRepository) PurgeAvatar(ctx context.Context, avatarID int64) error {
	query, args, err := a.db.queries.buildPurgeAvatarQuery(avatarID)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var affected int64
	err = a.db.withRetry(ctx, "PurgeAvatar", func(ctx context.Context) error {
		res, err := a.db.ExecContext(ctx, query, args...)
		if err != nil {
			return err
		}
		affected, err = res.RowsAffected()
		return err
	})
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "avatarRepository.PurgeAvatar").Int64("avatar_id", avatarID).Msg("error purging avatar")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	if affected == 0 {
		return ErrAvatarNotFound
	}

	return nil
}
