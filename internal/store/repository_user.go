package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/MKhiriev/go-org-site/internal/logger"
	"github.com/MKhiriev/go-org-site/models"
)

type userRepository struct {
	db     *DB
	logger *logger.Logger
	now    func() time.Time
}

func NewUserRepository(db *DB, log *logger.Logger) UserRepository {
	return &userRepository{db: db, logger: log, now: utcNow}
}

func (u *userRepository) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	log := logger.FromContext(ctx)

	query, args, err := u.db.queries.buildInsertUserQuery(user, u.now())
	if err != nil {
		return models.User{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var created models.User
	err = u.db.withRetry(ctx, "CreateUser", func(ctx context.Context) error {
		created, err = scanUser(u.db.QueryRowContext(ctx, query, args...))
		return err
	})
	if err != nil {
		if isUniqueViolation(err) {
			log.Err(err).Str("func", "userRepository.CreateUser").Str("username", user.Username).Msg("username already exists")
			return models.User{}, ErrUsernameAlreadyExists
		}
		log.Err(err).Str("func", "userRepository.CreateUser").Msg("unexpected DB error")
		return models.User{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return created, nil
}

func (u *userRepository) FindUserByUsername(ctx context.Context, username string) (models.User, error) {
	return u.findOne(ctx, "userRepository.FindUserByUsername", sq.Eq{"username": username})
}

func (u *userRepository) FindUserByID(ctx context.Context, userID int64) (models.User, error) {
	return u.findOne(ctx, "userRepository.FindUserByID", sq.Eq{"user_id": userID})
}

func (u *userRepository) findOne(ctx context.Context, fn string, where sq.Eq) (models.User, error) {
	log := logger.FromContext(ctx)

	query, args, err := u.db.queries.buildSelectUserQuery(where)
	if err != nil {
		return models.User{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var found models.User
	err = u.db.withRetry(ctx, "FindUser", func(ctx context.Context) error {
		found, err = scanUser(u.db.QueryRowContext(ctx, query, args...))
		return err
	})
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, ErrNoUserWasFound
	}
	if err != nil {
		log.Err(err).Str("func", fn).Msg("unexpected DB error")
		return models.User{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return found, nil
}

func (u *userRepository) ListUsers(ctx context.Context) ([]models.User, error) {
	log := logger.FromContext(ctx)

	query, args, err := u.db.queries.buildListUsersQuery()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var users []models.User
	err = u.db.withRetry(ctx, "ListUsers", func(ctx context.Context) error {
		rows, err := u.db.QueryContext(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()

		users = users[:0]
		for rows.Next() {
			user, err := scanUser(rows)
			if err != nil {
				return fmt.Errorf("%w: %w", ErrScanningRows, err)
			}
			users = append(users, user)
		}
		return rows.Err()
	})
	if err != nil {
		log.Err(err).Str("func", "userRepository.ListUsers").Msg("error listing users")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return users, nil
}

func (u *userRepository) UpdateUser(ctx context.Context, userID int64, patch models.UserPatch) (models.User, error) {
	log := logger.FromContext(ctx)

	if patch.IsEmpty() {
		return u.FindUserByID(ctx, userID)
	}

	query, args, err := u.db.queries.buildUpdateUserQuery(userID, patch, u.now())
	if err != nil {
		return models.User{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var updated models.User
	err = u.db.withRetry(ctx, "UpdateUser", func(ctx context.Context) error {
		updated, err = scanUser(u.db.QueryRowContext(ctx, query, args...))
		return err
	})
	switch {
	case err == nil:
		return updated, nil
	case errors.Is(err, sql.ErrNoRows):
		return models.User{}, ErrNoUserWasFound
	case isUniqueViolation(err):
		return models.User{}, ErrUsernameAlreadyExists
	}

	log.Err(err).Str("func", "userRepository.UpdateUser").Int64("user_id", userID).Msg("error updating user")
	return models.User{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
}

func (u *userRepository) DeleteUser(ctx context.Context, userID int64) error {
	log := logger.FromContext(ctx)

	markQuery, markArgs, err := u.db.queries.buildMarkUserAvatarsDeletedQuery(userID, u.now())
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	deleteQuery, deleteArgs, err := u.db.queries.buildDeleteUserQuery(userID)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	err = u.db.inTx(ctx, "DeleteUser", func(ctx context.Context, tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, markQuery, markArgs...); err != nil {
			return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
		}

		res, err := tx.ExecContext(ctx, deleteQuery, deleteArgs...)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
		}
		if affected == 0 {
			return ErrNoUserWasFound
		}
		return nil
	})
	if err != nil {
		if !errors.Is(err, ErrNoUserWasFound) {
			log.Err(err).Str("func", "userRepository.DeleteUser").Int64("user_id", userID).Msg("error deleting user")
		}
		return err
	}

	return nil
}
