// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

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

type sessionRepository struct {
	db     *DB
	logger *logger.Logger
	now    func() time.Time
}

func NewSessionRepository(db *DB, log *logger.Logger) SessionRepository {
	return &sessionRepository{db: db, logger: log, now: utcNow}
}

func (s *sessionRepository) CreateSession(ctx context.Context, session models.Session) (models.Session, error) {
	log := logger.FromContext(ctx)

	query, args, err := s.db.queries.buildInsertSessionQuery(session, s.now())
	if err != nil {
		return models.Session{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var created models.Session
	err = s.db.withRetry(ctx, "CreateSession", func(ctx context.Context) error {
		created, err = scanSession(s.db.QueryRowContext(ctx, query, args...))
		return err
	})
	if err != nil {
		log.Err(err).Str("func", "sessionRepository.CreateSession").Int64("user_id", session.UserID).Msg("error creating session")
		return models.Session{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return created, nil
}

func (s *sessionRepository) FindSession(ctx context.Context, userID int64, refreshTokenHash string) (models.Session, error) {
	log := logger.FromContext(ctx)

	query, args, err := s.db.queries.buildFindSessionQuery(userID, refreshTokenHash)
	if err != nil {
		return models.Session{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var found models.Session
	err = s.db.withRetry(ctx, "FindSession", func(ctx context.Context) error {
		found, err = scanSession(s.db.QueryRowContext(ctx, query, args...))
		return err
	})
	if errors.Is(err, sql.ErrNoRows) {
		return models.Session{}, ErrSessionNotFound
	}
	if err != nil {
		log.Err(err).Str("func", "sessionRepository.FindSession").Int64("user_id", userID).Msg("error finding session")
		return models.Session{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return found, nil
}

func (s *sessionRepository) RotateSession(ctx context.Context, sessionID int64, oldHash, newHash string, expiresAt time.Time) error {
	log := logger.FromContext(ctx)

	query, args, err := s.db.queries.buildRotateSessionQuery(sessionID, oldHash, newHash, expiresAt, s.now())
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	affected, err := s.exec(ctx, "RotateSession", query, args)
	if err != nil {
		log.Err(err).Str("func", "sessionRepository.RotateSession").Int64("session_id", sessionID).Msg("error rotating session")
		return err
	}
	if affected == 0 {
		log.Warn().Str("func", "sessionRepository.RotateSession").Int64("session_id", sessionID).Msg("session was rotated or revoked concurrently")
		return ErrSessionNotFound
	}

	return nil
}

func (s *sessionRepository) DeleteSession(ctx context.Context, sessionID int64) error {
	query, args, err := s.db.queries.buildDeleteSessionQuery(sessionID)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if _, err = s.exec(ctx, "DeleteSession", query, args); err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "sessionRepository.DeleteSession").Int64("session_id", sessionID).Msg("error deleting session")
		return err
	}

	return nil
}

func (s *sessionRepository) DeleteUserSessions(ctx context.Context, userID int64) (int64, error) {
	query, args, err := s.db.queries.buildDeleteUserSessionsQuery(userID)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	affected, err := s.exec(ctx, "DeleteUserSessions", query, args)
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "sessionRepository.DeleteUserSessions").Int64("user_id", userID).Msg("error deleting user sessions")
		return 0, err
	}

	return affected, nil
}

func (s *sessionRepository) DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error) {
	query, args, err := s.db.queries.buildDeleteExpiredSessionsQuery(now)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	affected, err := s.exec(ctx, "DeleteExpiredSessions", query, args)
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "sessionRepository.DeleteExpiredSessions").Msg("error deleting expired sessions")
		return 0, err
	}

	return affected, nil
}

func (s *sessionRepository) ListUserSessions(ctx context.Context, userID int64) ([]models.Session, error) {
	query, args, err := s.db.queries.buildListUserSessionsQuery(userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var sessions []models.Session
	err = s.db.withRetry(ctx, "ListUserSessions", func(ctx context.Context) error {
		rows, err := s.db.QueryContext(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()

		sessions = sessions[:0]
		for rows.Next() {
			session, err := scanSession(rows)
			if err != nil {
				return fmt.Errorf("%w: %w", ErrScanningRows, err)
			}
			sessions = append(sessions, session)
		}
		return rows.Err()
	})
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "sessionRepository.ListUserSessions").Int64("user_id", userID).Msg("error listing sessions")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return sessions, nil
}

// exec runs a single DML statement with retries and returns the affected row count.
func (s *sessionRepository) exec(ctx context.Context, op, query string, args []any) (int64, error) {
	var affected int64
	err := s.db.withRetry(ctx, op, func(ctx context.Context) error {
		res, err := s.db.ExecContext(ctx, query, args...)
		if err != nil {
			return err
		}
		affected, err = res.RowsAffected()
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	return affected, nil
}
