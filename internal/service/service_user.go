package service

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/MKhiriev/go-org-site/internal/config"
	"github.com/MKhiriev/go-org-site/internal/logger"
	"github.com/MKhiriev/go-org-site/internal/store"
	"github.com/MKhiriev/go-org-site/models"
)

const defaultAdminName = "Administrator"

type userService struct {
	userRepository    store.UserRepository
	sessionRepository store.SessionRepository

	bcryptCost int

	logger *logger.Logger
}

func NewUserService(userRepository store.UserRepository, sessionRepository store.SessionRepository, cfg config.App, logger *logger.Logger) UserService {
	cost := cfg.BcryptCost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}

	return &userService{
		userRepository:    userRepository,
		sessionRepository: sessionRepository,
		bcryptCost:        cost,
		logger:            logger,
	}
}

func (u *userService) ListUsers(ctx context.Context) ([]models.PublicUser, error) {
	users, err := u.userRepository.ListUsers(ctx)
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "userService.ListUsers").Msg("error listing users")
		return nil, fmt.Errorf("error listing users: %w", err)
	}

	public := make([]models.PublicUser, 0, len(users))
	for _, user := range users {
		public = append(public, user.Public())
	}
	return public, nil
}

func (u *userService) UpdateUser(ctx context.Context, req models.UpdateUserRequest) (models.PublicUser, error) {
	log := logger.FromContext(ctx)

	patch := models.UserPatch{
		Name:     req.Name,
		Username: req.Username,
		Role:     req.Role,
	}
	if req.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), u.bcryptCost)
		if err != nil {
			log.Err(err).Str("func", "userService.UpdateUser").Msg("password hashing failed")
			return models.PublicUser{}, fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
		}
		passwordHash := string(hash)
		patch.PasswordHash = &passwordHash
	}
	if patch.IsEmpty() {
		return models.PublicUser{}, fmt.Errorf("%w: nothing to update", ErrInvalidDataProvided)
	}

	user, err := u.userRepository.UpdateUser(ctx, req.UserID, patch)
	switch {
	case errors.Is(err, store.ErrNoUserWasFound):
		return models.PublicUser{}, ErrUserNotFound
	case errors.Is(err, store.ErrUsernameAlreadyExists):
		return models.PublicUser{}, ErrUsernameTaken
	case err != nil:
		log.Err(err).Str("func", "userService.UpdateUser").Int64("user_id", req.UserID).Msg("error updating user")
		return models.PublicUser{}, fmt.Errorf("error updating user: %w", err)
	}

	log.Info().Str("func", "userService.UpdateUser").Int64("user_id", req.UserID).Msg("user updated")
	return user.Public(), nil
}

func (u *userService) DeleteUser(ctx context.Context, userID int64) error {
	err := u.userRepository.DeleteUser(ctx, userID)
	if errors.Is(err, store.ErrNoUserWasFound) {
		return ErrUserNotFound
	}
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "userService.DeleteUser").Int64("user_id", userID).Msg("error deleting user")
		return fmt.Errorf("error deleting user: %w", err)
	}

	logger.FromContext(ctx).Info().Str("func", "userService.DeleteUser").Int64("user_id", userID).Msg("user deleted")
	return nil
}

func (u *userService) ListSessions(ctx context.Context, userID int64) ([]models.Session, error) {
	_, err := u.userRepository.FindUserByID(ctx, userID)
	if errors.Is(err, store.ErrNoUserWasFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error loading user: %w", err)
	}

	list, err := u.sessionRepository.ListUserSessions(ctx, userID)
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "userService.ListSessions").Int64("user_id", userID).Msg("error listing sessions")
		return nil, fmt.Errorf("error listing sessions: %w", err)
	}
	return list, nil
}

// EnsureAdmin creates the seed administrator when no account with
// seed.AdminUsername exists yet. An existing account is left untouched, its
// role included.
func (u *userService) EnsureAdmin(ctx context.Context, seed config.Seed) (models.PublicUser, bool, error) {
	log := logger.FromContext(ctx)

	existing, err := u.userRepository.FindUserByUsername(ctx, seed.AdminUsername)
	if err == nil {
		log.Debug().Str("func", "userService.EnsureAdmin").Str("username", seed.AdminUsername).Msg("admin already present")
		return existing.Public(), false, nil
	}
	if !errors.Is(err, store.ErrNoUserWasFound) {
		return models.PublicUser{}, false, fmt.Errorf("error looking up admin: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(seed.AdminPassword), u.bcryptCost)
	if err != nil {
		return models.PublicUser{}, false, fmt.Errorf("error hashing admin password: %w", err)
	}

	name := seed.AdminName
	if name == "" {
		name = defaultAdminName
	}

	created, err := u.userRepository.CreateUser(ctx, models.User{
		Username:     seed.AdminUsername,
		Name:         name,
		Role:         models.RoleAdmin,
		PasswordHash: string(hash),
	})
	if errors.Is(err, store.ErrUsernameAlreadyExists) {
		// another instance seeded concurrently
		existing, err = u.userRepository.FindUserByUsername(ctx, seed.AdminUsername)
		if err != nil {
			return models.PublicUser{}, false, fmt.Errorf("error looking up admin: %w", err)
		}
		return existing.Public(), false, nil
	}
	if err != nil {
		return models.PublicUser{}, false, fmt.Errorf("error creating admin: %w", err)
	}

	log.Info().Str("func", "userService.EnsureAdmin").Int64("user_id", created.UserID).Msg("admin account created")
	return created.Public(), true, nil
}
