package service

import (
	"github.com/MKhiriev/go-org-site/internal/blob"
	"github.com/MKhiriev/go-org-site/internal/config"
	"github.com/MKhiriev/go-org-site/internal/logger"
	"github.com/MKhiriev/go-org-site/internal/store"
	"github.com/MKhiriev/go-org-site/internal/utils"
	"github.com/MKhiriev/go-org-site/models"
)

type Services struct {
	AuthService    AuthService
	UserService    UserService
	AvatarService  AvatarService
	AppInfoService AppInfoService
	HealthService  HealthService
}

// NewServices builds every service on top of storages and wraps the ones
// that accept client input with their validation decorators.
func NewServices(storages *store.Storages, blobStore blob.Store, cfg *config.StructuredConfig, build models.AppBuildInfo, logger *logger.Logger) (*Services, error) {
	var avatarService AvatarService
	if !cfg.App.DisableAvatars {
		source := NewGravatarSource(utils.NewHTTPClient(), "")
		avatarService = NewAvatarValidationService().Wrap(
			NewAvatarService(storages.AvatarRepository, blobStore, source, logger),
		)
	}

	authService, err := NewAuthService(storages.UserRepository, storages.SessionRepository, avatarService, cfg.Auth, cfg.App, logger)
	if err != nil {
		return nil, err
	}

	appInfoService, err := NewAppInfoService(cfg.App, build, logger)
	if err != nil {
		return nil, err
	}

	if avatarService == nil {
		// uploads still work without Gravatar; only generation is disabled
		avatarService = NewAvatarValidationService().Wrap(
			NewAvatarService(storages.AvatarRepository, blobStore, disabledAvatarSource{}, logger),
		)
	}

	return &Services{
		AuthService:    NewAuthValidationService().Wrap(authService),
		UserService:    NewUserValidationService().Wrap(NewUserService(storages.UserRepository, storages.SessionRepository, cfg.App, logger)),
		AvatarService:  avatarService,
		AppInfoService: appInfoService,
		HealthService:  NewHealthService(storages),
	}, nil
}
