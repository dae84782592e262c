package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/MKhiriev/go-org-site/internal/blob"
	"github.com/MKhiriev/go-org-site/internal/logger"
	"github.com/MKhiriev/go-org-site/internal/metrics"
	"github.com/MKhiriev/go-org-site/internal/store"
	"github.com/MKhiriev/go-org-site/internal/utils"
	"github.com/MKhiriev/go-org-site/internal/validators"
	"github.com/MKhiriev/go-org-site/models"
)

const (
	DefaultGravatarBaseURL = "https://www.gravatar.com/avatar"

	avatarFolder          = "avatars"
	defaultAvatarType     = "image/png"
	avatarSweepBatchSize  = 100
	avatarSweepConcurrent = 4
)

// GravatarURL returns the generated avatar URL of userID below baseURL.
func GravatarURL(baseURL string, userID int64) string {
	hash := utils.MD5Hex(strconv.FormatInt(userID, 10))
	return strings.TrimSuffix(baseURL, "/") + "/" + hash + "?s=500&d=retro&r=g"
}

type gravatarSource struct {
	client  *utils.HTTPClient
	baseURL string
}

// NewGravatarSource downloads generated "retro" avatars. An empty baseURL
// points at gravatar.com.
func NewGravatarSource(client *utils.HTTPClient, baseURL string) AvatarSource {
	if baseURL == "" {
		baseURL = DefaultGravatarBaseURL
	}
	return &gravatarSource{client: client, baseURL: baseURL}
}

func (g *gravatarSource) Fetch(ctx context.Context, userID int64) (io.Reader, string, error) {
	resp, err := g.client.R().SetContext(ctx).Get(GravatarURL(g.baseURL, userID))
	if err != nil {
		return nil, "", fmt.Errorf("%w: %w", ErrAvatarDownloadFailed, err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, "", fmt.Errorf("%w: unexpected status %d", ErrAvatarDownloadFailed, resp.StatusCode())
	}

	contentType := defaultAvatarType
	if mediaType, _, err := mime.ParseMediaType(resp.Header().Get("Content-Type")); err == nil {
		contentType = mediaType
	}

	return bytes.NewReader(resp.Body()), contentType, nil
}

// avatarService keeps avatar blobs and their metadata rows in step. A blob is
// written first and the row second; when the row cannot be written the blob
// is removed again.
type avatarService struct {
	avatarRepository store.AvatarRepository
	blobStore        blob.Store
	source           AvatarSource
	uuid             *utils.UUIDGenerator

	now    func() time.Time
	logger *logger.Logger
}

func NewAvatarService(avatarRepository store.AvatarRepository, blobStore blob.Store, source AvatarSource, logger *logger.Logger) AvatarService {
	return &avatarService{
		avatarRepository: avatarRepository,
		blobStore:        blobStore,
		source:           source,
		uuid:             utils.NewUUIDGenerator(),
		now:              func() time.Time { return time.Now().UTC() },
		logger:           logger,
	}
}

func (a *avatarService) GenerateAvatar(ctx context.Context, userID int64) (models.PublicUser, error) {
	body, contentType, err := a.source.Fetch(ctx, userID)
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "avatarService.GenerateAvatar").Int64("user_id", userID).Msg("avatar download failed")
		return models.PublicUser{}, err
	}

	return a.attach(ctx, userID, body, contentType)
}

func (a *avatarService) UpdateAvatar(ctx context.Context, userID int64, upload *models.Upload) (models.PublicUser, error) {
	if upload == nil {
		return a.GenerateAvatar(ctx, userID)
	}

	return a.attach(ctx, userID, upload.Body, upload.ContentType)
}

func (a *avatarService) DeleteAvatar(ctx context.Context, userID int64) (models.PublicUser, error) {
	user, err := a.avatarRepository.RemoveUserAvatar(ctx, userID)
	if errors.Is(err, store.ErrNoUserWasFound) {
		return models.PublicUser{}, ErrUserNotFound
	}
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "avatarService.DeleteAvatar").Int64("user_id", userID).Msg("error removing avatar")
		return models.PublicUser{}, fmt.Errorf("error removing avatar: %w", err)
	}

	return user.Public(), nil
}

// CleanupDeletedAvatars removes one batch of DELETED avatars: the blob first,
// then the row. A blob that cannot be removed keeps its row for the next run.
func (a *avatarService) CleanupDeletedAvatars(ctx context.Context) (models.AvatarCleanupResult, error) {
	log := logger.FromContext(ctx)

	avatars, err := a.avatarRepository.ListDeletedAvatars(ctx, avatarSweepBatchSize)
	if err != nil {
		return models.AvatarCleanupResult{}, fmt.Errorf("error listing deleted avatars: %w", err)
	}

	var deleted, failed atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(avatarSweepConcurrent)
	for _, avatar := range avatars {
		g.Go(func() error {
			if err := a.purge(gctx, avatar); err != nil {
				failed.Add(1)
				metrics.AvatarsPurged.WithLabelValues("failed").Inc()
				log.Err(err).Str("func", "avatarService.CleanupDeletedAvatars").Int64("avatar_id", avatar.AvatarID).Msg("avatar purge failed")
				return nil
			}
			deleted.Add(1)
			metrics.AvatarsPurged.WithLabelValues("deleted").Inc()
			return nil
		})
	}
	_ = g.Wait()

	return models.AvatarCleanupResult{
		Total:   len(avatars),
		Deleted: int(deleted.Load()),
		Failed:  int(failed.Load()),
	}, nil
}

func (a *avatarService) purge(ctx context.Context, avatar models.Avatar) error {
	if err := a.blobStore.Delete(ctx, avatar.Key); err != nil {
		return fmt.Errorf("error deleting blob %s: %w", avatar.Key, err)
	}
	if err := a.avatarRepository.PurgeAvatar(ctx, avatar.AvatarID); err != nil {
		return fmt.Errorf("error deleting avatar row: %w", err)
	}
	return nil
}

func (a *avatarService) attach(ctx context.Context, userID int64, body io.Reader, contentType string) (models.PublicUser, error) {
	log := logger.FromContext(ctx)

	ext, ok := validators.AllowedAvatarTypes[contentType]
	if !ok {
		return models.PublicUser{}, fmt.Errorf("%w: %w", ErrInvalidDataProvided, validators.ErrUnsupportedAvatar)
	}

	key := a.avatarKey(userID, ext)
	object, err := a.blobStore.Put(ctx, key, body)
	if errors.Is(err, blob.ErrObjectTooLarge) {
		return models.PublicUser{}, fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}
	if err != nil {
		log.Err(err).Str("func", "avatarService.attach").Str("key", key).Msg("error storing avatar blob")
		return models.PublicUser{}, fmt.Errorf("error storing avatar: %w", err)
	}

	user, err := a.avatarRepository.ReplaceUserAvatar(ctx, userID, models.Avatar{
		UserID: &userID,
		Key:    object.Key,
		URL:    object.URL,
		State:  models.AvatarActive,
	})
	if err != nil {
		if delErr := a.blobStore.Delete(context.WithoutCancel(ctx), object.Key); delErr != nil {
			log.Err(delErr).Str("func", "avatarService.attach").Str("key", object.Key).Msg("error rolling back avatar blob")
		}
		if errors.Is(err, store.ErrNoUserWasFound) {
			return models.PublicUser{}, ErrUserNotFound
		}
		log.Err(err).Str("func", "avatarService.attach").Int64("user_id", userID).Msg("error saving avatar")
		return models.PublicUser{}, fmt.Errorf("error saving avatar: %w", err)
	}

	log.Info().Str("func", "avatarService.attach").Int64("user_id", userID).Str("key", object.Key).Msg("avatar updated")
	return user.Public(), nil
}

// avatarKey builds avatars/user-<id>-<unixms>-<suffix><ext>.
func (a *avatarService) avatarKey(userID int64, ext string) string {
	id := a.uuid.Generate()
	suffix := id[len(id)-12:]
	return fmt.Sprintf("%s/user-%d-%d-%s%s", avatarFolder, userID, a.now().UnixMilli(), suffix, ext)
}

type disabledAvatarSource struct{}

func (disabledAvatarSource) Fetch(context.Context, int64) (io.Reader, string, error) {
	return nil, "", fmt.Errorf("%w: avatar generation is disabled", ErrAvatarDownloadFailed)
}
