package workers

import (
	"context"
	"sync"

	"github.com/MKhiriev/go-org-site/internal/config"
	"github.com/MKhiriev/go-org-site/internal/logger"
	"github.com/MKhiriev/go-org-site/internal/service"
)

const (
	sessionCleanupJob = "session-cleanup"
	avatarCleanupJob  = "avatar-cleanup"
)

// Workers starts a set of [Worker]s in their own goroutines and waits for
// them to stop.
type Workers struct {
	workers []Worker
	wg      sync.WaitGroup
}

// NewWorkers builds the session cleanup and avatar sweep workers. A zero
// interval disables the corresponding job.
func NewWorkers(services *service.Services, cfg config.Workers, log *logger.Logger) *Workers {
	w := &Workers{}

	if cfg.SessionCleanupInterval > 0 {
		w.workers = append(w.workers, newPeriodicWorker(sessionCleanupJob, cfg.SessionCleanupInterval,
			sessionCleanup(services.AuthService), log))
	}
	if cfg.AvatarCleanupInterval > 0 && services.AvatarService != nil {
		w.workers = append(w.workers, newPeriodicWorker(avatarCleanupJob, cfg.AvatarCleanupInterval,
			avatarCleanup(services.AvatarService), log))
	}

	log.Info().Int("count", len(w.workers)).Msg("workers created")
	return w
}

// Run starts every worker. It returns immediately; use Wait to block until
// all of them observed ctx being done.
func (w *Workers) Run(ctx context.Context) {
	for _, worker := range w.workers {
		w.wg.Add(1)
		go func() {
			defer w.wg.Done()
			worker.Run(ctx)
		}()
	}
}

func (w *Workers) Wait() {
	w.wg.Wait()
}

func sessionCleanup(auth service.AuthService) jobFunc {
	return func(ctx context.Context) (map[string]any, error) {
		deleted, err := auth.CleanupExpiredSessions(ctx)
		if err != nil {
			return nil, err
		}
		return map[string]any{"deleted": deleted}, nil
	}
}

func avatarCleanup(avatars service.AvatarService) jobFunc {
	return func(ctx context.Context) (map[string]any, error) {
		result, err := avatars.CleanupDeletedAvatars(ctx)
		if err != nil {
			return nil, err
		}
		return map[string]any{
			"total":   result.Total,
			"deleted": result.Deleted,
			"failed":  result.Failed,
		}, nil
	}
}
