package service

import (
	"context"
	"fmt"
	"time"
)

const healthCheckTimeout = 2 * time.Second

// Pinger is implemented by [store.Storages].
type Pinger interface {
	Ping(ctx context.Context) error
}

type healthService struct {
	pinger Pinger
}

func NewHealthService(pinger Pinger) HealthService {
	return &healthService{pinger: pinger}
}

func (h *healthService) Check(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
	defer cancel()

	if err := h.pinger.Ping(ctx); err != nil {
		return fmt.Errorf("database is unreachable: %w", err)
	}
	return nil
}
