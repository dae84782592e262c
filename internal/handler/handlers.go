package handler

import (
	"github.com/MKhiriev/go-org-site/internal/config"
	"github.com/MKhiriev/go-org-site/internal/handler/grpc"
	"github.com/MKhiriev/go-org-site/internal/handler/http"
	"github.com/MKhiriev/go-org-site/internal/logger"
	"github.com/MKhiriev/go-org-site/internal/service"
)

// Handlers groups the transport handlers. A nil field means the transport
// has no listen address and is not started.
type Handlers struct {
	HTTP *http.Handler
	GRPC *grpc.Handler
}

func NewHandlers(services *service.Services, cfg *config.StructuredConfig, logger *logger.Logger) (*Handlers, error) {
	logger.Info().Msg("creating new handlers...")

	handlers := &Handlers{}

	if cfg.Server.HTTPAddress != "" {
		handlers.HTTP = http.NewHandler(services, cfg.Auth, cfg.Server, logger)
	}
	if cfg.Server.GRPCAddress != "" {
		handlers.GRPC = grpc.NewHandler(services, logger)
	}

	if handlers.HTTP == nil && handlers.GRPC == nil {
		return nil, errNoHandlersAreCreated
	}

	return handlers, nil
}
