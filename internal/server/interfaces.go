package server

import "context"

// Server is the lifecycle contract of the transport servers.
type Server interface {
	// Run serves requests until ctx is done and then shuts down. It returns
	// the first listener error, if any.
	Run(ctx context.Context) error

	// Shutdown stops accepting requests and waits for in-flight ones until
	// ctx expires.
	Shutdown(ctx context.Context) error
}
