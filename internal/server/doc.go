// Package server runs the HTTP and gRPC listeners and stops them gracefully
// when the run context is cancelled.
package server
