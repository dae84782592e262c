// Package workers runs the periodic background jobs of the server: expired
// session cleanup and the sweep of retired avatar blobs.
package workers

import "context"

// Worker is a background job. Run blocks until ctx is done.
type Worker interface {
	Run(ctx context.Context)
}
