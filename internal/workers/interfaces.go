// Package workers provides abstractions for managing and running
// background workers next to the HTTP server.
// It defines the Worker interface and a Workers aggregate that runs every
// worker concurrently and stops them together.
package workers

import "context"

// Worker is a long-running background job such as the Redis event relay.
//
// Run blocks until ctx is cancelled or the worker fails. Returning nil after
// ctx is done is a normal shutdown.
//
// Example implementation:
//
//	type ticker struct{}
//
//	func (t *ticker) Name() string { return "ticker" }
//
//	func (t *ticker) Run(ctx context.Context) error {
//	    <-ctx.Done()
//	    return nil
//	}
type Worker interface {
	Name() string
	Run(ctx context.Context) error
}
