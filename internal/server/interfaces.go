package server

import "context"

// Server defines the lifecycle contract of the note server process.
type Server interface {
	// RunServer serves until SIGINT, SIGTERM or SIGQUIT and then shuts down
	// gracefully.
	RunServer()

	// Run serves until ctx is cancelled or a component fails.
	Run(ctx context.Context) error
}

// SessionCloser disconnects every open realtime session.
type SessionCloser interface {
	Close()
}
