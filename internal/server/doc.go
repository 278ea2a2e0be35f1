// Package server runs the note server process.
//
// It owns the lifecycle of the HTTP listener and the background workers:
// startup, signal handling and graceful shutdown. Realtime sessions are
// hijacked connections that http.Server.Shutdown does not track, so the hub
// is closed explicitly once the listener has stopped.
package server
