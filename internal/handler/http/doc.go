// Package http implements the REST and WebSocket transport of the note
// server.
//
// It exposes route wiring, request handlers and middleware. Authentication,
// request tracing, access logging and response compression are handled in
// this package before requests are delegated to the service layer. The
// /api/ws endpoint upgrades to a realtime session served by the hub.
package http
