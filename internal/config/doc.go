// Package config provides configuration loading, merging, and validation
// for the note server.
//
// Configuration is assembled from multiple sources; a field set by an
// earlier source is not overwritten by a later one:
//  1. Environment variables
//  2. Command-line flags
//  3. JSON config file
//
// The entry point is [GetStructuredConfig].
package config
